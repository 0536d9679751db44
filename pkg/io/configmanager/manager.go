// Package configmanager loads the arrctl configuration from file, environment
// variables and defaults.
//
// Configuration priority: defaults < config file < environment variables.
// The config file is arrctl.yaml, searched in the working directory and
// ~/.config/arrctl unless an explicit path is given.
package configmanager

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Default configuration values.
const (
	DefaultProject           = "arrstack"
	DefaultComposeFile       = "docker-compose.yaml"
	DefaultVPNService        = "gluetun"
	DefaultGeoEndpoint       = "https://ipinfo.io/country"
	DefaultProbeTimeout      = 5 * time.Second
	DefaultReadinessBudget   = 60
	DefaultReadinessInterval = time.Second
)

// DefaultIPEndpoints is the ordered priority list of public IP-echo
// endpoints. The first endpoint returning a bare IPv4 body wins.
func DefaultIPEndpoints() []string {
	return []string{
		"https://ifconfig.me/ip",
		"https://api.ipify.org",
		"https://ipinfo.io/ip",
		"https://icanhazip.com",
	}
}

// Config holds all settings of the CLI.
type Config struct {
	// Project is the compose project name grouping the stack's containers.
	Project string `mapstructure:"project"`
	// ComposeFile is the path to the stack's compose file.
	ComposeFile string `mapstructure:"composeFile"`
	// StackDir is the directory archived by the backup command. Empty means
	// the compose file's directory.
	StackDir string `mapstructure:"stackDir"`
	// VPNService is the compose service expected to mask egress traffic.
	VPNService string `mapstructure:"vpnService"`
	// IPEndpoints is the ordered list of IP-echo endpoints.
	IPEndpoints []string `mapstructure:"ipEndpoints"`
	// GeoEndpoint returns a plaintext country identifier.
	GeoEndpoint string `mapstructure:"geoEndpoint"`
	// ProbeTimeout bounds each IP-echo probe.
	ProbeTimeout time.Duration `mapstructure:"probeTimeout"`
	// ReadinessBudget is the number of readiness poll ticks before giving up.
	ReadinessBudget int `mapstructure:"readinessBudget"`
	// ReadinessInterval is the pause between readiness poll ticks.
	ReadinessInterval time.Duration `mapstructure:"readinessInterval"`
}

// ResolvedStackDir returns the directory the backup command archives: the
// configured stack directory, or the compose file's directory when unset.
func (c *Config) ResolvedStackDir() string {
	if c.StackDir != "" {
		return c.StackDir
	}

	dir := filepath.Dir(c.ComposeFile)
	if dir == "" {
		return "."
	}

	return dir
}

// Load reads the configuration. If configPath is non-empty, that exact file
// is required; otherwise the default search paths are used and a missing
// file falls back to defaults.
func Load(configPath string) (*Config, error) {
	viperInstance := viper.New()

	viperInstance.SetDefault("project", DefaultProject)
	viperInstance.SetDefault("composeFile", DefaultComposeFile)
	viperInstance.SetDefault("stackDir", "")
	viperInstance.SetDefault("vpnService", DefaultVPNService)
	viperInstance.SetDefault("ipEndpoints", DefaultIPEndpoints())
	viperInstance.SetDefault("geoEndpoint", DefaultGeoEndpoint)
	viperInstance.SetDefault("probeTimeout", DefaultProbeTimeout)
	viperInstance.SetDefault("readinessBudget", DefaultReadinessBudget)
	viperInstance.SetDefault("readinessInterval", DefaultReadinessInterval)

	viperInstance.SetEnvPrefix("ARRCTL")
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperInstance.AutomaticEnv()

	if configPath != "" {
		viperInstance.SetConfigFile(configPath)

		err := viperInstance.ReadInConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	} else {
		viperInstance.SetConfigName("arrctl")
		viperInstance.SetConfigType("yaml")
		viperInstance.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			viperInstance.AddConfigPath(filepath.Join(home, ".config", "arrctl"))
		}

		err := viperInstance.ReadInConfig()
		if err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	config := &Config{}

	err := viperInstance.Unmarshal(config)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return config, nil
}
