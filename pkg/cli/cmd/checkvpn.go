package cmd

import (
	"errors"
	"fmt"

	"github.com/arrbiter/arrctl/pkg/client/docker"
	"github.com/arrbiter/arrctl/pkg/client/netprobe"
	"github.com/arrbiter/arrctl/pkg/svc/vpncheck"
	"github.com/arrbiter/arrctl/pkg/ui/notify"
	"github.com/spf13/cobra"
)

// Error definitions for the check-vpn command.
var (
	// ErrVPNServiceNotDeclared is returned when the configured VPN service is
	// missing from the compose file.
	ErrVPNServiceNotDeclared = errors.New("VPN service not declared in compose file")

	// ErrVPNServiceNotRunning is returned when the VPN service has no running container.
	ErrVPNServiceNotRunning = errors.New("VPN service is not running")
)

// NewCheckVPNCmd creates and returns the check-vpn command.
func NewCheckVPNCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-vpn",
		Short: "Verify the VPN container's egress IP differs from the host's",
		Long: `Resolve the host's public IP directly and the VPN container's public IP
from inside its network namespace, then compare them. Matching IPs mean the
VPN is not masking egress traffic and the check fails.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheckVPN(cmd)
		},
	}
}

func runCheckVPN(cmd *cobra.Command) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout())
	notify.Titlef(cmd.OutOrStdout(), "🔒", "Check VPN egress...")

	orch, apiClient, err := newOrchestrator(config)
	if err != nil {
		return err
	}
	defer func() { _ = apiClient.Close() }()

	services, err := orch.ListServices(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list services: %w", err)
	}

	vpnContainer := ""

	for _, service := range services {
		if service.Name != config.VPNService {
			continue
		}

		if !service.Running {
			return fmt.Errorf("%w: %s", ErrVPNServiceNotRunning, config.VPNService)
		}

		vpnContainer = service.Container

		break
	}

	if vpnContainer == "" {
		return fmt.Errorf("%w: %s", ErrVPNServiceNotDeclared, config.VPNService)
	}

	verifier := &vpncheck.Verifier{
		Direct: netprobe.NewHTTPProber(config.ProbeTimeout),
		Proxied: vpncheck.NewContainerProber(
			docker.NewContainerExecutor(apiClient),
			vpnContainer,
			config.ProbeTimeout,
		),
		Endpoints:   config.IPEndpoints,
		GeoEndpoint: config.GeoEndpoint,
		Writer:      cmd.OutOrStdout(),
	}

	_, err = verifier.Verify(cmd.Context())
	if err != nil {
		return fmt.Errorf("VPN check failed: %w", err)
	}

	return nil
}
