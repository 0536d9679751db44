package compose

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// File is the subset of a Docker Compose file the CLI needs: the declared
// services and how their containers are named.
type File struct {
	Services map[string]ServiceDef `yaml:"services"`
}

// ServiceDef holds the per-service fields relevant to container lookup.
type ServiceDef struct {
	ContainerName string `yaml:"container_name"`
	Image         string `yaml:"image"`
	NetworkMode   string `yaml:"network_mode"`
}

// ParseFile reads and parses a compose file from disk.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read compose file: %w", err)
	}

	return Parse(data)
}

// Parse parses compose file content.
func Parse(data []byte) (*File, error) {
	var file File

	err := yaml.Unmarshal(data, &file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse compose file: %w", err)
	}

	return &file, nil
}

// ServiceNames returns the declared service names in sorted order.
func (f *File) ServiceNames() []string {
	names := make([]string, 0, len(f.Services))
	for name := range f.Services {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// HasService reports whether the given service is declared in the file.
func (f *File) HasService(name string) bool {
	_, ok := f.Services[name]

	return ok
}
