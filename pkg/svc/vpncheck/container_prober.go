package vpncheck

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CommandExecutor executes a command inside a named container and returns
// its stdout.
type CommandExecutor interface {
	ExecInContainer(ctx context.Context, containerName string, cmd []string) (string, error)
}

// ContainerProber probes endpoints from within a container's network
// namespace by running curl inside it.
type ContainerProber struct {
	executor  CommandExecutor
	container string
	timeout   time.Duration
}

// NewContainerProber creates a prober that executes curl inside the given
// container. The timeout bounds each curl invocation.
func NewContainerProber(
	executor CommandExecutor,
	containerName string,
	timeout time.Duration,
) *ContainerProber {
	return &ContainerProber{
		executor:  executor,
		container: containerName,
		timeout:   timeout,
	}
}

// Probe runs curl against the endpoint inside the container and returns the
// trimmed output.
func (p *ContainerProber) Probe(ctx context.Context, endpoint string) (string, error) {
	seconds := int(p.timeout.Seconds())
	if seconds < 1 {
		seconds = 1
	}

	cmd := []string{"curl", "-fsS", "--max-time", strconv.Itoa(seconds), endpoint}

	output, err := p.executor.ExecInContainer(ctx, p.container, cmd)
	if err != nil {
		return "", fmt.Errorf("probe inside container %s failed: %w", p.container, err)
	}

	return strings.TrimSpace(output), nil
}
