// Package compose implements the orchestrator interface on top of a Docker
// Compose project. Status queries and container start/stop go through the
// Docker Engine API; container creation and teardown are delegated to the
// docker compose CLI, which owns the project's lifecycle model.
package compose

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/arrbiter/arrctl/pkg/svc/orchestrator"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/api/types/volume"
	"github.com/sirupsen/logrus"
)

// Compose labels used to associate containers with a project and service.
const (
	LabelProject = "com.docker.compose.project"
	LabelService = "com.docker.compose.service"
)

// Default timeouts for Docker operations.
const (
	DefaultStartTimeout = 30 * time.Second
	DefaultStopTimeout  = 60 * time.Second
)

// stateRunning is the container state reported by Docker for running containers.
const stateRunning = "running"

// EngineClient is the subset of the Docker Engine API the orchestrator uses.
// client.APIClient satisfies it.
type EngineClient interface {
	ContainerList(
		ctx context.Context,
		options container.ListOptions,
	) ([]container.Summary, error)
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
	ContainerStop(ctx context.Context, containerID string, options container.StopOptions) error
	NetworkList(ctx context.Context, options network.ListOptions) ([]network.Summary, error)
	VolumeList(ctx context.Context, options volume.ListOptions) (volume.ListResponse, error)
}

// Orchestrator drives a Docker Compose project.
type Orchestrator struct {
	client      EngineClient
	project     string
	composeFile string
	file        *File
}

// Compile-time interface compliance verification.
var _ orchestrator.Orchestrator = (*Orchestrator)(nil)

// NewOrchestrator creates an orchestrator for the given compose project.
// The compose file is parsed up front so the declared service set is known
// even when no containers exist yet.
func NewOrchestrator(
	apiClient EngineClient,
	project string,
	composeFile string,
) (*Orchestrator, error) {
	file, err := ParseFile(composeFile)
	if err != nil {
		return nil, err
	}

	return &Orchestrator{
		client:      apiClient,
		project:     project,
		composeFile: composeFile,
		file:        file,
	}, nil
}

// ListServices returns every declared service with its current container state.
func (o *Orchestrator) ListServices(ctx context.Context) ([]orchestrator.Service, error) {
	if o.client == nil {
		return nil, orchestrator.ErrOrchestratorUnavailable
	}

	containers, err := o.listContainers(ctx)
	if err != nil {
		return nil, err
	}

	// Index containers by their compose service label.
	byService := make(map[string]container.Summary, len(containers))
	for _, summary := range containers {
		byService[summary.Labels[LabelService]] = summary
	}

	services := make([]orchestrator.Service, 0, len(o.file.Services))

	for _, name := range o.file.ServiceNames() {
		service := orchestrator.Service{Name: name}

		if summary, ok := byService[name]; ok {
			service.Container = containerName(summary)
			service.State = summary.State
			service.Running = summary.State == stateRunning
		}

		services = append(services, service)
	}

	return services, nil
}

// Counts returns the number of running services and the total number of
// declared services.
func (o *Orchestrator) Counts(ctx context.Context) (int, int, error) {
	services, err := o.ListServices(ctx)
	if err != nil {
		return 0, 0, err
	}

	running := 0

	for _, service := range services {
		if service.Running {
			running++
		}
	}

	return running, len(services), nil
}

// UpAll creates and starts all services in detached mode via the compose CLI.
func (o *Orchestrator) UpAll(ctx context.Context) error {
	return o.runCompose(ctx, "up", "-d")
}

// TeardownAll stops and removes all containers, networks and volumes of the
// project via the compose CLI.
func (o *Orchestrator) TeardownAll(ctx context.Context) error {
	return o.runCompose(ctx, "down", "--volumes", "--remove-orphans")
}

// StartAll starts the existing service containers through the Engine API.
func (o *Orchestrator) StartAll(ctx context.Context) error {
	if o.client == nil {
		return orchestrator.ErrOrchestratorUnavailable
	}

	containers, err := o.listContainers(ctx)
	if err != nil {
		return err
	}

	if len(containers) == 0 {
		return fmt.Errorf("%w: %s", orchestrator.ErrNoServices, o.project)
	}

	// Each container gets its own timeout so a slow start does not eat
	// into the budget of the next one.
	for _, summary := range containers {
		name := containerName(summary)

		err := func() error {
			timeoutCtx, cancel := context.WithTimeout(ctx, DefaultStartTimeout)
			defer cancel()

			return o.client.ContainerStart(timeoutCtx, summary.ID, container.StartOptions{})
		}()
		if err != nil {
			return fmt.Errorf("failed to start container %s: %w", name, err)
		}
	}

	return nil
}

// StopAll stops all running service containers through the Engine API.
func (o *Orchestrator) StopAll(ctx context.Context) error {
	if o.client == nil {
		return orchestrator.ErrOrchestratorUnavailable
	}

	containers, err := o.listContainers(ctx)
	if err != nil {
		return err
	}

	if len(containers) == 0 {
		return fmt.Errorf("%w: %s", orchestrator.ErrNoServices, o.project)
	}

	for _, summary := range containers {
		name := containerName(summary)

		err := func() error {
			timeoutCtx, cancel := context.WithTimeout(ctx, DefaultStopTimeout)
			defer cancel()

			return o.client.ContainerStop(timeoutCtx, summary.ID, container.StopOptions{})
		}()
		if err != nil {
			return fmt.Errorf("failed to stop container %s: %w", name, err)
		}
	}

	return nil
}

// Resources returns the names of the project's containers, networks and
// volumes, used to preview what a teardown will remove.
func (o *Orchestrator) Resources(
	ctx context.Context,
) (containers, networks, volumes []string, err error) {
	if o.client == nil {
		return nil, nil, nil, orchestrator.ErrOrchestratorUnavailable
	}

	summaries, err := o.listContainers(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	for _, summary := range summaries {
		containers = append(containers, containerName(summary))
	}

	networkList, err := o.client.NetworkList(ctx, network.ListOptions{
		Filters: o.projectFilter(),
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to list networks: %w", err)
	}

	for _, item := range networkList {
		networks = append(networks, item.Name)
	}

	volumeList, err := o.client.VolumeList(ctx, volume.ListOptions{
		Filters: o.projectFilter(),
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to list volumes: %w", err)
	}

	for _, item := range volumeList.Volumes {
		volumes = append(volumes, item.Name)
	}

	return containers, networks, volumes, nil
}

// ComposeFile exposes the parsed compose file.
func (o *Orchestrator) ComposeFile() *File {
	return o.file
}

func (o *Orchestrator) listContainers(ctx context.Context) ([]container.Summary, error) {
	containers, err := o.client.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: o.projectFilter(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}

	return containers, nil
}

func (o *Orchestrator) projectFilter() filters.Args {
	return filters.NewArgs(filters.Arg("label", LabelProject+"="+o.project))
}

// runCompose shells out to the docker compose CLI for operations that require
// compose's own lifecycle model (container creation, network/volume teardown).
func (o *Orchestrator) runCompose(ctx context.Context, args ...string) error {
	cliArgs := append(
		[]string{"compose", "-f", o.composeFile, "-p", o.project},
		args...,
	)

	logrus.WithField("args", cliArgs).Debug("running docker compose")

	cmd := exec.CommandContext(ctx, "docker", cliArgs...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf(
			"docker compose %s failed: %w, output: %s",
			args[0], err, string(output),
		)
	}

	return nil
}

// containerName returns the primary name of a container without the leading slash.
func containerName(summary container.Summary) string {
	if len(summary.Names) == 0 {
		return summary.ID
	}

	name := summary.Names[0]
	if len(name) > 0 && name[0] == '/' {
		name = name[1:]
	}

	return name
}
