package docker

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/sirupsen/logrus"
)

// ErrExecFailed is returned when a command executed inside a container exits
// with a non-zero status.
var ErrExecFailed = errors.New("container command failed")

// ExecClient is the subset of the Docker Engine API needed to run commands
// inside containers. client.APIClient satisfies it.
type ExecClient interface {
	ContainerExecCreate(
		ctx context.Context,
		container string,
		options container.ExecOptions,
	) (container.ExecCreateResponse, error)
	ContainerExecAttach(
		ctx context.Context,
		execID string,
		config container.ExecStartOptions,
	) (types.HijackedResponse, error)
	ContainerExecInspect(ctx context.Context, execID string) (container.ExecInspect, error)
}

// ContainerExecutor provides methods for executing commands in containers.
type ContainerExecutor struct {
	dockerClient ExecClient
}

// NewContainerExecutor creates a new container executor.
func NewContainerExecutor(dockerClient ExecClient) *ContainerExecutor {
	return &ContainerExecutor{
		dockerClient: dockerClient,
	}
}

// ExecInContainer executes a command inside a container and returns stdout.
func (e *ContainerExecutor) ExecInContainer(
	ctx context.Context,
	containerName string,
	cmd []string,
) (string, error) {
	logrus.WithFields(logrus.Fields{
		"container": containerName,
		"cmd":       cmd,
	}).Debug("executing command in container")

	execConfig := container.ExecOptions{
		Cmd:          cmd,
		AttachStdout: true,
		AttachStderr: true,
	}

	execID, err := e.dockerClient.ContainerExecCreate(ctx, containerName, execConfig)
	if err != nil {
		return "", fmt.Errorf("failed to create exec: %w", err)
	}

	resp, err := e.dockerClient.ContainerExecAttach(ctx, execID.ID, container.ExecStartOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to attach to exec: %w", err)
	}
	defer resp.Close()

	var stdout, stderr bytes.Buffer

	_, _ = stdcopy.StdCopy(&stdout, &stderr, resp.Reader)

	// Check exit code
	inspectResp, err := e.dockerClient.ContainerExecInspect(ctx, execID.ID)
	if err != nil {
		return "", fmt.Errorf("failed to inspect exec: %w", err)
	}

	if inspectResp.ExitCode != 0 {
		return "", fmt.Errorf(
			"%w with exit code %d: %s",
			ErrExecFailed,
			inspectResp.ExitCode,
			stderr.String(),
		)
	}

	return stdout.String(), nil
}
