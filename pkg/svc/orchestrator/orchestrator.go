// Package orchestrator defines the interface the CLI uses to drive the
// container orchestrator managing the stack's services.
package orchestrator

import (
	"context"
	"errors"
)

// Error definitions for orchestrator operations.
var (
	// ErrOrchestratorUnavailable is returned when the orchestrator backend cannot be reached.
	ErrOrchestratorUnavailable = errors.New("orchestrator unavailable")

	// ErrNoServices is returned when an operation requires services but none exist.
	ErrNoServices = errors.New("no services found for project")
)

// Service describes one service of the stack and its container state.
type Service struct {
	// Name is the service name as declared in the stack definition.
	Name string
	// Container is the name of the container backing the service, empty if
	// no container exists yet.
	Container string
	// State is the raw container state reported by the orchestrator
	// (e.g. "running", "exited"), empty if no container exists.
	State string
	// Running is true when the backing container reports the running state.
	Running bool
}

// AllCreated reports whether every declared service already has a backing
// container. An empty service list reports false.
func AllCreated(services []Service) bool {
	if len(services) == 0 {
		return false
	}

	for _, service := range services {
		if service.Container == "" {
			return false
		}
	}

	return true
}

// Orchestrator abstracts the container orchestration tool managing the stack.
type Orchestrator interface {
	// ListServices returns every declared service with its current state.
	ListServices(ctx context.Context) ([]Service, error)

	// Counts returns the number of currently running services and the total
	// number of declared services.
	Counts(ctx context.Context) (running, total int, err error)

	// UpAll creates and starts all services in detached mode.
	UpAll(ctx context.Context) error

	// StartAll starts the existing (stopped) service containers.
	StartAll(ctx context.Context) error

	// StopAll stops all running service containers.
	StopAll(ctx context.Context) error

	// TeardownAll stops and removes all service containers, networks and
	// volumes of the stack.
	TeardownAll(ctx context.Context) error
}
