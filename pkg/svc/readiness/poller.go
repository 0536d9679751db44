// Package readiness polls the orchestrator until every declared service of
// the stack reports running, or a timeout budget is exhausted.
package readiness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/arrbiter/arrctl/pkg/ui/notify"
)

// ErrTimeoutExceeded is returned when services do not become ready within the budget.
var ErrTimeoutExceeded = errors.New("timeout exceeded waiting for services")

// Polling defaults: one query per second for up to sixty seconds, with a
// progress readout every tenth tick.
const (
	DefaultBudget   = 60
	DefaultInterval = time.Second

	progressEvery = 10
)

// State is the poller's position in its lifecycle.
type State int

// Poller states.
const (
	// StatePolling means the budget is not exhausted and services are not all running.
	StatePolling State = iota
	// StateSucceeded means every declared service reports running.
	StateSucceeded
	// StateTimedOut means the budget elapsed before all services were running.
	StateTimedOut
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StatePolling:
		return "polling"
	case StateSucceeded:
		return "succeeded"
	case StateTimedOut:
		return "timed-out"
	default:
		return "unknown"
	}
}

// Transition is the pure state transition function of the poller.
//
// Success requires at least one declared service: a stack with zero declared
// services never succeeds and runs the budget down to a timeout. Success is
// checked before the budget so a stack that becomes ready on the boundary
// tick still succeeds.
func Transition(elapsedTicks, running, total, budget int) State {
	if total > 0 && running == total {
		return StateSucceeded
	}

	if elapsedTicks >= budget {
		return StateTimedOut
	}

	return StatePolling
}

// StatusSource supplies the running/total service counts for one poll tick.
type StatusSource interface {
	Counts(ctx context.Context) (running, total int, err error)
}

// Poller repeatedly queries a status source until all services are running
// or the tick budget runs out.
type Poller struct {
	// Source supplies service counts each tick.
	Source StatusSource
	// Budget is the number of ticks before giving up. Zero means DefaultBudget.
	Budget int
	// Interval is the pause between ticks. Zero means DefaultInterval.
	Interval time.Duration
	// Sleep pauses between ticks. Nil means time.Sleep. Injectable for tests.
	Sleep func(time.Duration)
	// Writer receives progress and result messages. Nil means os.Stdout.
	Writer io.Writer
}

// Wait blocks until every service is running, the budget is exhausted, or a
// status query fails. Each tick is one query; the tick loop itself is the
// only retry mechanism.
func (p *Poller) Wait(ctx context.Context) error {
	budget := p.Budget
	if budget <= 0 {
		budget = DefaultBudget
	}

	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	for tick := 0; ; tick++ {
		running, total, err := p.Source.Counts(ctx)
		if err != nil {
			return fmt.Errorf("failed to query service status: %w", err)
		}

		switch Transition(tick, running, total, budget) {
		case StateSucceeded:
			notify.Successf(p.Writer, "all services running (%d/%d)", running, total)

			return nil
		case StateTimedOut:
			notify.Errorf(p.Writer, "services not ready after %d ticks (%d/%d running)",
				budget, running, total)

			return fmt.Errorf("%w: %d/%d running", ErrTimeoutExceeded, running, total)
		case StatePolling:
		}

		if tick > 0 && tick%progressEvery == 0 {
			notify.Activityf(p.Writer, "waiting for services... %d/%d running", running, total)
		}

		err = ctx.Err()
		if err != nil {
			return fmt.Errorf("polling cancelled: %w", err)
		}

		sleep(interval)
	}
}
