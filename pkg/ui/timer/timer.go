// Package timer provides a simple stage-aware timer for CLI timing output.
package timer

import "time"

// Timer tracks the total elapsed time of a command and the elapsed time of
// the current stage within it.
type Timer interface {
	// Start begins timing. Calling Start again resets the timer.
	Start()
	// NewStage marks the beginning of a new stage.
	NewStage()
	// GetTiming returns the total elapsed time and the elapsed time of the
	// current stage.
	GetTiming() (total, stage time.Duration)
}

type realTimer struct {
	start      time.Time
	stageStart time.Time
	now        func() time.Time
}

// New creates a started Timer backed by the wall clock.
func New() Timer {
	t := &realTimer{now: time.Now}
	t.Start()

	return t
}

func (t *realTimer) Start() {
	t.start = t.now()
	t.stageStart = t.start
}

func (t *realTimer) NewStage() {
	t.stageStart = t.now()
}

func (t *realTimer) GetTiming() (time.Duration, time.Duration) {
	current := t.now()

	return current.Sub(t.start), current.Sub(t.stageStart)
}
