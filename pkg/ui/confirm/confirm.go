// Package confirm provides confirmation prompt utilities for destructive operations.
package confirm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/arrbiter/arrctl/pkg/ui/notify"
)

// ErrDestroyCancelled is returned when the user cancels a destroy operation.
var ErrDestroyCancelled = errors.New("destroy cancelled")

// DestroyPreview contains all resources that will be removed when a stack is
// torn down.
type DestroyPreview struct {
	Project    string
	Containers []string
	Networks   []string
	Volumes    []string
}

// Test override variables with mutexes for thread safety.
var (
	//nolint:gochecknoglobals // dependency injection for tests
	stdinReaderMu sync.RWMutex
	//nolint:gochecknoglobals // dependency injection for tests
	stdinReaderOverride io.Reader

	//nolint:gochecknoglobals // dependency injection for tests
	ttyCheckerMu sync.RWMutex
	//nolint:gochecknoglobals // dependency injection for tests
	ttyCheckerOverride func() bool
)

// SetStdinReaderForTests overrides the stdin reader for testing.
// Returns a restore function that should be called to reset the override.
func SetStdinReaderForTests(reader io.Reader) func() {
	stdinReaderMu.Lock()

	previous := stdinReaderOverride
	stdinReaderOverride = reader

	stdinReaderMu.Unlock()

	return func() {
		stdinReaderMu.Lock()

		stdinReaderOverride = previous

		stdinReaderMu.Unlock()
	}
}

// SetTTYCheckerForTests overrides the TTY checker for testing.
// Returns a restore function that should be called to reset the override.
func SetTTYCheckerForTests(checker func() bool) func() {
	ttyCheckerMu.Lock()

	previous := ttyCheckerOverride
	ttyCheckerOverride = checker

	ttyCheckerMu.Unlock()

	return func() {
		ttyCheckerMu.Lock()

		ttyCheckerOverride = previous

		ttyCheckerMu.Unlock()
	}
}

// getStdinReader returns the stdin reader to use, respecting test overrides.
func getStdinReader() io.Reader {
	stdinReaderMu.RLock()
	defer stdinReaderMu.RUnlock()

	if stdinReaderOverride != nil {
		return stdinReaderOverride
	}

	return os.Stdin
}

// IsTTY returns true if stdin is connected to a terminal.
// This is used to skip confirmation prompts in non-interactive environments (CI/pipelines).
func IsTTY() bool {
	ttyCheckerMu.RLock()

	override := ttyCheckerOverride

	ttyCheckerMu.RUnlock()

	if override != nil {
		return override()
	}

	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}

	// If stdin is a character device (terminal), ModeCharDevice will be set
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// ShouldSkipPrompt returns true if the confirmation prompt should be skipped.
// This happens when:
// - force flag is set, OR
// - stdin is not a TTY (non-interactive environment)
func ShouldSkipPrompt(force bool) bool {
	return force || !IsTTY()
}

// ShowDestroyPreview displays information about what will be removed.
func ShowDestroyPreview(writer io.Writer, preview *DestroyPreview) {
	notify.WriteMessage(notify.Message{
		Type:    notify.WarningType,
		Content: "The following resources will be removed:",
		Writer:  writer,
	})

	var previewText strings.Builder

	previewText.WriteString(fmt.Sprintf("  Project: %s", preview.Project))

	if len(preview.Containers) > 0 {
		previewText.WriteString("\n  Containers:")

		for _, name := range preview.Containers {
			previewText.WriteString(fmt.Sprintf("\n    - %s", name))
		}
	}

	if len(preview.Networks) > 0 {
		previewText.WriteString("\n  Networks:")

		for _, name := range preview.Networks {
			previewText.WriteString(fmt.Sprintf("\n    - %s", name))
		}
	}

	if len(preview.Volumes) > 0 {
		previewText.WriteString("\n  Volumes:")

		for _, name := range preview.Volumes {
			previewText.WriteString(fmt.Sprintf("\n    - %s", name))
		}
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.InfoType,
		Content: previewText.String(),
		Writer:  writer,
	})
}

// PromptForConfirmation asks the user to type "yes" to confirm.
// Returns true only if the user types exactly "yes" (case-insensitive).
func PromptForConfirmation(writer io.Writer) bool {
	notify.WriteMessage(notify.Message{
		Type:    notify.WarningType,
		Content: `Type "yes" to confirm removal: `,
		Writer:  writer,
	})

	reader := bufio.NewReader(getStdinReader())

	input, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	input = strings.TrimSpace(input)

	return strings.EqualFold(input, "yes")
}
