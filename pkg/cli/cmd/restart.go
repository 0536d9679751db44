package cmd

import (
	"errors"
	"fmt"

	"github.com/arrbiter/arrctl/pkg/svc/orchestrator"
	"github.com/arrbiter/arrctl/pkg/ui/notify"
	"github.com/spf13/cobra"
)

// NewRestartCmd creates and returns the restart command.
func NewRestartCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "restart",
		Short:        "Stop the stack, start it again and wait for readiness",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRestart(cmd)
		},
	}
}

func runRestart(cmd *cobra.Command) error {
	tmr := timerFromFlags(cmd)

	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout())
	notify.Titlef(cmd.OutOrStdout(), "🔄", "Restart stack...")

	orch, apiClient, err := newOrchestrator(config)
	if err != nil {
		return err
	}
	defer func() { _ = apiClient.Close() }()

	notify.Activityf(cmd.OutOrStdout(), "stopping compose project '%s'", config.Project)

	err = orch.StopAll(cmd.Context())
	// A stack with no containers yet is fine to restart, it just starts.
	if err != nil && !errors.Is(err, orchestrator.ErrNoServices) {
		return fmt.Errorf("failed to stop stack: %w", err)
	}

	notify.Activityf(cmd.OutOrStdout(), "starting compose project '%s'", config.Project)

	err = orch.UpAll(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to start stack: %w", err)
	}

	err = waitForServices(cmd, config, orch)
	if err != nil {
		return err
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "stack restarted",
		Timer:   tmr,
		Writer:  cmd.OutOrStdout(),
	})

	return nil
}
