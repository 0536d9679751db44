package cmd

import (
	"fmt"

	"github.com/arrbiter/arrctl/pkg/ui/notify"
	"github.com/spf13/cobra"
)

// NewStopCmd creates and returns the stop command.
func NewStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "stop",
		Short:        "Stop all running services of the stack",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStop(cmd)
		},
	}
}

func runStop(cmd *cobra.Command) error {
	tmr := timerFromFlags(cmd)

	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout())
	notify.Titlef(cmd.OutOrStdout(), "🛑", "Stop stack...")

	orch, apiClient, err := newOrchestrator(config)
	if err != nil {
		return err
	}
	defer func() { _ = apiClient.Close() }()

	notify.Activityf(cmd.OutOrStdout(), "stopping compose project '%s'", config.Project)

	err = orch.StopAll(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to stop stack: %w", err)
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "stack stopped",
		Timer:   tmr,
		Writer:  cmd.OutOrStdout(),
	})

	return nil
}
