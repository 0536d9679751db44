package cmd

import (
	"fmt"

	"github.com/arrbiter/arrctl/pkg/ui/notify"
	"github.com/spf13/cobra"
)

// NewStatusCmd creates and returns the status command.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "status",
		Short:        "Show the state of every service in the stack",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd)
		},
	}
}

func runStatus(cmd *cobra.Command) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout())
	notify.Titlef(cmd.OutOrStdout(), "📊", "Stack status")

	orch, apiClient, err := newOrchestrator(config)
	if err != nil {
		return err
	}
	defer func() { _ = apiClient.Close() }()

	services, err := orch.ListServices(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list services: %w", err)
	}

	running := 0

	for _, service := range services {
		state := service.State
		if state == "" {
			state = "not created"
		}

		if service.Running {
			running++

			notify.Successf(cmd.OutOrStdout(), "%-16s %s", service.Name, state)
		} else {
			notify.Warningf(cmd.OutOrStdout(), "%-16s %s", service.Name, state)
		}
	}

	notify.Infof(cmd.OutOrStdout(), "%d/%d services running", running, len(services))

	return nil
}
