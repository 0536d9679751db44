package cmd

import (
	"fmt"

	"github.com/arrbiter/arrctl/pkg/svc/orchestrator"
	"github.com/arrbiter/arrctl/pkg/ui/notify"
	"github.com/spf13/cobra"
)

// NewStartCmd creates and returns the start command.
func NewStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the stack and wait for all services to run",
		Long: `Start the media-server stack in detached mode and poll the orchestrator
until every declared service reports running or the readiness budget elapses.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStart(cmd)
		},
	}
}

func runStart(cmd *cobra.Command) error {
	tmr := timerFromFlags(cmd)

	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout())
	notify.Titlef(cmd.OutOrStdout(), "🚀", "Start stack...")

	orch, apiClient, err := newOrchestrator(config)
	if err != nil {
		return err
	}
	defer func() { _ = apiClient.Close() }()

	services, err := orch.ListServices(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list services: %w", err)
	}

	// When every declared service already has a container, starting them
	// through the Engine API is enough; compose only needs to run when
	// containers must be created first.
	if orchestrator.AllCreated(services) {
		notify.Activityf(cmd.OutOrStdout(), "starting existing containers for project '%s'",
			config.Project)

		err = orch.StartAll(cmd.Context())
	} else {
		notify.Activityf(cmd.OutOrStdout(), "starting compose project '%s'", config.Project)

		err = orch.UpAll(cmd.Context())
	}

	if err != nil {
		return fmt.Errorf("failed to start stack: %w", err)
	}

	err = waitForServices(cmd, config, orch)
	if err != nil {
		return err
	}

	notify.Infof(cmd.OutOrStdout(), "run 'arrctl check-vpn' to verify VPN egress")
	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "stack started",
		Timer:   tmr,
		Writer:  cmd.OutOrStdout(),
	})

	return nil
}
