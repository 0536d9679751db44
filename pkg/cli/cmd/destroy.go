package cmd

import (
	"fmt"

	"github.com/arrbiter/arrctl/pkg/ui/confirm"
	"github.com/arrbiter/arrctl/pkg/ui/notify"
	"github.com/spf13/cobra"
)

// NewDestroyCmd creates and returns the destroy command.
func NewDestroyCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Tear down the stack, removing containers, networks and volumes",
		Long: `Stop and remove every container, network and volume of the stack.

This is destructive and prompts for confirmation unless --force is set or
stdin is not a terminal.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDestroy(cmd, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt")

	return cmd
}

func runDestroy(cmd *cobra.Command, force bool) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout())
	notify.Titlef(cmd.OutOrStdout(), "🔥", "Destroy stack...")

	orch, apiClient, err := newOrchestrator(config)
	if err != nil {
		return err
	}
	defer func() { _ = apiClient.Close() }()

	if !confirm.ShouldSkipPrompt(force) {
		containers, networks, volumes, err := orch.Resources(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list stack resources: %w", err)
		}

		confirm.ShowDestroyPreview(cmd.OutOrStdout(), &confirm.DestroyPreview{
			Project:    config.Project,
			Containers: containers,
			Networks:   networks,
			Volumes:    volumes,
		})

		if !confirm.PromptForConfirmation(cmd.OutOrStdout()) {
			return confirm.ErrDestroyCancelled
		}
	}

	notify.Activityf(cmd.OutOrStdout(), "tearing down compose project '%s'", config.Project)

	err = orch.TeardownAll(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to destroy stack: %w", err)
	}

	notify.Successf(cmd.OutOrStdout(), "stack destroyed")

	return nil
}
