// Package cmd wires up the arrctl command tree.
package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Persistent flag names.
const (
	ConfigFlagName  = "config"
	TimingFlagName  = "timing"
	VerboseFlagName = "verbose"
)

// NewRootCmd creates and returns the root command with version info and subcommands.
func NewRootCmd(version, commit, date string) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "arrctl",
		Short:        "arrctl operates a VPN-isolated media-server compose stack",
		Long: `arrctl operates a containerized media-server stack: a VPN gateway,
a download client routed through it, and the supporting media services.

It starts and stops the stack through the container orchestrator, waits for
every service to report running, archives the stack directory, and verifies
that the VPN container's egress IP differs from the host's.`,
		RunE:         handleRootRunE,
		SilenceUsage: true,
	}

	cmd.Version = fmt.Sprintf("%s (Built on %s from Git SHA %s)", version, date, commit)

	cmd.PersistentFlags().String(
		ConfigFlagName,
		"",
		"Path to the arrctl config file (default: search ./arrctl.yaml, ~/.config/arrctl)",
	)
	cmd.PersistentFlags().Bool(
		TimingFlagName,
		false,
		"Show timing output after successful commands",
	)
	cmd.PersistentFlags().BoolP(
		VerboseFlagName,
		"v",
		false,
		"Enable debug logging",
	)

	cmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if boolFlag(cmd.Flags(), VerboseFlagName) {
			logrus.SetLevel(logrus.DebugLevel)
		} else {
			logrus.SetLevel(logrus.WarnLevel)
		}
	}

	cmd.AddCommand(NewStartCmd())
	cmd.AddCommand(NewStopCmd())
	cmd.AddCommand(NewRestartCmd())
	cmd.AddCommand(NewStatusCmd())
	cmd.AddCommand(NewDestroyCmd())
	cmd.AddCommand(NewBackupCmd())
	cmd.AddCommand(NewCheckVPNCmd())

	return cmd
}

// Execute runs the provided root command and wraps execution errors.
func Execute(cmd *cobra.Command) error {
	err := cmd.Execute()
	if err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

// handleRootRunE handles the bare root command by printing help.
func handleRootRunE(cmd *cobra.Command, _ []string) error {
	// The err can safely be ignored, as it can never fail at runtime.
	_ = cmd.Help()

	return nil
}
