package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/arrbiter/arrctl/pkg/svc/backup"
	"github.com/arrbiter/arrctl/pkg/ui/notify"
	"github.com/spf13/cobra"
)

const bytesPerMegabyte = 1024 * 1024

// NewBackupCmd creates and returns the backup command.
func NewBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup [destination]",
		Short: "Archive the stack directory to a destination directory",
		Long: `Create a timestamped .tar.gz archive of the stack directory (compose file
and service configuration) in the destination directory. The destination
defaults to the current directory.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			destination := ""
			if len(args) > 0 {
				destination = args[0]
			}

			return runBackup(cmd, destination)
		},
	}
}

func runBackup(cmd *cobra.Command, destination string) error {
	tmr := timerFromFlags(cmd)

	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout())
	notify.Titlef(cmd.OutOrStdout(), "💾", "Backup stack...")

	destDir, err := backup.ResolveDestination(destination)
	if err != nil {
		return err
	}

	stackDir := config.ResolvedStackDir()
	archivePath := filepath.Join(destDir, backup.ArchiveName(time.Now()))

	notify.Activityf(cmd.OutOrStdout(), "archiving %s", stackDir)

	err = backup.CreateArchive(stackDir, archivePath)
	if err != nil {
		return err
	}

	// The binary copy is a convenience for restores; its failure never fails
	// the backup itself.
	err = backup.CopyExecutable(destDir)
	if err != nil {
		notify.Warningf(cmd.OutOrStdout(), "could not copy executable alongside archive: %v", err)
	}

	if info, err := os.Stat(archivePath); err == nil {
		sizeMB := float64(info.Size()) / bytesPerMegabyte
		notify.Infof(cmd.OutOrStdout(), "archive: %s (%.2f MB)", archivePath, sizeMB)
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "backup completed",
		Timer:   tmr,
		Writer:  cmd.OutOrStdout(),
	})

	return nil
}
