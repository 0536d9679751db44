// Package backup archives the stack directory (compose file and service
// configuration) into a timestamped compressed tarball.
package backup

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// ErrNotADirectory is returned when the backup destination exists but is not
// a directory.
var ErrNotADirectory = errors.New("destination is not a directory")

// archiveTimestampLayout names archives down to the second so repeated
// backups never collide.
const archiveTimestampLayout = "20060102-150405"

// executableMode is applied to the copied binary so a restored backup stays runnable.
const executableMode = 0o755

// ResolveDestination turns a user-supplied destination into an absolute
// path and verifies it is an existing directory.
func ResolveDestination(destination string) (string, error) {
	if destination == "" {
		destination = "."
	}

	absolute, err := filepath.Abs(destination)
	if err != nil {
		return "", fmt.Errorf("failed to resolve destination path: %w", err)
	}

	info, err := os.Stat(absolute)
	if err != nil {
		return "", fmt.Errorf("failed to access destination: %w", err)
	}

	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotADirectory, absolute)
	}

	return absolute, nil
}

// ArchiveName returns the timestamped file name for a backup archive.
func ArchiveName(now time.Time) string {
	return fmt.Sprintf("arrctl-backup-%s.tar.gz", now.Format(archiveTimestampLayout))
}

// CreateArchive writes a gzip-compressed tarball of sourceDir to targetPath.
// Entry names inside the archive are relative to sourceDir.
func CreateArchive(sourceDir, targetPath string) error {
	outFile, err := os.Create(targetPath)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}
	defer func() { _ = outFile.Close() }()

	gzipWriter := gzip.NewWriter(outFile)
	defer func() { _ = gzipWriter.Close() }()

	tarWriter := tar.NewWriter(gzipWriter)
	defer func() { _ = tarWriter.Close() }()

	err = filepath.Walk(sourceDir, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		relPath, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path: %w", err)
		}

		if relPath == "." {
			return nil
		}

		mode := info.Mode()

		// Sockets, FIFOs and devices cannot be stored, and opening one
		// would block.
		if !mode.IsRegular() && !info.IsDir() && mode&os.ModeSymlink == 0 {
			return nil
		}

		// Walk lstats entries, so symlinks arrive unfollowed and carry
		// their link target instead of file content.
		linkTarget := ""
		if mode&os.ModeSymlink != 0 {
			linkTarget, err = os.Readlink(path)
			if err != nil {
				return fmt.Errorf("failed to read symlink: %w", err)
			}
		}

		header, err := tar.FileInfoHeader(info, linkTarget)
		if err != nil {
			return fmt.Errorf("failed to create tar header: %w", err)
		}

		header.Name = relPath

		err = tarWriter.WriteHeader(header)
		if err != nil {
			return fmt.Errorf("failed to write tar header: %w", err)
		}

		if !mode.IsRegular() {
			return nil
		}

		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open file: %w", err)
		}
		defer func() { _ = file.Close() }()

		_, err = io.Copy(tarWriter, file)
		if err != nil {
			return fmt.Errorf("failed to write file to archive: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to archive %s: %w", sourceDir, err)
	}

	return nil
}

// CopyExecutable copies the currently running binary into destDir so the
// backup carries the tool that created it. Failures here are non-essential;
// callers treat them as warnings.
func CopyExecutable(destDir string) error {
	executablePath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to locate current executable: %w", err)
	}

	source, err := os.Open(executablePath)
	if err != nil {
		return fmt.Errorf("failed to open executable: %w", err)
	}
	defer func() { _ = source.Close() }()

	targetPath := filepath.Join(destDir, filepath.Base(executablePath))

	target, err := os.OpenFile(targetPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, executableMode)
	if err != nil {
		return fmt.Errorf("failed to create executable copy: %w", err)
	}
	defer func() { _ = target.Close() }()

	_, err = io.Copy(target, source)
	if err != nil {
		return fmt.Errorf("failed to copy executable: %w", err)
	}

	return nil
}
