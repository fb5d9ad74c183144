// =============================================================================
// H2K to HPXML Translator - File Manager Utility
// =============================================================================
//
// This module provides the file handling the translator needs around its
// outputs:
//   - Output directory creation
//   - Atomic writes through a uniquely named temporary file
//   - Temporary file naming
//
// WRITE STRATEGY:
//   - Content is written to a hidden temporary file next to the target
//   - The temporary file is synced and renamed over the target on success
//   - On any failure the temporary file is removed and the target is left
//     exactly as it was
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureParentDir creates the directory that will hold path.
//
// RETURNS:
//   - An error if the directory cannot be created.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// =============================================================================
// ATOMIC WRITES
// =============================================================================

// TempName returns a unique hidden file name in the directory of path.
//
// EXAMPLE:
//   path:   "out/house.osw"
//   output: "out/.house.osw.a1b2c3d4-e5f6-7890-abcd-ef1234567890.tmp"
func TempName(path string) string {
	dir, base := filepath.Split(path)
	return filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", base, uuid.New().String()))
}

// WriteFileAtomic writes a file so that readers only ever see the old
// content or the complete new content.
//
// PARAMETERS:
//   - path: The file to create or replace.
//   - write: Produces the content. Its error aborts the write.
//
// RETURNS:
//   - An error if any step fails. No partial file is left behind.
func WriteFileAtomic(path string, write func(io.Writer) error) (err error) {
	if err := EnsureParentDir(path); err != nil {
		return err
	}

	tmp := TempName(path)
	file, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			file.Close()
			os.Remove(tmp)
		}
	}()

	if err := write(file); err != nil {
		return err
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", tmp, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
