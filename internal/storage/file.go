// Package storage provides crash-safe file replacement for save data.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// NewPendingFile creates the directory of path and a temporary file beside it.
// Nothing is visible at path until CloseAtomicallyReplace succeeds; Cleanup
// discards the temporary file and leaves path untouched.
func NewPendingFile(path string, perm os.FileMode) (*renameio.PendingFile, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	// Same directory so the final rename never crosses filesystems
	pending, err := renameio.TempFile(dir, path)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	if err := pending.Chmod(perm); err != nil {
		pending.Cleanup()
		return nil, fmt.Errorf("failed to set permissions: %w", err)
	}

	return pending, nil
}

// WriteFileAtomic writes data to a temporary file next to path, syncs it and
// renames it over path. Readers see either the previous content or the new content.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	pending, err := NewPendingFile(path, perm)
	if err != nil {
		return err
	}
	// No-op once the replace has succeeded
	defer pending.Cleanup()

	if _, err := pending.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}

	return nil
}
