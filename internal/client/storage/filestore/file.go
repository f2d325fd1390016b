// Package filestore keeps the sync engine's small durable files:
// the record metadata cache and the change-feed cursor.
package filestore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	// MetadataFileName is the record metadata cache file inside the data directory
	MetadataFileName = "record-metadata.json"
	// StateFileName is the cursor file inside the data directory
	StateFileName = "sync-state.data"
)

// writeFileAtomic replaces path with data. Readers see either the old
// or the new content, never a partial write.
func writeFileAtomic(fs afero.Fs, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := afero.WriteFile(fs, tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := fs.Rename(tmp, path); err != nil {
		_ = fs.Remove(tmp)
		return fmt.Errorf("failed to replace file: %w", err)
	}

	return nil
}

// readFile returns nil, nil when the file does not exist.
func readFile(fs afero.Fs, path string) ([]byte, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// removeFile deletes path; a missing file is not an error.
func removeFile(fs afero.Fs, path string) error {
	if err := fs.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
