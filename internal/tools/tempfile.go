package tools

import (
	"fmt"
	"os"
)

// TempFile is a filesystem path whose backing file is removed when the
// owning scope closes it. The handle returned by os.CreateTemp is closed
// immediately; external processes write and read the path by name.
type TempFile struct {
	path string
}

// NewTempFile creates a scoped temp file in dir (or the system default when
// dir is empty) using the given name pattern.
func NewTempFile(dir, pattern string) (*TempFile, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return nil, fmt.Errorf("tools: create temp file: %w", err)
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("tools: close temp file: %w", err)
	}
	return &TempFile{path: path}, nil
}

func (t *TempFile) Path() string {
	return t.path
}

// Close removes the backing file. Safe to call on every exit path; a file
// already gone is not an error.
func (t *TempFile) Close() error {
	err := os.Remove(t.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("tools: remove temp file: %w", err)
	}
	return nil
}
