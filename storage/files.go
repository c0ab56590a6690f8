package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Files stores text as flat files. Saving to an existing name replaces the
// previous contents.
type Files struct {
	dirPerm  os.FileMode
	filePerm os.FileMode
}

func NewFiles() *Files {
	return &Files{
		dirPerm:  0o755,
		filePerm: 0o644,
	}
}

func (f *Files) Save(folder, filename, text string) error {
	if err := os.MkdirAll(folder, f.dirPerm); err != nil {
		return fmt.Errorf("failed to create folder %s: %w", folder, err)
	}

	path := filepath.Join(folder, filename)
	if err := os.WriteFile(path, []byte(text), f.filePerm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
