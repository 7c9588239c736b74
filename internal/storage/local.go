// Package storage stores uploaded files on local disk under
// uuid-generated names.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Local writes uploads into a single directory. File names are generated,
// never taken from the client.
type Local struct {
	dir string
}

// NewLocal creates the upload directory if needed.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Local{dir: dir}, nil
}

// Save writes r to a new file named <uuid>.<ext> and returns its path.
func (l *Local) Save(ext string, r io.Reader) (string, error) {
	path := filepath.Join(l.dir, fmt.Sprintf("%s.%s", uuid.New(), ext))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return path, nil
}

// Remove deletes a stored file. A file that is already gone is not an
// error.
func (l *Local) Remove(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
