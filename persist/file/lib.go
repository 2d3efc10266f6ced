package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Persist implements the macrocell.Persist interface for storing and loading
// serialized boards as files.
type Persist struct {
	basepath string
}

// Load loads the bytes persisted in the named file.
func (p Persist) Load(ctx context.Context, name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(p.basepath, name))
}

// Store persists the given bytes in a file of the given name, if it
// doesn't exist already. The file is written under a temporary name and
// renamed, so a reader never sees a partial board.
func (p Persist) Store(ctx context.Context, name string, bytes []byte) error {
	path := filepath.Join(p.basepath, name)
	_, err := os.Stat(path)
	if !os.IsNotExist(err) {
		return err
	}
	tmp, err := os.CreateTemp(p.basepath, "."+name+".*")
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(bytes); err != nil {
		tmp.Close()
		return fmt.Errorf("write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// NewPersistForPath returns a Persist that loads and stores boards as
// files in the directory at the given path.
//
//	p := NewPersistForPath("/var/db/boards")
//	blob, err := p.Load(ctx, "mOqpVq5vGdWGrSx6kJSKm_aXK1kbEw4jjgk2vo-VjW4")
func NewPersistForPath(path string) Persist {
	return Persist{path}
}
