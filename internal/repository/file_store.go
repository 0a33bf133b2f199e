package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileDocumentStore keeps every document as <dir>/<name>.json.
type FileDocumentStore struct {
	dir string
}

func NewFileDocumentStore(dir string) *FileDocumentStore {
	return &FileDocumentStore{dir: dir}
}

func (f *FileDocumentStore) path(name string) string {
	return filepath.Join(f.dir, name+".json")
}

func (f *FileDocumentStore) Load(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(f.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return data, nil
}

// Save writes into a temp file next to the target and renames it over the
// target, so readers never observe a half-written document.
func (f *FileDocumentStore) Save(_ context.Context, name string, data []byte) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()

	if _, err = tmp.Write(data); err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}

	if err = os.Rename(tmpName, f.path(name)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

func (f *FileDocumentStore) Ping(_ context.Context) error {
	info, err := os.Stat(f.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", f.dir)
	}
	return nil
}
