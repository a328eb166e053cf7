package dao

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileDocumentDAO keeps each document in <dir>/<key>.json.
type FileDocumentDAO struct {
	dir string
	mu  sync.Mutex
}

func NewFileDocumentDAO(dir string) *FileDocumentDAO {
	return &FileDocumentDAO{
		dir: dir,
	}
}

func (d *FileDocumentDAO) path(key string) string {
	return filepath.Join(d.dir, key+".json")
}

func (d *FileDocumentDAO) Get(_ context.Context, key string) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	body, err := os.ReadFile(d.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrDocumentNotFound
		}

		return nil, fmt.Errorf("os.ReadFile -> %w", err)
	}

	return body, nil
}

// Put replaces the file through a rename so readers never see a partial write.
func (d *FileDocumentDAO) Put(_ context.Context, key string, body []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("os.MkdirAll -> %w", err)
	}

	tmp, err := os.CreateTemp(d.dir, key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("os.CreateTemp -> %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(body); err != nil {
		tmp.Close()
		return fmt.Errorf("tmp.Write -> %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("tmp.Close -> %w", err)
	}

	if err = os.Rename(tmp.Name(), d.path(key)); err != nil {
		return fmt.Errorf("os.Rename -> %w", err)
	}

	return nil
}
