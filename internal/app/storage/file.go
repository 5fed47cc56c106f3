package storage

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// File stores each key as a JSON file under a data directory.
type File struct {
	dir string
}

func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &File{dir: dir}, nil
}

func (f *File) path(key string) string {
	// Escaping keeps key separators like "cart:<uuid>" filesystem-safe.
	return filepath.Join(f.dir, url.PathEscape(key)+".json")
}

func (f *File) Load(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (f *File) Save(_ context.Context, key string, data []byte) error {
	return os.WriteFile(f.path(key), data, 0o644)
}

func (f *File) Delete(_ context.Context, key string) error {
	err := os.Remove(f.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
