package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalDir serves invoice scans from a directory on disk, for development
// and for batches already downloaded from remote storage.
type LocalDir struct {
	path string
}

// NewLocalDir validates that the directory exists.
func NewLocalDir(path string) (*LocalDir, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scan directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", path)
	}
	return &LocalDir{path: path}, nil
}

// List enumerates scan files in the directory, non-recursively.
func (l *LocalDir) List(ctx context.Context) ([]Item, error) {
	entries, err := os.ReadDir(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scan directory: %w", err)
	}

	var items []Item
	for _, entry := range entries {
		if entry.IsDir() || !IsScanFile(entry.Name()) {
			continue
		}
		items = append(items, Item{
			Name: entry.Name(),
			URL:  filepath.Join(l.path, entry.Name()),
		})
	}
	return items, nil
}

// Fetch reads one scan file.
func (l *LocalDir) Fetch(ctx context.Context, item Item) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(l.path, item.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", item.Name, err)
	}
	return data, nil
}
