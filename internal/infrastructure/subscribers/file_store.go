// Package subscribers persists the recipient set.
package subscribers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/omar4-4mohsen/dates-monitor/internal/domain"
	"github.com/omar4-4mohsen/dates-monitor/internal/ports"
)

// FileStore keeps chat ids as a flat JSON array, e.g. [7674719048, 12345].
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load implements ports.SubscriberStore. A missing file is an empty set.
func (f *FileStore) Load(context.Context) ([]domain.RecipientID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read()
}

// Add implements ports.SubscriberStore.
func (f *FileStore) Add(_ context.Context, id domain.RecipientID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids, err := f.read()
	if err != nil {
		return false, err
	}
	for _, existing := range ids {
		if existing == id {
			return false, nil
		}
	}
	if err := f.write(append(ids, id)); err != nil {
		return false, err
	}
	return true, nil
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) read() ([]domain.RecipientID, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var ids []domain.RecipientID
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.path, err)
	}
	return domain.UniqueRecipients(ids...), nil
}

// write replaces the file atomically.
func (f *FileStore) write(ids []domain.RecipientID) error {
	if err := os.MkdirAll(filepath.Dir(f.path), domain.DirectoryPermissions); err != nil {
		return err
	}
	data, err := json.MarshalIndent(domain.UniqueRecipients(ids...), "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), domain.SecureFilePermissions); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}

var _ ports.SubscriberStore = (*FileStore)(nil)
