// Package disk implements the ability to read and write records to disk
// with each key in its own file.
package disk

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/ardanlabs/blockcoin/foundation/blockchain/storage"
)

// Disk represents the storage implementation for reading and storing
// records in their own separate files on disk. This implements the
// storage.Store interface.
type Disk struct {
	mu     sync.RWMutex
	dbPath string
}

// New constructs a Disk value for use.
func New(dbPath string) (*Disk, error) {
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, err
	}

	return &Disk{dbPath: dbPath}, nil
}

// Close in this implementation has nothing to do since a file is opened
// and closed for each operation.
func (d *Disk) Close() error {
	return nil
}

// Get reads the file for the key.
func (d *Disk) Get(key string) ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	data, err := os.ReadFile(d.getPath(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}

	return data, nil
}

// Put writes the value to a temporary file and renames it over the file
// for the key so a reader never sees a partial write.
func (d *Disk) Put(key string, value []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	path := d.getPath(key)
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, value, 0600); err != nil {
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", key, err)
	}

	return nil
}

// Delete removes the file for the key.
func (d *Disk) Delete(key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := os.Remove(d.getPath(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return nil
}

// getPath forms the path to the file for the key.
func (d *Disk) getPath(key string) string {
	return filepath.Join(d.dbPath, url.PathEscape(key)+".json")
}
