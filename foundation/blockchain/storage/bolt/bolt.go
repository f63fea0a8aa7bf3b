// Package bolt implements the ability to read and write records to a single
// bbolt database file.
package bolt

import (
	"fmt"
	"time"

	"github.com/ardanlabs/blockcoin/foundation/blockchain/storage"
	"go.etcd.io/bbolt"
)

var bucket = []byte("records")

// Bolt represents the storage implementation backed by a bbolt file. This
// implements the storage.Store interface.
type Bolt struct {
	db *bbolt.DB
}

// New opens or creates the database file at the specified path.
func New(path string) (*Bolt, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	f := func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	}

	if err := db.Update(f); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &Bolt{db: db}, nil
}

// Close releases the database file.
func (b *Bolt) Close() error {
	return b.db.Close()
}

// Get returns a copy of the value stored for the key.
func (b *Bolt) Get(key string) ([]byte, error) {
	var data []byte

	f := func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucket).Get([]byte(key))
		if v == nil {
			return storage.ErrNotFound
		}

		// The slice is only valid for the life of the transaction.
		data = append([]byte(nil), v...)
		return nil
	}

	if err := b.db.View(f); err != nil {
		return nil, err
	}

	return data, nil
}

// Put stores the value for the key.
func (b *Bolt) Put(key string, value []byte) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), value)
	})
}

// Delete removes the key.
func (b *Bolt) Delete(key string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Delete([]byte(key))
	})
}
