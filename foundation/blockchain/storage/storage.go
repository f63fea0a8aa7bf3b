// Package storage handles all the lower level support for maintaining the
// records of an identity in a flat key/value blob store.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a key has no value in the store.
var ErrNotFound = errors.New("key not found")

// Store is the behavior required to persist records. Values are opaque
// blobs and there are no transactional guarantees across keys.
type Store interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// =============================================================================

// Keys is the set of storage keys used for one identity.
type Keys struct {
	Chain  string
	Wallet string
	Stats  string
	Market string
}

// KeysFor returns the keys for the specified identity. An empty identity
// produces the keys used when no wallet has been opened.
func KeysFor(identity string) Keys {
	if identity == "" {
		return Keys{
			Chain:  "blockcoin_blockchain",
			Wallet: "blockcoin_wallet",
			Stats:  "blockcoin_mining_stats",
			Market: "blockcoin_market_data",
		}
	}

	prefix := identity + "_"

	return Keys{
		Chain:  "blockchain_" + prefix,
		Wallet: "wallet_" + prefix,
		Stats:  "miningStats_" + prefix,
		Market: "marketData_" + prefix,
	}
}

// All returns every key in the set.
func (k Keys) All() []string {
	return []string{k.Chain, k.Wallet, k.Stats, k.Market}
}

// =============================================================================

// Load reads the key and decodes the JSON value into v. ErrNotFound is
// returned when the key is absent and a decode error when the value is
// malformed.
func Load(store Store, key string, v any) error {
	data, err := store.Get(key)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}

	return nil
}

// Save encodes v as JSON and writes it under the key.
func Save(store Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}

	return store.Put(key, data)
}

// Clear removes every record for the identity.
func Clear(store Store, identity string) error {
	for _, key := range KeysFor(identity).All() {
		if err := store.Delete(key); err != nil && !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("deleting %s: %w", key, err)
		}
	}

	return nil
}
