// Package node manages the set of wallet identities hosted by a process. Each
// open identity has its own records and its own mining worker.
package node

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ardanlabs/blockcoin/foundation/blockchain/genesis"
	"github.com/ardanlabs/blockcoin/foundation/blockchain/state"
	"github.com/ardanlabs/blockcoin/foundation/blockchain/storage"
	"github.com/ardanlabs/blockcoin/foundation/blockchain/wallet"
	"github.com/ardanlabs/blockcoin/foundation/blockchain/worker"
)

// ErrWalletNotFound is returned when there are no records for a wallet.
var ErrWalletNotFound = errors.New("wallet not found")

// maxCreateAttempts bounds the search for an unused passphrase.
const maxCreateAttempts = 10

// =============================================================================

// Config represents the configuration shared by every identity.
type Config struct {
	Store            storage.Store
	Genesis          genesis.Genesis
	VerifyDifficulty bool
	Worker           worker.Config
	EvHandler        state.EventHandler
	Changes          state.ChangeHandler
}

// Session is an open identity.
type Session struct {
	WalletID string
	State    *state.State
	Worker   *worker.Worker
}

// Node manages the open identities.
type Node struct {
	cfg Config

	mu       sync.Mutex
	sessions map[string]*Session
}

// New constructs a node for use.
func New(cfg Config) *Node {
	if cfg.EvHandler == nil {
		cfg.EvHandler = func(v string, args ...any) {}
	}

	return &Node{
		cfg:      cfg,
		sessions: make(map[string]*Session),
	}
}

// CreateWallet generates a new passphrase and opens a fresh identity for it.
func (n *Node) CreateWallet() (string, *Session, error) {
	for range maxCreateAttempts {
		passphrase, err := wallet.GeneratePassphrase()
		if err != nil {
			return "", nil, err
		}

		walletID, err := wallet.DeriveAddress(passphrase)
		if err != nil {
			return "", nil, err
		}

		if n.exists(walletID) {
			n.cfg.EvHandler("node: CreateWallet: wallet[%s] exists: retrying", walletID)
			continue
		}

		sess, err := n.open(walletID)
		if err != nil {
			return "", nil, err
		}

		n.cfg.EvHandler("node: CreateWallet: wallet[%s] created", walletID)

		return passphrase, sess, nil
	}

	return "", nil, errors.New("unable to find an unused passphrase")
}

// OpenWallet opens the identity belonging to the passphrase. The wallet must
// have been created before.
func (n *Node) OpenWallet(passphrase string) (*Session, error) {
	walletID, err := wallet.DeriveAddress(passphrase)
	if err != nil {
		return nil, err
	}

	return n.Session(walletID)
}

// Session returns the open identity for the wallet id, opening it from the
// store when needed.
func (n *Node) Session(walletID string) (*Session, error) {
	n.mu.Lock()
	sess, exists := n.sessions[walletID]
	n.mu.Unlock()

	if exists {
		return sess, nil
	}

	if !n.exists(walletID) {
		return nil, fmt.Errorf("%w: %s", ErrWalletNotFound, walletID)
	}

	return n.open(walletID)
}

// Delete stops the identity's worker and removes all of its records.
func (n *Node) Delete(walletID string) error {
	n.mu.Lock()
	sess, exists := n.sessions[walletID]
	delete(n.sessions, walletID)
	n.mu.Unlock()

	if exists {
		sess.Worker.Shutdown()
	}

	if !exists && !n.exists(walletID) {
		return fmt.Errorf("%w: %s", ErrWalletNotFound, walletID)
	}

	n.cfg.EvHandler("node: Delete: wallet[%s]", walletID)

	return storage.Clear(n.cfg.Store, walletID)
}

// Len returns the number of open identities.
func (n *Node) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	return len(n.sessions)
}

// Ping checks that the store can be read.
func (n *Node) Ping() error {
	_, err := n.cfg.Store.Get(storage.KeysFor("").Wallet)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("ping: %w", err)
	}

	return nil
}

// Shutdown stops every worker.
func (n *Node) Shutdown() {
	n.cfg.EvHandler("node: shutdown: started")
	defer n.cfg.EvHandler("node: shutdown: completed")

	n.mu.Lock()
	sessions := n.sessions
	n.sessions = make(map[string]*Session)
	n.mu.Unlock()

	for _, sess := range sessions {
		sess.Worker.Shutdown()
	}
}

// =============================================================================

// exists reports whether a wallet record is stored for the id.
func (n *Node) exists(walletID string) bool {
	_, err := n.cfg.Store.Get(storage.KeysFor(walletID).Wallet)
	return err == nil
}

// open loads the records for the wallet and starts its worker. If another
// caller opened the same wallet first, that session is returned.
func (n *Node) open(walletID string) (*Session, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if sess, exists := n.sessions[walletID]; exists {
		return sess, nil
	}

	st, err := state.New(state.Config{
		Identity:         walletID,
		Address:          walletID,
		Store:            n.cfg.Store,
		Genesis:          n.cfg.Genesis,
		VerifyDifficulty: n.cfg.VerifyDifficulty,
		EvHandler:        n.cfg.EvHandler,
		Changes:          n.cfg.Changes,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", walletID, err)
	}

	sess := Session{
		WalletID: walletID,
		State:    st,
		Worker:   worker.Run(st, n.cfg.Worker, n.cfg.EvHandler),
	}

	n.sessions[walletID] = &sess

	return &sess, nil
}
