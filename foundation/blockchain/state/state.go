// Package state is the core API for an identity's view of the blockchain and
// implements all the business rules and processing.
package state

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ardanlabs/blockcoin/foundation/blockchain/database"
	"github.com/ardanlabs/blockcoin/foundation/blockchain/genesis"
	"github.com/ardanlabs/blockcoin/foundation/blockchain/market"
	"github.com/ardanlabs/blockcoin/foundation/blockchain/storage"
	"github.com/ardanlabs/blockcoin/foundation/blockchain/wallet"
)

// EventHandler defines a function that is called when events
// occur in the processing of the records.
type EventHandler func(v string, args ...any)

// Record identifies which of an identity's records changed.
type Record string

// Set of records maintained for an identity.
const (
	RecordChain  Record = "chain"
	RecordWallet Record = "wallet"
	RecordStats  Record = "stats"
	RecordMarket Record = "market"
)

// ChangeHandler defines a function that is called after a record has been
// persisted.
type ChangeHandler func(identity string, record Record)

// =============================================================================

// Config represents the configuration required to open the records for
// an identity.
type Config struct {
	Identity         string
	Address          string
	Store            storage.Store
	Genesis          genesis.Genesis
	VerifyDifficulty bool
	EvHandler        EventHandler
	Changes          ChangeHandler
}

// State manages the records for a single identity.
type State struct {
	identity  string
	keys      storage.Keys
	store     storage.Store
	genesis   genesis.Genesis
	appendOps database.AppendOptions
	evHandler EventHandler
	changes   ChangeHandler

	mu     sync.Mutex
	chain  database.Chain
	wallet database.Wallet
	stats  database.MiningStats
	market database.MarketData
}

// New loads the records for the identity from the store. Any record that is
// missing or can't be decoded is initialized and written back.
func New(cfg Config) (*State, error) {
	if cfg.Store == nil {
		return nil, errors.New("store is required")
	}

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	changes := func(identity string, record Record) {
		if cfg.Changes != nil {
			cfg.Changes(identity, record)
		}
	}

	gen := cfg.Genesis
	if gen.Network == "" {
		gen = genesis.Default()
	}

	s := State{
		identity:  cfg.Identity,
		keys:      storage.KeysFor(cfg.Identity),
		store:     cfg.Store,
		genesis:   gen,
		appendOps: database.AppendOptions{VerifyDifficulty: cfg.VerifyDifficulty},
		evHandler: ev,
		changes:   changes,
	}

	if err := s.loadChain(); err != nil {
		return nil, err
	}

	if err := s.loadWallet(cfg.Address); err != nil {
		return nil, err
	}

	if err := s.loadStats(); err != nil {
		return nil, err
	}

	if err := s.loadMarket(); err != nil {
		return nil, err
	}

	return &s, nil
}

// Reset discards every record for the identity and starts over with a new
// chain, a full wallet and fresh stats.
func (s *State) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: Reset: identity[%s]", s.identity)

	address := s.wallet.Address

	if err := storage.Clear(s.store, s.identity); err != nil {
		return err
	}

	if err := s.initChain(); err != nil {
		return err
	}

	if err := s.initWallet(address); err != nil {
		return err
	}

	if err := s.initStats(); err != nil {
		return err
	}

	return s.initMarket()
}

// =============================================================================

// loadChain reads the chain record and repairs it when needed.
func (s *State) loadChain() error {
	var chain database.Chain

	err := storage.Load(s.store, s.keys.Chain, &chain)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.evHandler("state: loadChain: no chain found: initializing")
		return s.initChain()

	case err != nil:
		s.evHandler("state: loadChain: WARNING: %s: initializing", err)
		return s.initChain()
	}

	// A chain record without blocks has never been given its genesis block.
	if len(chain.Blocks) == 0 {
		s.evHandler("state: loadChain: chain has no blocks: adding genesis")

		block, err := database.GenesisBlock(s.genesis)
		if err != nil {
			return err
		}
		chain.Blocks = []database.Block{block}
	}

	if chain.PendingTransactions == nil {
		chain.PendingTransactions = []database.Transaction{}
	}

	if err := chain.Validate(database.AppendOptions{}); err != nil {
		s.evHandler("state: loadChain: WARNING: invalid chain: %s: initializing", err)
		return s.initChain()
	}

	s.chain = chain
	return s.saveChain()
}

// loadWallet reads the wallet record. A new wallet is given the address
// provided, or a random one when there is none.
func (s *State) loadWallet(address string) error {
	var w database.Wallet

	err := storage.Load(s.store, s.keys.Wallet, &w)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.evHandler("state: loadWallet: no wallet found: initializing")
		return s.initWallet(address)

	case err != nil || w.Address == "":
		s.evHandler("state: loadWallet: WARNING: malformed wallet: %v: initializing", err)
		return s.initWallet(address)
	}

	if w.Transactions == nil {
		w.Transactions = []database.Transaction{}
	}

	s.wallet = w
	return nil
}

// loadStats reads the mining stats. No miner is running when the records
// are opened so the stats are marked inactive.
func (s *State) loadStats() error {
	var ms database.MiningStats

	err := storage.Load(s.store, s.keys.Stats, &ms)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return s.initStats()

	case err != nil:
		s.evHandler("state: loadStats: WARNING: %s: initializing", err)
		return s.initStats()
	}

	if !database.ValidHashPower(ms.HashPower) {
		ms.HashPower = database.DefaultHashPower
	}

	ms.IsActive = false
	ms.HashRate = 0

	s.stats = ms
	return s.saveStats()
}

// loadMarket reads the market data.
func (s *State) loadMarket() error {
	var md database.MarketData

	err := storage.Load(s.store, s.keys.Market, &md)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return s.initMarket()

	case err != nil || len(md.PriceHistory) == 0:
		s.evHandler("state: loadMarket: WARNING: malformed market data: %v: initializing", err)
		return s.initMarket()
	}

	s.market = md
	return nil
}

// =============================================================================

func (s *State) initChain() error {
	chain, err := database.NewChain(s.genesis)
	if err != nil {
		return err
	}

	s.chain = chain
	return s.saveChain()
}

func (s *State) initWallet(address string) error {
	if address == "" {
		address = s.identity
	}

	if address == "" {
		var err error
		if address, err = wallet.NewRandomAddress(); err != nil {
			return err
		}
	}

	s.wallet = database.NewWallet(address, s.genesis.InitialCoins)
	return s.saveWallet()
}

func (s *State) initStats() error {
	s.stats = database.NewMiningStats()
	return s.saveStats()
}

func (s *State) initMarket() error {
	s.market = market.Default(time.Now(), nil)
	return s.save(s.keys.Market, RecordMarket, s.market)
}

// =============================================================================

func (s *State) saveChain() error {
	return s.save(s.keys.Chain, RecordChain, s.chain)
}

func (s *State) saveWallet() error {
	return s.save(s.keys.Wallet, RecordWallet, s.wallet)
}

func (s *State) saveStats() error {
	return s.save(s.keys.Stats, RecordStats, s.stats)
}

// write is a record to persist along with the value to put back if a later
// write in the same commit fails.
type write struct {
	key    string
	record Record
	next   any
	prev   any
}

// commit saves the records in order. When one fails, the records already
// written are restored so the store matches memory again. The caller adopts
// the new values only when commit succeeds.
func (s *State) commit(writes ...write) error {
	for i, w := range writes {
		if err := s.save(w.key, w.record, w.next); err != nil {
			for _, done := range writes[:i] {
				if rerr := s.save(done.key, done.record, done.prev); rerr != nil {
					s.evHandler("state: commit: WARNING: restoring %s: %s", done.record, rerr)
				}
			}
			return err
		}
	}

	return nil
}

// save writes the record and tells the change handler about it.
func (s *State) save(key string, record Record, v any) error {
	if err := storage.Save(s.store, key, v); err != nil {
		return fmt.Errorf("save %s: %w", record, err)
	}

	s.changes(s.identity, record)
	return nil
}
