// Package miner implements the background proof of work search. A miner runs
// in its own goroutine and only talks to its owner through channels.
package miner

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/ardanlabs/blockcoin/foundation/blockchain/database"
	"github.com/ardanlabs/blockcoin/foundation/blockchain/hashing"
)

// Kind identifies the type of message sent by the miner.
type Kind string

// Set of message kinds.
const (
	KindProgress Kind = "progress"
	KindSuccess  Kind = "success"
)

// progressEvery is the number of hashes between progress messages.
const progressEvery = 100

// EventHandler defines a function that is called when events occur in the
// processing of a search.
type EventHandler func(v string, args ...any)

// =============================================================================

// Config represents the throttle applied to a search.
type Config struct {
	Pause      time.Duration // How long to sleep when throttling.
	PauseEvery uint64        // Number of hashes between pauses, 0 disables.
	Buffer     int           // Size of the message channel.
}

// Request is a template to be mined.
type Request struct {
	BlockData  database.Block `json:"blockData"`
	Difficulty int            `json:"difficulty"`
	HashPower  int            `json:"hashPower"`
}

// Message is sent by the miner to report on a search.
type Message struct {
	Type             Kind    `json:"type"`
	HashRate         float64 `json:"hashRate,omitempty"`
	Hash             string  `json:"hash,omitempty"`
	Nonce            uint64  `json:"nonce"`
	HashesCalculated uint64  `json:"hashesCalculated"`
	Time             int64   `json:"time,omitempty"` // Milliseconds the search took.
}

// =============================================================================

// Miner manages the goroutine performing the nonce search.
type Miner struct {
	cfg       Config
	evHandler EventHandler

	mu       sync.Mutex
	wg       sync.WaitGroup
	cancel   context.CancelFunc
	requests chan Request
	messages chan Message
}

// New constructs a miner that is not yet running.
func New(cfg Config, evHandler EventHandler) *Miner {
	if cfg.Buffer <= 0 {
		cfg.Buffer = 100
	}

	if evHandler == nil {
		evHandler = func(v string, args ...any) {}
	}

	return &Miner{
		cfg:       cfg,
		evHandler: evHandler,
	}
}

// Spawn starts the miner goroutine if it is not already running and returns
// the channel messages will be delivered on. Every spawn gets a new channel
// so nothing from a terminated search is ever seen.
func (m *Miner) Spawn() <-chan Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		return m.messages
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.requests = make(chan Request, 1)
	m.messages = make(chan Message, m.cfg.Buffer)

	requests := m.requests
	messages := m.messages

	m.wg.Add(1)
	hasStarted := make(chan bool)

	go func() {
		defer m.wg.Done()
		hasStarted <- true
		m.run(ctx, requests, messages)
	}()

	<-hasStarted
	m.evHandler("miner: spawn: G started")

	return messages
}

// Post hands a template to the running miner. It returns false when there
// is no miner or a search is already queued.
func (m *Miner) Post(req Request) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel == nil {
		m.evHandler("miner: post: no miner running")
		return false
	}

	select {
	case m.requests <- req:
		return true
	default:
		m.evHandler("miner: post: request already queued")
		return false
	}
}

// Running reports whether the miner goroutine exists.
func (m *Miner) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.cancel != nil
}

// Terminate stops any search in progress and waits for the goroutine to
// exit. The next Spawn starts from scratch.
func (m *Miner) Terminate() {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.requests = nil
	m.messages = nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}

	m.evHandler("miner: terminate: started")
	defer m.evHandler("miner: terminate: completed")

	cancel()
	m.wg.Wait()
}

// =============================================================================

// run performs one search for every request it receives until the context
// is cancelled.
func (m *Miner) run(ctx context.Context, requests <-chan Request, messages chan<- Message) {
	for {
		select {
		case req := <-requests:
			m.search(ctx, req, messages)
		case <-ctx.Done():
			return
		}
	}
}

// search looks for a nonce that produces a hash with the required number of
// leading zeros.
func (m *Miner) search(ctx context.Context, req Request, messages chan<- Message) {
	preimage, err := req.BlockData.Preimage()
	if err != nil {
		m.evHandler("miner: search: preimage: ERROR: %s", err)
		return
	}

	hashPower := min(max(req.HashPower, database.MinHashPower), database.MaxHashPower)
	batch := uint64(hashPower * 5)

	m.evHandler("miner: search: started: blk[%d] difficulty[%d] batch[%d]", req.BlockData.ID, req.Difficulty, batch)

	start := time.Now()
	var hashes uint64

	progress := func(nonce uint64) {
		msg := Message{
			Type:             KindProgress,
			HashRate:         hashRate(hashes, time.Since(start)),
			Nonce:            nonce,
			HashesCalculated: hashes,
		}

		select {
		case messages <- msg:
		default:
		}
	}

	progress(0)

	for nonce := uint64(0); ; nonce += batch {
		if ctx.Err() != nil {
			m.evHandler("miner: search: cancelled: hashes[%d]", hashes)
			return
		}

		for i := uint64(0); i < batch; i++ {
			current := nonce + i

			hash := database.HashWithNonce(preimage, current)
			hashes++

			if hashing.MeetsDifficulty(hash, req.Difficulty) {
				msg := Message{
					Type:             KindSuccess,
					Hash:             hash,
					Nonce:            current,
					HashesCalculated: hashes,
					Time:             time.Since(start).Milliseconds(),
				}

				m.evHandler("miner: search: solved: nonce[%d] hashes[%d] hash[%s]", current, hashes, hash)

				select {
				case messages <- msg:
				case <-ctx.Done():
				}
				return
			}

			if hashes%progressEvery == 0 {
				progress(current)
			}

			if m.cfg.PauseEvery > 0 && m.cfg.Pause > 0 && hashes%m.cfg.PauseEvery == 0 {
				select {
				case <-time.After(m.cfg.Pause):
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

// hashRate computes hashes per second rounded to a whole number.
func hashRate(hashes uint64, elapsed time.Duration) float64 {
	secs := elapsed.Seconds()
	if secs <= 0 {
		return 0
	}

	return math.Round(float64(hashes) / secs)
}
