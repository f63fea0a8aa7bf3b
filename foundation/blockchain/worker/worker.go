// Package worker implements the mining workflow for an identity. It owns the
// background miner and keeps mining rounds going until told to stop.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/ardanlabs/blockcoin/foundation/blockchain/miner"
	"github.com/ardanlabs/blockcoin/foundation/blockchain/state"
)

// DefaultCooldown is the pause between a mined block and the next round.
const DefaultCooldown = 2 * time.Second

// Status represents where the worker is in its lifecycle.
type Status string

// Set of worker statuses.
const (
	StatusIdle    Status = "idle"
	StatusMining  Status = "mining"
	StatusStopped Status = "stopped"
)

// Config represents the settings for the mining workflow.
type Config struct {
	Miner    miner.Config
	Cooldown time.Duration
}

// =============================================================================

// Worker manages the POW workflow for an identity.
type Worker struct {
	state       *state.State
	miner       *miner.Miner
	cooldown    time.Duration
	evHandler   state.EventHandler
	wg          sync.WaitGroup
	shut        chan struct{}
	startMining chan bool
	stopMining  chan chan struct{}

	mu     sync.RWMutex
	status Status
}

// Run creates a worker and starts up the goroutine that drives the mining
// rounds. Mining does not begin until Start is called.
func Run(st *state.State, cfg Config, evHandler state.EventHandler) *Worker {
	if evHandler == nil {
		evHandler = func(v string, args ...any) {}
	}

	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultCooldown
	}

	w := Worker{
		state:       st,
		miner:       miner.New(cfg.Miner, miner.EventHandler(evHandler)),
		cooldown:    cfg.Cooldown,
		evHandler:   evHandler,
		shut:        make(chan struct{}),
		startMining: make(chan bool, 1),
		stopMining:  make(chan chan struct{}, 1),
		status:      StatusIdle,
	}

	w.wg.Add(1)

	// We don't want to return until we know the G is up and running.
	hasStarted := make(chan bool)

	go func() {
		defer w.wg.Done()
		hasStarted <- true
		w.miningOperations()
	}()

	<-hasStarted

	return &w
}

// Shutdown terminates the goroutine performing work.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	w.evHandler("worker: shutdown: terminate goroutines")
	close(w.shut)
	w.wg.Wait()
}

// Start signals the worker to begin mining. If there is already a signal
// pending in the channel, just return since mining will start.
func (w *Worker) Start() {
	select {
	case w.startMining <- true:
	default:
	}
	w.evHandler("worker: Start: mining signaled")
}

// Stop signals the worker to terminate the miner and stop re-arming.
func (w *Worker) Stop() {
	select {
	case w.stopMining <- nil:
	default:
	}
	w.evHandler("worker: Stop: stop signaled")
}

// StopWait signals the worker to stop and waits until it has. Once it
// returns, no round will touch the records until mining is started again.
func (w *Worker) StopWait(ctx context.Context) error {
	done := make(chan struct{})

	select {
	case w.stopMining <- done:
	case <-w.shut:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}

	w.evHandler("worker: StopWait: stop signaled")

	select {
	case <-done:
		return nil
	case <-w.shut:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Status returns the current status of the worker.
func (w *Worker) Status() Status {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.status
}

// =============================================================================

func (w *Worker) setStatus(status Status) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.status = status
}
