package worker

import (
	"fmt"
	"time"

	"github.com/ardanlabs/blockcoin/foundation/blockchain/database"
	"github.com/ardanlabs/blockcoin/foundation/blockchain/miner"
)

// round holds what is needed to finish the search in progress.
type round struct {
	tmpl     database.Block
	messages <-chan miner.Message
}

// miningOperations handles mining. It is the only G that talks to the miner
// and the only one that starts and finishes rounds.
func (w *Worker) miningOperations() {
	w.evHandler("worker: miningOperations: G started")
	defer w.evHandler("worker: miningOperations: G completed")

	var (
		current  round
		cooldown *time.Timer
		rearm    <-chan time.Time
	)

	stopCooldown := func() {
		if cooldown != nil {
			cooldown.Stop()
			cooldown = nil
			rearm = nil
		}
	}

	startCooldown := func() {
		stopCooldown()
		cooldown = time.NewTimer(w.cooldown)
		rearm = cooldown.C
	}

	for {
		select {
		case <-w.startMining:
			if w.Status() == StatusMining {
				continue
			}

			w.evHandler("worker: miningOperations: MINING: started")
			w.setStatus(StatusMining)
			w.logError(w.state.SetMiningActive(true))
			w.logError(w.state.AppendConsole("> Mining initialized.", "> Calculating hash..."))

			stopCooldown()
			current = w.startRound()
			if current.messages == nil {
				startCooldown()
			}

		case done := <-w.stopMining:
			if w.Status() != StatusMining {
				ack(done)
				continue
			}

			w.evHandler("worker: miningOperations: MINING: stopped")
			stopCooldown()
			w.miner.Terminate()
			current = round{}

			w.setStatus(StatusStopped)
			w.logError(w.state.SetMiningActive(false))
			w.logError(w.state.AppendConsole("> Mining stopped."))
			ack(done)

		case msg := <-current.messages:
			switch msg.Type {
			case miner.KindProgress:
				w.logError(w.state.RecordProgress(msg.HashRate,
					fmt.Sprintf("> Mining at %v H/s", msg.HashRate),
					fmt.Sprintf("> Current nonce: %d", msg.Nonce),
				))

			case miner.KindSuccess:
				w.finishRound(current.tmpl, msg)
				current.messages = nil
				startCooldown()
			}

		case <-rearm:
			cooldown = nil
			rearm = nil

			if w.Status() != StatusMining {
				continue
			}

			current = w.startRound()
			if current.messages == nil {
				startCooldown()
			}

		case <-w.shut:
			w.evHandler("worker: miningOperations: received shut signal")
			stopCooldown()
			w.miner.Terminate()

			if w.Status() == StatusMining {
				w.logError(w.state.SetMiningActive(false))
			}
			w.setStatus(StatusStopped)
			return
		}
	}
}

// startRound builds a template from the tip of the chain and hands it to
// the miner. A round with no message channel could not be started.
func (w *Worker) startRound() round {
	tmpl := w.state.BuildTemplate()
	stats := w.state.RetrieveStats()

	messages := w.miner.Spawn()

	req := miner.Request{
		BlockData:  tmpl,
		Difficulty: tmpl.Difficulty,
		HashPower:  stats.HashPower,
	}

	if !w.miner.Post(req) {
		w.evHandler("worker: startRound: MINING: unable to post template")
		w.logError(w.state.AppendConsole("> Miner unavailable, retrying."))
		return round{}
	}

	w.evHandler("worker: startRound: MINING: blk[%d] hashPower[%d]", tmpl.ID, stats.HashPower)

	return round{tmpl: tmpl, messages: messages}
}

// finishRound takes the solution from the miner and tries to add the block
// to the chain. A rejected block is lost.
func (w *Worker) finishRound(tmpl database.Block, msg miner.Message) {
	w.evHandler("worker: finishRound: MINING: solved: nonce[%d] hashes[%d] duration[%dms]", msg.Nonce, msg.HashesCalculated, msg.Time)

	block, err := w.state.ProcessMinedBlock(tmpl, msg.Hash, msg.Nonce)
	if err != nil {
		w.evHandler("worker: finishRound: MINING: ERROR: %s", err)
		w.logError(w.state.AppendConsole(fmt.Sprintf("> Block rejected: %s", err)))
		return
	}

	w.logError(w.state.AppendConsole(
		"> Block successfully mined!",
		fmt.Sprintf("> Block #%d added to the blockchain", block.ID),
		fmt.Sprintf("> Hash: %s", formatHash(block.Hash)),
		fmt.Sprintf("> Reward: %v BC received", w.state.RetrieveChain().MiningReward),
	))
}

// ack tells a waiting caller the stop has been handled.
func ack(done chan struct{}) {
	if done != nil {
		close(done)
	}
}

// logError reports a failure to persist the records. The round carries on.
func (w *Worker) logError(err error) {
	if err != nil {
		w.evHandler("worker: ERROR: %s", err)
	}
}

// formatHash shortens a hash for the console.
func formatHash(hash string) string {
	const chars = 10
	if len(hash) <= chars*2 {
		return hash
	}

	return hash[:chars] + "..." + hash[len(hash)-chars:]
}
