package state

import (
	"fmt"

	"github.com/ardanlabs/blockcoin/foundation/blockchain/database"
)

// BuildTemplate constructs the next block to be mined on top of the latest
// block. When there is nothing pending, a reward to this wallet is used so
// there is always something to mine.
func (s *State) BuildTemplate() database.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	trans := s.chain.PendingTransactions
	if len(trans) == 0 {
		trans = []database.Transaction{
			database.NewRewardTx(s.wallet.Address, s.chain.MiningReward, database.TxPending),
		}
	}

	tmpl := database.NewTemplate(s.chain.LatestBlock(), trans, s.wallet.Address, s.chain.Difficulty)

	s.evHandler("state: BuildTemplate: blk[%d] trans[%d] difficulty[%d]", tmpl.ID, len(tmpl.Data), tmpl.Difficulty)

	return tmpl
}

// ProcessMinedBlock takes the template that was mined along with the hash
// and nonce the miner found, appends the block to the chain and credits the
// mining reward. If the chain moved on while mining, the block is rejected
// and nothing changes.
func (s *State) ProcessMinedBlock(tmpl database.Block, hash string, nonce uint64) (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: ProcessMinedBlock: started: blk[%d] nonce[%d] hash[%s]", tmpl.ID, nonce, hash)
	defer s.evHandler("state: ProcessMinedBlock: completed")

	block, err := tmpl.Finalize(hash, nonce)
	if err != nil {
		return database.Block{}, err
	}

	chain := s.chain.Copy()
	if err := chain.TryAppend(block, s.appendOps); err != nil {
		s.evHandler("state: ProcessMinedBlock: rejected: %s", err)
		return database.Block{}, fmt.Errorf("append: %w", err)
	}

	w := s.wallet.Copy()
	confirm(&w, block)

	reward := database.NewRewardTx(w.Address, chain.MiningReward, database.TxConfirmed)
	w.Credit(reward)

	stats := s.stats.Copy()
	stats.BlocksMined++

	err = s.commit(
		write{key: s.keys.Chain, record: RecordChain, next: chain, prev: s.chain},
		write{key: s.keys.Wallet, record: RecordWallet, next: w, prev: s.wallet},
		write{key: s.keys.Stats, record: RecordStats, next: stats, prev: s.stats},
	)
	if err != nil {
		return database.Block{}, err
	}

	s.chain = chain
	s.wallet = w
	s.stats = stats

	s.evHandler("state: ProcessMinedBlock: reward[%v] balance[%v] mined[%d]", reward.Amount, w.Balance, stats.BlocksMined)

	return block, nil
}

// confirm marks the wallet's transactions recorded in the block as
// confirmed.
func confirm(w *database.Wallet, block database.Block) {
	ids := make(map[string]struct{}, len(block.Data))
	for _, tx := range block.Data {
		ids[tx.ID] = struct{}{}
	}

	for i, tx := range w.Transactions {
		if _, exists := ids[tx.ID]; exists {
			w.Transactions[i].Status = database.TxConfirmed
		}
	}
}
