package state

import (
	"fmt"

	"github.com/ardanlabs/blockcoin/foundation/blockchain/database"
	"github.com/ardanlabs/blockcoin/foundation/blockchain/genesis"
)

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveChain returns a copy of the chain.
func (s *State) RetrieveChain() database.Chain {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.chain.Copy()
}

// RetrieveBlock returns a copy of the block with the specified number.
func (s *State) RetrieveBlock(num uint64) (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if num >= uint64(len(s.chain.Blocks)) {
		return database.Block{}, fmt.Errorf("block %d: %w", num, ErrNotFound)
	}

	return s.chain.Copy().Blocks[num], nil
}

// RetrievePending returns a copy of the pending transactions.
func (s *State) RetrievePending() []database.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.chain.Copy().PendingTransactions
}

// RetrieveWallet returns a copy of the wallet.
func (s *State) RetrieveWallet() database.Wallet {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wallet.Copy()
}

// RetrieveStats returns a copy of the mining stats.
func (s *State) RetrieveStats() database.MiningStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stats.Copy()
}

// RetrieveMarket returns a copy of the market data.
func (s *State) RetrieveMarket() database.MarketData {
	s.mu.Lock()
	defer s.mu.Unlock()

	md := s.market
	md.PriceHistory = append([]database.PricePoint(nil), s.market.PriceHistory...)

	return md
}
