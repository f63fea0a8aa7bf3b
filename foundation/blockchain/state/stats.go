package state

import (
	"fmt"

	"github.com/ardanlabs/blockcoin/foundation/blockchain/database"
)

// SetMiningActive records whether the miner should be running.
func (s *State) SetMiningActive(active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.IsActive = active
	if !active {
		s.stats.HashRate = 0
	}

	return s.saveStats()
}

// SetHashPower changes the hash power used for the next search.
func (s *State) SetHashPower(hashPower int) error {
	if !database.ValidHashPower(hashPower) {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidHashPower, hashPower, database.MinHashPower, database.MaxHashPower)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.HashPower = hashPower
	return s.saveStats()
}

// RecordProgress stores the hash rate reported by the miner and adds the
// console lines.
func (s *State) RecordProgress(hashRate float64, lines ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.HashRate = hashRate
	s.stats.AppendConsole(lines...)

	return s.saveStats()
}

// AppendConsole adds lines to the mining console.
func (s *State) AppendConsole(lines ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.AppendConsole(lines...)
	return s.saveStats()
}
