// Package genesis maintains access to the genesis settings every identity
// chain is created with.
package genesis

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// Network is the name used as the miner and recipient of the genesis block.
const Network = "BlockCoin Network"

// Genesis represents the genesis file.
type Genesis struct {
	Date         time.Time `json:"date"`          // Timestamp used for the genesis block.
	Network      string    `json:"network"`       // Miner name recorded on the genesis block.
	Difficulty   int       `json:"difficulty"`    // Number of leading 0's needed to solve the work problem.
	MiningReward float64   `json:"mining_reward"` // Reward for mining a block.
	InitialCoins float64   `json:"initial_coins"` // Starting balance of a new wallet.
}

// Default returns the settings new wallets are created with.
func Default() Genesis {
	return Genesis{
		Date:         time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC),
		Network:      Network,
		Difficulty:   2,
		MiningReward: 50,
		InitialCoins: 100,
	}
}

// =============================================================================

// Load opens and consumes the genesis file. Any field missing from the file
// keeps its default value.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	genesis := Default()
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("decoding genesis: %w", err)
	}

	if err := genesis.Validate(); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}

// Validate checks the settings are usable.
func (g Genesis) Validate() error {
	switch {
	case g.Difficulty < 0 || g.Difficulty > 64:
		return fmt.Errorf("difficulty %d out of range [0, 64]", g.Difficulty)
	case g.MiningReward < 0:
		return errors.New("mining reward must not be negative")
	case g.InitialCoins < 0:
		return errors.New("initial coins must not be negative")
	case g.Network == "":
		return errors.New("network name is required")
	}

	return nil
}
