// Package database handles the records that make up an identity's view of
// the blockchain: the chain itself, the wallet, and the mining telemetry.
package database

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/blockcoin/foundation/blockchain/genesis"
	"github.com/ardanlabs/blockcoin/foundation/blockchain/hashing"
)

// ErrEmptyChain is returned when a chain has no genesis block.
var ErrEmptyChain = errors.New("chain has no genesis block")

// AppendOptions controls how strict the chain is when accepting blocks.
type AppendOptions struct {
	VerifyDifficulty bool
}

// =============================================================================

// Chain represents the blocks and pending transactions for an identity.
type Chain struct {
	Blocks              []Block       `json:"blocks"`
	PendingTransactions []Transaction `json:"pendingTransactions"`
	Difficulty          int           `json:"difficulty"`
	MiningReward        float64       `json:"miningReward"`
	InitialCoins        float64       `json:"initialCoins"`
}

// NewChain constructs a chain holding only the genesis block.
func NewChain(gen genesis.Genesis) (Chain, error) {
	block, err := GenesisBlock(gen)
	if err != nil {
		return Chain{}, fmt.Errorf("genesis block: %w", err)
	}

	chain := Chain{
		Blocks:              []Block{block},
		PendingTransactions: []Transaction{},
		Difficulty:          gen.Difficulty,
		MiningReward:        gen.MiningReward,
		InitialCoins:        gen.InitialCoins,
	}

	return chain, nil
}

// LatestBlock returns the last block in the chain.
func (c Chain) LatestBlock() Block {
	if len(c.Blocks) == 0 {
		return Block{}
	}
	return c.Blocks[len(c.Blocks)-1]
}

// AddPending appends a transaction to the set waiting to be mined.
func (c *Chain) AddPending(tx Transaction) {
	c.PendingTransactions = append(c.PendingTransactions, tx)
}

// TryAppend validates the candidate against the latest block and, if it
// passes, appends it and clears the pending transactions. A rejected block
// leaves the chain untouched.
func (c *Chain) TryAppend(block Block, opts AppendOptions) error {
	if len(c.Blocks) == 0 {
		return ErrEmptyChain
	}

	if err := block.ValidateBlock(c.LatestBlock(), opts.VerifyDifficulty); err != nil {
		return err
	}

	c.Blocks = append(c.Blocks, block.copy())
	c.PendingTransactions = []Transaction{}

	return nil
}

// Validate walks the entire chain checking the genesis block, the linkage
// and the hash of every block.
func (c Chain) Validate(opts AppendOptions) error {
	if len(c.Blocks) == 0 {
		return ErrEmptyChain
	}

	gen := c.Blocks[0]
	if gen.ID != 0 || gen.PreviousHash != hashing.ZeroHash || gen.Difficulty != 0 {
		return errors.New("invalid genesis block header")
	}

	hash, err := gen.CalculateHash()
	if err != nil {
		return err
	}
	if hash != gen.Hash {
		return fmt.Errorf("genesis: %w", ErrHashMismatch)
	}

	for i := 1; i < len(c.Blocks); i++ {
		if err := c.Blocks[i].ValidateBlock(c.Blocks[i-1], opts.VerifyDifficulty); err != nil {
			return fmt.Errorf("block[%d]: %w", i, err)
		}
	}

	return nil
}

// Copy returns a deep copy of the chain so it can be handed out safely.
func (c Chain) Copy() Chain {
	blocks := make([]Block, len(c.Blocks))
	for i, b := range c.Blocks {
		blocks[i] = b.copy()
	}

	c.Blocks = blocks
	c.PendingTransactions = copyTransactions(c.PendingTransactions)

	return c
}
