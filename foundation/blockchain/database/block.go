package database

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/ardanlabs/blockcoin/foundation/blockchain/genesis"
	"github.com/ardanlabs/blockcoin/foundation/blockchain/hashing"
)

// Set of errors returned when a block is rejected by the chain.
var (
	ErrBrokenLinkage    = errors.New("previous hash doesn't match the latest block")
	ErrHashMismatch     = errors.New("block hash doesn't match its content")
	ErrNotNextNumber    = errors.New("block is not the next number in the chain")
	ErrDifficultyNotMet = errors.New("block hash doesn't meet the difficulty")
)

// =============================================================================

// Block represents a group of transactions batched together. A block with
// an empty hash is a template that has not been mined yet.
type Block struct {
	ID           uint64        `json:"id"`           // Block number in the chain.
	TimeStamp    int64         `json:"timestamp"`    // Milliseconds since epoch.
	PreviousHash string        `json:"previousHash"` // Hash of the previous block in the chain.
	Hash         string        `json:"hash"`         // Hash of this block's content.
	Data         []Transaction `json:"data"`         // Transactions recorded in this block.
	Nonce        uint64        `json:"nonce"`        // Value identified to solve the hash solution.
	Miner        string        `json:"miner"`        // Address of the account who mined the block.
	Difficulty   int           `json:"difficulty"`   // Number of 0's needed to solve the hash solution.
	Size         float64       `json:"size"`         // Estimated size of the data in KB.
}

// NewTemplate constructs the next block to be mined on top of the specified
// block. The hash and nonce will be identified by the POW search.
func NewTemplate(prevBlock Block, trans []Transaction, miner string, difficulty int) Block {
	return Block{
		ID:           prevBlock.ID + 1,
		TimeStamp:    time.Now().UnixMilli(),
		PreviousHash: prevBlock.Hash,
		Data:         copyTransactions(trans),
		Nonce:        0,
		Miner:        miner,
		Difficulty:   difficulty,
	}
}

// GenesisBlock constructs the first block of every chain.
func GenesisBlock(gen genesis.Genesis) (Block, error) {
	timestamp := gen.Date.UnixMilli()

	tx := NewRewardTx(gen.Network, gen.InitialCoins, TxConfirmed)
	tx.TimeStamp = timestamp

	block := Block{
		ID:           0,
		TimeStamp:    timestamp,
		PreviousHash: hashing.ZeroHash,
		Data:         []Transaction{tx},
		Nonce:        0,
		Miner:        gen.Network,
		Difficulty:   0,
	}

	size, err := DataSizeKB(block.Data)
	if err != nil {
		return Block{}, err
	}
	block.Size = size

	hash, err := block.CalculateHash()
	if err != nil {
		return Block{}, err
	}
	block.Hash = hash

	return block, nil
}

// IsTemplate reports whether the block still needs to be mined.
func (b Block) IsTemplate() bool {
	return b.Hash == ""
}

// Finalize returns a copy of the template with the mined hash and nonce
// attached and the size computed.
func (b Block) Finalize(hash string, nonce uint64) (Block, error) {
	size, err := DataSizeKB(b.Data)
	if err != nil {
		return Block{}, err
	}

	nb := b
	nb.Data = copyTransactions(b.Data)
	nb.Hash = hash
	nb.Nonce = nonce
	nb.Size = size

	return nb, nil
}

// Preimage returns the bytes that are hashed for this block minus the nonce:
// id, timestamp, previous hash and the JSON encoded transactions.
func (b Block) Preimage() ([]byte, error) {
	data, err := MarshalTransactions(b.Data)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 0, len(data)+len(b.PreviousHash)+64)
	buf = strconv.AppendUint(buf, b.ID, 10)
	buf = strconv.AppendInt(buf, b.TimeStamp, 10)
	buf = append(buf, b.PreviousHash...)
	buf = append(buf, data...)

	return buf, nil
}

// CalculateHash recomputes the hash of the block from its content.
func (b Block) CalculateHash() (string, error) {
	preimage, err := b.Preimage()
	if err != nil {
		return "", err
	}

	return HashWithNonce(preimage, b.Nonce), nil
}

// ValidateBlock takes a block and validates it to be appended after the
// specified previous block.
func (b Block) ValidateBlock(previousBlock Block, verifyDifficulty bool) error {
	if b.PreviousHash != previousBlock.Hash {
		return fmt.Errorf("%w: got %s, exp %s", ErrBrokenLinkage, b.PreviousHash, previousBlock.Hash)
	}

	hash, err := b.CalculateHash()
	if err != nil {
		return err
	}

	if hash != b.Hash {
		return fmt.Errorf("%w: got %s, exp %s", ErrHashMismatch, b.Hash, hash)
	}

	if b.ID != previousBlock.ID+1 {
		return fmt.Errorf("%w: got %d, exp %d", ErrNotNextNumber, b.ID, previousBlock.ID+1)
	}

	if verifyDifficulty && !hashing.MeetsDifficulty(b.Hash, b.Difficulty) {
		return fmt.Errorf("%w: %s at difficulty %d", ErrDifficultyNotMet, b.Hash, b.Difficulty)
	}

	return nil
}

// copy returns a block that shares no slices with the original.
func (b Block) copy() Block {
	b.Data = copyTransactions(b.Data)
	return b
}

// =============================================================================

// HashWithNonce hashes the preimage of a block with the nonce appended. The
// preimage is not modified.
func HashWithNonce(preimage []byte, nonce uint64) string {
	buf := make([]byte, len(preimage), len(preimage)+20)
	copy(buf, preimage)
	buf = strconv.AppendUint(buf, nonce, 10)

	return hashing.Hash(buf)
}

// MarshalTransactions produces the JSON encoding of the transactions that
// is covered by the block hash. An empty list encodes as [].
func MarshalTransactions(trans []Transaction) ([]byte, error) {
	if trans == nil {
		trans = []Transaction{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(trans); err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// DataSizeKB estimates the size of the transactions in KB rounded to one
// decimal place, counting one byte per character of JSON.
func DataSizeKB(trans []Transaction) (float64, error) {
	data, err := MarshalTransactions(trans)
	if err != nil {
		return 0, err
	}

	return math.Round(float64(len(data))/1024*10) / 10, nil
}
