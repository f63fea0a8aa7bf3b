package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TxType represents the kind of transaction.
type TxType string

// Set of transaction kinds.
const (
	TxMiningReward TxType = "MINING_REWARD"
	TxTransfer     TxType = "TRANSFER"
	TxReceive      TxType = "RECEIVE"
	TxSend         TxType = "SEND"
)

// TxStatus represents where a transaction is in its lifecycle.
type TxStatus string

// Set of transaction statuses.
const (
	TxPending   TxStatus = "PENDING"
	TxConfirmed TxStatus = "CONFIRMED"
	TxFailed    TxStatus = "FAILED"
)

// =============================================================================

// Transaction is the transfer of coins between two parties. The field order
// is significant since blocks hash the JSON encoding of their transactions.
type Transaction struct {
	ID          string   `json:"id"`          // Unique id for the transaction.
	TimeStamp   int64    `json:"timestamp"`   // Milliseconds since epoch.
	FromAddress *string  `json:"fromAddress"` // Null for system issued coins.
	ToAddress   string   `json:"toAddress"`   // Account receiving the coins.
	Amount      float64  `json:"amount"`      // Coins being moved.
	Type        TxType   `json:"type"`
	Status      TxStatus `json:"status"`
}

// NewTransaction constructs a new transaction with a unique id.
func NewTransaction(from *string, to string, amount float64, typ TxType, status TxStatus) (Transaction, error) {
	if to == "" {
		return Transaction{}, errors.New("to address is required")
	}

	if amount < 0 {
		return Transaction{}, fmt.Errorf("amount %v must not be negative", amount)
	}

	if from == nil && typ != TxMiningReward {
		return Transaction{}, fmt.Errorf("from address is required for %s", typ)
	}

	tx := Transaction{
		ID:          uuid.NewString(),
		TimeStamp:   time.Now().UnixMilli(),
		FromAddress: from,
		ToAddress:   to,
		Amount:      amount,
		Type:        typ,
		Status:      status,
	}

	return tx, nil
}

// NewRewardTx constructs a system issued mining reward for the specified
// address.
func NewRewardTx(to string, amount float64, status TxStatus) Transaction {
	return Transaction{
		ID:        uuid.NewString(),
		TimeStamp: time.Now().UnixMilli(),
		ToAddress: to,
		Amount:    amount,
		Type:      TxMiningReward,
		Status:    status,
	}
}

// From returns the sender address or an empty string for system issued coins.
func (tx Transaction) From() string {
	if tx.FromAddress == nil {
		return ""
	}
	return *tx.FromAddress
}

// String implements the fmt.Stringer interface for logging.
func (tx Transaction) String() string {
	from := tx.From()
	if from == "" {
		from = "system"
	}

	return fmt.Sprintf("%s:%s->%s:%v", tx.Type, from, tx.ToAddress, tx.Amount)
}

// copyTransactions returns a new slice so callers can't share the backing
// array of a record.
func copyTransactions(trans []Transaction) []Transaction {
	cpy := make([]Transaction, len(trans))
	copy(cpy, trans)
	return cpy
}
