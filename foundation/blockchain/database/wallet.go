package database

import (
	"errors"
	"fmt"
)

// ErrInsufficientFunds is returned when a wallet can't cover a debit.
var ErrInsufficientFunds = errors.New("insufficient funds")

// Wallet represents the balance and history of an identity's account.
type Wallet struct {
	Address      string        `json:"address"`
	Balance      float64       `json:"balance"`
	Transactions []Transaction `json:"transactions"`
}

// NewWallet constructs a wallet with a starting balance.
func NewWallet(address string, balance float64) Wallet {
	return Wallet{
		Address:      address,
		Balance:      balance,
		Transactions: []Transaction{},
	}
}

// Debit removes the transaction amount from the balance and records the
// transaction. The balance can never go negative.
func (w *Wallet) Debit(tx Transaction) error {
	if tx.Amount > w.Balance {
		return fmt.Errorf("%w: bal %v, needed %v", ErrInsufficientFunds, w.Balance, tx.Amount)
	}

	w.Balance -= tx.Amount
	w.Transactions = append(w.Transactions, tx)

	return nil
}

// Credit adds the transaction amount to the balance and records the
// transaction.
func (w *Wallet) Credit(tx Transaction) {
	w.Balance += tx.Amount
	w.Transactions = append(w.Transactions, tx)
}

// Record adds the transaction to the history without touching the balance.
func (w *Wallet) Record(tx Transaction) {
	w.Transactions = append(w.Transactions, tx)
}

// Copy returns a wallet that shares no slices with the original.
func (w Wallet) Copy() Wallet {
	w.Transactions = copyTransactions(w.Transactions)
	return w
}
