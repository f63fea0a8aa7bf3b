package state

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/blockcoin/foundation/blockchain/database"
	"github.com/ardanlabs/blockcoin/foundation/blockchain/wallet"
)

// Set of errors returned when a request can't be processed.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidRecipient  = errors.New("invalid recipient address")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrInsufficientFunds = database.ErrInsufficientFunds
	ErrInvalidHashPower  = errors.New("hash power out of range")
)

// SubmitSend accepts a transfer of coins out of the wallet. The wallet is
// debited immediately and the transaction waits in pending until a block
// is mined.
func (s *State) SubmitSend(to string, amount float64) (database.Transaction, error) {
	switch {
	case !wallet.ValidRecipient(to):
		return database.Transaction{}, fmt.Errorf("%w: %q", ErrInvalidRecipient, to)
	case !(amount > 0):
		return database.Transaction{}, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	from := s.wallet.Address

	tx, err := database.NewTransaction(&from, to, amount, database.TxSend, database.TxPending)
	if err != nil {
		return database.Transaction{}, err
	}

	if amount > s.wallet.Balance {
		return database.Transaction{}, fmt.Errorf("%w: bal %v, needed %v", ErrInsufficientFunds, s.wallet.Balance, amount)
	}

	s.evHandler("state: SubmitSend: tx[%s]", tx)

	chain := s.chain.Copy()
	w := s.wallet.Copy()

	// Coins sent back to the same wallet never leave it.
	switch {
	case to == from:
		w.Record(tx)
	default:
		if err := w.Debit(tx); err != nil {
			return database.Transaction{}, err
		}
	}

	chain.AddPending(tx)

	err = s.commit(
		write{key: s.keys.Chain, record: RecordChain, next: chain, prev: s.chain},
		write{key: s.keys.Wallet, record: RecordWallet, next: w, prev: s.wallet},
	)
	if err != nil {
		return database.Transaction{}, err
	}

	s.chain = chain
	s.wallet = w

	return tx, nil
}
