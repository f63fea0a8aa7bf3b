package public

import (
	"github.com/ardanlabs/blockcoin/foundation/blockchain/database"
	"github.com/ardanlabs/blockcoin/foundation/blockchain/genesis"
	"github.com/ardanlabs/blockcoin/foundation/blockchain/worker"
)

type walletCreated struct {
	WalletID   string `json:"walletId"`
	Address    string `json:"address"`
	Passphrase string `json:"passphrase"`
}

type walletOpened struct {
	WalletID string          `json:"walletId"`
	Wallet   database.Wallet `json:"wallet"`
}

type openRequest struct {
	Passphrase string `json:"passphrase" validate:"required"`
}

type sendRequest struct {
	To     string  `json:"to" validate:"required,startswith=0x,len=42"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

type powerRequest struct {
	HashPower int `json:"hashPower" validate:"required,min=1,max=10"`
}

type chain struct {
	Genesis      genesis.Genesis        `json:"genesis"`
	Length       int                    `json:"length"`
	Difficulty   int                    `json:"difficulty"`
	MiningReward float64                `json:"miningReward"`
	LatestBlock  database.Block         `json:"latestBlock"`
	Blocks       []database.Block       `json:"blocks"`
	Pending      []database.Transaction `json:"pendingTransactions"`
}

type mining struct {
	Status worker.Status        `json:"status"`
	Stats  database.MiningStats `json:"stats"`
}
