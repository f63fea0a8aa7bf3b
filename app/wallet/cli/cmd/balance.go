package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ardanlabs/blockcoin/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var showTxs bool

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print your balance.",
	RunE:  balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
	balanceCmd.Flags().BoolVarP(&showTxs, "transactions", "t", false, "List the wallet transactions.")
}

func balanceRun(cmd *cobra.Command, args []string) error {
	w, err := loadWallet(walletFile())
	if err != nil {
		return err
	}

	var wal database.Wallet
	if err := nodeClient().do(http.MethodGet, "/wallets/"+w.WalletID, nil, &wal); err != nil {
		return err
	}

	fmt.Println("For Address:", wal.Address)
	fmt.Printf("Balance: %.2f BLC\n", wal.Balance)

	if showTxs {
		for _, tx := range wal.Transactions {
			fmt.Printf("%s %-7s %-9s %10.2f -> %s\n", time.UnixMilli(tx.TimeStamp).Format(time.DateTime), tx.Type, tx.Status, tx.Amount, tx.ToAddress)
		}
	}

	return nil
}
