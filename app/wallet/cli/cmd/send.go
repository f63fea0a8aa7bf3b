package cmd

import (
	"fmt"
	"net/http"

	"github.com/ardanlabs/blockcoin/foundation/blockchain/database"
	"github.com/ardanlabs/blockcoin/foundation/blockchain/wallet"
	"github.com/spf13/cobra"
)

var (
	to     string
	amount float64
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send coins to another address.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !wallet.ValidRecipient(to) {
			return fmt.Errorf("invalid recipient address %q", to)
		}

		w, err := loadWallet(walletFile())
		if err != nil {
			return err
		}

		req := struct {
			To     string  `json:"to"`
			Amount float64 `json:"amount"`
		}{
			To:     to,
			Amount: amount,
		}

		var tx database.Transaction
		if err := nodeClient().do(http.MethodPost, "/wallets/"+w.WalletID+"/send", req, &tx); err != nil {
			return err
		}

		fmt.Printf("Transaction %s: %.2f BLC to %s is %s\n", tx.ID, tx.Amount, tx.ToAddress, tx.Status)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Address of the recipient.")
	sendCmd.Flags().Float64VarP(&amount, "amount", "a", 0, "Amount to send.")
	sendCmd.MarkFlagRequired("to")
	sendCmd.MarkFlagRequired("amount")
}
