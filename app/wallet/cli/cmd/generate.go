package cmd

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ardanlabs/blockcoin/foundation/blockchain/wallet"
	"github.com/spf13/cobra"
)

type walletCreated struct {
	WalletID   string `json:"walletId"`
	Address    string `json:"address"`
	Passphrase string `json:"passphrase"`
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Create a new wallet and save its passphrase.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var wc walletCreated
		if err := nodeClient().do(http.MethodPost, "/wallets", nil, &wc); err != nil {
			return err
		}

		if err := saveWallet(walletFile(), saved{WalletID: wc.WalletID, Passphrase: wc.Passphrase}); err != nil {
			return err
		}

		fmt.Println("Address:   ", wc.Address)
		fmt.Println("Passphrase:", wc.Passphrase)
		fmt.Println("Saved to:  ", walletFile())
		return nil
	},
}

var openCmd = &cobra.Command{
	Use:   "open <passphrase words...>",
	Short: "Open an existing wallet with its passphrase.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		passphrase := strings.Join(args, " ")
		if !wallet.IsMnemonic(passphrase) {
			fmt.Println("warning: passphrase is not a valid mnemonic")
		}

		var wo struct {
			WalletID string `json:"walletId"`
		}
		req := struct {
			Passphrase string `json:"passphrase"`
		}{
			Passphrase: passphrase,
		}
		if err := nodeClient().do(http.MethodPost, "/wallets/open", req, &wo); err != nil {
			return err
		}

		if err := saveWallet(walletFile(), saved{WalletID: wo.WalletID, Passphrase: passphrase}); err != nil {
			return err
		}

		fmt.Println("Opened:", wo.WalletID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(openCmd)
}
