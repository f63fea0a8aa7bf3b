package cmd

import (
	"fmt"
	"net/http"

	"github.com/ardanlabs/blockcoin/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var blockNumber int

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Print the blocks of the wallet's chain.",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := loadWallet(walletFile())
		if err != nil {
			return err
		}

		c := nodeClient()
		base := "/wallets/" + w.WalletID + "/chain"

		if blockNumber >= 0 {
			var block database.Block
			if err := c.do(http.MethodGet, fmt.Sprintf("%s/blocks/%d", base, blockNumber), nil, &block); err != nil {
				return err
			}
			printBlock(block)
			return nil
		}

		var chain struct {
			Length     int                    `json:"length"`
			Difficulty int                    `json:"difficulty"`
			Blocks     []database.Block       `json:"blocks"`
			Pending    []database.Transaction `json:"pendingTransactions"`
		}
		if err := c.do(http.MethodGet, base, nil, &chain); err != nil {
			return err
		}

		fmt.Printf("Blocks: %d  Difficulty: %d  Pending: %d\n", chain.Length, chain.Difficulty, len(chain.Pending))
		for _, block := range chain.Blocks {
			printBlock(block)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chainCmd)
	chainCmd.Flags().IntVarP(&blockNumber, "block", "b", -1, "Only print the block with this number.")
}

func printBlock(b database.Block) {
	fmt.Printf("#%-4d %s  prev %s  nonce %d  txs %d  %.1f KB\n", b.ID, b.Hash, b.PreviousHash, b.Nonce, len(b.Data), b.Size)
}
