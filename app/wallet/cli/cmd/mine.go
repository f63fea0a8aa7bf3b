package cmd

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/ardanlabs/blockcoin/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Show the mining status of the wallet.",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := loadWallet(walletFile())
		if err != nil {
			return err
		}

		var m struct {
			Status string               `json:"status"`
			Stats  database.MiningStats `json:"stats"`
		}
		if err := nodeClient().do(http.MethodGet, "/wallets/"+w.WalletID+"/mining", nil, &m); err != nil {
			return err
		}

		fmt.Printf("Status: %s  Blocks: %d  Hash rate: %.0f H/s  Power: %d\n", m.Status, m.Stats.BlocksMined, m.Stats.HashRate, m.Stats.HashPower)
		for _, line := range m.Stats.CurrentConsoleOutput {
			fmt.Println(line)
		}
		return nil
	},
}

var mineStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start mining blocks.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return signalMining("start")
	},
}

var mineStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop mining blocks.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return signalMining("stop")
	},
}

var minePowerCmd = &cobra.Command{
	Use:   "power <1-10>",
	Short: "Set the hash power used while mining.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		power, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("hash power must be a number: %w", err)
		}

		w, err := loadWallet(walletFile())
		if err != nil {
			return err
		}

		req := struct {
			HashPower int `json:"hashPower"`
		}{
			HashPower: power,
		}

		var stats database.MiningStats
		if err := nodeClient().do(http.MethodPut, "/wallets/"+w.WalletID+"/mining/power", req, &stats); err != nil {
			return err
		}

		fmt.Println("Hash power:", stats.HashPower)
		return nil
	},
}

func init() {
	mineCmd.AddCommand(mineStartCmd)
	mineCmd.AddCommand(mineStopCmd)
	mineCmd.AddCommand(minePowerCmd)
	rootCmd.AddCommand(mineCmd)
}

func signalMining(action string) error {
	w, err := loadWallet(walletFile())
	if err != nil {
		return err
	}

	var resp struct {
		Status string `json:"status"`
	}
	if err := nodeClient().do(http.MethodPost, "/wallets/"+w.WalletID+"/mining/"+action, nil, &resp); err != nil {
		return err
	}

	fmt.Println(resp.Status)
	return nil
}
