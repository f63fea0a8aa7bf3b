// Package cmd contains the wallet app.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Names of the settings shared by every command. Each can be set with a
// flag or a WALLET_ prefixed environment variable.
const (
	keyURL  = "url"
	keyFile = "file"
)

var rootCmd = &cobra.Command{
	Use:           "wallet",
	Short:         "Your BlockCoin wallet",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringP(keyURL, "u", "http://localhost:8080", "Url of the node.")
	rootCmd.PersistentFlags().StringP(keyFile, "f", "zblock/wallet.env", "Path to the saved wallet file.")

	viper.BindPFlag(keyURL, rootCmd.PersistentFlags().Lookup(keyURL))
	viper.BindPFlag(keyFile, rootCmd.PersistentFlags().Lookup(keyFile))

	viper.SetEnvPrefix("WALLET")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// Execute runs the command named on the command line.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}

func nodeClient() client {
	return client{url: strings.TrimSuffix(viper.GetString(keyURL), "/")}
}

func walletFile() string {
	return viper.GetString(keyFile)
}
