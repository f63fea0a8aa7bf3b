package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Keys written to the wallet file.
const (
	envWalletID   = "BLOCKCOIN_WALLET_ID"
	envPassphrase = "BLOCKCOIN_PASSPHRASE"
)

// saved is the wallet remembered between runs.
type saved struct {
	WalletID   string
	Passphrase string
}

func saveWallet(path string, w saved) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	env := map[string]string{
		envWalletID:   w.WalletID,
		envPassphrase: w.Passphrase,
	}

	if err := godotenv.Write(env, path); err != nil {
		return fmt.Errorf("save wallet: %w", err)
	}

	return os.Chmod(path, 0600)
}

func loadWallet(path string) (saved, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return saved{}, errors.New("no saved wallet: run generate or open first")
		}
		return saved{}, fmt.Errorf("load wallet: %w", err)
	}

	w := saved{
		WalletID:   env[envWalletID],
		Passphrase: env[envPassphrase],
	}

	if w.WalletID == "" {
		return saved{}, fmt.Errorf("load wallet: %s missing from %s", envWalletID, path)
	}

	return w, nil
}
