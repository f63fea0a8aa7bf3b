// Package wallet provides support for creating wallet identities. None of
// this is cryptographically meaningful; addresses are a rolling hash of the
// passphrase so the same passphrase always opens the same wallet.
package wallet

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip39"
)

// ErrEmptyPassphrase is returned when a passphrase has no content.
var ErrEmptyPassphrase = errors.New("passphrase is required")

// entropyBits produces a 12 word mnemonic.
const entropyBits = 128

// GeneratePassphrase returns a new BIP-39 mnemonic.
func GeneratePassphrase() (string, error) {
	entropy, err := bip39.NewEntropy(entropyBits)
	if err != nil {
		return "", fmt.Errorf("entropy: %w", err)
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("mnemonic: %w", err)
	}

	return mnemonic, nil
}

// IsMnemonic reports whether the passphrase is a valid BIP-39 mnemonic.
// Older passphrases are free text so this is advisory only.
func IsMnemonic(passphrase string) bool {
	return bip39.IsMnemonicValid(passphrase)
}

// DeriveAddress produces the wallet address for the passphrase. It is a
// 32 bit rolling hash over the UTF-16 code units of the passphrase, rendered
// as a 0x prefixed 40 digit hex string. The address doubles as the wallet id.
func DeriveAddress(passphrase string) (string, error) {
	if strings.TrimSpace(passphrase) == "" {
		return "", ErrEmptyPassphrase
	}

	var hash int32
	for _, c := range utf16.Encode([]rune(passphrase)) {
		hash = (hash << 5) - hash + int32(c)
	}

	abs := int64(hash)
	if abs < 0 {
		abs = -abs
	}

	hex := strconv.FormatInt(abs, 16)
	return "0x" + strings.Repeat("0", 40-len(hex)) + hex, nil
}

// NewRandomAddress returns the address of a freshly generated key. It is used
// when there is no passphrase to derive an address from.
func NewRandomAddress() (string, error) {
	pk, err := crypto.GenerateKey()
	if err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}

	return strings.ToLower(crypto.PubkeyToAddress(pk.PublicKey).Hex()), nil
}

// ValidRecipient reports whether the address can receive coins: a 0x
// prefixed 40 digit hex string.
func ValidRecipient(address string) bool {
	if !strings.HasPrefix(address, "0x") {
		return false
	}

	return common.IsHexAddress(address)
}
