package wallet_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/ardanlabs/blockcoin/foundation/blockchain/wallet"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// =============================================================================

func Test_DeriveAddress(t *testing.T) {
	type table struct {
		passphrase string
		address    string
	}

	tt := []table{
		{passphrase: "abc", address: "0x" + strings.Repeat("0", 35) + "17862"},
		{passphrase: "a", address: "0x" + strings.Repeat("0", 38) + "61"},
		{passphrase: "hello world", address: "0x" + strings.Repeat("0", 32) + "6aefe2c4"},
	}

	t.Log("Given the need to derive an address from a passphrase.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen using %q.", testID, tst.passphrase)
			{
				addr, err := wallet.DeriveAddress(tst.passphrase)
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to derive the address: %v", failed, testID, err)
				}
				if addr != tst.address {
					t.Fatalf("\t%s\tTest %d:\tShould derive the expected address: got %s, exp %s", failed, testID, addr, tst.address)
				}
				t.Logf("\t%s\tTest %d:\tShould derive the expected address.", success, testID)

				again, _ := wallet.DeriveAddress(tst.passphrase)
				if again != addr {
					t.Fatalf("\t%s\tTest %d:\tShould be deterministic.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould be deterministic.", success, testID)

				if len(addr) != 42 {
					t.Fatalf("\t%s\tTest %d:\tShould be 42 characters: got %d", failed, testID, len(addr))
				}
				t.Logf("\t%s\tTest %d:\tShould be 42 characters.", success, testID)
			}
		}

		testID := len(tt)
		t.Logf("\tTest %d:\tWhen the passphrase is empty.", testID)
		{
			if _, err := wallet.DeriveAddress("  "); !errors.Is(err, wallet.ErrEmptyPassphrase) {
				t.Fatalf("\t%s\tTest %d:\tShould reject the passphrase: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould reject the passphrase.", success, testID)
		}
	}
}

func Test_Passphrase(t *testing.T) {
	t.Log("Given the need to generate a passphrase.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen generating a new passphrase.", testID)
		{
			p1, err := wallet.GeneratePassphrase()
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to generate a passphrase: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to generate a passphrase.", success, testID)

			if !wallet.IsMnemonic(p1) {
				t.Fatalf("\t%s\tTest %d:\tShould be a valid mnemonic: %s", failed, testID, p1)
			}
			t.Logf("\t%s\tTest %d:\tShould be a valid mnemonic.", success, testID)

			if n := len(strings.Fields(p1)); n != 12 {
				t.Fatalf("\t%s\tTest %d:\tShould have 12 words: got %d", failed, testID, n)
			}
			t.Logf("\t%s\tTest %d:\tShould have 12 words.", success, testID)

			p2, _ := wallet.GeneratePassphrase()
			if p1 == p2 {
				t.Fatalf("\t%s\tTest %d:\tShould generate unique passphrases.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould generate unique passphrases.", success, testID)
		}
	}
}

func Test_Recipient(t *testing.T) {
	random, err := wallet.NewRandomAddress()
	if err != nil {
		t.Fatalf("Should be able to generate a random address: %v", err)
	}

	type table struct {
		address string
		valid   bool
	}

	tt := []table{
		{address: random, valid: true},
		{address: "0x" + strings.Repeat("0", 35) + "17862", valid: true},
		{address: "", valid: false},
		{address: "0x", valid: false},
		{address: "F01813E4B85e178A83e29B8E7bF26BD830a25f32", valid: false},
		{address: "0xZZ1813E4B85e178A83e29B8E7bF26BD830a25f32", valid: false},
	}

	t.Log("Given the need to validate a recipient address.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen checking %q.", testID, tst.address)
			{
				if got := wallet.ValidRecipient(tst.address); got != tst.valid {
					t.Fatalf("\t%s\tTest %d:\tShould report %v: got %v", failed, testID, tst.valid, got)
				}
				t.Logf("\t%s\tTest %d:\tShould report %v.", success, testID, tst.valid)
			}
		}
	}
}
