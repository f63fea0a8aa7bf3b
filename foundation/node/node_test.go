package node_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ardanlabs/blockcoin/foundation/blockchain/genesis"
	"github.com/ardanlabs/blockcoin/foundation/blockchain/storage"
	"github.com/ardanlabs/blockcoin/foundation/blockchain/storage/memory"
	"github.com/ardanlabs/blockcoin/foundation/blockchain/wallet"
	"github.com/ardanlabs/blockcoin/foundation/blockchain/worker"
	"github.com/ardanlabs/blockcoin/foundation/node"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Wallets(t *testing.T) {
	t.Log("Given the need to manage wallet identities.")
	{
		store := memory.New()

		n := node.New(node.Config{
			Store:            store,
			Genesis:          genesis.Default(),
			VerifyDifficulty: true,
			Worker:           worker.Config{Cooldown: time.Millisecond},
			EvHandler:        t.Logf,
		})
		defer n.Shutdown()

		testID := 0
		t.Logf("\tTest %d:\tWhen creating a wallet.", testID)
		var passphrase, walletID string
		{
			p, sess, err := n.CreateWallet()
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to create a wallet: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to create a wallet.", success, testID)

			addr, _ := wallet.DeriveAddress(p)
			if sess.WalletID != addr || sess.State.RetrieveWallet().Address != addr {
				t.Fatalf("\t%s\tTest %d:\tShould use the derived address: %s %s", failed, testID, sess.WalletID, addr)
			}
			t.Logf("\t%s\tTest %d:\tShould use the derived address.", success, testID)

			if _, err := store.Get(storage.KeysFor(addr).Chain); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould persist the chain: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould persist the chain.", success, testID)

			if sess.Worker.Status() != worker.StatusIdle {
				t.Fatalf("\t%s\tTest %d:\tShould have an idle worker.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould have an idle worker.", success, testID)

			passphrase, walletID = p, addr
		}

		testID++
		t.Logf("\tTest %d:\tWhen opening the wallet again.", testID)
		{
			sess, err := n.OpenWallet(passphrase)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to open the wallet: %v", failed, testID, err)
			}
			if sess.WalletID != walletID {
				t.Fatalf("\t%s\tTest %d:\tShould open the same wallet.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould open the same wallet.", success, testID)

			again, _ := n.Session(walletID)
			if again != sess {
				t.Fatalf("\t%s\tTest %d:\tShould share the open session.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould share the open session.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen opening an unknown wallet.", testID)
		{
			if _, err := n.OpenWallet("nobody knows this passphrase"); !errors.Is(err, node.ErrWalletNotFound) {
				t.Fatalf("\t%s\tTest %d:\tShould not find the wallet: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould not find the wallet.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen a new node opens a stored wallet.", testID)
		{
			n2 := node.New(node.Config{Store: store, Genesis: genesis.Default()})
			defer n2.Shutdown()

			sess, err := n2.Session(walletID)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to open the stored wallet: %v", failed, testID, err)
			}
			if sess.State.RetrieveWallet().Balance != 100 {
				t.Fatalf("\t%s\tTest %d:\tShould load the stored wallet.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould load the stored wallet.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen deleting the wallet.", testID)
		{
			if err := n.Delete(walletID); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to delete the wallet: %v", failed, testID, err)
			}

			for _, key := range storage.KeysFor(walletID).All() {
				if _, err := store.Get(key); !errors.Is(err, storage.ErrNotFound) {
					t.Fatalf("\t%s\tTest %d:\tShould remove %s: %v", failed, testID, key, err)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould remove every record.", success, testID)

			if _, err := n.Session(walletID); !errors.Is(err, node.ErrWalletNotFound) {
				t.Fatalf("\t%s\tTest %d:\tShould not find the deleted wallet: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould not find the deleted wallet.", success, testID)
		}
	}
}
