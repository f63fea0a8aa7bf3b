package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/ardanlabs/blockcoin/app/services/node/handlers"
	"github.com/ardanlabs/blockcoin/business/web/errs"
	"github.com/ardanlabs/blockcoin/foundation/blockchain/database"
	"github.com/ardanlabs/blockcoin/foundation/blockchain/genesis"
	"github.com/ardanlabs/blockcoin/foundation/blockchain/storage/memory"
	"github.com/ardanlabs/blockcoin/foundation/blockchain/worker"
	"github.com/ardanlabs/blockcoin/foundation/events"
	"github.com/ardanlabs/blockcoin/foundation/node"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const recipient = "0xF01813E4B85e178A83e29B8E7bF26BD830a25f32"

func Test_WalletAPI(t *testing.T) {
	t.Log("Given the need to drive a wallet through the public API.")
	{
		nd := node.New(node.Config{
			Store:            memory.New(),
			Genesis:          genesis.Default(),
			VerifyDifficulty: true,
			Worker:           worker.Config{Cooldown: time.Millisecond},
			EvHandler:        t.Logf,
		})
		defer nd.Shutdown()

		mux := handlers.PublicMux(handlers.MuxConfig{
			Shutdown: make(chan os.Signal, 1),
			Log:      zap.NewNop().Sugar(),
			Node:     nd,
			Evts:     events.New(),
		})

		testID := 0
		t.Logf("\tTest %d:\tWhen creating a wallet.", testID)
		var created struct {
			WalletID   string `json:"walletId"`
			Address    string `json:"address"`
			Passphrase string `json:"passphrase"`
		}
		{
			w := call(mux, http.MethodPost, "/v1/wallets", nil)
			if w.Code != http.StatusCreated {
				t.Fatalf("\t%s\tTest %d:\tShould receive a 201 : %d %s", failed, testID, w.Code, w.Body)
			}
			t.Logf("\t%s\tTest %d:\tShould receive a 201.", success, testID)

			if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to decode the response : %v", failed, testID, err)
			}
			if created.WalletID == "" || created.Passphrase == "" || created.Address != created.WalletID {
				t.Fatalf("\t%s\tTest %d:\tShould return the wallet id and passphrase : %+v", failed, testID, created)
			}
			t.Logf("\t%s\tTest %d:\tShould return the wallet id and passphrase.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen reopening the wallet with its passphrase.", testID)
		{
			w := call(mux, http.MethodPost, "/v1/wallets/open", map[string]string{"passphrase": created.Passphrase})
			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest %d:\tShould receive a 200 : %d %s", failed, testID, w.Code, w.Body)
			}
			t.Logf("\t%s\tTest %d:\tShould receive a 200.", success, testID)
		}

		base := "/v1/wallets/" + created.WalletID

		testID++
		t.Logf("\tTest %d:\tWhen submitting sends.", testID)
		{
			table := []struct {
				name   string
				body   any
				status int
			}{
				{"bad recipient", map[string]any{"to": "0xZZ1813E4B85e178A83e29B8E7bF26BD830a25f32", "amount": 1}, http.StatusBadRequest},
				{"short recipient", map[string]any{"to": "0x1234", "amount": 1}, http.StatusBadRequest},
				{"zero amount", map[string]any{"to": recipient, "amount": 0}, http.StatusBadRequest},
				{"overdraw", map[string]any{"to": recipient, "amount": 500}, http.StatusBadRequest},
				{"unknown field", map[string]any{"to": recipient, "amount": 1, "tip": 1}, http.StatusBadRequest},
				{"valid", map[string]any{"to": recipient, "amount": 40}, http.StatusOK},
			}

			for _, tt := range table {
				w := call(mux, http.MethodPost, base+"/send", tt.body)
				if w.Code != tt.status {
					t.Fatalf("\t%s\tTest %d:\tShould receive a %d for %s : %d %s", failed, testID, tt.status, tt.name, w.Code, w.Body)
				}
				t.Logf("\t%s\tTest %d:\tShould receive a %d for %s.", success, testID, tt.status, tt.name)

				if tt.status == http.StatusBadRequest {
					var er errs.Response
					if err := json.NewDecoder(w.Body).Decode(&er); err != nil || er.Error == "" {
						t.Fatalf("\t%s\tTest %d:\tShould return an error message for %s.", failed, testID, tt.name)
					}
				}
			}

			var wal database.Wallet
			w := call(mux, http.MethodGet, base, nil)
			if err := json.NewDecoder(w.Body).Decode(&wal); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to decode the wallet : %v", failed, testID, err)
			}
			if wal.Balance != 60 || len(wal.Transactions) != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould debit only the valid send : %v %d", failed, testID, wal.Balance, len(wal.Transactions))
			}
			t.Logf("\t%s\tTest %d:\tShould debit only the valid send.", success, testID)

			var pending []database.Transaction
			w = call(mux, http.MethodGet, base+"/chain/pending", nil)
			if err := json.NewDecoder(w.Body).Decode(&pending); err != nil || len(pending) != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould list one pending transaction : %v %d", failed, testID, err, len(pending))
			}
			t.Logf("\t%s\tTest %d:\tShould list one pending transaction.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen reading the chain.", testID)
		{
			table := []struct {
				path   string
				status int
			}{
				{base + "/chain", http.StatusOK},
				{base + "/chain/blocks/0", http.StatusOK},
				{base + "/chain/blocks/99", http.StatusNotFound},
				{base + "/chain/blocks/abc", http.StatusBadRequest},
				{base + "/market", http.StatusOK},
				{base + "/mining", http.StatusOK},
				{"/v1/wallets/0x0000000000000000000000000000000000000000", http.StatusNotFound},
			}

			for _, tt := range table {
				w := call(mux, http.MethodGet, tt.path, nil)
				if w.Code != tt.status {
					t.Fatalf("\t%s\tTest %d:\tShould receive a %d for %s : %d", failed, testID, tt.status, tt.path, w.Code)
				}
				t.Logf("\t%s\tTest %d:\tShould receive a %d for %s.", success, testID, tt.status, tt.path)
			}
		}

		testID++
		t.Logf("\tTest %d:\tWhen changing the hash power.", testID)
		{
			if w := call(mux, http.MethodPut, base+"/mining/power", map[string]int{"hashPower": 11}); w.Code != http.StatusBadRequest {
				t.Fatalf("\t%s\tTest %d:\tShould reject hash power 11 : %d", failed, testID, w.Code)
			}
			t.Logf("\t%s\tTest %d:\tShould reject hash power 11.", success, testID)

			w := call(mux, http.MethodPut, base+"/mining/power", map[string]int{"hashPower": 8})
			var stats database.MiningStats
			if err := json.NewDecoder(w.Body).Decode(&stats); err != nil || stats.HashPower != 8 {
				t.Fatalf("\t%s\tTest %d:\tShould set hash power 8 : %d %d", failed, testID, w.Code, stats.HashPower)
			}
			t.Logf("\t%s\tTest %d:\tShould set hash power 8.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen resetting the wallet while it mines.", testID)
		{
			if w := call(mux, http.MethodPost, base+"/mining/start", nil); w.Code != http.StatusAccepted {
				t.Fatalf("\t%s\tTest %d:\tShould start mining : %d", failed, testID, w.Code)
			}
			t.Logf("\t%s\tTest %d:\tShould start mining.", success, testID)

			var mn struct {
				Status worker.Status        `json:"status"`
				Stats  database.MiningStats `json:"stats"`
			}
			for deadline := time.Now().Add(5 * time.Second); mn.Status != worker.StatusMining; time.Sleep(5 * time.Millisecond) {
				if time.Now().After(deadline) {
					t.Fatalf("\t%s\tTest %d:\tShould report mining : %s", failed, testID, mn.Status)
				}
				json.NewDecoder(call(mux, http.MethodGet, base+"/mining", nil).Body).Decode(&mn)
			}

			w := call(mux, http.MethodPost, base+"/reset", nil)
			var wal database.Wallet
			if err := json.NewDecoder(w.Body).Decode(&wal); err != nil || w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest %d:\tShould receive a 200 : %d %v", failed, testID, w.Code, err)
			}
			t.Logf("\t%s\tTest %d:\tShould receive a 200.", success, testID)

			if wal.Balance != 100 || len(wal.Transactions) != 0 || wal.Address != created.Address {
				t.Fatalf("\t%s\tTest %d:\tShould restore the starting wallet : %+v", failed, testID, wal)
			}
			t.Logf("\t%s\tTest %d:\tShould restore the starting wallet.", success, testID)

			mn.Status, mn.Stats = "", database.MiningStats{}
			w = call(mux, http.MethodGet, base+"/mining", nil)
			if err := json.NewDecoder(w.Body).Decode(&mn); err != nil || mn.Status == worker.StatusMining || mn.Stats.IsActive || mn.Stats.BlocksMined != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould leave mining stopped : %v %+v", failed, testID, err, mn)
			}
			t.Logf("\t%s\tTest %d:\tShould leave mining stopped.", success, testID)

			time.Sleep(20 * time.Millisecond)

			var ch struct {
				Length int `json:"length"`
			}
			w = call(mux, http.MethodGet, base+"/chain", nil)
			if err := json.NewDecoder(w.Body).Decode(&ch); err != nil || ch.Length != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould keep only the genesis block : %v %d", failed, testID, err, ch.Length)
			}
			t.Logf("\t%s\tTest %d:\tShould keep only the genesis block.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen deleting the wallet.", testID)
		{
			if w := call(mux, http.MethodDelete, base, nil); w.Code != http.StatusNoContent {
				t.Fatalf("\t%s\tTest %d:\tShould receive a 204 : %d", failed, testID, w.Code)
			}
			t.Logf("\t%s\tTest %d:\tShould receive a 204.", success, testID)

			if w := call(mux, http.MethodGet, base, nil); w.Code != http.StatusNotFound {
				t.Fatalf("\t%s\tTest %d:\tShould no longer find the wallet : %d", failed, testID, w.Code)
			}
			t.Logf("\t%s\tTest %d:\tShould no longer find the wallet.", success, testID)
		}
	}
}

func call(h http.Handler, method string, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	r := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	return w
}
