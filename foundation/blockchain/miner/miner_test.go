package miner_test

import (
	"strings"
	"testing"
	"time"

	"github.com/ardanlabs/blockcoin/foundation/blockchain/database"
	"github.com/ardanlabs/blockcoin/foundation/blockchain/genesis"
	"github.com/ardanlabs/blockcoin/foundation/blockchain/miner"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// =============================================================================

func Test_Search(t *testing.T) {
	t.Log("Given the need to mine a block in the background.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen mining at difficulty 1 with hash power 5.", testID)
		{
			tmpl := template(t, 1)

			m := miner.New(miner.Config{}, t.Logf)
			defer m.Terminate()

			messages := m.Spawn()
			if !m.Post(miner.Request{BlockData: tmpl, Difficulty: 1, HashPower: 5}) {
				t.Fatalf("\t%s\tTest %d:\tShould be able to post the template.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to post the template.", success, testID)

			msg, progress := waitSuccess(t, messages)

			if !strings.HasPrefix(msg.Hash, "0") {
				t.Fatalf("\t%s\tTest %d:\tShould find a hash with a leading zero: %s", failed, testID, msg.Hash)
			}
			t.Logf("\t%s\tTest %d:\tShould find a hash with a leading zero.", success, testID)

			block, err := tmpl.Finalize(msg.Hash, msg.Nonce)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to finalize the block: %v", failed, testID, err)
			}
			hash, _ := block.CalculateHash()
			if hash != msg.Hash {
				t.Fatalf("\t%s\tTest %d:\tShould report the block hash: got %s, exp %s", failed, testID, msg.Hash, hash)
			}
			t.Logf("\t%s\tTest %d:\tShould report the block hash.", success, testID)

			if msg.HashesCalculated != msg.Nonce+1 {
				t.Fatalf("\t%s\tTest %d:\tShould search nonces in order: nonce %d hashes %d", failed, testID, msg.Nonce, msg.HashesCalculated)
			}
			t.Logf("\t%s\tTest %d:\tShould search nonces in order.", success, testID)

			if len(progress) == 0 || progress[0].HashesCalculated != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould report progress at zero hashes: %+v", failed, testID, progress)
			}
			for i := 1; i < len(progress); i++ {
				if progress[i].HashesCalculated < progress[i-1].HashesCalculated {
					t.Fatalf("\t%s\tTest %d:\tShould report non-decreasing progress: %+v", failed, testID, progress)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould report non-decreasing progress.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the miner is terminated and spawned again.", testID)
		{
			tmpl := template(t, 2)
			req := miner.Request{BlockData: tmpl, Difficulty: 2, HashPower: 10}

			m := miner.New(miner.Config{}, t.Logf)
			defer m.Terminate()

			first, _ := waitSuccess(t, spawnPost(t, m, req))
			m.Terminate()

			if m.Running() {
				t.Fatalf("\t%s\tTest %d:\tShould not be running after terminate.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould not be running after terminate.", success, testID)

			second, _ := waitSuccess(t, spawnPost(t, m, req))

			if first.Nonce != second.Nonce || first.HashesCalculated != second.HashesCalculated {
				t.Fatalf("\t%s\tTest %d:\tShould search again from nonce 0: first %+v second %+v", failed, testID, first, second)
			}
			t.Logf("\t%s\tTest %d:\tShould search again from nonce 0.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the miner is terminated mid-search and spawned again.", testID)
		{
			req := miner.Request{BlockData: template(t, 64), Difficulty: 64, HashPower: 5}

			m := miner.New(miner.Config{Pause: time.Millisecond, PauseEvery: 1000}, t.Logf)
			defer m.Terminate()

			last := waitProgress(t, spawnPost(t, m, req), func(msg miner.Message) bool { return msg.HashesCalculated > 0 })
			m.Terminate()
			t.Logf("\t%s\tTest %d:\tShould terminate after %d hashes.", success, testID, last.HashesCalculated)

			first := waitProgress(t, spawnPost(t, m, req), func(miner.Message) bool { return true })
			if first.Nonce != 0 || first.HashesCalculated != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould start the new search from nonce 0: %+v", failed, testID, first)
			}
			t.Logf("\t%s\tTest %d:\tShould start the new search from nonce 0.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen terminating a search that can't finish.", testID)
		{
			m := miner.New(miner.Config{Pause: time.Millisecond, PauseEvery: 1000}, t.Logf)
			spawnPost(t, m, miner.Request{BlockData: template(t, 64), Difficulty: 64, HashPower: 1})

			done := make(chan struct{})
			go func() {
				m.Terminate()
				close(done)
			}()

			select {
			case <-done:
			case <-time.After(5 * time.Second):
				t.Fatalf("\t%s\tTest %d:\tShould terminate the search.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould terminate the search.", success, testID)

			if m.Post(miner.Request{}) {
				t.Fatalf("\t%s\tTest %d:\tShould not accept work without a miner.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould not accept work without a miner.", success, testID)
		}
	}
}

// =============================================================================

func template(t *testing.T, difficulty int) database.Block {
	chain, err := database.NewChain(genesis.Default())
	if err != nil {
		t.Fatalf("Should be able to construct the chain: %v", err)
	}

	reward := database.NewRewardTx("0xminer", chain.MiningReward, database.TxPending)
	return database.NewTemplate(chain.LatestBlock(), []database.Transaction{reward}, "0xminer", difficulty)
}

func spawnPost(t *testing.T, m *miner.Miner, req miner.Request) <-chan miner.Message {
	messages := m.Spawn()
	if !m.Post(req) {
		t.Fatalf("Should be able to post the template.")
	}
	return messages
}

func waitSuccess(t *testing.T, messages <-chan miner.Message) (miner.Message, []miner.Message) {
	var progress []miner.Message
	timeout := time.After(30 * time.Second)

	for {
		select {
		case msg := <-messages:
			switch msg.Type {
			case miner.KindProgress:
				progress = append(progress, msg)
			case miner.KindSuccess:
				return msg, progress
			}
		case <-timeout:
			t.Fatalf("Should receive a success message.")
		}
	}
}

func waitProgress(t *testing.T, messages <-chan miner.Message, match func(miner.Message) bool) miner.Message {
	timeout := time.After(30 * time.Second)

	for {
		select {
		case msg := <-messages:
			if msg.Type == miner.KindProgress && match(msg) {
				return msg
			}
		case <-timeout:
			t.Fatalf("Should receive a progress message.")
		}
	}
}
