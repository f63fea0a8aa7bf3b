package market_test

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/ardanlabs/blockcoin/foundation/blockchain/market"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Default(t *testing.T) {
	t.Log("Given the need to produce market data.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen building the default data.", testID)
		{
			now := time.Date(2024, time.March, 31, 15, 0, 0, 0, time.UTC)
			md := market.Default(now, rand.New(rand.NewPCG(1, 2)))

			if md.CurrentPrice != market.CurrentPrice || md.MarketCapRank != market.MarketCapRank {
				t.Fatalf("\t%s\tTest %d:\tShould have the summary figures: %+v", failed, testID, md)
			}
			t.Logf("\t%s\tTest %d:\tShould have the summary figures.", success, testID)

			if len(md.PriceHistory) != 181 {
				t.Fatalf("\t%s\tTest %d:\tShould have 181 days of history: got %d", failed, testID, len(md.PriceHistory))
			}
			t.Logf("\t%s\tTest %d:\tShould have 181 days of history.", success, testID)

			first, last := md.PriceHistory[0], md.PriceHistory[180]
			if last.Date != "2024-03-31" || first.Date != "2023-10-03" {
				t.Fatalf("\t%s\tTest %d:\tShould span the last six months: %s to %s", failed, testID, first.Date, last.Date)
			}
			t.Logf("\t%s\tTest %d:\tShould span the last six months.", success, testID)

			for _, p := range md.PriceHistory {
				if p.Price <= 0 {
					t.Fatalf("\t%s\tTest %d:\tShould have positive prices: %+v", failed, testID, p)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould have positive prices.", success, testID)
		}
	}
}
