// Package market produces the display-only market data shown alongside a
// wallet. None of it feeds back into the chain.
package market

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/ardanlabs/blockcoin/foundation/blockchain/database"
)

// Summary figures a new identity starts with.
const (
	CurrentPrice      = 27.84
	PriceChange       = 3.2
	MarketCap         = 1_450_000_000
	MarketCapRank     = 42
	TotalSupply       = 21_000_000
	CirculatingSupply = 17_300_000
)

const (
	historyDays = 180
	basePrice   = 25.0
	volatility  = 0.05
)

// Default constructs the market data for a new identity with a price
// history ending on the specified day.
func Default(now time.Time, rng *rand.Rand) database.MarketData {
	return database.MarketData{
		CurrentPrice:      CurrentPrice,
		PriceChange:       PriceChange,
		MarketCap:         MarketCap,
		MarketCapRank:     MarketCapRank,
		TotalSupply:       TotalSupply,
		CirculatingSupply: CirculatingSupply,
		PriceHistory:      History(now, rng),
	}
}

// History generates one price point per day for the last six months, oldest
// first. Prices trend down towards the base price as the date approaches now.
func History(now time.Time, rng *rand.Rand) []database.PricePoint {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(now.UnixNano()), 0))
	}

	now = now.UTC()
	history := make([]database.PricePoint, 0, historyDays+1)

	for i := historyDays; i >= 0; i-- {
		date := now.AddDate(0, 0, -i)

		dailyChange := (rng.Float64()*2 - 1) * volatility
		price := basePrice * (1 + float64(i)/100*(rng.Float64()*0.5+0.5) + dailyChange)

		history = append(history, database.PricePoint{
			Date:  date.Format(time.DateOnly),
			Price: math.Round(price*100) / 100,
		})
	}

	return history
}
