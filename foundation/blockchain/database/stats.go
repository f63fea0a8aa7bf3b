package database

// Limits on the configurable hash power.
const (
	MinHashPower     = 1
	MaxHashPower     = 10
	DefaultHashPower = 5
)

// MaxConsoleLines is the size of the rolling console window.
const MaxConsoleLines = 50

// MiningStats is the operational telemetry for the mining controller. It is
// not part of the ledger.
type MiningStats struct {
	HashRate             float64  `json:"hashRate"`
	BlocksMined          int      `json:"blocksMined"`
	IsActive             bool     `json:"isActive"`
	HashPower            int      `json:"hashPower"`
	CurrentConsoleOutput []string `json:"currentConsoleOutput"`
}

// NewMiningStats constructs the stats for an identity that has never mined.
func NewMiningStats() MiningStats {
	return MiningStats{
		HashPower:            DefaultHashPower,
		CurrentConsoleOutput: []string{"> Mining simulation ready."},
	}
}

// ValidHashPower reports whether the hash power is within range.
func ValidHashPower(hashPower int) bool {
	return hashPower >= MinHashPower && hashPower <= MaxHashPower
}

// AppendConsole adds lines to the console keeping only the most recent
// MaxConsoleLines.
func (ms *MiningStats) AppendConsole(lines ...string) {
	out := append(ms.CurrentConsoleOutput, lines...)
	if n := len(out) - MaxConsoleLines; n > 0 {
		out = append([]string(nil), out[n:]...)
	}
	ms.CurrentConsoleOutput = out
}

// Copy returns stats that share no slices with the original.
func (ms MiningStats) Copy() MiningStats {
	ms.CurrentConsoleOutput = append([]string(nil), ms.CurrentConsoleOutput...)
	return ms
}

// =============================================================================

// PricePoint is a single day of display-only market history.
type PricePoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// MarketData is display-only market information. It plays no part in the
// mining core.
type MarketData struct {
	CurrentPrice      float64      `json:"currentPrice"`
	PriceChange       float64      `json:"priceChange"`
	MarketCap         float64      `json:"marketCap"`
	MarketCapRank     int          `json:"marketCapRank"`
	TotalSupply       float64      `json:"totalSupply"`
	CirculatingSupply float64      `json:"circulatingSupply"`
	PriceHistory      []PricePoint `json:"priceHistory"`
}
