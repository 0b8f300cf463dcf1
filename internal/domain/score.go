package domain

import "github.com/shopspring/decimal"

// Category is the trade category derived from the confidence score.
type Category string

const (
	CategoryNoTrade        Category = "NoTrade"
	CategoryConfidence     Category = "Confidence"
	CategoryHighConfidence Category = "HighConfidence"
)

// String returns the string representation of Category.
func (c Category) String() string {
	return string(c)
}

// IsTrade reports whether the category leads to a buy.
func (c Category) IsTrade() bool {
	return c == CategoryConfidence || c == CategoryHighConfidence
}

// IsValid checks if the category is a known value.
func (c Category) IsValid() bool {
	return c == CategoryNoTrade || c.IsTrade()
}

// ScoreSnapshot is the result of one scoring pass for a token.
// Not persisted.
type ScoreSnapshot struct {
	MQS        int // momentum quality score, 0..100
	TAS        int // trigger aggregation score
	Confidence int // ScoreX confidence, 0..100
	Category   Category
}

// Trade sides reported by market data.
const (
	SideBuy  = "buy"
	SideSell = "sell"
)

// RecentTrade is a single recent swap on the token's pair.
type RecentTrade struct {
	Type  string // buy | sell
	Buyer string // wallet that initiated the swap
}

// PairData is the market snapshot of the most liquid pair of a token.
type PairData struct {
	PairAddress  string
	Buys24h      int64
	Sells24h     int64
	Volume1h     float64 // quote-currency volume over the last hour
	PriceUSD     decimal.Decimal
	RecentTrades []RecentTrade
}

// Tx24h returns the number of transactions over the last 24h.
func (p *PairData) Tx24h() int64 {
	return p.Buys24h + p.Sells24h
}

// RecentBuyers returns buyer addresses of recent buy trades, in order.
func (p *PairData) RecentBuyers() []string {
	var buyers []string
	for _, t := range p.RecentTrades {
		if t.Type == SideBuy && t.Buyer != "" {
			buyers = append(buyers, t.Buyer)
		}
	}
	return buyers
}

// TradeSignal is handed from scoring to the position manager.
type TradeSignal struct {
	Token      string
	MQS        int
	Confidence int
	Category   Category
}
