package market

import (
	"context"
	"fmt"
	"net/url"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"solana-pool-sentinel/internal/domain"
)

// DexScreener reads pair statistics and USD prices.
type DexScreener struct {
	client *resty.Client
}

// NewDexScreener creates a DexScreener client.
func NewDexScreener(cfg ClientConfig) *DexScreener {
	return &DexScreener{client: newRestClient(cfg)}
}

type dexTokensResponse struct {
	Pairs []dexPair `json:"pairs"`
}

type dexPair struct {
	PairAddress string `json:"pairAddress"`
	PriceUSD    string `json:"priceUsd"`
	Txns        struct {
		H24 struct {
			Buys  int64 `json:"buys"`
			Sells int64 `json:"sells"`
		} `json:"h24"`
	} `json:"txns"`
	Volume struct {
		H1 float64 `json:"h1"`
	} `json:"volume"`
	Liquidity struct {
		USD float64 `json:"usd"`
	} `json:"liquidity"`
}

// mostLiquid returns the pair with the highest USD liquidity.
// Pairs without a liquidity figure count as zero, so the first pair wins a tie.
func mostLiquid(pairs []dexPair) dexPair {
	best := pairs[0]
	for _, p := range pairs[1:] {
		if p.Liquidity.USD > best.Liquidity.USD {
			best = p
		}
	}
	return best
}

// Pair returns statistics of the token's most liquid pair.
// Recent trades are not filled.
func (d *DexScreener) Pair(ctx context.Context, token string) (*domain.PairData, error) {
	var resp dexTokensResponse
	if err := getJSON(ctx, d.client, "dexscreener", "/latest/dex/tokens/"+url.PathEscape(token), nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Pairs) == 0 {
		return nil, fmt.Errorf("dexscreener %s: %w", token, ErrNoPairs)
	}

	p := mostLiquid(resp.Pairs)
	data := &domain.PairData{
		PairAddress: p.PairAddress,
		Buys24h:     p.Txns.H24.Buys,
		Sells24h:    p.Txns.H24.Sells,
		Volume1h:    p.Volume.H1,
	}
	if p.PriceUSD != "" {
		price, err := decimal.NewFromString(p.PriceUSD)
		if err != nil {
			return nil, fmt.Errorf("dexscreener %s: parse priceUsd %q: %w", token, p.PriceUSD, err)
		}
		data.PriceUSD = price
	}
	return data, nil
}

// PriceUSD returns the token's USD price from its most liquid pair.
// A missing or non-positive price is ErrUnavailable.
func (d *DexScreener) PriceUSD(ctx context.Context, token string) (decimal.Decimal, error) {
	pair, err := d.Pair(ctx, token)
	if err != nil {
		return decimal.Zero, err
	}
	if !pair.PriceUSD.IsPositive() {
		return decimal.Zero, fmt.Errorf("dexscreener %s price: %w", token, ErrUnavailable)
	}
	return pair.PriceUSD, nil
}
