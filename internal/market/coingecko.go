package market

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

// CoinGecko is the native asset price oracle.
type CoinGecko struct {
	client *resty.Client
	coinID string
}

// NewCoinGecko creates an oracle for the given coin id ("solana" when empty).
func NewCoinGecko(cfg ClientConfig, coinID string) *CoinGecko {
	if coinID == "" {
		coinID = "solana"
	}
	return &CoinGecko{client: newRestClient(cfg), coinID: coinID}
}

// NativePriceUSD returns the current USD price of the native asset.
func (g *CoinGecko) NativePriceUSD(ctx context.Context) (decimal.Decimal, error) {
	var resp map[string]map[string]decimal.Decimal
	err := getJSON(ctx, g.client, "coingecko", "/simple/price", map[string]string{
		"ids":           g.coinID,
		"vs_currencies": "usd",
	}, &resp)
	if err != nil {
		return decimal.Zero, err
	}

	price, ok := resp[g.coinID]["usd"]
	if !ok || !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("coingecko %s price: %w", g.coinID, ErrUnavailable)
	}
	return price, nil
}
