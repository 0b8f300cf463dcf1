package market

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"solana-pool-sentinel/internal/domain"
)

// Birdeye reads the most recent swaps of a token.
type Birdeye struct {
	client  *resty.Client
	enabled bool
	limit   int
}

// NewBirdeye creates a Birdeye client. Without an API key it returns no trades.
func NewBirdeye(cfg ClientConfig, apiKey string, limit int) *Birdeye {
	if limit <= 0 {
		limit = 50
	}
	if cfg.Headers == nil {
		cfg.Headers = map[string]string{}
	}
	cfg.Headers["X-API-KEY"] = apiKey
	cfg.Headers["x-chain"] = "solana"

	return &Birdeye{
		client:  newRestClient(cfg),
		enabled: apiKey != "",
		limit:   limit,
	}
}

type birdeyeTxsResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Items []struct {
			Side  string `json:"side"`
			Owner string `json:"owner"`
		} `json:"items"`
	} `json:"data"`
}

// RecentTrades returns the latest swaps of token, newest first.
func (b *Birdeye) RecentTrades(ctx context.Context, token string) ([]domain.RecentTrade, error) {
	if !b.enabled {
		return nil, nil
	}

	var resp birdeyeTxsResponse
	err := getJSON(ctx, b.client, "birdeye", "/defi/txs/token", map[string]string{
		"address":   token,
		"tx_type":   "swap",
		"sort_type": "desc",
		"limit":     strconv.Itoa(b.limit),
	}, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("birdeye %s trades: %w", token, ErrUnavailable)
	}

	trades := make([]domain.RecentTrade, 0, len(resp.Data.Items))
	for _, it := range resp.Data.Items {
		side := strings.ToLower(it.Side)
		if side != domain.SideBuy && side != domain.SideSell {
			continue
		}
		trades = append(trades, domain.RecentTrade{Type: side, Buyer: it.Owner})
	}
	return trades, nil
}
