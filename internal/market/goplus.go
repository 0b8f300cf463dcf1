package market

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

// GoPlus reads token holder concentration from the GoPlus token security API.
// BaseURL is the full token_security endpoint.
type GoPlus struct {
	client *resty.Client
}

// NewGoPlus creates a GoPlus client.
func NewGoPlus(cfg ClientConfig) *GoPlus {
	return &GoPlus{client: newRestClient(cfg)}
}

type goplusResponse struct {
	Code    int                        `json:"code"`
	Message string                     `json:"message"`
	Result  map[string]goplusTokenInfo `json:"result"`
}

type goplusTokenInfo struct {
	Top10HolderRate *string `json:"top_10_holder_rate"`
}

// unindexedShare is reported when GoPlus answers without a rate for the token.
// Fresh pools are often not indexed yet; they count as fully concentrated.
const unindexedShare = 100.0

// Top10HolderShare returns the percentage of supply held by the ten largest holders.
// A successful response without an entry or rate for token reports 100%.
// Request, status and decode failures are returned as errors.
func (g *GoPlus) Top10HolderShare(ctx context.Context, token string) (float64, error) {
	var resp goplusResponse
	err := getJSON(ctx, g.client, "goplus", "", map[string]string{
		"contract_addresses": token,
	}, &resp)
	if err != nil {
		return 0, err
	}

	info, ok := resp.Result[strings.ToLower(token)]
	if !ok {
		info, ok = resp.Result[token]
	}
	if !ok || info.Top10HolderRate == nil || *info.Top10HolderRate == "" {
		return unindexedShare, nil
	}

	rate, err := decimal.NewFromString(*info.Top10HolderRate)
	if err != nil {
		return 0, fmt.Errorf("goplus %s: parse top_10_holder_rate %q: %w", token, *info.Top10HolderRate, err)
	}
	pct, _ := rate.Mul(decimal.NewFromInt(100)).Float64()
	return pct, nil
}
