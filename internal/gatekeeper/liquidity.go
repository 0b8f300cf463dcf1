package gatekeeper

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"solana-pool-sentinel/internal/domain"
	"solana-pool-sentinel/internal/solana"
)

// RuleLiquidity is the name of the liquidity rule.
const RuleLiquidity = "liquidity"

// DefaultMinLiquidityUSD is the default liquidity floor.
var DefaultMinLiquidityUSD = decimal.NewFromInt(15000)

var two = decimal.NewFromInt(2)

// BalanceSource returns SPL token account balances.
type BalanceSource interface {
	GetTokenAccountBalance(ctx context.Context, account string) (*solana.TokenBalance, error)
}

// NativePriceSource returns the USD price of the native asset.
type NativePriceSource interface {
	NativePriceUSD(ctx context.Context) (decimal.Decimal, error)
}

// LiquidityRule requires the native side of a pool to be worth at least
// MinUSD/2, i.e. native balance × price × 2 >= MinUSD.
// Pools without a native side pass without lookups.
type LiquidityRule struct {
	balances   BalanceSource
	prices     NativePriceSource
	nativeMint string
	minUSD     decimal.Decimal
}

// NewLiquidityRule creates a liquidity rule.
func NewLiquidityRule(balances BalanceSource, prices NativePriceSource, nativeMint string, minUSD decimal.Decimal) *LiquidityRule {
	if nativeMint == "" {
		nativeMint = domain.NativeMint
	}
	return &LiquidityRule{
		balances:   balances,
		prices:     prices,
		nativeMint: nativeMint,
		minUSD:     minUSD,
	}
}

func (r *LiquidityRule) Name() string { return RuleLiquidity }

func (r *LiquidityRule) Policy() domain.ErrorPolicy { return domain.FailClosed }

// Check fetches both vault balances and the native price.
func (r *LiquidityRule) Check(ctx context.Context, pool *domain.PoolInfo) (Verdict, error) {
	side := pool.NativeSide(r.nativeMint)
	if side == 0 {
		return Passed("no native side"), nil
	}

	balA, err := r.balances.GetTokenAccountBalance(ctx, pool.TokenAccountA)
	if err != nil {
		return Verdict{}, fmt.Errorf("balance of %s: %w", pool.TokenAccountA, err)
	}
	balB, err := r.balances.GetTokenAccountBalance(ctx, pool.TokenAccountB)
	if err != nil {
		return Verdict{}, fmt.Errorf("balance of %s: %w", pool.TokenAccountB, err)
	}
	if balA == nil || balB == nil {
		return Verdict{}, fmt.Errorf("balance missing for pool %s", pool.LPMint)
	}

	price, err := r.prices.NativePriceUSD(ctx)
	if err != nil {
		return Verdict{}, fmt.Errorf("native price: %w", err)
	}
	if !price.IsPositive() {
		return Verdict{}, errors.New("native price missing")
	}

	native := balA.UIAmount
	if side == 'B' {
		native = balB.UIAmount
	}

	liquidity := native.Mul(price).Mul(two)
	if liquidity.LessThan(r.minUSD) {
		return Failed(fmt.Sprintf("liquidity $%s below $%s", liquidity.StringFixed(2), r.minUSD.StringFixed(2))), nil
	}
	return Passed(fmt.Sprintf("liquidity $%s", liquidity.StringFixed(2))), nil
}
