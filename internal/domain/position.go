package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// PositionStatus is the lifecycle state of a position.
type PositionStatus string

const (
	PositionOpen   PositionStatus = "open"
	PositionClosed PositionStatus = "closed"
)

// ExitReason explains why a position was closed.
type ExitReason string

const (
	ExitTakeProfit ExitReason = "take_profit"
	ExitStopLoss   ExitReason = "stop_loss"
)

// ErrPositionClosed is returned when closing a position that is not open.
var ErrPositionClosed = errors.New("position already closed")

var hundred = decimal.NewFromInt(100)

// Position is a simulated trade on a token.
// Corresponds to positions table in PostgreSQL. Keyed by TokenAddress.
type Position struct {
	TokenAddress    string // PRIMARY KEY
	InvestmentUSD   decimal.Decimal
	EntryTime       int64 // Unix timestamp in milliseconds
	EntryPrice      decimal.Decimal
	Status          PositionStatus
	EntryMQS        int
	EntryConfidence int
	Category        Category

	// Set on close
	ExitPrice  *decimal.Decimal
	ExitTime   *int64
	ExitReason *ExitReason
	PnLPercent decimal.Decimal // realized, 0 while open
	PnLUSD     decimal.Decimal // realized, 0 while open
}

// IsOpen reports whether the position is open.
func (p *Position) IsOpen() bool {
	return p.Status == PositionOpen
}

// HasEntryPrice reports whether P&L can be computed.
func (p *Position) HasEntryPrice() bool {
	return p.EntryPrice.IsPositive()
}

// PnLPercentAt returns (price - entry) / entry * 100.
// Returns zero when the entry price is not positive.
func (p *Position) PnLPercentAt(price decimal.Decimal) decimal.Decimal {
	if !p.HasEntryPrice() {
		return decimal.Zero
	}
	return price.Sub(p.EntryPrice).Div(p.EntryPrice).Mul(hundred)
}

// Close transitions the position to closed at price.
// Only open positions can be closed.
func (p *Position) Close(price decimal.Decimal, at int64, reason ExitReason) error {
	if !p.IsOpen() {
		return ErrPositionClosed
	}

	pct := p.PnLPercentAt(price)
	p.Status = PositionClosed
	p.ExitPrice = &price
	p.ExitTime = &at
	p.ExitReason = &reason
	p.PnLPercent = pct
	p.PnLUSD = p.InvestmentUSD.Mul(pct).Div(hundred)
	return nil
}

// PositionMark is one observation of an open position by the monitor.
// Corresponds to position_marks table in ClickHouse.
type PositionMark struct {
	TokenAddress string
	ObservedAt   int64 // Unix timestamp in milliseconds
	Price        float64
	PnLPercent   float64
}
