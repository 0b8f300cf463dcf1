package solana

import "github.com/shopspring/decimal"

// SignatureInfo from getSignaturesForAddress.
type SignatureInfo struct {
	Signature string
	Slot      int64
	BlockTime *int64
	Err       interface{}
}

// SignaturesOpts defines optional pagination parameters for getSignaturesForAddress.
type SignaturesOpts struct {
	Before string // Start searching backwards from this signature
	Until  string // Search until this signature
	Limit  int    // Maximum number of signatures to return
}

// TokenBalance from getTokenAccountBalance.
type TokenBalance struct {
	Amount   string          // raw amount in base units
	Decimals int             // mint decimals
	UIAmount decimal.Decimal // Amount / 10^Decimals
}
