// Package gatekeeper filters newly discovered pools through an ordered rule chain.
package gatekeeper

import (
	"context"

	"solana-pool-sentinel/internal/domain"
)

// Verdict is the outcome of a single rule check.
type Verdict struct {
	Pass   bool
	Reason string
}

// Rule is one gatekeeper check.
// When Check returns an error the chain applies the rule's Policy.
type Rule interface {
	Name() string
	Policy() domain.ErrorPolicy
	Check(ctx context.Context, pool *domain.PoolInfo) (Verdict, error)
}

// Passed returns a passing verdict.
func Passed(reason string) Verdict {
	return Verdict{Pass: true, Reason: reason}
}

// Failed returns a failing verdict.
func Failed(reason string) Verdict {
	return Verdict{Pass: false, Reason: reason}
}
