package gatekeeper

import (
	"context"

	"solana-pool-sentinel/internal/domain"
)

// Placeholder rule names.
const (
	RuleHoneypot               = "honeypot"
	RuleTransferTax            = "transfer_tax"
	RuleContractVerification   = "contract_verification"
	RuleHolderDecentralization = "holder_decentralization"
)

// StaticRule always passes. It keeps a slot in the chain for checks
// that have no implementation yet.
type StaticRule struct {
	name string
}

// NewStaticRule creates an always-pass rule.
func NewStaticRule(name string) *StaticRule {
	return &StaticRule{name: name}
}

func (r *StaticRule) Name() string { return r.name }

func (r *StaticRule) Policy() domain.ErrorPolicy { return domain.FailClosed }

func (r *StaticRule) Check(context.Context, *domain.PoolInfo) (Verdict, error) {
	return Passed("not implemented"), nil
}

// StaticRules returns the enabled placeholder rules in evaluation order.
// A rule missing from enabled is on.
func StaticRules(order []string, enabled map[string]bool) []Rule {
	var rules []Rule
	for _, name := range order {
		if on, ok := enabled[name]; ok && !on {
			continue
		}
		rules = append(rules, NewStaticRule(name))
	}
	return rules
}
