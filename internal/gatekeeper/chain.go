package gatekeeper

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"solana-pool-sentinel/internal/domain"
	"solana-pool-sentinel/internal/observability"
)

// Outcome records the result of one evaluated rule.
type Outcome struct {
	Rule   string
	Pass   bool
	Reason string
	Err    error // lookup error resolved by the rule's policy
}

// Result is the outcome of a chain evaluation.
type Result struct {
	Passed     bool
	FailedRule string // first failing rule, empty on pass
	Reason     string
	Outcomes   []Outcome
}

// Chain evaluates rules in order and stops at the first failure.
type Chain struct {
	rules []Rule
	log   zerolog.Logger
}

// NewChain creates a chain over rules in evaluation order.
func NewChain(log zerolog.Logger, rules ...Rule) *Chain {
	return &Chain{rules: rules, log: log}
}

// Rules returns the rule names in evaluation order.
func (c *Chain) Rules() []string {
	names := make([]string, len(c.rules))
	for i, r := range c.rules {
		names[i] = r.Name()
	}
	return names
}

// Evaluate runs the chain against pool.
// PASS if every rule passes. FAIL on the first rule that fails.
func (c *Chain) Evaluate(ctx context.Context, pool *domain.PoolInfo) Result {
	res := Result{Passed: true}

	for _, rule := range c.rules {
		out := c.check(ctx, rule, pool)
		res.Outcomes = append(res.Outcomes, out)
		observability.RecordRuleOutcome(out.Rule, out.Pass)

		ev := c.log.Info()
		if !out.Pass {
			ev = c.log.Warn()
		}
		ev.Str("rule", out.Rule).
			Bool("pass", out.Pass).
			Str("reason", out.Reason).
			Str("lp_mint", pool.LPMint).
			Err(out.Err).
			Msg("gatekeeper rule evaluated")

		if !out.Pass {
			res.Passed = false
			res.FailedRule = out.Rule
			res.Reason = out.Reason
			return res
		}
	}

	return res
}

func (c *Chain) check(ctx context.Context, rule Rule, pool *domain.PoolInfo) Outcome {
	out := Outcome{Rule: rule.Name()}

	verdict, err := rule.Check(ctx, pool)
	if err != nil {
		out.Err = err
		out.Pass = rule.Policy().PassOnError()
		out.Reason = fmt.Sprintf("check failed (%s): %v", rule.Policy(), err)
		return out
	}

	out.Pass = verdict.Pass
	out.Reason = verdict.Reason
	return out
}
