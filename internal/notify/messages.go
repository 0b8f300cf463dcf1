package notify

import (
	"fmt"
	"html"
	"strings"

	"solana-pool-sentinel/internal/domain"
)

// NewCandidateMessage announces a token that passed the gatekeeper.
func NewCandidateMessage(c domain.CandidateToken) string {
	return fmt.Sprintf("🆕 <b>New candidate</b>\nToken: <code>%s</code>\nLP: <code>%s</code>\nAdded to hot watchlist",
		html.EscapeString(c.Address), html.EscapeString(c.LPMint))
}

// RejectionMessage reports the first failing gatekeeper rule for a pool.
func RejectionMessage(pool *domain.PoolInfo, rule, reason string) string {
	return fmt.Sprintf("⛔ <b>Pool rejected</b>\nLP: <code>%s</code>\nRule: %s\nReason: %s",
		html.EscapeString(pool.LPMint), html.EscapeString(rule), html.EscapeString(reason))
}

// BuyMessage reports a simulated buy.
func BuyMessage(p *domain.Position) string {
	var b strings.Builder
	b.WriteString("🟢 <b>Simulated buy</b>\n")
	fmt.Fprintf(&b, "Token: <code>%s</code>\n", html.EscapeString(p.TokenAddress))
	fmt.Fprintf(&b, "Category: %s\n", p.Category)
	fmt.Fprintf(&b, "MQS: %d | Confidence: %d\n", p.EntryMQS, p.EntryConfidence)
	fmt.Fprintf(&b, "Entry: $%s | Size: $%s", p.EntryPrice.String(), p.InvestmentUSD.StringFixed(2))
	return b.String()
}

// CloseMessage reports a closed position with realized P&L.
func CloseMessage(p *domain.Position) string {
	icon := "🔴"
	if p.PnLPercent.IsPositive() {
		icon = "✅"
	}

	reason, exit := "", ""
	if p.ExitReason != nil {
		reason = string(*p.ExitReason)
	}
	if p.ExitPrice != nil {
		exit = p.ExitPrice.String()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s <b>Position closed</b> (%s)\n", icon, reason)
	fmt.Fprintf(&b, "Token: <code>%s</code>\n", html.EscapeString(p.TokenAddress))
	fmt.Fprintf(&b, "Entry: $%s | Exit: $%s\n", p.EntryPrice.String(), exit)
	fmt.Fprintf(&b, "P&amp;L: %s%% ($%s)", p.PnLPercent.StringFixed(2), p.PnLUSD.StringFixed(2))
	return b.String()
}
