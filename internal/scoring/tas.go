package scoring

import "strings"

// TASConfig holds the trigger aggregation bonuses.
type TASConfig struct {
	MQSThreshold    int // momentum bonus applies at MQS >= threshold
	MomentumBonus   int
	InsiderBonus    int
	SmartMoneyBonus int
}

// DefaultTASConfig returns the default bonuses.
func DefaultTASConfig() TASConfig {
	return TASConfig{
		MQSThreshold:    75,
		MomentumBonus:   4,
		InsiderBonus:    5,
		SmartMoneyBonus: 3,
	}
}

// WalletSets are the known-wallet sets, keyed by trimmed address.
type WalletSets struct {
	Insiders   map[string]struct{}
	SmartMoney map[string]struct{}
}

// NewWalletSets builds WalletSets, dropping blank entries.
func NewWalletSets(insiders, smartMoney []string) WalletSets {
	return WalletSets{
		Insiders:   toSet(insiders),
		SmartMoney: toSet(smartMoney),
	}
}

func toSet(addrs []string) map[string]struct{} {
	set := make(map[string]struct{}, len(addrs))
	for _, a := range addrs {
		if a = strings.TrimSpace(a); a != "" {
			set[a] = struct{}{}
		}
	}
	return set
}

// TAS returns the trigger aggregation score. The momentum bonus applies at
// mqs >= MQSThreshold. Among recent buyers an insider earns InsiderBonus;
// otherwise a smart-money buyer earns SmartMoneyBonus. At most one wallet bonus applies.
func TAS(mqs int, buyers []string, wallets WalletSets, cfg TASConfig) int {
	tas := 0
	if mqs >= cfg.MQSThreshold {
		tas += cfg.MomentumBonus
	}

	smart := false
	for _, b := range buyers {
		if _, ok := wallets.Insiders[b]; ok {
			return tas + cfg.InsiderBonus
		}
		if _, ok := wallets.SmartMoney[b]; ok {
			smart = true
		}
	}
	if smart {
		tas += cfg.SmartMoneyBonus
	}
	return tas
}
