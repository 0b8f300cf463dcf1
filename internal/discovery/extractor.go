// Package discovery finds newly initialized pools and hands them to the gatekeeper pipeline.
package discovery

import (
	"fmt"
	"sort"
	"strings"

	"solana-pool-sentinel/internal/domain"
)

// DefaultMarker is the log fragment emitted by the pool-creation instruction.
const DefaultMarker = "initialize2"

// Key length bounds of a base-58 encoded 32-byte account address.
const (
	minKeyLen = 32
	maxKeyLen = 44
)

// Layout maps positions in the filtered key list to pool accounts.
// Offsets are tied to one instruction layout and need recalibration when it changes.
type Layout struct {
	Version       string
	LP            int
	MintA         int
	MintB         int
	TokenAccountA int
	TokenAccountB int
	MinKeys       int
}

// RaydiumInitialize2V1 is the built-in layout for Raydium AMM v4 initialize2.
var RaydiumInitialize2V1 = Layout{
	Version:       "raydium-amm-v4/initialize2@1",
	LP:            3,
	MintA:         4,
	MintB:         5,
	TokenAccountA: 1,
	TokenAccountB: 2,
	MinKeys:       6,
}

var layouts = map[string]Layout{
	RaydiumInitialize2V1.Version: RaydiumInitialize2V1,
}

// LayoutByVersion returns a built-in layout. An empty version selects the default.
func LayoutByVersion(version string) (Layout, error) {
	if version == "" {
		return RaydiumInitialize2V1, nil
	}
	l, ok := layouts[version]
	if !ok {
		return Layout{}, fmt.Errorf("unknown extractor layout %q (known: %s)", version, strings.Join(LayoutVersions(), ", "))
	}
	return l, nil
}

// LayoutVersions returns the known layout versions, sorted.
func LayoutVersions() []string {
	out := make([]string, 0, len(layouts))
	for v := range layouts {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Validate checks that every offset fits below MinKeys and no two overlap.
func (l Layout) Validate() error {
	offsets := map[string]int{
		"lp":              l.LP,
		"mint_a":          l.MintA,
		"mint_b":          l.MintB,
		"token_account_a": l.TokenAccountA,
		"token_account_b": l.TokenAccountB,
	}

	seen := make(map[int]string, len(offsets))
	for name, off := range offsets {
		if off < 0 || off >= l.MinKeys {
			return fmt.Errorf("layout %s: offset %s=%d outside [0,%d)", l.Version, name, off, l.MinKeys)
		}
		if other, dup := seen[off]; dup {
			return fmt.Errorf("layout %s: offsets %s and %s both %d", l.Version, name, other, off)
		}
		seen[off] = name
	}
	return nil
}

// Extractor turns transaction logs into pool identifiers.
type Extractor interface {
	// Extract returns the pool info, or false when the logs do not yield one.
	Extract(logs []string) (*domain.PoolInfo, bool)
}

// OffsetExtractor picks pool accounts from base-58 tokens found in log lines.
type OffsetExtractor struct {
	layout  Layout
	program string
}

// NewOffsetExtractor creates an extractor for program using layout.
func NewOffsetExtractor(layout Layout, program string) *OffsetExtractor {
	return &OffsetExtractor{layout: layout, program: program}
}

// Layout returns the extractor layout.
func (e *OffsetExtractor) Layout() Layout {
	return e.layout
}

// Extract collects candidate keys in first-seen order and maps them by offset.
func (e *OffsetExtractor) Extract(logs []string) (info *domain.PoolInfo, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			info, ok = nil, false
		}
	}()

	keys := CandidateKeys(logs, e.program)
	if len(keys) < e.layout.MinKeys {
		return nil, false
	}

	return &domain.PoolInfo{
		LPMint:        keys[e.layout.LP],
		MintA:         keys[e.layout.MintA],
		MintB:         keys[e.layout.MintB],
		TokenAccountA: keys[e.layout.TokenAccountA],
		TokenAccountB: keys[e.layout.TokenAccountB],
	}, true
}

// CandidateKeys returns distinct tokens from logs that look like account
// addresses, excluding program. Colons count as separators. A token qualifies
// when it is 32 to 44 ASCII letters or digits and not all digits; the base-58
// alphabet is not enforced, so layout offsets count such tokens too.
func CandidateKeys(logs []string, program string) []string {
	seen := make(map[string]struct{})
	var keys []string

	for _, line := range logs {
		for _, tok := range strings.Fields(strings.ReplaceAll(line, ":", " ")) {
			if tok == program || !looksLikeKey(tok) {
				continue
			}
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			keys = append(keys, tok)
		}
	}
	return keys
}

func looksLikeKey(tok string) bool {
	if len(tok) < minKeyLen || len(tok) > maxKeyLen {
		return false
	}

	digits := true
	for i := 0; i < len(tok); i++ {
		c := tok[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
			digits = false
		default:
			return false
		}
	}
	return !digits
}

// IsPoolInit reports whether any log line contains marker.
func IsPoolInit(logs []string, marker string) bool {
	for _, line := range logs {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}
