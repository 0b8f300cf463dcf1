package domain

// Well-known Solana addresses.
const (
	// NativeMint is the wrapped SOL mint.
	NativeMint = "So11111111111111111111111111111111111111112"

	// RaydiumAMMV4 is the Raydium AMM v4 program that creates pools via initialize2.
	RaydiumAMMV4 = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"
)

// PoolEvent is a transaction that mentions the pool program.
// Lives only within one discovery cycle.
type PoolEvent struct {
	Signature string   // transaction signature
	Logs      []string // raw log lines
	Program   string   // program address the transaction mentions
}

// PoolInfo holds pool identifiers extracted heuristically from logs.
type PoolInfo struct {
	LPMint        string
	MintA         string
	MintB         string
	TokenAccountA string // vault holding MintA
	TokenAccountB string // vault holding MintB
}

// NativeSide reports which side of the pool holds the native mint.
// Returns 'A', 'B', or 0 when neither side is native.
func (p *PoolInfo) NativeSide(nativeMint string) byte {
	switch nativeMint {
	case p.MintA:
		return 'A'
	case p.MintB:
		return 'B'
	default:
		return 0
	}
}

// TokenOf returns the traded token of a pool: MintB unless MintA is not the
// native mint, in which case MintA.
func TokenOf(p *PoolInfo, nativeMint string) string {
	if p.MintA != nativeMint {
		return p.MintA
	}
	return p.MintB
}

// CandidateToken is a token whose pool passed the gatekeeper.
type CandidateToken struct {
	Address      string // token mint address
	LPMint       string // associated LP mint
	DiscoveredAt int64  // Unix timestamp in milliseconds
}
