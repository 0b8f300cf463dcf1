package domain

import "testing"

func TestTokenOf(t *testing.T) {
	tests := []struct {
		name string
		pool PoolInfo
		want string
	}{
		{"native on A", PoolInfo{MintA: NativeMint, MintB: "TokenB"}, "TokenB"},
		{"native on B", PoolInfo{MintA: "TokenA", MintB: NativeMint}, "TokenA"},
		{"no native side", PoolInfo{MintA: "TokenA", MintB: "TokenB"}, "TokenA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TokenOf(&tt.pool, NativeMint); got != tt.want {
				t.Errorf("TokenOf() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPoolInfo_NativeSide(t *testing.T) {
	p := PoolInfo{MintA: "TokenA", MintB: NativeMint}
	if side := p.NativeSide(NativeMint); side != 'B' {
		t.Errorf("NativeSide() = %q, want 'B'", side)
	}

	p = PoolInfo{MintA: "TokenA", MintB: "TokenB"}
	if side := p.NativeSide(NativeMint); side != 0 {
		t.Errorf("NativeSide() = %q, want 0", side)
	}
}
