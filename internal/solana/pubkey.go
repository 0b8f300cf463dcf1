package solana

import (
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// PubkeyLength is the byte length of a Solana public key.
const PubkeyLength = 32

// DecodePubkey decodes a base-58 public key and checks its length.
func DecodePubkey(s string) ([]byte, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("decode base58 %q: %w", s, err)
	}
	if len(b) != PubkeyLength {
		return nil, fmt.Errorf("pubkey %q: got %d bytes, want %d", s, len(b), PubkeyLength)
	}
	return b, nil
}

// IsBase58 reports whether s uses only the base-58 alphabet.
func IsBase58(s string) bool {
	if s == "" {
		return false
	}
	_, err := base58.Decode(s)
	return err == nil
}

// IsOnCurve reports whether the key is a valid ed25519 point.
// Wallet keys are on the curve; program-derived addresses are not.
func IsOnCurve(key []byte) bool {
	if len(key) != PubkeyLength {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(key)
	return err == nil
}

// IsWalletAddress reports whether s decodes to an on-curve public key.
func IsWalletAddress(s string) bool {
	b, err := DecodePubkey(s)
	if err != nil {
		return false
	}
	return IsOnCurve(b)
}
