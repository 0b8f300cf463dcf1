package domain

// ColdStatus is the lifecycle state of a cold watchlist record.
type ColdStatus string

const (
	ColdStatusWatching ColdStatus = "watching"
	ColdStatusTraded   ColdStatus = "traded"
	ColdStatusRejected ColdStatus = "rejected"
	ColdStatusExpired  ColdStatus = "expired"
)

// String returns the string representation of ColdStatus.
func (s ColdStatus) String() string {
	return string(s)
}

// IsValid checks if the status is a known value.
func (s ColdStatus) IsValid() bool {
	switch s {
	case ColdStatusWatching, ColdStatusTraded, ColdStatusRejected, ColdStatusExpired:
		return true
	}
	return false
}

// ColdWatchlistEntry is the durable record of a token that passed the gatekeeper.
// Corresponds to cold_watchlist table in PostgreSQL. Keyed by Address.
type ColdWatchlistEntry struct {
	Address      string     // PRIMARY KEY, token mint
	Status       ColdStatus // watching | traded | rejected | expired
	LPMint       string     // LP mint of the discovering pool
	DiscoveredAt int64      // Unix timestamp in milliseconds
	UpdatedAt    int64      // last upsert (ms)
}
