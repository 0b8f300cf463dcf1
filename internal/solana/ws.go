package solana

// LogsFilter selects the transactions a logsSubscribe stream delivers.
type LogsFilter struct {
	// Mentions holds the program or account addresses to match. The RPC
	// accepts a single address per subscription; only the first is sent.
	Mentions []string
}

// LogNotification is one logsNotification payload.
type LogNotification struct {
	Signature string
	Slot      int64
	Logs      []string
	Err       interface{} // transaction error; nil on success
}

// Failed reports whether the notified transaction failed.
func (n LogNotification) Failed() bool {
	return n.Err != nil
}
