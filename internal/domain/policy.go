package domain

// ErrorPolicy decides the outcome of a check whose lookup failed.
type ErrorPolicy int

const (
	// FailClosed treats a lookup error as a failed check.
	FailClosed ErrorPolicy = iota
	// FailOpen treats a lookup error as a passed check.
	FailOpen
)

// String returns the string representation of ErrorPolicy.
func (p ErrorPolicy) String() string {
	if p == FailOpen {
		return "fail_open"
	}
	return "fail_closed"
}

// PassOnError reports whether a lookup error should count as a pass.
func (p ErrorPolicy) PassOnError() bool {
	return p == FailOpen
}
