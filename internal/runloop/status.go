package runloop

import (
	"sort"
	"sync"
	"time"
)

// LoopStatus is the last observed cycle of one loop.
type LoopStatus struct {
	Name       string    `json:"name"`
	LastRun    time.Time `json:"last_run"`
	LastError  string    `json:"last_error,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	Cycles     int64     `json:"cycles"`
	Failures   int64     `json:"failures"`
}

// Status collects per-loop cycle outcomes for the status endpoint.
type Status struct {
	mu    sync.Mutex
	loops map[string]*LoopStatus
}

// NewStatus creates an empty Status.
func NewStatus() *Status {
	return &Status{loops: make(map[string]*LoopStatus)}
}

// Record stores the outcome of one cycle.
func (s *Status) Record(name string, at time.Time, elapsed time.Duration, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ls, ok := s.loops[name]
	if !ok {
		ls = &LoopStatus{Name: name}
		s.loops[name] = ls
	}
	ls.LastRun = at
	ls.DurationMs = elapsed.Milliseconds()
	ls.Cycles++
	ls.LastError = ""
	if err != nil {
		ls.LastError = err.Error()
		ls.Failures++
	}
}

// Snapshot returns a copy of all loop statuses sorted by name.
func (s *Status) Snapshot() []LoopStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]LoopStatus, 0, len(s.loops))
	for _, ls := range s.loops {
		out = append(out, *ls)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
