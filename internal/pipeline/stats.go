package pipeline

import (
	"sync/atomic"
	"time"
)

// Stats counts pipeline activity. Each server owns one instance and passes
// it in explicitly; there is no process-wide singleton. Counters exist for
// reporting only, never for correctness.
type Stats struct {
	startedAt   time.Time
	requests    atomic.Int64
	rtl         atomic.Int64
	testbenches atomic.Int64
	errors      atomic.Int64
}

func NewStats() *Stats {
	return &Stats{startedAt: time.Now()}
}

func (s *Stats) IncRequests()    { s.requests.Add(1) }
func (s *Stats) IncRTL()         { s.rtl.Add(1) }
func (s *Stats) IncTestbenches() { s.testbenches.Add(1) }
func (s *Stats) IncErrors()      { s.errors.Add(1) }

// StatsSnapshot is a point-in-time copy safe to serialize.
type StatsSnapshot struct {
	RequestsProcessed     int64   `json:"requests_processed"`
	RTLGenerated          int64   `json:"rtl_generated"`
	TestbenchesGenerated  int64   `json:"testbenches_generated"`
	ErrorsEncountered     int64   `json:"errors_encountered"`
	UptimeSeconds         float64 `json:"uptime_seconds"`
	ErrorRate             float64 `json:"error_rate"`
	GenerationSuccessRate float64 `json:"generation_success_rate"`
}

func (s *Stats) Snapshot() StatsSnapshot {
	snap := StatsSnapshot{
		RequestsProcessed:    s.requests.Load(),
		RTLGenerated:         s.rtl.Load(),
		TestbenchesGenerated: s.testbenches.Load(),
		ErrorsEncountered:    s.errors.Load(),
		UptimeSeconds:        time.Since(s.startedAt).Seconds(),
	}
	denom := snap.RequestsProcessed
	if denom < 1 {
		denom = 1
	}
	snap.ErrorRate = float64(snap.ErrorsEncountered) / float64(denom)
	snap.GenerationSuccessRate = float64(snap.RTLGenerated) / float64(denom)
	return snap
}
