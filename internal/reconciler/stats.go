package reconciler

import (
	"fmt"
	"sync"
	"time"

	"scalectl/pkg/logging"
)

// Stats counts the outcomes of repeated reconciliations of one server, as
// done by the watch command. It is safe for concurrent use.
type Stats struct {
	mu sync.RWMutex

	runs     int64
	changes  int64
	failures int64
	byAction map[ActionKind]int64

	lastRunAt     time.Time
	lastChangeAt  time.Time
	lastFailureAt time.Time
	lastError     string
}

// StatsSummary is a point-in-time copy of Stats.
type StatsSummary struct {
	Runs          int64
	Changes       int64
	Failures      int64
	ByAction      map[ActionKind]int64
	LastRunAt     time.Time
	LastChangeAt  time.Time
	LastFailureAt time.Time
	LastError     string
}

// NewStats creates an empty Stats.
func NewStats() *Stats {
	return &Stats{
		byAction: make(map[ActionKind]int64),
	}
}

// Record adds the outcome of one reconciliation.
func (s *Stats) Record(result Result, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.runs++
	s.lastRunAt = now

	if err != nil {
		s.failures++
		s.lastFailureAt = now
		s.lastError = err.Error()
		logging.Debug("ReconcilerStats", "Run %d failed: %v", s.runs, err)
		return
	}

	if result.Action != "" {
		s.byAction[result.Action]++
	}
	if result.Changed {
		s.changes++
		s.lastChangeAt = now
	}
	logging.Debug("ReconcilerStats", "Run %d: %s (changed=%t)", s.runs, result.Action, result.Changed)
}

// Summary returns a copy of the current counters.
func (s *Stats) Summary() StatsSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byAction := make(map[ActionKind]int64, len(s.byAction))
	for k, v := range s.byAction {
		byAction[k] = v
	}

	return StatsSummary{
		Runs:          s.runs,
		Changes:       s.changes,
		Failures:      s.failures,
		ByAction:      byAction,
		LastRunAt:     s.lastRunAt,
		LastChangeAt:  s.lastChangeAt,
		LastFailureAt: s.lastFailureAt,
		LastError:     s.lastError,
	}
}

// String renders the summary as a single line.
func (s StatsSummary) String() string {
	return fmt.Sprintf("%s, %s, %s",
		plural(s.Runs, "run"), plural(s.Changes, "change"), plural(s.Failures, "failure"))
}

func plural(n int64, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
