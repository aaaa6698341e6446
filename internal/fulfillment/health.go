package fulfillment

import (
	"sync"
	"time"
)

// HealthSnapshot is what the ops endpoint reports about the pipeline.
type HealthSnapshot struct {
	StartedAt   time.Time   `json:"started_at"`
	LastRunAt   time.Time   `json:"last_run_at"`
	LastOutcome OutcomeKind `json:"last_outcome,omitempty"`
	LastOrderID string      `json:"last_order_id,omitempty"`
	LastFailure FailureKind `json:"last_failure,omitempty"`
	LastError   string      `json:"last_error,omitempty"`
	Completed   int64       `json:"completed"`
	NoWork      int64       `json:"no_work"`
	Failed      int64       `json:"failed"`
}

type healthTracker struct {
	mu   sync.RWMutex
	snap HealthSnapshot
}

func newHealthTracker() *healthTracker {
	return &healthTracker{snap: HealthSnapshot{StartedAt: time.Now()}}
}

func (h *healthTracker) observe(out Outcome) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.snap.LastRunAt = time.Now()
	h.snap.LastOutcome = out.Kind
	h.snap.LastOrderID = out.OrderID
	h.snap.LastFailure = ""
	h.snap.LastError = ""

	switch out.Kind {
	case OutcomeCompleted:
		h.snap.Completed++
	case OutcomeNoWork:
		h.snap.NoWork++
	case OutcomeFailed:
		h.snap.Failed++
		h.snap.LastFailure = out.Failure
		h.snap.LastError = out.Message
	}
}

func (h *healthTracker) snapshot() HealthSnapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snap
}
