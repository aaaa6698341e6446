package fulfillment

import (
	"time"
)

type OutcomeKind string

const (
	OutcomeCompleted OutcomeKind = "completed"
	OutcomeNoWork    OutcomeKind = "no_work"
	OutcomeFailed    OutcomeKind = "failed"
)

// FailureKind names why a run failed, independent of the exact error text.
type FailureKind string

const (
	FailureStoreUnavailable     FailureKind = "store_unavailable"
	FailureNoAvailability       FailureKind = "no_availability"
	FailureSchedulerUnavailable FailureKind = "scheduler_unavailable"
	FailureChannelUnavailable   FailureKind = "channel_unavailable"
	FailureInvalidOrder         FailureKind = "invalid_order"
	FailureConflict             FailureKind = "conflict"
	FailureCancelled            FailureKind = "cancelled"
)

// Stage names a pipeline step for events and failure reporting.
type Stage string

const (
	StageFetch    Stage = "fetch"
	StageValidate Stage = "validate"
	StageClaim    Stage = "claim"
	StageSchedule Stage = "schedule"
	StageContent  Stage = "content"
	StageNotify   Stage = "notify"
	StageCommit   Stage = "commit"
)

// AttemptState tracks how far a single run got with its order.
type AttemptState string

const (
	StateFetched      AttemptState = "fetched"
	StateScheduled    AttemptState = "scheduled"
	StateContentReady AttemptState = "content_ready"
	StateNotified     AttemptState = "notified"
	StateCommitted    AttemptState = "committed"
	StateFailed       AttemptState = "failed"
)

// Outcome is the result of one ProcessNextOrder run.
type Outcome struct {
	Kind    OutcomeKind   `json:"kind"`
	OrderID string        `json:"order_id,omitempty"`
	Stage   Stage         `json:"stage,omitempty"`
	Failure FailureKind   `json:"failure,omitempty"`
	Message string        `json:"error,omitempty"`
	Err     error         `json:"-"`
	Elapsed time.Duration `json:"-"`
}

func Completed(orderID string) Outcome {
	return Outcome{Kind: OutcomeCompleted, OrderID: orderID}
}

func NoWork() Outcome {
	return Outcome{Kind: OutcomeNoWork}
}

func Failed(orderID string, stage Stage, kind FailureKind, err error) Outcome {
	out := Outcome{Kind: OutcomeFailed, OrderID: orderID, Stage: stage, Failure: kind, Err: err}
	if err != nil {
		out.Message = err.Error()
	}
	return out
}

// ProcessingAttempt is the in-memory state of the order currently being
// worked on. It never outlives the run: after a crash the next run rebuilds
// everything it needs from the stores.
type ProcessingAttempt struct {
	OrderID       string
	State         AttemptState
	StageAttempts map[Stage]int
	Slot          TimeRange
	AppointmentID string
	Token         string
	Passage       string
	StartedAt     time.Time
}

func newAttempt(orderID string) *ProcessingAttempt {
	return &ProcessingAttempt{
		OrderID:       orderID,
		State:         StateFetched,
		StageAttempts: make(map[Stage]int),
		StartedAt:     time.Now(),
	}
}
