//go:generate mockgen -source ./ports.go -destination=./mocks/ports.go -package=mock_fulfillment
package fulfillment

import (
	"context"
	"time"

	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/repository"
)

// TimeRange is a half-open interval [Start, End).
type TimeRange struct {
	Start time.Time
	End   time.Time
}

func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

func (r TimeRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// AppointmentDetails carries what the calendar needs beyond the slot itself.
// OrderID is what keeps appointment creation idempotent per order.
type AppointmentDetails struct {
	OrderID     string
	Location    string
	Description string
}

// Message is one outbound customer notification. DedupeKey must be stable
// across retries of the same logical message.
type Message struct {
	OrderID   string `json:"order_id"`
	DedupeKey string `json:"dedupe_key"`
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// OrderStore is the system of record for orders.
type OrderStore interface {
	FetchNextPending(ctx context.Context) (*repository.Order, error)
	Claim(ctx context.Context, orderID, worker string) (bool, error)
	UpdateStatus(ctx context.Context, orderID string, from, to repository.Status) error
	Release(ctx context.Context, orderID string) error
}

// AvailabilityScheduler answers free-slot queries and books appointments.
// QueryFreeSlots returns free ranges inside the window ordered by start time.
// CreateAppointment returns the appointment id; asking again for the same
// order returns the id of the existing active appointment.
type AvailabilityScheduler interface {
	QueryFreeSlots(ctx context.Context, window TimeRange) ([]TimeRange, error)
	DayLoad(ctx context.Context, day time.Time) (int, error)
	CreateAppointment(ctx context.Context, slot TimeRange, label string, details AppointmentDetails) (string, error)
}

// NotificationChannel accepts messages for delivery. Send returns a delivery
// token; sending the same DedupeKey again returns the original token without
// a second delivery. Acceptance means the transport took the message, not
// that anyone has read it.
type NotificationChannel interface {
	Send(ctx context.Context, msg Message) (string, error)
	QueryStatus(ctx context.Context, token string) (repository.DeliveryState, error)
}

// ContentGenerator produces the short seasonal passage embedded in the
// confirmation. The pipeline treats it as decoration: failures are masked
// with a default.
type ContentGenerator interface {
	Generate(ctx context.Context, month string, items []repository.OrderItem) (string, error)
}

// StageEvent is one pipeline transition, emitted to the audit trail.
type StageEvent struct {
	OrderID string       `json:"order_id"`
	Stage   Stage        `json:"stage"`
	State   AttemptState `json:"state"`
	Attempt int          `json:"attempt,omitempty"`
	Detail  string       `json:"detail,omitempty"`
	Error   string       `json:"error,omitempty"`
	At      time.Time    `json:"at"`
}

// TraceSink receives stage events. Implementations must not block: the
// pipeline never waits on its audit trail.
type TraceSink interface {
	Record(ev StageEvent)
}

type noopSink struct{}

func (noopSink) Record(StageEvent) {}
