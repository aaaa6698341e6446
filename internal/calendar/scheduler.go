//go:generate mockgen -source ./scheduler.go -destination=./mocks/scheduler.go -package=mock_calendar
package calendar

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/fulfillment"
	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/repository"
)

// AppointmentStore is the slice of the appointment repository the calendar
// needs. Create must be idempotent per order: booking an order that already
// has an active appointment returns the existing id.
type AppointmentStore interface {
	Create(ctx context.Context, appt *repository.Appointment) (string, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]repository.Appointment, error)
	DayLoad(ctx context.Context, from, to time.Time) (int, error)
}

// Scheduler computes free delivery slots from booked appointments and books
// new ones. It implements fulfillment.AvailabilityScheduler.
type Scheduler struct {
	store AppointmentStore
	loc   *time.Location
}

func NewScheduler(store AppointmentStore, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{store: store, loc: loc}
}

// QueryFreeSlots subtracts booked appointments from the window and returns
// the remaining gaps ordered by start time.
func (s *Scheduler) QueryFreeSlots(ctx context.Context, window fulfillment.TimeRange) ([]fulfillment.TimeRange, error) {
	if !window.End.After(window.Start) {
		return nil, nil
	}

	appts, err := s.store.ListBetween(ctx, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("list booked appointments: %w", err)
	}

	busy := make([]fulfillment.TimeRange, 0, len(appts))
	for _, a := range appts {
		busy = append(busy, fulfillment.TimeRange{Start: a.StartsAt, End: a.EndsAt})
	}
	return freeWithin(window, busy), nil
}

// freeWithin walks the busy ranges left to right and collects the gaps.
// Busy ranges may overlap each other and poke out of the window.
func freeWithin(window fulfillment.TimeRange, busy []fulfillment.TimeRange) []fulfillment.TimeRange {
	sort.Slice(busy, func(i, j int) bool { return busy[i].Start.Before(busy[j].Start) })

	var free []fulfillment.TimeRange
	cursor := window.Start
	for _, b := range busy {
		if !b.End.After(cursor) {
			continue
		}
		if !b.Start.Before(window.End) {
			break
		}
		if b.Start.After(cursor) {
			free = append(free, fulfillment.TimeRange{Start: cursor, End: b.Start})
		}
		cursor = b.End
		if !cursor.Before(window.End) {
			return free
		}
	}
	if cursor.Before(window.End) {
		free = append(free, fulfillment.TimeRange{Start: cursor, End: window.End})
	}
	return free
}

// DayLoad counts appointments starting on the calendar day of t in the
// scheduler's location.
func (s *Scheduler) DayLoad(ctx context.Context, t time.Time) (int, error) {
	y, m, d := t.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, s.loc)
	return s.store.DayLoad(ctx, from, from.AddDate(0, 0, 1))
}

// CreateAppointment books the slot for the order. The store decides whether
// a fresh row is needed; on replays the original appointment id comes back.
func (s *Scheduler) CreateAppointment(ctx context.Context, slot fulfillment.TimeRange, label string, details fulfillment.AppointmentDetails) (string, error) {
	appt := &repository.Appointment{
		ID:          uuid.NewString(),
		OrderID:     details.OrderID,
		Label:       label,
		Location:    details.Location,
		Description: details.Description,
		StartsAt:    slot.Start,
		EndsAt:      slot.End,
		Status:      repository.AppointmentBooked,
	}

	id, err := s.store.Create(ctx, appt)
	if err != nil {
		return "", err
	}
	if id != appt.ID {
		zap.L().Debug("order already has an appointment, reusing it",
			zap.String("order_id", details.OrderID),
			zap.String("appointment_id", id))
	}
	return id, nil
}
