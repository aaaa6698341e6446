package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"

	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/db"
	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/repository"
)

// AppointmentRepo is the postgres calendar. A partial unique index on
// order_id (status <> 'cancelled') is what makes Create idempotent per order.
type AppointmentRepo struct {
	db db.DB
}

func NewAppointmentRepo(db db.DB) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

// Create books the appointment, or returns the id of the one that already
// holds this order's active booking. Calling it again after a crash therefore
// never produces a second slot for the same order.
func (r *AppointmentRepo) Create(ctx context.Context, appt *repository.Appointment) (string, error) {
	if appt.Status == "" {
		appt.Status = repository.AppointmentBooked
	}
	if appt.CreatedAt.IsZero() {
		appt.CreatedAt = time.Now()
	}

	var id string
	err := r.db.ExecQueryRow(ctx, `
        INSERT INTO appointments (
            id, order_id, label, location, description, starts_at, ends_at, status, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        ON CONFLICT (order_id) WHERE status <> 'cancelled' DO NOTHING
        RETURNING id
    `, appt.ID, appt.OrderID, appt.Label, appt.Location, appt.Description,
		appt.StartsAt, appt.EndsAt, appt.Status, appt.CreatedAt).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("create appointment for order %s: %w", appt.OrderID, err)
	}

	existing, err := r.GetByOrderID(ctx, appt.OrderID)
	if err != nil {
		return "", fmt.Errorf("read existing appointment for order %s: %w", appt.OrderID, err)
	}
	return existing.ID, nil
}

// GetByOrderID returns the order's active appointment.
func (r *AppointmentRepo) GetByOrderID(ctx context.Context, orderID string) (*repository.Appointment, error) {
	var appt repository.Appointment
	err := r.db.Get(ctx, &appt, `
        SELECT * FROM appointments
        WHERE order_id = $1 AND status <> 'cancelled'
    `, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &appt, nil
}

// ListBetween returns active appointments overlapping [from, to), ordered by
// start time. The free-slot computation runs on top of this.
func (r *AppointmentRepo) ListBetween(ctx context.Context, from, to time.Time) ([]repository.Appointment, error) {
	var appts []repository.Appointment
	err := r.db.Select(ctx, &appts, `
        SELECT * FROM appointments
        WHERE status <> 'cancelled' AND starts_at < $2 AND ends_at > $1
        ORDER BY starts_at ASC
    `, from, to)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appts, nil
}

// DayLoad counts active appointments starting within [from, to).
func (r *AppointmentRepo) DayLoad(ctx context.Context, from, to time.Time) (int, error) {
	var count int
	err := r.db.Get(ctx, &count, `
        SELECT COUNT(*) FROM appointments
        WHERE status <> 'cancelled' AND starts_at >= $1 AND starts_at < $2
    `, from, to)
	if err != nil {
		return 0, fmt.Errorf("day load: %w", err)
	}
	return count, nil
}

// CancelByOrderID removes the order's active appointment from the calendar.
// Nothing to cancel is not an error.
func (r *AppointmentRepo) CancelByOrderID(ctx context.Context, orderID string) error {
	_, err := r.db.Exec(ctx, `
        UPDATE appointments
        SET status = $2
        WHERE order_id = $1 AND status <> $2
    `, orderID, repository.AppointmentCancelled)
	if err != nil {
		return fmt.Errorf("cancel appointment for order %s: %w", orderID, err)
	}
	return nil
}
