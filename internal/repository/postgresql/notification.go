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

// NotificationRepo keeps the durable record of every message handed to the
// channel. The unique dedupe_key column is the second line of defence behind
// the fast token store.
type NotificationRepo struct {
	db db.DB
}

func NewNotificationRepo(db db.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

// Insert stores a pending record. It returns false when a record with the
// same dedupe key already exists, in which case the caller should read that
// one back instead of sending again.
func (r *NotificationRepo) Insert(ctx context.Context, rec *repository.NotificationRecord) (bool, error) {
	if rec.State == "" {
		rec.State = repository.DeliveryPending
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	tag, err := r.db.Exec(ctx, `
        INSERT INTO notifications (
            token, dedupe_key, order_id, recipient, subject, body, state, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (dedupe_key) DO NOTHING
    `, rec.Token, rec.DedupeKey, rec.OrderID, rec.Recipient, rec.Subject, rec.Body, rec.State, rec.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("insert notification %s: %w", rec.DedupeKey, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *NotificationRepo) GetByDedupeKey(ctx context.Context, key string) (*repository.NotificationRecord, error) {
	var rec repository.NotificationRecord
	err := r.db.Get(ctx, &rec, "SELECT * FROM notifications WHERE dedupe_key = $1", key)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *NotificationRepo) GetByToken(ctx context.Context, token string) (*repository.NotificationRecord, error) {
	var rec repository.NotificationRecord
	err := r.db.Get(ctx, &rec, "SELECT * FROM notifications WHERE token = $1", token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// MarkAccepted flips a pending record once the transport has taken the
// message. Already-accepted records are left alone.
func (r *NotificationRepo) MarkAccepted(ctx context.Context, token string) error {
	_, err := r.db.Exec(ctx, `
        UPDATE notifications
        SET state = $2, accepted_at = now()
        WHERE token = $1 AND state = $3
    `, token, repository.DeliveryAccepted, repository.DeliveryPending)
	if err != nil {
		return fmt.Errorf("mark notification %s accepted: %w", token, err)
	}
	return nil
}
