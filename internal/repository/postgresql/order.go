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

// OrderRepo is the postgres order store. The claim lease bounds how long a
// confirmed-but-uncommitted order stays invisible to other workers before it
// becomes reclaimable.
type OrderRepo struct {
	db    db.DB
	lease time.Duration
}

func NewOrderRepo(db db.DB, lease time.Duration) *OrderRepo {
	return &OrderRepo{db: db, lease: lease}
}

func (r *OrderRepo) Create(ctx context.Context, order *repository.Order) error {
	if order.Status == "" {
		order.Status = repository.StatusPlaced
	}
	now := time.Now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = now
	}

	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
        INSERT INTO orders (
            id, customer_name, customer_email, customer_phone, delivery_address,
            requested_date, time_preference, status, total_amount, special_instructions,
            created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    `, order.ID, order.CustomerName, order.CustomerEmail, order.CustomerPhone, order.DeliveryAddress,
		order.RequestedDate, order.TimePreference, order.Status, order.TotalAmount, order.SpecialInstructions,
		order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order %s: %w", order.ID, err)
	}

	for _, item := range order.Items {
		_, err = tx.Exec(ctx, `
            INSERT INTO order_items (order_id, name, quantity, unit_price)
            VALUES ($1, $2, $3, $4)
        `, order.ID, item.Name, item.Quantity, item.UnitPrice)
		if err != nil {
			return fmt.Errorf("insert item %q for order %s: %w", item.Name, order.ID, err)
		}
	}

	return tx.Commit(ctx)
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*repository.Order, error) {
	var order repository.Order
	err := r.db.Get(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	if err := r.loadItems(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// FetchNextPending returns the oldest order waiting for fulfillment: either
// still placed, or confirmed by a worker whose lease has expired.
func (r *OrderRepo) FetchNextPending(ctx context.Context) (*repository.Order, error) {
	cutoff := time.Now().Add(-r.lease)

	var order repository.Order
	err := r.db.Get(ctx, &order, `
        SELECT * FROM orders
        WHERE status = $1 OR (status = $2 AND claimed_at < $3)
        ORDER BY created_at ASC
        LIMIT 1
    `, repository.StatusPlaced, repository.StatusConfirmed, cutoff)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	if err := r.loadItems(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Claim moves an order from placed to confirmed on behalf of worker. The
// compare-and-set only succeeds when the order is still claimable, so exactly
// one of any number of concurrent workers wins. A false return without error
// means the race was lost.
func (r *OrderRepo) Claim(ctx context.Context, id, worker string) (bool, error) {
	cutoff := time.Now().Add(-r.lease)

	tag, err := r.db.Exec(ctx, `
        UPDATE orders
        SET status = $2, claimed_by = $3, claimed_at = now(), updated_at = now()
        WHERE id = $1 AND (status = $4 OR (status = $2 AND claimed_at < $5))
    `, id, repository.StatusConfirmed, worker, repository.StatusPlaced, cutoff)
	if err != nil {
		return false, fmt.Errorf("claim order %s: %w", id, err)
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateStatus performs a guarded transition and clears any claim fields.
// ErrClaimLost means the row was no longer in the expected from status.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, from, to repository.Status) error {
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("status %s cannot move to %s", from, to)
	}

	tag, err := r.db.Exec(ctx, `
        UPDATE orders
        SET status = $3, claimed_by = NULL, claimed_at = NULL, updated_at = now()
        WHERE id = $1 AND status = $2
    `, id, from, to)
	if err != nil {
		return fmt.Errorf("update order %s status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrClaimLost
	}
	return nil
}

// Release hands a confirmed order back to the queue after a failed run. It is
// a no-op when the order has already moved on, so calling it twice is safe.
func (r *OrderRepo) Release(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `
        UPDATE orders
        SET status = $2, claimed_by = NULL, claimed_at = NULL, updated_at = now()
        WHERE id = $1 AND status = $3
    `, id, repository.StatusPlaced, repository.StatusConfirmed)
	if err != nil {
		return fmt.Errorf("release order %s: %w", id, err)
	}
	return nil
}

// Cancel takes an undelivered order off the books.
func (r *OrderRepo) Cancel(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE orders
        SET status = $2, claimed_by = NULL, claimed_at = NULL, updated_at = now()
        WHERE id = $1 AND status NOT IN ($3, $2)
    `, id, repository.StatusCancelled, repository.StatusDelivered)
	if err != nil {
		return fmt.Errorf("cancel order %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return repository.ErrClaimLost
	}
	return nil
}

// StatusSummary aggregates order counts and revenue per status over the last
// N days.
func (r *OrderRepo) StatusSummary(ctx context.Context, days int) ([]repository.StatusCount, error) {
	var rows []repository.StatusCount
	err := r.db.Select(ctx, &rows, `
        SELECT status, COUNT(*) AS orders, COALESCE(SUM(total_amount), 0) AS revenue
        FROM orders
        WHERE created_at >= now() - make_interval(days => $1)
        GROUP BY status
        ORDER BY status
    `, days)
	if err != nil {
		return nil, fmt.Errorf("status summary: %w", err)
	}
	return rows, nil
}

func (r *OrderRepo) loadItems(ctx context.Context, order *repository.Order) error {
	err := r.db.Select(ctx, &order.Items, `
        SELECT * FROM order_items WHERE order_id = $1 ORDER BY name
    `, order.ID)
	if err != nil {
		return fmt.Errorf("load items for order %s: %w", order.ID, err)
	}
	return nil
}
