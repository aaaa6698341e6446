// Package storage provides a single-file JSON backend for running the agent
// without postgres. Every mutation rewrites the file, so it is only suitable
// for local development, demos and tests, and for exactly one process.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/repository"
)

// ErrOrderExists mentions "duplicate key" on purpose so callers that already
// recognise the postgres unique-violation text treat both backends the same.
var ErrOrderExists = errors.New("duplicate key: order already exists")

const defaultLease = 5 * time.Minute

// storedOrder carries the claim fields beside the order. repository.Order
// hides them from JSON, but the file backend has to persist them or leases
// would not survive a restart.
type storedOrder struct {
	repository.Order
	ClaimOwner string     `json:"claimed_by,omitempty"`
	ClaimTime  *time.Time `json:"claimed_at,omitempty"`
}

type fileData struct {
	Orders        []storedOrder                   `json:"orders"`
	Appointments  []repository.Appointment        `json:"appointments"`
	Notifications []repository.NotificationRecord `json:"notifications"`
}

// FileStore is the shared document behind the file-backed repos. It plays the
// role the database handle plays for the postgres repos.
type FileStore struct {
	path string
	now  func() time.Time

	mu   sync.RWMutex
	data fileData
}

// Open loads the store at path, creating an empty one when the file does not
// exist yet.
func Open(path string) (*FileStore, error) {
	fs := &FileStore{path: path, now: time.Now}
	if err := fs.load(); err != nil {
		return nil, fmt.Errorf("open file store %s: %w", path, err)
	}
	return fs, nil
}

func (fs *FileStore) load() error {
	file, err := os.Open(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	return json.NewDecoder(file).Decode(&fs.data)
}

// save writes the whole document to a temp file and renames it into place, so
// a crash mid-write never leaves a torn file. Callers must hold fs.mu.
func (fs *FileStore) save() error {
	tmp, err := os.CreateTemp(filepath.Dir(fs.path), ".orders-*.json")
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(tmp)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(fs.data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), fs.path)
}

func (fs *FileStore) findOrder(id string) int {
	for i := range fs.data.Orders {
		if fs.data.Orders[i].ID == id {
			return i
		}
	}
	return -1
}

func (o *storedOrder) toOrder() *repository.Order {
	order := o.Order
	order.Items = append([]repository.OrderItem(nil), o.Items...)
	if o.ClaimOwner != "" {
		owner := o.ClaimOwner
		order.ClaimedBy = &owner
	}
	if o.ClaimTime != nil {
		at := *o.ClaimTime
		order.ClaimedAt = &at
	}
	return &order
}

// OrderRepo is the file-backed counterpart of the postgres order store. The
// lease bounds how long a confirmed-but-uncommitted order stays invisible to
// other workers before it becomes reclaimable.
type OrderRepo struct {
	fs    *FileStore
	lease time.Duration
}

func NewOrderRepo(fs *FileStore, lease time.Duration) *OrderRepo {
	if lease <= 0 {
		lease = defaultLease
	}
	return &OrderRepo{fs: fs, lease: lease}
}

func (r *OrderRepo) Create(ctx context.Context, order *repository.Order) error {
	fs := r.fs
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.findOrder(order.ID) >= 0 {
		return ErrOrderExists
	}

	if order.Status == "" {
		order.Status = repository.StatusPlaced
	}
	now := fs.now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = now
	}

	stored := storedOrder{Order: *order}
	stored.Items = append([]repository.OrderItem(nil), order.Items...)
	stored.ClaimedBy, stored.ClaimedAt = nil, nil

	fs.data.Orders = append(fs.data.Orders, stored)
	if err := fs.save(); err != nil {
		return fmt.Errorf("insert order %s: %w", order.ID, err)
	}
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*repository.Order, error) {
	fs := r.fs
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	i := fs.findOrder(id)
	if i < 0 {
		return nil, repository.ErrObjectNotFound
	}
	return fs.data.Orders[i].toOrder(), nil
}

// FetchNextPending returns the oldest order waiting for fulfillment: either
// still placed, or confirmed by a worker whose lease has expired.
func (r *OrderRepo) FetchNextPending(ctx context.Context) (*repository.Order, error) {
	fs := r.fs
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	cutoff := fs.now().Add(-r.lease)
	best := -1
	for i := range fs.data.Orders {
		if !claimable(&fs.data.Orders[i], cutoff) {
			continue
		}
		if best < 0 || fs.data.Orders[i].CreatedAt.Before(fs.data.Orders[best].CreatedAt) {
			best = i
		}
	}
	if best < 0 {
		return nil, repository.ErrObjectNotFound
	}
	return fs.data.Orders[best].toOrder(), nil
}

func claimable(o *storedOrder, cutoff time.Time) bool {
	switch o.Status {
	case repository.StatusPlaced:
		return true
	case repository.StatusConfirmed:
		return o.ClaimTime != nil && o.ClaimTime.Before(cutoff)
	}
	return false
}

// Claim moves an order from placed to confirmed on behalf of worker. A false
// return without error means another worker got there first.
func (r *OrderRepo) Claim(ctx context.Context, id, worker string) (bool, error) {
	fs := r.fs
	fs.mu.Lock()
	defer fs.mu.Unlock()

	i := fs.findOrder(id)
	if i < 0 {
		return false, nil
	}
	o := &fs.data.Orders[i]
	if !claimable(o, fs.now().Add(-r.lease)) {
		return false, nil
	}

	now := fs.now()
	o.Status = repository.StatusConfirmed
	o.ClaimOwner = worker
	o.ClaimTime = &now
	o.UpdatedAt = now
	if err := fs.save(); err != nil {
		return false, fmt.Errorf("claim order %s: %w", id, err)
	}
	return true, nil
}

// UpdateStatus performs a guarded transition and clears any claim fields.
// ErrClaimLost means the order was no longer in the expected from status.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, from, to repository.Status) error {
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("status %s cannot move to %s", from, to)
	}

	fs := r.fs
	fs.mu.Lock()
	defer fs.mu.Unlock()

	i := fs.findOrder(id)
	if i < 0 || fs.data.Orders[i].Status != from {
		return repository.ErrClaimLost
	}

	o := &fs.data.Orders[i]
	o.Status = to
	o.ClaimOwner = ""
	o.ClaimTime = nil
	o.UpdatedAt = fs.now()
	if err := fs.save(); err != nil {
		return fmt.Errorf("update order %s status: %w", id, err)
	}
	return nil
}

// Release hands a confirmed order back to the queue after a failed run. It is
// a no-op when the order has already moved on.
func (r *OrderRepo) Release(ctx context.Context, id string) error {
	fs := r.fs
	fs.mu.Lock()
	defer fs.mu.Unlock()

	i := fs.findOrder(id)
	if i < 0 || fs.data.Orders[i].Status != repository.StatusConfirmed {
		return nil
	}

	o := &fs.data.Orders[i]
	o.Status = repository.StatusPlaced
	o.ClaimOwner = ""
	o.ClaimTime = nil
	o.UpdatedAt = fs.now()
	if err := fs.save(); err != nil {
		return fmt.Errorf("release order %s: %w", id, err)
	}
	return nil
}

// Cancel takes an undelivered order off the books.
func (r *OrderRepo) Cancel(ctx context.Context, id string) error {
	fs := r.fs
	fs.mu.Lock()
	defer fs.mu.Unlock()

	i := fs.findOrder(id)
	if i < 0 {
		return repository.ErrObjectNotFound
	}
	o := &fs.data.Orders[i]
	if o.Status == repository.StatusDelivered || o.Status == repository.StatusCancelled {
		return repository.ErrClaimLost
	}

	o.Status = repository.StatusCancelled
	o.ClaimOwner = ""
	o.ClaimTime = nil
	o.UpdatedAt = fs.now()
	if err := fs.save(); err != nil {
		return fmt.Errorf("cancel order %s: %w", id, err)
	}
	return nil
}

// StatusSummary aggregates order counts and revenue per status over the last
// N days.
func (r *OrderRepo) StatusSummary(ctx context.Context, days int) ([]repository.StatusCount, error) {
	fs := r.fs
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	cutoff := fs.now().AddDate(0, 0, -days)
	byStatus := make(map[repository.Status]*repository.StatusCount)
	for i := range fs.data.Orders {
		o := &fs.data.Orders[i]
		if o.CreatedAt.Before(cutoff) {
			continue
		}
		row, ok := byStatus[o.Status]
		if !ok {
			row = &repository.StatusCount{Status: o.Status}
			byStatus[o.Status] = row
		}
		row.Orders++
		row.Revenue += o.TotalAmount
	}

	rows := make([]repository.StatusCount, 0, len(byStatus))
	for _, row := range byStatus {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Status < rows[j].Status })
	return rows, nil
}

// AppointmentRepo is the file-backed calendar. At most one non-cancelled
// appointment exists per order, same as the partial unique index in postgres.
type AppointmentRepo struct {
	fs *FileStore
}

func NewAppointmentRepo(fs *FileStore) *AppointmentRepo {
	return &AppointmentRepo{fs: fs}
}

// Create books the appointment unless the order already has an active one, in
// which case the existing appointment's ID is returned.
func (r *AppointmentRepo) Create(ctx context.Context, appt *repository.Appointment) (string, error) {
	fs := r.fs
	fs.mu.Lock()
	defer fs.mu.Unlock()

	for i := range fs.data.Appointments {
		a := &fs.data.Appointments[i]
		if a.OrderID == appt.OrderID && a.Status != repository.AppointmentCancelled {
			return a.ID, nil
		}
	}

	if appt.Status == "" {
		appt.Status = repository.AppointmentBooked
	}
	if appt.CreatedAt.IsZero() {
		appt.CreatedAt = fs.now()
	}

	fs.data.Appointments = append(fs.data.Appointments, *appt)
	if err := fs.save(); err != nil {
		return "", fmt.Errorf("book appointment for order %s: %w", appt.OrderID, err)
	}
	return appt.ID, nil
}

func (r *AppointmentRepo) GetByOrderID(ctx context.Context, orderID string) (*repository.Appointment, error) {
	fs := r.fs
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	for i := range fs.data.Appointments {
		a := fs.data.Appointments[i]
		if a.OrderID == orderID && a.Status != repository.AppointmentCancelled {
			return &a, nil
		}
	}
	return nil, repository.ErrObjectNotFound
}

// ListBetween returns booked appointments overlapping [from, to), ordered by
// start time.
func (r *AppointmentRepo) ListBetween(ctx context.Context, from, to time.Time) ([]repository.Appointment, error) {
	fs := r.fs
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	var appts []repository.Appointment
	for i := range fs.data.Appointments {
		a := fs.data.Appointments[i]
		if a.Status != repository.AppointmentBooked {
			continue
		}
		if a.StartsAt.Before(to) && a.EndsAt.After(from) {
			appts = append(appts, a)
		}
	}
	sort.Slice(appts, func(i, j int) bool { return appts[i].StartsAt.Before(appts[j].StartsAt) })
	return appts, nil
}

// DayLoad counts booked appointments starting in [from, to).
func (r *AppointmentRepo) DayLoad(ctx context.Context, from, to time.Time) (int, error) {
	fs := r.fs
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	count := 0
	for i := range fs.data.Appointments {
		a := &fs.data.Appointments[i]
		if a.Status != repository.AppointmentBooked {
			continue
		}
		if !a.StartsAt.Before(from) && a.StartsAt.Before(to) {
			count++
		}
	}
	return count, nil
}

// CancelByOrderID frees the order's delivery slot. Orders without an active
// appointment are left alone.
func (r *AppointmentRepo) CancelByOrderID(ctx context.Context, orderID string) error {
	fs := r.fs
	fs.mu.Lock()
	defer fs.mu.Unlock()

	changed := false
	for i := range fs.data.Appointments {
		a := &fs.data.Appointments[i]
		if a.OrderID == orderID && a.Status != repository.AppointmentCancelled {
			a.Status = repository.AppointmentCancelled
			changed = true
		}
	}
	if !changed {
		return nil
	}
	if err := fs.save(); err != nil {
		return fmt.Errorf("cancel appointments for order %s: %w", orderID, err)
	}
	return nil
}

// NotificationRepo is the file-backed notification ledger, unique per dedupe
// key.
type NotificationRepo struct {
	fs *FileStore
}

func NewNotificationRepo(fs *FileStore) *NotificationRepo {
	return &NotificationRepo{fs: fs}
}

// Insert stores a pending record. It returns false when a record with the
// same dedupe key already exists.
func (r *NotificationRepo) Insert(ctx context.Context, rec *repository.NotificationRecord) (bool, error) {
	fs := r.fs
	fs.mu.Lock()
	defer fs.mu.Unlock()

	for i := range fs.data.Notifications {
		if fs.data.Notifications[i].DedupeKey == rec.DedupeKey {
			return false, nil
		}
	}

	if rec.State == "" {
		rec.State = repository.DeliveryPending
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = fs.now()
	}

	fs.data.Notifications = append(fs.data.Notifications, *rec)
	if err := fs.save(); err != nil {
		return false, fmt.Errorf("insert notification %s: %w", rec.DedupeKey, err)
	}
	return true, nil
}

func (r *NotificationRepo) GetByDedupeKey(ctx context.Context, key string) (*repository.NotificationRecord, error) {
	fs := r.fs
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	for i := range fs.data.Notifications {
		if fs.data.Notifications[i].DedupeKey == key {
			return cloneNotification(fs.data.Notifications[i]), nil
		}
	}
	return nil, repository.ErrObjectNotFound
}

func (r *NotificationRepo) GetByToken(ctx context.Context, token string) (*repository.NotificationRecord, error) {
	fs := r.fs
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	for i := range fs.data.Notifications {
		if fs.data.Notifications[i].Token == token {
			return cloneNotification(fs.data.Notifications[i]), nil
		}
	}
	return nil, repository.ErrObjectNotFound
}

// MarkAccepted flips a pending record once the transport has taken the
// message. Already-accepted and unknown tokens are left alone.
func (r *NotificationRepo) MarkAccepted(ctx context.Context, token string) error {
	fs := r.fs
	fs.mu.Lock()
	defer fs.mu.Unlock()

	for i := range fs.data.Notifications {
		rec := &fs.data.Notifications[i]
		if rec.Token != token || rec.State != repository.DeliveryPending {
			continue
		}
		now := fs.now()
		rec.State = repository.DeliveryAccepted
		rec.AcceptedAt = &now
		if err := fs.save(); err != nil {
			return fmt.Errorf("mark notification %s accepted: %w", token, err)
		}
		return nil
	}
	return nil
}

func cloneNotification(rec repository.NotificationRecord) *repository.NotificationRecord {
	if rec.AcceptedAt != nil {
		at := *rec.AcceptedAt
		rec.AcceptedAt = &at
	}
	return &rec
}
