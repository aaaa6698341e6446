package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/repository"
)

var baseTime = time.Date(2025, time.September, 1, 10, 0, 0, 0, time.UTC)

func openTestStore(t *testing.T) *FileStore {
	t.Helper()
	fs, err := Open(filepath.Join(t.TempDir(), "orders.json"))
	require.NoError(t, err)
	fs.now = func() time.Time { return baseTime }
	return fs
}

func testOrder(id string, createdAt time.Time) *repository.Order {
	return &repository.Order{
		ID:              id,
		CustomerName:    "Sarah Chen",
		CustomerEmail:   "sarah.chen@example.com",
		DeliveryAddress: "742 Evergreen Terrace, Portland, OR",
		RequestedDate:   time.Date(2025, time.September, 10, 0, 0, 0, 0, time.UTC),
		TimePreference:  repository.PreferenceMorning,
		TotalAmount:     51.0,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
		Items: []repository.OrderItem{
			{Name: "Chocolate Chip", Quantity: 24, UnitPrice: 1.50},
			{Name: "Oatmeal Raisin", Quantity: 12, UnitPrice: 1.25},
		},
	}
}

func TestFileStore_OrderLifecycle(t *testing.T) {
	ctx := context.Background()
	fs := openTestStore(t)
	repo := NewOrderRepo(fs, time.Minute)

	require.NoError(t, repo.Create(ctx, testOrder("ORD12345", baseTime)))

	next, err := repo.FetchNextPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ORD12345", next.ID)
	assert.Equal(t, repository.StatusPlaced, next.Status)
	assert.Len(t, next.Items, 2)

	claimed, err := repo.Claim(ctx, "ORD12345", "worker-1")
	require.NoError(t, err)
	assert.True(t, claimed)

	got, err := repo.GetByID(ctx, "ORD12345")
	require.NoError(t, err)
	assert.Equal(t, repository.StatusConfirmed, got.Status)
	require.NotNil(t, got.ClaimedBy)
	assert.Equal(t, "worker-1", *got.ClaimedBy)

	require.NoError(t, repo.UpdateStatus(ctx, "ORD12345", repository.StatusConfirmed, repository.StatusScheduled))

	got, err = repo.GetByID(ctx, "ORD12345")
	require.NoError(t, err)
	assert.Equal(t, repository.StatusScheduled, got.Status)
	assert.Nil(t, got.ClaimedBy)
	assert.Nil(t, got.ClaimedAt)

	_, err = repo.FetchNextPending(ctx)
	assert.ErrorIs(t, err, repository.ErrObjectNotFound)
}

func TestFileStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "orders.json")

	fs, err := Open(path)
	require.NoError(t, err)
	fs.now = func() time.Time { return baseTime }

	repo := NewOrderRepo(fs, time.Minute)
	require.NoError(t, repo.Create(ctx, testOrder("ORD12345", baseTime)))
	claimed, err := repo.Claim(ctx, "ORD12345", "worker-1")
	require.NoError(t, err)
	require.True(t, claimed)

	_, err = NewNotificationRepo(fs).Insert(ctx, &repository.NotificationRecord{
		Token:     "tok-1",
		DedupeKey: "order:ORD12345:confirmation",
		OrderID:   "ORD12345",
	})
	require.NoError(t, err)

	reopened, err := Open(path)
	require.NoError(t, err)

	got, err := NewOrderRepo(reopened, time.Minute).GetByID(ctx, "ORD12345")
	require.NoError(t, err)
	assert.Equal(t, repository.StatusConfirmed, got.Status)
	require.NotNil(t, got.ClaimedBy, "claim must survive a restart")
	assert.Equal(t, "worker-1", *got.ClaimedBy)
	require.NotNil(t, got.ClaimedAt)
	assert.True(t, got.ClaimedAt.Equal(baseTime))
	assert.Len(t, got.Items, 2)

	rec, err := NewNotificationRepo(reopened).GetByToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, repository.DeliveryPending, rec.State)
}

func TestFileStore_CreateDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepo(openTestStore(t), time.Minute)

	require.NoError(t, repo.Create(ctx, testOrder("ORD12345", baseTime)))

	err := repo.Create(ctx, testOrder("ORD12345", baseTime))
	assert.ErrorIs(t, err, ErrOrderExists)
	assert.Contains(t, err.Error(), "duplicate key")
}

func TestFileStore_ClaimSemantics(t *testing.T) {
	ctx := context.Background()
	fs := openTestStore(t)
	repo := NewOrderRepo(fs, time.Minute)

	require.NoError(t, repo.Create(ctx, testOrder("ORD12345", baseTime)))

	t.Run("first worker wins", func(t *testing.T) {
		claimed, err := repo.Claim(ctx, "ORD12345", "worker-1")
		require.NoError(t, err)
		assert.True(t, claimed)
	})

	t.Run("held claim cannot be stolen", func(t *testing.T) {
		claimed, err := repo.Claim(ctx, "ORD12345", "worker-2")
		require.NoError(t, err)
		assert.False(t, claimed)
	})

	t.Run("expired lease is reclaimable", func(t *testing.T) {
		fs.now = func() time.Time { return baseTime.Add(2 * time.Minute) }

		next, err := repo.FetchNextPending(ctx)
		require.NoError(t, err)
		assert.Equal(t, "ORD12345", next.ID)

		claimed, err := repo.Claim(ctx, "ORD12345", "worker-2")
		require.NoError(t, err)
		assert.True(t, claimed)

		got, err := repo.GetByID(ctx, "ORD12345")
		require.NoError(t, err)
		require.NotNil(t, got.ClaimedBy)
		assert.Equal(t, "worker-2", *got.ClaimedBy)
	})

	t.Run("unknown order", func(t *testing.T) {
		claimed, err := repo.Claim(ctx, "ORD404", "worker-1")
		require.NoError(t, err)
		assert.False(t, claimed)
	})
}

func TestFileStore_FetchNextPendingPicksOldest(t *testing.T) {
	ctx := context.Background()
	fs := openTestStore(t)
	repo := NewOrderRepo(fs, time.Minute)

	require.NoError(t, repo.Create(ctx, testOrder("ORD-NEW", baseTime)))
	require.NoError(t, repo.Create(ctx, testOrder("ORD-OLD", baseTime.Add(-time.Hour))))

	next, err := repo.FetchNextPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ORD-OLD", next.ID)

	// A freshly confirmed order is invisible; the queue moves on.
	claimed, err := repo.Claim(ctx, "ORD-OLD", "worker-1")
	require.NoError(t, err)
	require.True(t, claimed)

	next, err = repo.FetchNextPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ORD-NEW", next.ID)
}

func TestFileStore_UpdateStatusGuards(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepo(openTestStore(t), time.Minute)

	require.NoError(t, repo.Create(ctx, testOrder("ORD12345", baseTime)))

	err := repo.UpdateStatus(ctx, "ORD12345", repository.StatusConfirmed, repository.StatusScheduled)
	assert.ErrorIs(t, err, repository.ErrClaimLost, "order is still placed")

	err = repo.UpdateStatus(ctx, "ORD12345", repository.StatusPlaced, repository.StatusScheduled)
	assert.Error(t, err, "placed cannot jump straight to scheduled")

	err = repo.UpdateStatus(ctx, "ORD404", repository.StatusConfirmed, repository.StatusScheduled)
	assert.ErrorIs(t, err, repository.ErrClaimLost)
}

func TestFileStore_ReleaseIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepo(openTestStore(t), time.Minute)

	require.NoError(t, repo.Create(ctx, testOrder("ORD12345", baseTime)))
	claimed, err := repo.Claim(ctx, "ORD12345", "worker-1")
	require.NoError(t, err)
	require.True(t, claimed)

	require.NoError(t, repo.Release(ctx, "ORD12345"))

	got, err := repo.GetByID(ctx, "ORD12345")
	require.NoError(t, err)
	assert.Equal(t, repository.StatusPlaced, got.Status)
	assert.Nil(t, got.ClaimedBy)

	require.NoError(t, repo.Release(ctx, "ORD12345"))
	require.NoError(t, repo.Release(ctx, "ORD404"))
}

func TestFileStore_Cancel(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepo(openTestStore(t), time.Minute)

	require.NoError(t, repo.Create(ctx, testOrder("ORD12345", baseTime)))

	t.Run("active order", func(t *testing.T) {
		require.NoError(t, repo.Cancel(ctx, "ORD12345"))

		got, err := repo.GetByID(ctx, "ORD12345")
		require.NoError(t, err)
		assert.Equal(t, repository.StatusCancelled, got.Status)
	})

	t.Run("already cancelled", func(t *testing.T) {
		assert.ErrorIs(t, repo.Cancel(ctx, "ORD12345"), repository.ErrClaimLost)
	})

	t.Run("delivered order", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, testOrder("ORD12346", baseTime)))
		claimed, err := repo.Claim(ctx, "ORD12346", "worker-1")
		require.NoError(t, err)
		require.True(t, claimed)
		require.NoError(t, repo.UpdateStatus(ctx, "ORD12346", repository.StatusConfirmed, repository.StatusScheduled))
		require.NoError(t, repo.UpdateStatus(ctx, "ORD12346", repository.StatusScheduled, repository.StatusDelivered))

		assert.ErrorIs(t, repo.Cancel(ctx, "ORD12346"), repository.ErrClaimLost)
	})

	t.Run("unknown order", func(t *testing.T) {
		assert.ErrorIs(t, repo.Cancel(ctx, "ORD404"), repository.ErrObjectNotFound)
	})
}

func TestFileStore_StatusSummary(t *testing.T) {
	ctx := context.Background()
	fs := openTestStore(t)
	repo := NewOrderRepo(fs, time.Minute)

	fresh := testOrder("ORD-1", baseTime.AddDate(0, 0, -2))
	fresh.TotalAmount = 10
	require.NoError(t, repo.Create(ctx, fresh))

	second := testOrder("ORD-2", baseTime.AddDate(0, 0, -1))
	second.TotalAmount = 15
	require.NoError(t, repo.Create(ctx, second))

	stale := testOrder("ORD-ANCIENT", baseTime.AddDate(0, 0, -40))
	stale.TotalAmount = 99
	require.NoError(t, repo.Create(ctx, stale))

	claimed, err := repo.Claim(ctx, "ORD-1", "worker-1")
	require.NoError(t, err)
	require.True(t, claimed)

	rows, err := repo.StatusSummary(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, []repository.StatusCount{
		{Status: repository.StatusConfirmed, Orders: 1, Revenue: 10},
		{Status: repository.StatusPlaced, Orders: 1, Revenue: 15},
	}, rows)
}

func TestFileStore_Appointments(t *testing.T) {
	ctx := context.Background()
	fs := openTestStore(t)
	repo := NewAppointmentRepo(fs)

	slot := func(h int) (time.Time, time.Time) {
		start := time.Date(2025, time.September, 10, h, 0, 0, 0, time.UTC)
		return start, start.Add(30 * time.Minute)
	}

	book := func(id, orderID string, hour int) string {
		t.Helper()
		starts, ends := slot(hour)
		got, err := repo.Create(ctx, &repository.Appointment{
			ID:       id,
			OrderID:  orderID,
			Label:    "Cookie delivery for " + orderID,
			StartsAt: starts,
			EndsAt:   ends,
			Status:   repository.AppointmentBooked,
		})
		require.NoError(t, err)
		return got
	}

	assert.Equal(t, "appt-1", book("appt-1", "ORD12345", 14))
	assert.Equal(t, "appt-2", book("appt-2", "ORD12346", 9))

	t.Run("one active appointment per order", func(t *testing.T) {
		assert.Equal(t, "appt-1", book("appt-replay", "ORD12345", 16))
	})

	t.Run("get by order", func(t *testing.T) {
		appt, err := repo.GetByOrderID(ctx, "ORD12345")
		require.NoError(t, err)
		assert.Equal(t, "appt-1", appt.ID)

		_, err = repo.GetByOrderID(ctx, "ORD404")
		assert.ErrorIs(t, err, repository.ErrObjectNotFound)
	})

	t.Run("list between sorts by start", func(t *testing.T) {
		from := time.Date(2025, time.September, 10, 0, 0, 0, 0, time.UTC)
		appts, err := repo.ListBetween(ctx, from, from.AddDate(0, 0, 1))
		require.NoError(t, err)
		require.Len(t, appts, 2)
		assert.Equal(t, "appt-2", appts[0].ID)
		assert.Equal(t, "appt-1", appts[1].ID)

		// Window covering only the morning booking.
		appts, err = repo.ListBetween(ctx, from, from.Add(12*time.Hour))
		require.NoError(t, err)
		require.Len(t, appts, 1)
		assert.Equal(t, "appt-2", appts[0].ID)
	})

	t.Run("day load", func(t *testing.T) {
		from := time.Date(2025, time.September, 10, 0, 0, 0, 0, time.UTC)
		load, err := repo.DayLoad(ctx, from, from.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.Equal(t, 2, load)
	})

	t.Run("cancel frees the slot", func(t *testing.T) {
		require.NoError(t, repo.CancelByOrderID(ctx, "ORD12345"))

		_, err := repo.GetByOrderID(ctx, "ORD12345")
		assert.ErrorIs(t, err, repository.ErrObjectNotFound)

		// The order can be rebooked afterwards.
		assert.Equal(t, "appt-3", book("appt-3", "ORD12345", 15))

		// Cancelling an order without an appointment is fine.
		require.NoError(t, repo.CancelByOrderID(ctx, "ORD404"))
	})
}

func TestFileStore_Notifications(t *testing.T) {
	ctx := context.Background()
	fs := openTestStore(t)
	repo := NewNotificationRepo(fs)

	rec := &repository.NotificationRecord{
		Token:     "tok-1",
		DedupeKey: "order:ORD12345:confirmation",
		OrderID:   "ORD12345",
		Recipient: "sarah.chen@example.com",
		Subject:   "Your Cookie Delivery is Scheduled!",
	}

	fresh, err := repo.Insert(ctx, rec)
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.Equal(t, repository.DeliveryPending, rec.State)

	fresh, err = repo.Insert(ctx, &repository.NotificationRecord{
		Token:     "tok-loser",
		DedupeKey: "order:ORD12345:confirmation",
	})
	require.NoError(t, err)
	assert.False(t, fresh, "dedupe key is unique")

	winner, err := repo.GetByDedupeKey(ctx, "order:ORD12345:confirmation")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", winner.Token)

	require.NoError(t, repo.MarkAccepted(ctx, "tok-1"))

	got, err := repo.GetByToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, repository.DeliveryAccepted, got.State)
	require.NotNil(t, got.AcceptedAt)
	assert.True(t, got.AcceptedAt.Equal(baseTime))

	// Repeats and unknown tokens are quiet no-ops.
	require.NoError(t, repo.MarkAccepted(ctx, "tok-1"))
	require.NoError(t, repo.MarkAccepted(ctx, "tok-ghost"))

	_, err = repo.GetByToken(ctx, "tok-ghost")
	assert.ErrorIs(t, err, repository.ErrObjectNotFound)
}
