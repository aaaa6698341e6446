package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/cache"
	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/fulfillment"
	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/notify"
	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/repository"
)

const testTopic = "delivery_notifications"

type fakeLedger struct {
	mu      sync.Mutex
	records map[string]*repository.NotificationRecord // dedupe key -> record
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{records: make(map[string]*repository.NotificationRecord)}
}

func (f *fakeLedger) Insert(_ context.Context, rec *repository.NotificationRecord) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[rec.DedupeKey]; ok {
		return false, nil
	}
	cp := *rec
	if cp.State == "" {
		cp.State = repository.DeliveryPending
	}
	f.records[rec.DedupeKey] = &cp
	return true, nil
}

func (f *fakeLedger) GetByDedupeKey(_ context.Context, key string) (*repository.NotificationRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[key]
	if !ok {
		return nil, repository.ErrObjectNotFound
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeLedger) GetByToken(_ context.Context, token string) (*repository.NotificationRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.records {
		if rec.Token == token {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, repository.ErrObjectNotFound
}

func (f *fakeLedger) MarkAccepted(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.records {
		if rec.Token == token && rec.State == repository.DeliveryPending {
			rec.State = repository.DeliveryAccepted
		}
	}
	return nil
}

type sentMessage struct {
	topic string
	key   string
	value []byte
}

type scriptedProducer struct {
	mu       sync.Mutex
	failures int
	sent     []sentMessage
}

func (p *scriptedProducer) SendMessage(_ context.Context, topic string, key, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failures > 0 {
		p.failures--
		return errors.New("broker unreachable")
	}
	p.sent = append(p.sent, sentMessage{topic: topic, key: string(key), value: value})
	return nil
}

func (p *scriptedProducer) Close() error { return nil }

func (p *scriptedProducer) sentCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sent)
}

func confirmationMessage() fulfillment.Message {
	return fulfillment.Message{
		OrderID:   "ORD12345",
		DedupeKey: "order:ORD12345:confirmation",
		Recipient: "sarah.chen@example.com",
		Subject:   fulfillment.SubjectConfirmation,
		Body:      "Hi Sarah Chen, your cookies are on the way.",
	}
}

func TestChannel_SendFirstDelivery(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger()
	producer := &scriptedProducer{}
	ch := notify.NewChannel(ledger, cache.NewMemoryTokenStore(), producer, testTopic)

	token, err := ch.Send(ctx, confirmationMessage())

	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, 1, producer.sentCount())

	assert.Equal(t, testTopic, producer.sent[0].topic)
	assert.Equal(t, "order:ORD12345:confirmation", producer.sent[0].key)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(producer.sent[0].value, &payload))
	assert.Equal(t, token, payload["token"])
	assert.Equal(t, "ORD12345", payload["order_id"])
	assert.Equal(t, fulfillment.SubjectConfirmation, payload["subject"])

	rec, err := ledger.GetByDedupeKey(ctx, "order:ORD12345:confirmation")
	require.NoError(t, err)
	assert.Equal(t, repository.DeliveryAccepted, rec.State)
}

func TestChannel_SendDeduplicates(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger()
	producer := &scriptedProducer{}
	ch := notify.NewChannel(ledger, cache.NewMemoryTokenStore(), producer, testTopic)

	first, err := ch.Send(ctx, confirmationMessage())
	require.NoError(t, err)
	second, err := ch.Send(ctx, confirmationMessage())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, producer.sentCount(), "the broker must see the message once")
}

func TestChannel_SendSurvivesColdCache(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger()
	producer := &scriptedProducer{}

	ch := notify.NewChannel(ledger, cache.NewMemoryTokenStore(), producer, testTopic)
	first, err := ch.Send(ctx, confirmationMessage())
	require.NoError(t, err)

	// A restarted process loses its in-memory cache but not the ledger.
	restarted := notify.NewChannel(ledger, cache.NewMemoryTokenStore(), producer, testTopic)
	second, err := restarted.Send(ctx, confirmationMessage())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, producer.sentCount())
}

func TestChannel_SendRepublishesPendingRecord(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger()
	producer := &scriptedProducer{}

	// A crash after the insert but before the publish leaves a pending row.
	fresh, err := ledger.Insert(ctx, &repository.NotificationRecord{
		Token:     "tok-crashed",
		DedupeKey: "order:ORD12345:confirmation",
		OrderID:   "ORD12345",
		Recipient: "sarah.chen@example.com",
		Subject:   fulfillment.SubjectConfirmation,
		Body:      "body",
	})
	require.NoError(t, err)
	require.True(t, fresh)

	ch := notify.NewChannel(ledger, cache.NewMemoryTokenStore(), producer, testTopic)
	token, err := ch.Send(ctx, confirmationMessage())

	require.NoError(t, err)
	assert.Equal(t, "tok-crashed", token, "the original token must be reused")
	require.Equal(t, 1, producer.sentCount())

	rec, err := ledger.GetByToken(ctx, "tok-crashed")
	require.NoError(t, err)
	assert.Equal(t, repository.DeliveryAccepted, rec.State)
}

func TestChannel_SendBrokerDown(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger()
	producer := &scriptedProducer{failures: 1}
	ch := notify.NewChannel(ledger, cache.NewMemoryTokenStore(), producer, testTopic)

	_, err := ch.Send(ctx, confirmationMessage())
	require.Error(t, err)

	// The pending record survives the failure and the retry reuses it.
	rec, err := ledger.GetByDedupeKey(ctx, "order:ORD12345:confirmation")
	require.NoError(t, err)
	assert.Equal(t, repository.DeliveryPending, rec.State)

	token, err := ch.Send(ctx, confirmationMessage())
	require.NoError(t, err)
	assert.Equal(t, rec.Token, token)
	assert.Equal(t, 1, producer.sentCount())
}

// racingLedger reports the record missing once so the insert collides with a
// concurrent writer's row.
type racingLedger struct {
	*fakeLedger
	misses int
}

func (r *racingLedger) GetByDedupeKey(ctx context.Context, key string) (*repository.NotificationRecord, error) {
	if r.misses > 0 {
		r.misses--
		return nil, repository.ErrObjectNotFound
	}
	return r.fakeLedger.GetByDedupeKey(ctx, key)
}

func TestChannel_SendLosesInsertRace(t *testing.T) {
	ctx := context.Background()
	inner := newFakeLedger()
	_, err := inner.Insert(ctx, &repository.NotificationRecord{
		Token:     "tok-winner",
		DedupeKey: "order:ORD12345:confirmation",
		OrderID:   "ORD12345",
		State:     repository.DeliveryAccepted,
	})
	require.NoError(t, err)

	producer := &scriptedProducer{}
	ch := notify.NewChannel(&racingLedger{fakeLedger: inner, misses: 1}, cache.NewMemoryTokenStore(), producer, testTopic)

	token, err := ch.Send(ctx, confirmationMessage())

	require.NoError(t, err)
	assert.Equal(t, "tok-winner", token)
	assert.Equal(t, 0, producer.sentCount())
}

func TestChannel_QueryStatus(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger()
	producer := &scriptedProducer{}
	ch := notify.NewChannel(ledger, cache.NewMemoryTokenStore(), producer, testTopic)

	token, err := ch.Send(ctx, confirmationMessage())
	require.NoError(t, err)

	state, err := ch.QueryStatus(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, repository.DeliveryAccepted, state)

	state, err = ch.QueryStatus(ctx, "tok-nobody")
	require.NoError(t, err)
	assert.Equal(t, repository.DeliveryUnknown, state)
}

func TestChannel_QueryStatusFromLedgerOnly(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger()
	_, err := ledger.Insert(ctx, &repository.NotificationRecord{
		Token:     "tok-old",
		DedupeKey: "order:ORD99:confirmation",
		OrderID:   "ORD99",
		State:     repository.DeliveryAccepted,
	})
	require.NoError(t, err)

	ch := notify.NewChannel(ledger, cache.NewMemoryTokenStore(), &scriptedProducer{}, testTopic)

	state, err := ch.QueryStatus(ctx, "tok-old")
	require.NoError(t, err)
	assert.Equal(t, repository.DeliveryAccepted, state)
}
