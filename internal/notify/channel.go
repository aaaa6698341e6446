package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/fulfillment"
	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/kafka"
	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/metrics"
	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/repository"
)

const defaultTokenTTL = 24 * time.Hour

// RecordStore is the durable ledger of every message handed to the channel.
type RecordStore interface {
	Insert(ctx context.Context, rec *repository.NotificationRecord) (bool, error)
	GetByDedupeKey(ctx context.Context, key string) (*repository.NotificationRecord, error)
	GetByToken(ctx context.Context, token string) (*repository.NotificationRecord, error)
	MarkAccepted(ctx context.Context, token string) error
}

// TokenStore is the fast dedupe gate in front of the ledger. A miss is never
// fatal: the ledger has the truth.
type TokenStore interface {
	SetTokenNX(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	GetToken(ctx context.Context, key string) (string, error)
	SetState(ctx context.Context, token, state string, ttl time.Duration) error
	GetState(ctx context.Context, token string) (string, error)
}

// Channel queues confirmation messages on the broker exactly once per dedupe
// key. Send may be called any number of times for the same key: only the
// first accepted publish reaches the broker, every later call returns the
// original token.
type Channel struct {
	records  RecordStore
	tokens   TokenStore
	producer kafka.Producer
	topic    string
	tokenTTL time.Duration
}

func NewChannel(records RecordStore, tokens TokenStore, producer kafka.Producer, topic string) *Channel {
	return &Channel{
		records:  records,
		tokens:   tokens,
		producer: producer,
		topic:    topic,
		tokenTTL: defaultTokenTTL,
	}
}

// messagePayload is the broker envelope consumed by the renderer process.
type messagePayload struct {
	Token     string    `json:"token"`
	DedupeKey string    `json:"dedupe_key"`
	OrderID   string    `json:"order_id"`
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	QueuedAt  time.Time `json:"queued_at"`
}

// Send walks the dedupe ladder: token cache, then the ledger, then a fresh
// pending record. A pending record left behind by a crash is re-published
// with its original token so the downstream consumer can collapse the copies.
func (c *Channel) Send(ctx context.Context, msg fulfillment.Message) (string, error) {
	if token, err := c.tokens.GetToken(ctx, msg.DedupeKey); err != nil {
		zap.L().Warn("token store read failed, falling back to the ledger", zap.Error(err))
	} else if token != "" {
		metrics.NotificationsDedupedTotal.Inc()
		return token, nil
	}

	rec, err := c.records.GetByDedupeKey(ctx, msg.DedupeKey)
	switch {
	case err == nil:
		if rec.State == repository.DeliveryAccepted {
			metrics.NotificationsDedupedTotal.Inc()
			c.cacheToken(ctx, rec.DedupeKey, rec.Token)
			return rec.Token, nil
		}
		return c.publish(ctx, rec)
	case errors.Is(err, repository.ErrObjectNotFound):
	default:
		return "", fmt.Errorf("read notification ledger: %w", err)
	}

	rec = &repository.NotificationRecord{
		Token:     uuid.NewString(),
		DedupeKey: msg.DedupeKey,
		OrderID:   msg.OrderID,
		Recipient: msg.Recipient,
		Subject:   msg.Subject,
		Body:      msg.Body,
		State:     repository.DeliveryPending,
	}
	fresh, err := c.records.Insert(ctx, rec)
	if err != nil {
		return "", err
	}
	if !fresh {
		// Lost the insert race. Continue with whatever the winner wrote.
		existing, err := c.records.GetByDedupeKey(ctx, msg.DedupeKey)
		if err != nil {
			return "", fmt.Errorf("read winning notification record: %w", err)
		}
		if existing.State == repository.DeliveryAccepted {
			metrics.NotificationsDedupedTotal.Inc()
			c.cacheToken(ctx, existing.DedupeKey, existing.Token)
			return existing.Token, nil
		}
		rec = existing
	}
	return c.publish(ctx, rec)
}

func (c *Channel) publish(ctx context.Context, rec *repository.NotificationRecord) (string, error) {
	payload, err := json.Marshal(messagePayload{
		Token:     rec.Token,
		DedupeKey: rec.DedupeKey,
		OrderID:   rec.OrderID,
		Recipient: rec.Recipient,
		Subject:   rec.Subject,
		Body:      rec.Body,
		QueuedAt:  time.Now(),
	})
	if err != nil {
		return "", fmt.Errorf("encode notification %s: %w", rec.Token, err)
	}

	if err := c.producer.SendMessage(ctx, c.topic, []byte(rec.DedupeKey), payload); err != nil {
		return "", fmt.Errorf("publish notification %s: %w", rec.Token, err)
	}

	// The broker has the message. A failed mark only means the next run
	// publishes the same token again, which the consumer collapses.
	if err := c.records.MarkAccepted(ctx, rec.Token); err != nil {
		zap.L().Warn("notification accepted but not marked in the ledger",
			zap.String("token", rec.Token), zap.Error(err))
		return rec.Token, nil
	}
	c.cacheToken(ctx, rec.DedupeKey, rec.Token)
	return rec.Token, nil
}

func (c *Channel) cacheToken(ctx context.Context, key, token string) {
	if _, err := c.tokens.SetTokenNX(ctx, key, token, c.tokenTTL); err != nil {
		zap.L().Debug("token cache write failed", zap.Error(err))
	}
	if err := c.tokens.SetState(ctx, token, string(repository.DeliveryAccepted), c.tokenTTL); err != nil {
		zap.L().Debug("state cache write failed", zap.Error(err))
	}
}

// QueryStatus reports what happened to a delivery token. Unknown tokens are
// an answer, not an error.
func (c *Channel) QueryStatus(ctx context.Context, token string) (repository.DeliveryState, error) {
	if state, err := c.tokens.GetState(ctx, token); err == nil && state != "" {
		return repository.DeliveryState(state), nil
	}

	rec, err := c.records.GetByToken(ctx, token)
	if errors.Is(err, repository.ErrObjectNotFound) {
		return repository.DeliveryUnknown, nil
	}
	if err != nil {
		return repository.DeliveryUnknown, err
	}
	if rec.State == repository.DeliveryAccepted {
		if err := c.tokens.SetState(ctx, token, string(rec.State), c.tokenTTL); err != nil {
			zap.L().Debug("state cache write failed", zap.Error(err))
		}
	}
	return rec.State, nil
}
