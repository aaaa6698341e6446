package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/metrics"
	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/repository"
)

const releaseTimeout = 5 * time.Second

// Config tunes one Orchestrator. Zero fields fall back to defaults, so the
// literal only needs to name what differs from them.
type Config struct {
	// Worker identifies this process in claim records.
	Worker string

	SlotLength   time.Duration
	DayStartHour int
	DayEndHour   int
	Location     *time.Location

	// ClaimRounds bounds how many times a run re-fetches after losing a
	// claim race before giving the queue back.
	ClaimRounds int

	StoreRetry     RetryPolicy
	SchedulerRetry RetryPolicy
	ChannelRetry   RetryPolicy
	ContentRetry   RetryPolicy
}

func (c Config) withDefaults() Config {
	if c.Worker == "" {
		c.Worker = "agent"
	}
	if c.SlotLength <= 0 {
		c.SlotLength = 30 * time.Minute
	}
	if c.DayStartHour == 0 && c.DayEndHour == 0 {
		c.DayStartHour, c.DayEndHour = 9, 20
	}
	if c.Location == nil {
		c.Location = time.UTC
	}
	if c.ClaimRounds <= 0 {
		c.ClaimRounds = 3
	}
	if c.StoreRetry.MaxAttempts == 0 {
		c.StoreRetry = RetryPolicy{MaxAttempts: 5, BaseDelay: 100 * time.Millisecond, MaxDelay: 2 * time.Second}
	}
	if c.SchedulerRetry.MaxAttempts == 0 {
		c.SchedulerRetry = RetryPolicy{MaxAttempts: 3, BaseDelay: 250 * time.Millisecond, MaxDelay: 5 * time.Second}
	}
	if c.ChannelRetry.MaxAttempts == 0 {
		c.ChannelRetry = RetryPolicy{MaxAttempts: 3, BaseDelay: 250 * time.Millisecond, MaxDelay: 5 * time.Second}
	}
	if c.ContentRetry.MaxAttempts == 0 {
		c.ContentRetry = RetryPolicy{MaxAttempts: 2, BaseDelay: 200 * time.Millisecond, MaxDelay: time.Second}
	}
	return c
}

// Orchestrator walks one order at a time through claim, scheduling, content,
// notification and commit. Every step is safe to repeat: a crashed run leaves
// the order claimed until the lease expires, after which any worker picks it
// up and the idempotent stores absorb the duplicate work.
type Orchestrator struct {
	store     OrderStore
	scheduler AvailabilityScheduler
	channel   NotificationChannel
	generator ContentGenerator
	sink      TraceSink
	logger    *zap.Logger
	cfg       Config
	health    *healthTracker
}

func New(store OrderStore, scheduler AvailabilityScheduler, channel NotificationChannel, generator ContentGenerator, sink TraceSink, logger *zap.Logger, cfg Config) *Orchestrator {
	if sink == nil {
		sink = noopSink{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		store:     store,
		scheduler: scheduler,
		channel:   channel,
		generator: generator,
		sink:      sink,
		logger:    logger,
		cfg:       cfg.withDefaults(),
		health:    newHealthTracker(),
	}
}

func (o *Orchestrator) Health() HealthSnapshot {
	return o.health.snapshot()
}

// ProcessNextOrder runs the pipeline once: at most one order leaves the
// queue, and on success exactly one appointment and one notification exist
// for it regardless of how many earlier runs died partway through.
func (o *Orchestrator) ProcessNextOrder(ctx context.Context) Outcome {
	started := time.Now()
	out := o.processNext(ctx)
	out.Elapsed = time.Since(started)

	o.health.observe(out)
	metrics.OutcomesTotal.WithLabelValues(string(out.Kind)).Inc()
	metrics.ProcessDurationSeconds.Observe(out.Elapsed.Seconds())

	switch out.Kind {
	case OutcomeCompleted:
		o.logger.Info("order fulfilled",
			zap.String("order_id", out.OrderID),
			zap.Duration("elapsed", out.Elapsed))
	case OutcomeFailed:
		metrics.StageFailuresTotal.WithLabelValues(string(out.Stage), string(out.Failure)).Inc()
		o.logger.Error("order run failed",
			zap.String("order_id", out.OrderID),
			zap.String("stage", string(out.Stage)),
			zap.String("failure", string(out.Failure)),
			zap.Error(out.Err))
	default:
		o.logger.Debug("queue empty")
	}
	return out
}

func (o *Orchestrator) processNext(ctx context.Context) Outcome {
	order, out, ok := o.acquireOrder(ctx)
	if !ok {
		return out
	}

	attempt := newAttempt(order.ID)
	o.record(attempt, StageClaim, "claimed by "+o.cfg.Worker, nil)

	if out, ok := o.schedule(ctx, order, attempt); !ok {
		return out
	}
	o.generateContent(ctx, order, attempt)
	if out, ok := o.notify(ctx, order, attempt); !ok {
		return out
	}
	if out, ok := o.commit(ctx, order, attempt); !ok {
		return out
	}

	attempt.State = StateCommitted
	o.record(attempt, StageCommit, "order scheduled", nil)
	return Completed(order.ID)
}

// acquireOrder fetches the next pending order, validates it and claims it.
// Losing the claim race re-fetches up to ClaimRounds times. Validation runs
// before the claim so a malformed order is reported without being touched.
func (o *Orchestrator) acquireOrder(ctx context.Context) (*repository.Order, Outcome, bool) {
	for round := 0; round < o.cfg.ClaimRounds; round++ {
		var order *repository.Order
		err := o.cfg.StoreRetry.Do(ctx, func() error {
			var err error
			order, err = o.store.FetchNextPending(ctx)
			if errors.Is(err, repository.ErrObjectNotFound) {
				return Permanent(err)
			}
			return err
		})
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, NoWork(), false
		}
		if err != nil {
			return nil, Failed("", StageFetch, o.failureKind(err, FailureStoreUnavailable), err), false
		}

		if verr := validateOrder(order); verr != nil {
			o.logger.Warn("skipping invalid order", zap.String("order_id", order.ID), zap.Error(verr))
			return nil, Failed(order.ID, StageValidate, FailureInvalidOrder, verr), false
		}

		var claimed bool
		err = o.cfg.StoreRetry.Do(ctx, func() error {
			var err error
			claimed, err = o.store.Claim(ctx, order.ID, o.cfg.Worker)
			return err
		})
		if err != nil {
			return nil, Failed(order.ID, StageClaim, o.failureKind(err, FailureStoreUnavailable), err), false
		}
		if claimed {
			return order, Outcome{}, true
		}

		metrics.ClaimConflictsTotal.Inc()
		o.logger.Debug("lost claim race, re-fetching", zap.String("order_id", order.ID))
	}
	return nil, NoWork(), false
}

func (o *Orchestrator) schedule(ctx context.Context, order *repository.Order, attempt *ProcessingAttempt) (Outcome, bool) {
	window := preferenceWindow(order.RequestedDate, order.TimePreference, o.cfg.DayStartHour, o.cfg.DayEndHour, o.cfg.Location)

	slot, err := o.findSlot(ctx, attempt, window)
	if err != nil {
		return o.fail(ctx, attempt, StageSchedule, o.failureKind(err, FailureSchedulerUnavailable), err), false
	}
	if slot.IsZero() {
		// Widen once to the whole business day before giving up.
		day := businessWindow(order.RequestedDate, o.cfg.DayStartHour, o.cfg.DayEndHour, o.cfg.Location)
		if day != window {
			o.logger.Info("preferred window full, widening to whole day",
				zap.String("order_id", order.ID),
				zap.String("preference", string(order.TimePreference)))
			slot, err = o.findSlot(ctx, attempt, day)
			if err != nil {
				return o.fail(ctx, attempt, StageSchedule, o.failureKind(err, FailureSchedulerUnavailable), err), false
			}
		}
	}
	if slot.IsZero() {
		err := fmt.Errorf("no free %s slot on %s", o.cfg.SlotLength, order.RequestedDate.Format("2006-01-02"))
		return o.fail(ctx, attempt, StageSchedule, FailureNoAvailability, err), false
	}

	details := AppointmentDetails{
		OrderID:     order.ID,
		Location:    order.DeliveryAddress,
		Description: describeOrder(order),
	}
	var apptID string
	err = o.cfg.SchedulerRetry.Do(ctx, func() error {
		attempt.StageAttempts[StageSchedule]++
		var err error
		apptID, err = o.scheduler.CreateAppointment(ctx, slot, appointmentLabel(order.ID), details)
		return err
	})
	if err != nil {
		return o.fail(ctx, attempt, StageSchedule, o.failureKind(err, FailureSchedulerUnavailable), err), false
	}

	attempt.Slot = slot
	attempt.AppointmentID = apptID
	attempt.State = StateScheduled
	metrics.AppointmentsCreatedTotal.Inc()
	o.record(attempt, StageSchedule, fmt.Sprintf("slot %s %s", slot.Start.Format("2006-01-02 15:04"), apptID), nil)

	if load, err := o.scheduler.DayLoad(ctx, order.RequestedDate); err == nil {
		o.logger.Info("appointment booked",
			zap.String("order_id", order.ID),
			zap.String("appointment_id", apptID),
			zap.Time("starts_at", slot.Start),
			zap.Int("day_load", load))
	} else {
		o.logger.Info("appointment booked",
			zap.String("order_id", order.ID),
			zap.String("appointment_id", apptID),
			zap.Time("starts_at", slot.Start))
	}
	return Outcome{}, true
}

func (o *Orchestrator) findSlot(ctx context.Context, attempt *ProcessingAttempt, window TimeRange) (TimeRange, error) {
	if !window.End.After(window.Start) {
		return TimeRange{}, nil
	}
	var free []TimeRange
	err := o.cfg.SchedulerRetry.Do(ctx, func() error {
		attempt.StageAttempts[StageSchedule]++
		var err error
		free, err = o.scheduler.QueryFreeSlots(ctx, window)
		return err
	})
	if err != nil {
		return TimeRange{}, err
	}
	slot, ok := pickSlot(free, o.cfg.SlotLength)
	if !ok {
		return TimeRange{}, nil
	}
	return slot, nil
}

// generateContent never fails the run. When the generator is down after
// retries the default passage goes out instead.
func (o *Orchestrator) generateContent(ctx context.Context, order *repository.Order, attempt *ProcessingAttempt) {
	month := deliveryMonth(order.RequestedDate)
	var passage string
	err := o.cfg.ContentRetry.Do(ctx, func() error {
		attempt.StageAttempts[StageContent]++
		var err error
		passage, err = o.generator.Generate(ctx, month, order.Items)
		return err
	})
	if err != nil {
		metrics.ContentFallbacksTotal.Inc()
		o.logger.Warn("content generation failed, using default passage",
			zap.String("order_id", order.ID), zap.Error(err))
		passage = DefaultPassage
	}

	attempt.Passage = passage
	attempt.State = StateContentReady
	o.record(attempt, StageContent, month, err)
}

func (o *Orchestrator) notify(ctx context.Context, order *repository.Order, attempt *ProcessingAttempt) (Outcome, bool) {
	msg := composeConfirmation(order, attempt.Slot, attempt.Passage)

	var token string
	err := o.cfg.ChannelRetry.Do(ctx, func() error {
		attempt.StageAttempts[StageNotify]++
		var err error
		token, err = o.channel.Send(ctx, msg)
		return err
	})
	if err != nil {
		return o.fail(ctx, attempt, StageNotify, o.failureKind(err, FailureChannelUnavailable), err), false
	}

	attempt.Token = token
	attempt.State = StateNotified
	metrics.NotificationsSentTotal.Inc()
	o.record(attempt, StageNotify, "token "+token, nil)
	return Outcome{}, true
}

func (o *Orchestrator) commit(ctx context.Context, order *repository.Order, attempt *ProcessingAttempt) (Outcome, bool) {
	err := o.cfg.StoreRetry.Do(ctx, func() error {
		attempt.StageAttempts[StageCommit]++
		err := o.store.UpdateStatus(ctx, order.ID, repository.StatusConfirmed, repository.StatusScheduled)
		if errors.Is(err, repository.ErrClaimLost) {
			return Permanent(err)
		}
		return err
	})
	if err == nil {
		return Outcome{}, true
	}
	if errors.Is(err, repository.ErrClaimLost) {
		// Someone else moved the order. Not ours to release.
		attempt.State = StateFailed
		o.record(attempt, StageCommit, "", err)
		return Failed(order.ID, StageCommit, FailureConflict, err), false
	}
	return o.fail(ctx, attempt, StageCommit, o.failureKind(err, FailureStoreUnavailable), err), false
}

// fail records the failed stage, hands the order back to the queue and
// builds the outcome.
func (o *Orchestrator) fail(ctx context.Context, attempt *ProcessingAttempt, stage Stage, kind FailureKind, err error) Outcome {
	attempt.State = StateFailed
	o.record(attempt, stage, "", err)
	o.release(ctx, attempt.OrderID)
	return Failed(attempt.OrderID, stage, kind, err)
}

// release returns a claimed order to the queue on its own deadline: the
// run's context is often already cancelled when we get here.
func (o *Orchestrator) release(ctx context.Context, orderID string) {
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()
	if err := o.store.Release(rctx, orderID); err != nil {
		o.logger.Warn("release failed, claim lease will expire on its own",
			zap.String("order_id", orderID), zap.Error(err))
	}
}

func (o *Orchestrator) failureKind(err error, fallback FailureKind) FailureKind {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return FailureCancelled
	}
	return fallback
}

func (o *Orchestrator) record(attempt *ProcessingAttempt, stage Stage, detail string, err error) {
	ev := StageEvent{
		OrderID: attempt.OrderID,
		Stage:   stage,
		State:   attempt.State,
		Attempt: attempt.StageAttempts[stage],
		Detail:  detail,
		At:      time.Now(),
	}
	if err != nil {
		ev.Error = err.Error()
	}
	o.sink.Record(ev)
}

func validateOrder(order *repository.Order) error {
	var problems []string
	if strings.TrimSpace(order.CustomerEmail) == "" {
		problems = append(problems, "customer email is empty")
	}
	if len(order.Items) == 0 {
		problems = append(problems, "order has no items")
	}
	if order.RequestedDate.IsZero() {
		problems = append(problems, "requested date is not set")
	}
	if !order.TimePreference.Known() {
		problems = append(problems, fmt.Sprintf("unknown time preference %q", order.TimePreference))
	}
	if len(problems) > 0 {
		return fmt.Errorf("order %s: %s", order.ID, strings.Join(problems, "; "))
	}
	return nil
}

// Drain processes orders until the queue is empty or a run fails. A failed
// run stops the pass so a poisoned order cannot spin the loop; the next tick
// tries again.
func (o *Orchestrator) Drain(ctx context.Context) Outcome {
	for {
		out := o.ProcessNextOrder(ctx)
		if out.Kind != OutcomeCompleted {
			return out
		}
	}
}

// RunLoop drains the queue on every tick until the context ends.
func (o *Orchestrator) RunLoop(ctx context.Context, interval time.Duration) error {
	o.logger.Info("fulfillment loop started", zap.Duration("poll_interval", interval))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	o.Drain(ctx)
	for {
		select {
		case <-ticker.C:
			o.Drain(ctx)
		case <-ctx.Done():
			o.logger.Info("fulfillment loop stopped")
			return ctx.Err()
		}
	}
}
