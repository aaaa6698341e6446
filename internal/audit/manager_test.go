package audit_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/audit"
	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/fulfillment"
)

type capturingProducer struct {
	mu      sync.Mutex
	batches [][]byte
}

func (p *capturingProducer) SendMessage(_ context.Context, _ string, _, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.batches = append(p.batches, value)
	return nil
}

func (p *capturingProducer) Close() error { return nil }

func (p *capturingProducer) events(t *testing.T) []fulfillment.StageEvent {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()

	var all []fulfillment.StageEvent
	for _, raw := range p.batches {
		var batch []fulfillment.StageEvent
		require.NoError(t, json.Unmarshal(raw, &batch))
		all = append(all, batch...)
	}
	return all
}

func (p *capturingProducer) batchCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.batches)
}

func stageEvent(orderID string, stage fulfillment.Stage) fulfillment.StageEvent {
	return fulfillment.StageEvent{
		OrderID: orderID,
		Stage:   stage,
		State:   fulfillment.StateFetched,
		At:      time.Now(),
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestManager_PublishesFullBatches(t *testing.T) {
	producer := &capturingProducer{}
	m := audit.NewManager(producer, "fulfillment_audit", 1, 2, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)

	m.Record(stageEvent("ORD12345", fulfillment.StageClaim))
	m.Record(stageEvent("ORD12345", fulfillment.StageSchedule))

	waitFor(t, func() bool { return producer.batchCount() == 1 })

	events := producer.events(t)
	require.Len(t, events, 2)
	assert.Equal(t, fulfillment.StageClaim, events[0].Stage)
	assert.Equal(t, fulfillment.StageSchedule, events[1].Stage)
}

func TestManager_FlushesPartialBatchOnTimeout(t *testing.T) {
	producer := &capturingProducer{}
	m := audit.NewManager(producer, "fulfillment_audit", 1, 100, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)

	m.Record(stageEvent("ORD12346", fulfillment.StageCommit))

	waitFor(t, func() bool { return producer.batchCount() == 1 })
	assert.Len(t, producer.events(t), 1)
}

func TestManager_ShutdownFlushesBuffer(t *testing.T) {
	producer := &capturingProducer{}
	m := audit.NewManager(producer, "fulfillment_audit", 1, 100, time.Minute)

	m.Start(context.Background())
	m.Record(stageEvent("ORD12345", fulfillment.StageClaim))
	m.Record(stageEvent("ORD12345", fulfillment.StageNotify))
	m.Record(stageEvent("ORD12345", fulfillment.StageCommit))

	m.Shutdown(context.Background())

	assert.Len(t, producer.events(t), 3)

	// Shutdown twice is fine.
	m.Shutdown(context.Background())
}

func TestManager_RecordNeverBlocks(t *testing.T) {
	producer := &capturingProducer{}
	// Never started: nothing drains the input buffer (capacity 1*1*2).
	m := audit.NewManager(producer, "fulfillment_audit", 1, 1, time.Minute)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			m.Record(stageEvent("ORD12347", fulfillment.StageFetch))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Record blocked on a full buffer")
	}
}
