package audit

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/fulfillment"
	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/kafka"
	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/metrics"
)

// Manager batches pipeline stage events and publishes them to the audit
// topic. Record never blocks: when the buffer is full the event is dropped
// and counted, because the pipeline must not wait on its own audit trail.
type Manager struct {
	producer kafka.Producer
	topic    string

	workerCount int
	batchSize   int
	timeout     time.Duration

	inputChan  chan fulfillment.StageEvent
	batchChan  chan []fulfillment.StageEvent
	shutdownCh chan struct{}
	once       sync.Once
	wg         sync.WaitGroup
}

func NewManager(producer kafka.Producer, topic string, workerCount, batchSize int, timeout time.Duration) *Manager {
	if workerCount < 1 {
		workerCount = 2
	}
	if batchSize < 1 {
		batchSize = 16
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Manager{
		producer:    producer,
		topic:       topic,
		workerCount: workerCount,
		batchSize:   batchSize,
		timeout:     timeout,
		inputChan:   make(chan fulfillment.StageEvent, workerCount*batchSize*2),
		batchChan:   make(chan []fulfillment.StageEvent, workerCount*2),
		shutdownCh:  make(chan struct{}),
	}
}

func (m *Manager) Start(ctx context.Context) {
	log.Println("Starting audit manager")
	m.wg.Add(1)
	go m.runAggregator()

	for i := 0; i < m.workerCount; i++ {
		m.wg.Add(1)
		go m.runWorker(ctx, i)
	}

	go m.monitorShutdown(ctx)
}

// Record implements fulfillment.TraceSink.
func (m *Manager) Record(ev fulfillment.StageEvent) {
	select {
	case m.inputChan <- ev:
	default:
		metrics.AuditEventsDroppedTotal.Inc()
		zap.L().Warn("audit buffer full, dropping event",
			zap.String("order_id", ev.OrderID),
			zap.String("stage", string(ev.Stage)))
	}
}

// Shutdown flushes what is buffered and stops the workers. Safe to call more
// than once.
func (m *Manager) Shutdown(ctx context.Context) {
	m.once.Do(func() {
		log.Println("Initiating audit manager shutdown")
		close(m.shutdownCh)

		done := make(chan struct{})
		go func() {
			m.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			log.Println("Audit manager shutdown completed")
		case <-ctx.Done():
			log.Println("WARNING: audit manager shutdown interrupted")
		}
	})
}

func (m *Manager) monitorShutdown(ctx context.Context) {
	<-ctx.Done()
	m.Shutdown(context.Background())
}

func (m *Manager) runAggregator() {
	defer m.wg.Done()

	var (
		batch    []fulfillment.StageEvent
		timer    *time.Timer
		timeoutC <-chan time.Time
	)

	defer func() {
		if timer != nil {
			timer.Stop()
		}
		if len(batch) > 0 {
			// Workers may already be draining toward exit. Publish the
			// final batch here so it cannot be left in the queue.
			m.publishBatch(context.Background(), batch)
		}
		close(m.batchChan)
	}()

	for {
		select {
		case ev := <-m.inputChan:
			batch = append(batch, ev)
			if len(batch) >= m.batchSize {
				m.dispatchBatch(batch)
				batch = nil
				timeoutC = nil
			} else if len(batch) == 1 {
				timer = time.NewTimer(m.timeout)
				timeoutC = timer.C
			}

		case <-timeoutC:
			m.dispatchBatch(batch)
			batch = nil
			timeoutC = nil

		case <-m.shutdownCh:
			// Pull whatever is still buffered into the final batch.
			for {
				select {
				case ev := <-m.inputChan:
					batch = append(batch, ev)
				default:
					return
				}
			}
		}
	}
}

func (m *Manager) dispatchBatch(batch []fulfillment.StageEvent) {
	batchCopy := make([]fulfillment.StageEvent, len(batch))
	copy(batchCopy, batch)

	select {
	case m.batchChan <- batchCopy:
	default:
		// All workers busy and the queue is full. Keep the trail in the
		// process log rather than stalling the aggregator.
		m.fallbackLog(batchCopy)
	}
}

func (m *Manager) runWorker(ctx context.Context, id int) {
	defer m.wg.Done()
	log.Printf("Audit worker %d started", id)

	for {
		select {
		case batch, ok := <-m.batchChan:
			if !ok {
				log.Printf("Audit worker %d exiting", id)
				return
			}
			m.publishBatch(ctx, batch)
		case <-ctx.Done():
			// The aggregator is on its way out too and will close the
			// queue. Drain what it still hands over.
			for batch := range m.batchChan {
				m.publishBatch(context.Background(), batch)
			}
			log.Printf("Audit worker %d exiting", id)
			return
		}
	}
}

func (m *Manager) publishBatch(ctx context.Context, batch []fulfillment.StageEvent) {
	payload, err := json.Marshal(batch)
	if err != nil {
		zap.L().Error("failed to encode audit batch", zap.Error(err))
		return
	}

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := m.producer.SendMessage(pctx, m.topic, []byte(uuid.NewString()), payload); err != nil {
		zap.L().Error("failed to publish audit batch",
			zap.Int("events", len(batch)), zap.Error(err))
		m.fallbackLog(batch)
	}
}

func (m *Manager) fallbackLog(batch []fulfillment.StageEvent) {
	for _, ev := range batch {
		zap.L().Info("audit event",
			zap.String("order_id", ev.OrderID),
			zap.String("stage", string(ev.Stage)),
			zap.String("state", string(ev.State)),
			zap.String("detail", ev.Detail),
			zap.String("error", ev.Error))
	}
}
