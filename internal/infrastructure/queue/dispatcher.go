package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/orderly/orders-api/internal/api/metrics"
	"github.com/orderly/orders-api/internal/core/domain"
	"github.com/orderly/orders-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

// Dispatcher fans request records out to a fixed set of workers that persist
// them to the audit store. Records are sharded by request id.
type Dispatcher struct {
	workers []chan *domain.RequestRecord
	repo    ports.AuditRepository
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan *domain.RequestRecord, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan *domain.RequestRecord, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers exit once Close has been
// called and their channel is drained.
func (d *Dispatcher) Start() {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(i, ch)
	}
}

// Record enqueues rec without blocking. When the worker's buffer is full, or
// the dispatcher is closed, the record is dropped and counted.
func (d *Dispatcher) Record(rec *domain.RequestRecord) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		metrics.AuditDroppedTotal.Inc()
		return
	}

	idx := d.shardIndex(rec.RequestID)
	select {
	case d.workers[idx] <- rec:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.AuditDroppedTotal.Inc()
		d.log.Warn().Str("request_id", rec.RequestID).Int("worker_id", idx).Msg("audit queue full, record dropped")
	}
}

// Close stops accepting records and waits for pending ones to be written, or
// for ctx to end.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps a request id deterministically to a worker index.
func (d *Dispatcher) shardIndex(requestID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(requestID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(id int, ch <-chan *domain.RequestRecord) {
	defer d.wg.Done()
	depth := metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(id))

	for rec := range ch {
		start := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := d.repo.InsertRequest(ctx, rec)
		cancel()

		metrics.AuditWriteDuration.Observe(time.Since(start).Seconds())
		depth.Set(float64(len(ch)))

		if err != nil {
			d.log.Error().Err(err).
				Str("request_id", rec.RequestID).
				Int("worker_id", id).
				Msg("audit write failed")
		}
	}
}
