package queue

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/smartmed/doctor-portal/internal/core/domain"
	"github.com/smartmed/doctor-portal/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes auth events to a fixed set of workers using consistent
// hashing on the browser context id, guaranteeing per-context event ordering.
type Dispatcher struct {
	workers []chan domain.AuthEvent
	service ports.AuditService
	log     zerolog.Logger
	onDrop  func(domain.AuthEvent)
	wg      sync.WaitGroup
}

type Option func(*Dispatcher)

// WithDropHook is called for every event rejected by a full shard.
func WithDropHook(fn func(domain.AuthEvent)) Option {
	return func(d *Dispatcher) { d.onDrop = fn }
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.AuditService, log zerolog.Logger, opts ...Option) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuthEvent, numWorkers),
		service: service,
		log:     log.With().Str("component", "audit_dispatcher").Logger(),
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuthEvent, channelBuffer)
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start launches all worker goroutines. Once ctx is cancelled each worker
// records what is still buffered in its shard and stops. Recording itself is
// not cancelled by ctx.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has stopped.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands an event to the worker responsible for its context without
// blocking. It reports false when that worker's buffer is full and the event
// was dropped.
func (d *Dispatcher) Enqueue(event domain.AuthEvent) bool {
	select {
	case d.workers[d.shardIndex(event.ContextID)] <- event:
		return true
	default:
		d.log.Warn().Str("context_id", event.ContextID).Str("type", string(event.Type)).Msg("audit queue full, event dropped")
		if d.onDrop != nil {
			d.onDrop(event)
		}
		return false
	}
}

// shardIndex maps a context id deterministically to a worker index.
func (d *Dispatcher) shardIndex(contextID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(contextID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuthEvent) {
	defer d.wg.Done()
	recordCtx := context.WithoutCancel(ctx)
	for {
		select {
		case <-ctx.Done():
			d.drain(recordCtx, id, ch)
			return
		case event := <-ch:
			d.record(recordCtx, id, event)
		}
	}
}

// drain records the events left in ch without waiting for new ones.
func (d *Dispatcher) drain(ctx context.Context, id int, ch <-chan domain.AuthEvent) {
	drained := 0
	for {
		select {
		case event := <-ch:
			d.record(ctx, id, event)
			drained++
		default:
			if drained > 0 {
				d.log.Info().Int("worker_id", id).Int("events", drained).Msg("drained audit queue on shutdown")
			}
			return
		}
	}
}

func (d *Dispatcher) record(ctx context.Context, id int, event domain.AuthEvent) {
	if err := d.service.Record(ctx, event); err != nil {
		d.log.Error().Err(err).
			Str("context_id", event.ContextID).
			Str("type", string(event.Type)).
			Int("worker_id", id).
			Msg("audit event recording failed")
	}
}
