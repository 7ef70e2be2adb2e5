package queue

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/smartmed/doctor-portal/internal/core/domain"
)

type recordingService struct {
	mu        sync.Mutex
	events    []domain.AuthEvent
	cancelled int
	done      chan struct{}
	want      int
}

func newRecordingService(want int) *recordingService {
	return &recordingService{done: make(chan struct{}), want: want}
}

func (s *recordingService) Record(ctx context.Context, e domain.AuthEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ctx.Err() != nil {
		s.cancelled++
	}
	s.events = append(s.events, e)
	if len(s.events) == s.want {
		close(s.done)
	}
	return nil
}

func TestDispatcher_PreservesPerContextOrder(t *testing.T) {
	const perContext = 50
	svc := newRecordingService(perContext * 2)
	d := NewDispatcher(3, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for i := 0; i < perContext; i++ {
		d.Enqueue(domain.AuthEvent{ContextID: "a", Email: strconv.Itoa(i)})
		d.Enqueue(domain.AuthEvent{ContextID: "b", Email: strconv.Itoa(i)})
	}

	select {
	case <-svc.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for events")
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	next := map[string]int{}
	for _, e := range svc.events {
		if e.Email != strconv.Itoa(next[e.ContextID]) {
			t.Fatalf("context %s: expected event %d, got %s", e.ContextID, next[e.ContextID], e.Email)
		}
		next[e.ContextID]++
	}
}

func TestDispatcher_EnqueueDropsWhenFull(t *testing.T) {
	dropped := 0
	d := NewDispatcher(1, newRecordingService(-1), zerolog.Nop(), WithDropHook(func(domain.AuthEvent) { dropped++ }))

	// Workers are not started, so the buffer fills up.
	for i := 0; i < channelBuffer; i++ {
		if !d.Enqueue(domain.AuthEvent{ContextID: "a"}) {
			t.Fatalf("enqueue %d unexpectedly dropped", i)
		}
	}
	if d.Enqueue(domain.AuthEvent{ContextID: "a"}) {
		t.Fatalf("expected enqueue on a full shard to report a drop")
	}
	if dropped != 1 {
		t.Fatalf("expected drop hook once, got %d", dropped)
	}
}

func TestDispatcher_WaitReturnsAfterCancel(t *testing.T) {
	d := NewDispatcher(2, newRecordingService(-1), zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		d.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("workers did not stop")
	}
}

func TestDispatcher_DrainsBufferedEventsOnShutdown(t *testing.T) {
	const queued = 20
	svc := newRecordingService(queued)
	d := NewDispatcher(2, svc, zerolog.Nop())

	for i := 0; i < queued; i++ {
		d.Enqueue(domain.AuthEvent{ContextID: strconv.Itoa(i % 5), Email: strconv.Itoa(i)})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Start(ctx)
	d.Wait()

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if len(svc.events) != queued {
		t.Fatalf("expected %d recorded events after shutdown, got %d", queued, len(svc.events))
	}
	if svc.cancelled != 0 {
		t.Fatalf("expected events to be recorded with a live context, %d were not", svc.cancelled)
	}
}
