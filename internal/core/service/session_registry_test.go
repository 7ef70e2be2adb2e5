package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/smartmed/doctor-portal/internal/core/domain"
	"github.com/smartmed/doctor-portal/internal/core/ports"
)

// prefixedStorage scopes a shared stub by prefix.
type prefixedStorage struct {
	prefix string
	base   *stubBlobStorage
}

func (p prefixedStorage) Get(ctx context.Context, key string) ([]byte, error) {
	return p.base.Get(ctx, p.prefix+key)
}

func (p prefixedStorage) Set(ctx context.Context, key string, value []byte) error {
	return p.base.Set(ctx, p.prefix+key, value)
}

func (p prefixedStorage) Delete(ctx context.Context, key string) error {
	return p.base.Delete(ctx, p.prefix+key)
}

func newTestRegistry(base *stubBlobStorage) *SessionRegistry {
	ns := func(id string) ports.BlobStorage { return prefixedStorage{prefix: "ctx:" + id + ":", base: base} }
	return NewSessionRegistry(ns, newTestAuthenticator(nil), zerolog.Nop())
}

// acquireReady acquires the store of id and waits for it to initialize.
func acquireReady(t *testing.T, r *SessionRegistry, id string) (ports.SessionStore, func()) {
	t.Helper()
	store, release := r.Acquire(context.Background(), id)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := store.Wait(ctx); err != nil {
		t.Fatalf("store %s did not initialize: %v", id, err)
	}
	return store, release
}

// slowBlobStorage delays every read.
type slowBlobStorage struct {
	*stubBlobStorage
	delay time.Duration
}

func (s slowBlobStorage) Get(ctx context.Context, key string) ([]byte, error) {
	time.Sleep(s.delay)
	return s.stubBlobStorage.Get(ctx, key)
}

func TestSessionRegistry_AcquireReturnsInitializedStore(t *testing.T) {
	r := newTestRegistry(newStubBlobStorage())

	store, release := acquireReady(t, r, "a")
	defer release()
	if got := store.Snapshot().State; got != domain.StateAnonymous {
		t.Fatalf("expected ANONYMOUS, got %s", got)
	}
	again, releaseAgain := r.Acquire(context.Background(), "a")
	defer releaseAgain()
	if again != store {
		t.Fatalf("expected the same store for the same context")
	}
	if r.Len() != 1 {
		t.Fatalf("expected 1 store, got %d", r.Len())
	}
}

func TestSessionRegistry_AcquireDoesNotBlockOnSlowStorage(t *testing.T) {
	base := newStubBlobStorage()
	slow := slowBlobStorage{stubBlobStorage: base, delay: 200 * time.Millisecond}
	r := NewSessionRegistry(func(string) ports.BlobStorage { return slow }, newTestAuthenticator(nil), zerolog.Nop())

	start := time.Now()
	store, release := r.Acquire(context.Background(), "a")
	defer release()
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("Acquire blocked for %s", elapsed)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := store.Wait(ctx); err == nil {
		t.Fatalf("expected a bounded wait to time out while storage is slow")
	}
	if got := store.Snapshot().State; got == domain.StateAnonymous || got == domain.StateAuthenticated {
		t.Fatalf("expected the store to be unresolved, got %s", got)
	}

	if err := store.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if got := store.Snapshot().State; got != domain.StateAnonymous {
		t.Fatalf("expected ANONYMOUS once loaded, got %s", got)
	}
}

func TestSessionRegistry_ContextsAreIsolated(t *testing.T) {
	base := newStubBlobStorage()
	r := newTestRegistry(base)

	a, releaseA := acquireReady(t, r, "a")
	defer releaseA()
	b, releaseB := acquireReady(t, r, "b")
	defer releaseB()
	if _, err := a.SignIn(context.Background(), "dr.sarah@hospital.com", "doctor123"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	if b.Snapshot().State != domain.StateAnonymous {
		t.Fatalf("signing in context a must not affect context b")
	}
	if !base.has("ctx:a:" + domain.SessionBlobKey) {
		t.Fatalf("expected blob under context a's namespace")
	}
}

func TestSessionRegistry_ConcurrentAcquireSharesStore(t *testing.T) {
	r := newTestRegistry(newStubBlobStorage())

	const n = 16
	stores := make([]ports.SessionStore, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store, release := r.Acquire(context.Background(), "shared")
			defer release()
			stores[i] = store
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if stores[i] != stores[0] {
			t.Fatalf("expected every caller to share one store")
		}
	}
}

func TestSessionRegistry_SweepRebuildsFromBlob(t *testing.T) {
	base := newStubBlobStorage()
	r := newTestRegistry(base)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	store, release := acquireReady(t, r, "a")
	if _, err := store.SignIn(context.Background(), "dr.emily@medcenter.com", "healthcare789"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	release()

	now = now.Add(time.Hour)
	if removed := r.Sweep(30 * time.Minute); removed != 1 {
		t.Fatalf("expected 1 swept store, got %d", removed)
	}
	if r.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", r.Len())
	}

	rebuilt, releaseRebuilt := acquireReady(t, r, "a")
	defer releaseRebuilt()
	if rebuilt == store {
		t.Fatalf("expected a fresh store after sweep")
	}
	snap := rebuilt.Snapshot()
	if snap.State != domain.StateAuthenticated || snap.Session.Email != "dr.emily@medcenter.com" {
		t.Fatalf("expected session restored from blob, got %+v", snap)
	}
}

func TestSessionRegistry_SweepKeepsPinnedStore(t *testing.T) {
	base := newStubBlobStorage()
	r := newTestRegistry(base)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	held, release := acquireReady(t, r, "a")
	if _, err := held.SignIn(context.Background(), "dr.sarah@hospital.com", "doctor123"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	now = now.Add(time.Hour)
	if removed := r.Sweep(time.Minute); removed != 0 {
		t.Fatalf("expected the held store to survive the sweep, removed %d", removed)
	}

	other, releaseOther := acquireReady(t, r, "a")
	if other != held {
		t.Fatalf("expected one store per context while a request holds it")
	}
	releaseOther()

	if _, err := held.SignOut(context.Background()); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	release()
	release()

	current, releaseCurrent := acquireReady(t, r, "a")
	defer releaseCurrent()
	if current.Snapshot().State != domain.StateAnonymous {
		t.Fatalf("expected the context to be signed out, got %s", current.Snapshot().State)
	}
	if base.has("ctx:a:" + domain.SessionBlobKey) {
		t.Fatalf("expected blob to be deleted")
	}

	releaseCurrent()
	now = now.Add(time.Hour)
	if removed := r.Sweep(time.Minute); removed != 1 {
		t.Fatalf("expected the released store to be swept, removed %d", removed)
	}
}

func TestSessionRegistry_ListenersAttachToNewStores(t *testing.T) {
	r := newTestRegistry(newStubBlobStorage())
	var mu sync.Mutex
	seen := map[string]int{}
	r.Subscribe(func(id string, _ domain.Transition) {
		mu.Lock()
		seen[id]++
		mu.Unlock()
	})

	_, releaseA := acquireReady(t, r, "a")
	defer releaseA()
	_, releaseB := acquireReady(t, r, "b")
	defer releaseB()

	mu.Lock()
	defer mu.Unlock()
	if seen["a"] != 2 || seen["b"] != 2 {
		t.Fatalf("expected init transitions for both contexts, got %v", seen)
	}
}

func TestSessionRegistry_InitializationIgnoresCancelledRequest(t *testing.T) {
	base := newStubBlobStorage()
	base.data["ctx:a:"+domain.SessionBlobKey] = []byte(`{"id":"1","email":"a@b.co","name":"A","specialization":""}`)
	r := newTestRegistry(base)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store, release := r.Acquire(ctx, "a")
	defer release()
	if err := store.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if got := store.Snapshot().State; got != domain.StateAuthenticated {
		t.Fatalf("expected AUTHENTICATED despite cancelled request, got %s", got)
	}
}
