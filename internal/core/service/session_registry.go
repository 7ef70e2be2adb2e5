package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/smartmed/doctor-portal/internal/core/ports"
)

// NamespaceFunc scopes the shared blob storage to one browser context.
type NamespaceFunc func(contextID string) ports.BlobStorage

type registryEntry struct {
	store    *SessionStore
	lastSeen time.Time
	refs     int
}

// SessionRegistry keeps one SessionStore per browser context. Stores are
// created on first use and initialized in the background; Sweep drops them
// once idle and unpinned, and a dropped store is rebuilt from its persisted
// blob on the next request.
type SessionRegistry struct {
	namespace NamespaceFunc
	auth      ports.Authenticator
	log       zerolog.Logger
	opts      []SessionStoreOption
	now       func() time.Time

	mu        sync.Mutex
	entries   map[string]*registryEntry
	listeners []ports.Listener
}

func NewSessionRegistry(namespace NamespaceFunc, auth ports.Authenticator, log zerolog.Logger, opts ...SessionStoreOption) *SessionRegistry {
	return &SessionRegistry{
		namespace: namespace,
		auth:      auth,
		log:       log,
		opts:      opts,
		now:       time.Now,
		entries:   make(map[string]*registryEntry),
	}
}

// Subscribe attaches fn to every store the registry creates from now on.
func (r *SessionRegistry) Subscribe(fn ports.Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// Acquire returns the store of contextID pinned against Sweep until release
// is called. A new store starts initializing in the background, detached from
// ctx so an aborted request cannot leave it resolved as anonymous; callers
// bound their own wait with SessionStore.Wait.
func (r *SessionRegistry) Acquire(ctx context.Context, contextID string) (ports.SessionStore, func()) {
	r.mu.Lock()
	e, ok := r.entries[contextID]
	if !ok {
		store := NewSessionStore(contextID, r.namespace(contextID), r.auth, r.log, r.opts...)
		for _, fn := range r.listeners {
			store.Subscribe(fn)
		}
		e = &registryEntry{store: store}
		r.entries[contextID] = e
		go store.Initialize(context.WithoutCancel(ctx))
	}
	e.refs++
	e.lastSeen = r.now()
	r.mu.Unlock()

	var once sync.Once
	release := func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			e.refs--
			e.lastSeen = r.now()
		})
	}
	return e.store, release
}

// Sweep drops unpinned stores not used for longer than idle and returns how
// many it removed.
func (r *SessionRegistry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, e := range r.entries {
		if e.refs == 0 && e.lastSeen.Before(cutoff) {
			delete(r.entries, id)
			removed++
		}
	}
	if removed > 0 {
		r.log.Debug().Int("removed", removed).Int("remaining", len(r.entries)).Msg("swept idle session stores")
	}
	return removed
}

// Len reports the number of cached stores.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
