package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/smartmed/doctor-portal/internal/core/domain"
	"github.com/smartmed/doctor-portal/internal/core/ports"
)

const defaultLoadTimeout = 2 * time.Second

type subscription struct {
	id uint64
	fn ports.Listener
}

// SessionStore owns the session of one browser context. It restores the
// persisted blob once, then moves between AUTHENTICATED and ANONYMOUS on
// SignIn and SignOut, persisting and notifying subscribers on every change.
type SessionStore struct {
	contextID   string
	storage     ports.BlobStorage
	auth        ports.Authenticator
	remote      ports.RemoteAuth
	log         zerolog.Logger
	loadTimeout time.Duration

	// transitionMu serializes blob writes with the notifications they cause.
	transitionMu sync.Mutex

	stateMu sync.RWMutex
	state   domain.AuthState
	session *domain.Session

	initOnce sync.Once
	ready    chan struct{}

	subsMu  sync.RWMutex
	subs    []subscription
	nextSub uint64
}

type SessionStoreOption func(*SessionStore)

// WithLoadTimeout bounds the initial read of the persisted blob.
func WithLoadTimeout(d time.Duration) SessionStoreOption {
	return func(s *SessionStore) {
		if d > 0 {
			s.loadTimeout = d
		}
	}
}

// WithRemoteSignOut notifies remote on sign out. Its errors are logged only.
func WithRemoteSignOut(remote ports.RemoteAuth) SessionStoreOption {
	return func(s *SessionStore) { s.remote = remote }
}

func NewSessionStore(contextID string, storage ports.BlobStorage, auth ports.Authenticator, log zerolog.Logger, opts ...SessionStoreOption) *SessionStore {
	s := &SessionStore{
		contextID:   contextID,
		storage:     storage,
		auth:        auth,
		log:         log.With().Str("component", "session_store").Str("context_id", contextID).Logger(),
		loadTimeout: defaultLoadTimeout,
		state:       domain.StateUninitialized,
		ready:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SessionStore) ContextID() string { return s.contextID }

// Initialize restores the persisted session. It runs once; later calls return
// immediately after the first has finished. Initialization always resolves,
// to ANONYMOUS when the blob is absent, unreadable or corrupt.
func (s *SessionStore) Initialize(ctx context.Context) {
	s.initOnce.Do(func() {
		s.transitionMu.Lock()
		defer s.transitionMu.Unlock()
		defer close(s.ready)

		s.mustApply(domain.Transition{From: domain.StateUninitialized, To: domain.StateLoading})

		session, recovered := s.restore(ctx)
		if session != nil {
			s.mustApply(domain.Transition{From: domain.StateLoading, To: domain.StateAuthenticated, Session: session})
			return
		}
		s.mustApply(domain.Transition{From: domain.StateLoading, To: domain.StateAnonymous, Recovered: recovered})
	})
}

func (s *SessionStore) restore(ctx context.Context) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.loadTimeout)
	defer cancel()

	raw, err := s.storage.Get(ctx, domain.SessionBlobKey)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to read persisted session")
		return nil, fmt.Errorf("read persisted session: %w", err)
	}
	if raw == nil {
		return nil, nil
	}

	session, err := DecodeSessionBlob(raw)
	if err != nil {
		s.log.Warn().Err(err).Msg("discarding corrupt persisted session")
		if delErr := s.storage.Delete(ctx, domain.SessionBlobKey); delErr != nil {
			s.log.Error().Err(delErr).Msg("failed to delete corrupt persisted session")
		}
		return nil, err
	}

	s.log.Debug().Str("email", session.Email).Msg("session restored")
	return session, nil
}

// Wait blocks until initialization has resolved or ctx is done.
func (s *SessionStore) Wait(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return domain.WrapError(domain.KindNotReady, domain.ErrSessionNotReady.Message, ctx.Err())
	}
}

func (s *SessionStore) State() domain.AuthState {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

// Session returns a copy of the signed-in session, nil when there is none.
func (s *SessionStore) Session() *domain.Session {
	return s.Snapshot().Session
}

func (s *SessionStore) Snapshot() ports.SessionSnapshot {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	snap := ports.SessionSnapshot{State: s.state}
	if s.session != nil {
		cp := *s.session
		snap.Session = &cp
	}
	return snap
}

// SignIn authenticates, persists the new session and navigates to the
// dashboard. A sign-in while authenticated replaces the session.
func (s *SessionStore) SignIn(ctx context.Context, email, password string) (domain.Transition, error) {
	if err := s.Wait(ctx); err != nil {
		return domain.Transition{}, err
	}

	identity, err := s.auth.Authenticate(ctx, email, password)
	if err != nil {
		s.log.Info().Err(err).Str("email", email).Msg("sign in rejected")
		return domain.Transition{}, err
	}

	session := identity.Session()
	raw, err := EncodeSessionBlob(session)
	if err != nil {
		return domain.Transition{}, err
	}

	s.transitionMu.Lock()
	defer s.transitionMu.Unlock()

	if err := s.storage.Set(ctx, domain.SessionBlobKey, raw); err != nil {
		s.log.Error().Err(err).Msg("failed to persist session")
		return domain.Transition{}, fmt.Errorf("persist session: %w", err)
	}

	prev := s.Snapshot()
	t := domain.Transition{
		From:     prev.State,
		To:       domain.StateAuthenticated,
		Session:  &session,
		Previous: prev.Session,
		Redirect: domain.DashboardPath,
	}
	if err := s.apply(t); err != nil {
		return domain.Transition{}, err
	}
	s.log.Info().Str("email", session.Email).Str("provider", identity.Provider).Msg("signed in")
	return t, nil
}

// SignOut clears the persisted blob and navigates to the login page. Signing
// out while anonymous only repeats the navigation.
func (s *SessionStore) SignOut(ctx context.Context) (domain.Transition, error) {
	if err := s.Wait(ctx); err != nil {
		return domain.Transition{}, err
	}

	s.transitionMu.Lock()
	defer s.transitionMu.Unlock()

	if err := s.storage.Delete(ctx, domain.SessionBlobKey); err != nil {
		s.log.Error().Err(err).Msg("failed to delete persisted session")
		return domain.Transition{}, fmt.Errorf("delete persisted session: %w", err)
	}

	snap := s.Snapshot()
	if snap.State != domain.StateAuthenticated {
		return domain.Transition{From: snap.State, To: snap.State, Redirect: domain.LoginPath}, nil
	}

	s.signOutRemote(ctx, snap.Session.Email)

	t := domain.Transition{From: snap.State, To: domain.StateAnonymous, Previous: snap.Session, Redirect: domain.LoginPath}
	if err := s.apply(t); err != nil {
		return domain.Transition{}, err
	}
	s.log.Info().Str("email", snap.Session.Email).Msg("signed out")
	return t, nil
}

func (s *SessionStore) signOutRemote(ctx context.Context, email string) {
	if s.remote == nil {
		return
	}
	if err := s.remote.SignOut(ctx, email); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("remote sign out failed")
	}
}

// Subscribe registers fn for every later transition. The returned function
// removes it and is safe to call more than once.
func (s *SessionStore) Subscribe(fn ports.Listener) func() {
	s.subsMu.Lock()
	s.nextSub++
	id := s.nextSub
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subsMu.Lock()
			defer s.subsMu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// apply must be called with transitionMu held.
func (s *SessionStore) apply(t domain.Transition) error {
	s.stateMu.Lock()
	if s.state != t.From || !t.From.CanTransitionTo(t.To) {
		from := s.state
		s.stateMu.Unlock()
		return domain.WrapError(domain.KindInvalid, domain.ErrInvalidTransition.Message,
			fmt.Errorf("%s -> %s", from, t.To))
	}
	s.state = t.To
	s.session = t.Session
	s.stateMu.Unlock()

	s.notify(t)
	return nil
}

func (s *SessionStore) mustApply(t domain.Transition) {
	if err := s.apply(t); err != nil {
		panic(errors.Join(errors.New("session store: impossible transition"), err))
	}
}

func (s *SessionStore) notify(t domain.Transition) {
	s.subsMu.RLock()
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.subsMu.RUnlock()

	for _, sub := range subs {
		sub.fn(s.contextID, t)
	}
}
