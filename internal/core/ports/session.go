package ports

import (
	"context"

	"github.com/smartmed/doctor-portal/internal/core/domain"
)

// SessionSnapshot is a consistent read of a session store.
type SessionSnapshot struct {
	State   domain.AuthState
	Session *domain.Session
}

// Listener observes session store transitions. Listeners run synchronously
// and must not call SignIn or SignOut on the store that notifies them.
type Listener func(contextID string, t domain.Transition)

// SessionStore owns the signed-in session of one browser context.
type SessionStore interface {
	ContextID() string
	Wait(ctx context.Context) error
	Snapshot() SessionSnapshot
	SignIn(ctx context.Context, email, password string) (domain.Transition, error)
	SignOut(ctx context.Context) (domain.Transition, error)
	Subscribe(fn Listener) (unsubscribe func())
}

// SessionRegistry hands out the session store of a browser context. The store
// stays pinned to its context until release is called, so one context never
// has two live stores. release is safe to call more than once.
type SessionRegistry interface {
	Acquire(ctx context.Context, contextID string) (store SessionStore, release func())
}
