package ports

import (
	"context"

	"github.com/smartmed/doctor-portal/internal/core/domain"
)

// AuthStrategy resolves credentials to an identity. Implementations return
// classified domain errors so the caller can decide whether to try the next
// strategy.
type AuthStrategy interface {
	Name() string
	Authenticate(ctx context.Context, creds domain.Credentials) (domain.Identity, error)
}

// Authenticator validates a login attempt and runs it through the strategy
// chain.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (domain.Identity, error)
}

// RemoteAuth is a hosted auth service used as the fallback strategy.
type RemoteAuth interface {
	SignIn(ctx context.Context, email, password string) (domain.Identity, error)
	SignOut(ctx context.Context, email string) error
	GetSession(ctx context.Context, email string) (*domain.Session, error)
}
