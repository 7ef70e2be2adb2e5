package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/smartmed/doctor-portal/internal/core/domain"
	"github.com/smartmed/doctor-portal/internal/core/ports"
)

const defaultRemoteTimeout = 3 * time.Second

// AllowListStrategy authenticates against the fixed demo allow-list. It never
// performs I/O.
type AllowListStrategy struct {
	records []domain.CredentialRecord
}

func NewAllowListStrategy(records []domain.CredentialRecord) *AllowListStrategy {
	return &AllowListStrategy{records: records}
}

func (s *AllowListStrategy) Name() string { return domain.ProviderAllowList }

// Records returns the allow-list entries.
func (s *AllowListStrategy) Records() []domain.CredentialRecord {
	return s.records
}

// Authenticate matches the email case-insensitively and the password exactly.
func (s *AllowListStrategy) Authenticate(_ context.Context, creds domain.Credentials) (domain.Identity, error) {
	for _, r := range s.records {
		if strings.EqualFold(r.Email, creds.Email) && r.Password == creds.Password {
			return domain.Identity{
				ID:             "demo_" + uuid.NewString(),
				Email:          r.Email,
				Name:           r.Name,
				Specialization: r.Specialization,
				Provider:       domain.ProviderAllowList,
			}, nil
		}
	}
	return domain.Identity{}, domain.ErrInvalidCredentials
}

// RemoteStrategy delegates to a hosted auth service. Every failure other than
// a definite credential rejection is reported as RemoteAuthUnavailable.
type RemoteStrategy struct {
	remote  ports.RemoteAuth
	timeout time.Duration
}

// NewRemoteStrategy wraps remote; a nil remote makes the strategy permanently
// unavailable.
func NewRemoteStrategy(remote ports.RemoteAuth, timeout time.Duration) *RemoteStrategy {
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}
	return &RemoteStrategy{remote: remote, timeout: timeout}
}

func (s *RemoteStrategy) Name() string { return domain.ProviderDirectory }

func (s *RemoteStrategy) Authenticate(ctx context.Context, creds domain.Credentials) (domain.Identity, error) {
	if s.remote == nil {
		return domain.Identity{}, domain.ErrRemoteAuthUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	id, err := s.remote.SignIn(ctx, creds.Email, creds.Password)
	if err == nil {
		return id, nil
	}
	if errors.Is(err, domain.ErrInvalidCredentials) {
		return domain.Identity{}, err
	}
	return domain.Identity{}, domain.WrapError(domain.KindRemoteAuthUnavailable, "remote auth unavailable", err)
}

// Step is one strategy of the chain and the error kinds that let the chain
// move on to the next step.
type Step struct {
	Strategy   ports.AuthStrategy
	ContinueOn []domain.ErrorKind
}

func (s Step) continues(err error) bool {
	kind, ok := domain.KindOf(err)
	if !ok {
		return false
	}
	for _, k := range s.ContinueOn {
		if k == kind {
			return true
		}
	}
	return false
}

// ChainAuthenticator validates credentials once, then tries each step in
// order. An exhausted chain always fails with InvalidCredentials.
type ChainAuthenticator struct {
	checker *CredentialChecker
	steps   []Step
	log     zerolog.Logger
}

func NewChainAuthenticator(checker *CredentialChecker, log zerolog.Logger, steps ...Step) *ChainAuthenticator {
	return &ChainAuthenticator{
		checker: checker,
		steps:   steps,
		log:     log.With().Str("component", "authenticator").Logger(),
	}
}

// NewDefaultAuthenticator builds the allow-list → remote chain.
func NewDefaultAuthenticator(allowList *AllowListStrategy, remote *RemoteStrategy, log zerolog.Logger) *ChainAuthenticator {
	return NewChainAuthenticator(NewCredentialChecker(), log,
		Step{Strategy: allowList, ContinueOn: []domain.ErrorKind{domain.KindInvalidCredentials}},
		Step{Strategy: remote, ContinueOn: []domain.ErrorKind{domain.KindRemoteAuthUnavailable, domain.KindInvalidCredentials}},
	)
}

func (a *ChainAuthenticator) Authenticate(ctx context.Context, email, password string) (domain.Identity, error) {
	creds := domain.Credentials{Email: email, Password: password}
	if err := a.checker.Validate(creds); err != nil {
		return domain.Identity{}, err
	}

	var lastErr error = domain.ErrInvalidCredentials
	for _, step := range a.steps {
		id, err := step.Strategy.Authenticate(ctx, creds)
		if err == nil {
			a.log.Debug().Str("strategy", step.Strategy.Name()).Str("email", id.Email).Msg("authenticated")
			return id, nil
		}
		if !step.continues(err) {
			return domain.Identity{}, err
		}
		a.log.Debug().Err(err).Str("strategy", step.Strategy.Name()).Msg("strategy declined, trying next")
		lastErr = err
	}

	if errors.Is(lastErr, domain.ErrInvalidCredentials) {
		return domain.Identity{}, domain.ErrInvalidCredentials
	}
	return domain.Identity{}, domain.WrapError(domain.KindInvalidCredentials, domain.ErrInvalidCredentials.Message, lastErr)
}
