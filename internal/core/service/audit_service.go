package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/smartmed/doctor-portal/internal/core/domain"
	"github.com/smartmed/doctor-portal/internal/core/ports"
)

// AuditDeduper abstracts the idempotency store (Redis).
type AuditDeduper interface {
	FirstSeen(ctx context.Context, event domain.AuthEvent) (bool, error)
}

type auditService struct {
	repo  ports.AuditRepository
	dedup AuditDeduper
	log   zerolog.Logger
}

// NewAuditService returns an AuditService implementation. dedup may be nil.
func NewAuditService(repo ports.AuditRepository, dedup AuditDeduper, log zerolog.Logger) ports.AuditService {
	return &auditService{
		repo:  repo,
		dedup: dedup,
		log:   log.With().Str("component", "audit").Logger(),
	}
}

// Record persists one authentication event. Restores of the same session
// recur whenever an idle store is rebuilt, so they are deduplicated.
func (s *auditService) Record(ctx context.Context, event domain.AuthEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	if event.Type == domain.EventSessionRestored && s.dedup != nil {
		first, err := s.dedup.FirstSeen(ctx, event)
		if err != nil {
			s.log.Warn().Err(err).Str("context_id", event.ContextID).Msg("dedup check failed, recording anyway")
		} else if !first {
			s.log.Debug().Str("context_id", event.ContextID).Msg("duplicate restore skipped")
			return nil
		}
	}

	if err := s.repo.InsertEvent(ctx, &event); err != nil {
		return fmt.Errorf("record auth event: %w", err)
	}

	s.log.Info().
		Str("context_id", event.ContextID).
		Str("type", string(event.Type)).
		Str("email", event.Email).
		Str("reason", event.Reason).
		Msg("auth event recorded")
	return nil
}
