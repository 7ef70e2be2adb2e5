package memory

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/smartmed/doctor-portal/internal/core/domain"
)

const defaultAuditCapacity = 512

// AuditRepository keeps the most recent auth events in memory and writes each
// one to the log.
type AuditRepository struct {
	log zerolog.Logger

	mu     sync.Mutex
	events []domain.AuthEvent
	limit  int
}

func NewAuditRepository(log zerolog.Logger, limit int) *AuditRepository {
	if limit <= 0 {
		limit = defaultAuditCapacity
	}
	return &AuditRepository{log: log.With().Str("component", "audit_log").Logger(), limit: limit}
}

func (r *AuditRepository) InsertEvent(_ context.Context, event *domain.AuthEvent) error {
	r.mu.Lock()
	r.events = append(r.events, *event)
	if len(r.events) > r.limit {
		r.events = r.events[len(r.events)-r.limit:]
	}
	r.mu.Unlock()

	r.log.Info().
		Str("context_id", event.ContextID).
		Str("type", string(event.Type)).
		Str("email", event.Email).
		Time("occurred_at", event.OccurredAt).
		Msg("auth event")
	return nil
}

// Events returns the retained events, oldest first.
func (r *AuditRepository) Events() []domain.AuthEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.AuthEvent(nil), r.events...)
}
