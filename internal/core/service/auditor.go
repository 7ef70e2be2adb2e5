package service

import (
	"errors"
	"time"

	"github.com/smartmed/doctor-portal/internal/core/domain"
	"github.com/smartmed/doctor-portal/internal/core/ports"
)

// AuditQueue accepts events for asynchronous recording. Enqueue must not
// block; it reports false when the event was dropped.
type AuditQueue interface {
	Enqueue(event domain.AuthEvent) bool
}

// Auditor turns session transitions and rejected sign-ins into audit events.
type Auditor struct {
	queue AuditQueue
	now   func() time.Time
}

func NewAuditor(queue AuditQueue) *Auditor {
	return &Auditor{queue: queue, now: time.Now}
}

// Listener returns a session store listener feeding the queue.
func (a *Auditor) Listener() ports.Listener {
	return func(contextID string, t domain.Transition) {
		event, ok := eventFor(t)
		if !ok {
			return
		}
		event.ContextID = contextID
		event.OccurredAt = a.now().UTC()
		a.queue.Enqueue(event)
	}
}

// SignInFailed records a rejected sign-in attempt.
func (a *Auditor) SignInFailed(contextID, email string, err error) {
	reason := "unknown"
	if kind, ok := domain.KindOf(err); ok {
		reason = string(kind)
	}
	a.queue.Enqueue(domain.AuthEvent{
		ContextID:  contextID,
		Type:       domain.EventSignInFailed,
		Email:      email,
		Reason:     reason,
		OccurredAt: a.now().UTC(),
	})
}

func eventFor(t domain.Transition) (domain.AuthEvent, bool) {
	switch {
	case t.From == domain.StateLoading && t.To == domain.StateAuthenticated:
		return domain.AuthEvent{Type: domain.EventSessionRestored, Email: t.Session.Email}, true
	case t.From == domain.StateLoading && t.To == domain.StateAnonymous:
		if errors.Is(t.Recovered, domain.ErrCorruptPersistedSession) {
			return domain.AuthEvent{Type: domain.EventSessionCorrupt, Reason: t.Recovered.Error()}, true
		}
	case t.To == domain.StateAuthenticated:
		return domain.AuthEvent{Type: domain.EventSignedIn, Email: t.Session.Email}, true
	case t.From == domain.StateAuthenticated && t.To == domain.StateAnonymous:
		e := domain.AuthEvent{Type: domain.EventSignedOut}
		if t.Previous != nil {
			e.Email = t.Previous.Email
		}
		return e, true
	}
	return domain.AuthEvent{}, false
}
