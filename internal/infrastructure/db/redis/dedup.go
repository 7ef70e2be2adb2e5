package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smartmed/doctor-portal/internal/core/domain"
)

const defaultDedupWindow = 10 * time.Minute

// AuditDeduper suppresses repeats of the same audit event within a window.
// Key format: audit:dedup:<context_id>:<type>:<email>
type AuditDeduper struct {
	client *redis.Client
	window time.Duration
}

// NewAuditDeduper wraps client. A non-positive window uses defaultDedupWindow.
func NewAuditDeduper(client *redis.Client, window time.Duration) *AuditDeduper {
	if window <= 0 {
		window = defaultDedupWindow
	}
	return &AuditDeduper{client: client, window: window}
}

// FirstSeen claims the event's key and reports whether no equal event was
// claimed within the window.
func (d *AuditDeduper) FirstSeen(ctx context.Context, event domain.AuthEvent) (bool, error) {
	ok, err := d.client.SetNX(ctx, d.key(event), event.OccurredAt.Unix(), d.window).Result()
	if err != nil {
		return false, fmt.Errorf("audit dedup: %w", err)
	}
	return ok, nil
}

func (d *AuditDeduper) key(event domain.AuthEvent) string {
	return fmt.Sprintf("audit:dedup:%s:%s:%s", event.ContextID, event.Type, strings.ToLower(event.Email))
}
