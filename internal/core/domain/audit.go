package domain

import "time"

// AuthEventType names what happened to a browser context's session.
type AuthEventType string

const (
	EventSessionRestored AuthEventType = "session_restored"
	EventSessionCorrupt  AuthEventType = "session_corrupt"
	EventSignedIn        AuthEventType = "signed_in"
	EventSignedOut       AuthEventType = "signed_out"
	EventSignInFailed    AuthEventType = "sign_in_failed"
)

// AuthEvent is one entry of the authentication audit trail.
type AuthEvent struct {
	ContextID  string        `json:"context_id"`
	Type       AuthEventType `json:"type"`
	Email      string        `json:"email,omitempty"`
	Reason     string        `json:"reason,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}
