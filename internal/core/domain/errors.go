package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain error independently of its message.
type ErrorKind string

const (
	KindMissingField            ErrorKind = "missing_field"
	KindInvalidEmailFormat      ErrorKind = "invalid_email_format"
	KindPasswordTooShort        ErrorKind = "password_too_short"
	KindInvalidCredentials      ErrorKind = "invalid_credentials"
	KindCorruptPersistedSession ErrorKind = "corrupt_persisted_session"
	KindRemoteAuthUnavailable   ErrorKind = "remote_auth_unavailable"
	KindNotFound                ErrorKind = "not_found"
	KindConflict                ErrorKind = "conflict"
	KindInvalid                 ErrorKind = "invalid"
	KindNotReady                ErrorKind = "not_ready"
)

// Error is a classified domain error. Two errors match under errors.Is when
// their kinds are equal, so wrapped causes keep their classification.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target is a domain error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

// NewError builds a domain error.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError attaches a kind and message to an underlying cause.
func WrapError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of the first domain error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Kind, true
	}
	return "", false
}

// Login form errors. Messages are shown to the user as-is.
var (
	ErrMissingField       = NewError(KindMissingField, "Please enter both email and password")
	ErrInvalidEmailFormat = NewError(KindInvalidEmailFormat, "Please enter a valid email address")
	ErrPasswordTooShort   = NewError(KindPasswordTooShort, "Password must be at least 6 characters long")
	ErrInvalidCredentials = NewError(KindInvalidCredentials, "Invalid email or password")
)

// Recovered locally, never shown to the user.
var (
	ErrCorruptPersistedSession = NewError(KindCorruptPersistedSession, "persisted session is corrupt")
	ErrRemoteAuthUnavailable   = NewError(KindRemoteAuthUnavailable, "remote auth unavailable")
)

var (
	ErrSessionNotReady   = NewError(KindNotReady, "session is still loading")
	ErrDoctorExists      = NewError(KindConflict, "doctor already exists")
	ErrDoctorNotFound    = NewError(KindNotFound, "doctor not found")
	ErrPatientNotFound   = NewError(KindNotFound, "patient not found")
	ErrAlertNotFound     = NewError(KindNotFound, "alert not found")
	ErrInvalidTransition = NewError(KindInvalid, "invalid session state transition")
)
