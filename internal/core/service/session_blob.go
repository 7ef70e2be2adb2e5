package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/smartmed/doctor-portal/internal/core/domain"
)

// sharedValidator is safe for concurrent use and caches struct metadata, so
// one instance serves every store.
var sharedValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New()
	if err := RegisterValidations(v); err != nil {
		panic(fmt.Sprintf("register validations: %v", err))
	}
	return v
})

// sessionBlobKeys are the exact keys of a persisted session object.
var sessionBlobKeys = [...]string{"id", "email", "name", "specialization"}

type sessionSchema struct {
	ID    string `validate:"required"`
	Email string `validate:"required,basic_email"`
	Name  string `validate:"required"`
}

// EncodeSessionBlob serializes a session as {id, email, name, specialization}.
func EncodeSessionBlob(s domain.Session) ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode session blob: %w", err)
	}
	return raw, nil
}

// DecodeSessionBlob parses a persisted session, rejecting anything that is not
// exactly one object holding the four session keys once each, spelled
// exactly, with string values. Every failure is a CorruptPersistedSession
// error.
func DecodeSessionBlob(raw []byte) (*domain.Session, error) {
	fields, err := decodeBlobFields(raw)
	if err != nil {
		return nil, corrupt(err)
	}

	s := domain.Session{
		ID:             fields["id"],
		Email:          fields["email"],
		Name:           fields["name"],
		Specialization: fields["specialization"],
	}
	if err := sharedValidator().Struct(sessionSchema{ID: s.ID, Email: s.Email, Name: s.Name}); err != nil {
		return nil, corrupt(err)
	}
	return &s, nil
}

// decodeBlobFields walks the object token by token. encoding/json would
// otherwise fold key case and let a repeated key override the first.
func decodeBlobFields(raw []byte) (map[string]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, errors.New("session blob is not an object")
	}

	fields := make(map[string]string, len(sessionBlobKeys))
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("read key: %w", err)
		}
		key, _ := tok.(string)
		if !isSessionBlobKey(key) {
			return nil, fmt.Errorf("unexpected key %q", key)
		}
		if _, dup := fields[key]; dup {
			return nil, fmt.Errorf("duplicate key %q", key)
		}

		tok, err = dec.Token()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", key, err)
		}
		value, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%s is not a string", key)
		}
		fields[key] = value
	}

	if tok, err := dec.Token(); err != nil || tok != json.Delim('}') {
		return nil, errors.New("unterminated session object")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after session object")
	}
	if len(fields) != len(sessionBlobKeys) {
		return nil, errors.New("session object is missing keys")
	}
	return fields, nil
}

func isSessionBlobKey(key string) bool {
	for _, k := range sessionBlobKeys {
		if k == key {
			return true
		}
	}
	return false
}

func corrupt(err error) error {
	return domain.WrapError(domain.KindCorruptPersistedSession, domain.ErrCorruptPersistedSession.Message, err)
}
