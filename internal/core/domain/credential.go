package domain

import (
	"fmt"
	"strings"
)

// Credentials is a submitted login attempt.
type Credentials struct {
	Email    string
	Password string
}

// CredentialRecord is one entry of the build-time allow-list.
type CredentialRecord struct {
	Email          string
	Password       string
	Name           string
	Specialization string
}

// Identity is what an authentication strategy resolves credentials to.
type Identity struct {
	ID             string
	Email          string
	Name           string
	Specialization string
	Provider       string
}

// Session converts an identity into the session persisted for the browser.
func (i Identity) Session() Session {
	return Session{
		ID:             i.ID,
		Email:          i.Email,
		Name:           i.Name,
		Specialization: i.Specialization,
	}
}

// DefaultAllowList returns the demo accounts shipped with the portal.
func DefaultAllowList() []CredentialRecord {
	return []CredentialRecord{
		{
			Email:          "dr.sarah@hospital.com",
			Password:       "doctor123",
			Name:           "Dr. Sarah Johnson",
			Specialization: "Cardiology",
		},
		{
			Email:          "dr.michael@clinic.com",
			Password:       "medical456",
			Name:           "Dr. Michael Chen",
			Specialization: "Internal Medicine",
		},
		{
			Email:          "dr.emily@medcenter.com",
			Password:       "healthcare789",
			Name:           "Dr. Emily Davis",
			Specialization: "Geriatrics",
		},
	}
}

// InvalidCredentialsMessage is the login failure text listing the allow-list
// accounts.
func InvalidCredentialsMessage(records []CredentialRecord) string {
	var b strings.Builder
	b.WriteString("Invalid email or password. Try demo credentials:")
	for _, r := range records {
		fmt.Fprintf(&b, "\n• %s / %s", r.Email, r.Password)
	}
	return b.String()
}
