package ports

import (
	"context"

	"github.com/smartmed/doctor-portal/internal/core/domain"
)

// DoctorRepository persists doctor directory accounts.
type DoctorRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Doctor, error)
	Create(ctx context.Context, doctor *domain.Doctor) (*domain.Doctor, error)
}

// RegisterDoctorInput carries a sign-up submission.
type RegisterDoctorInput struct {
	FirstName           string
	LastName            string
	Email               string
	Phone               string
	Country             string
	Specialization      string
	LicenseNumber       string
	HospitalAffiliation string
	Password            string
}

// DirectoryService manages doctor accounts in the remote directory.
type DirectoryService interface {
	RemoteAuth
	Register(ctx context.Context, in RegisterDoctorInput) (*domain.Doctor, error)
}
