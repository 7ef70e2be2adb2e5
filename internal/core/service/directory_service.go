package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/smartmed/doctor-portal/internal/core/domain"
	"github.com/smartmed/doctor-portal/internal/core/ports"
)

// DirectoryService implements the remote doctor directory: registration and
// password sign-in over a DoctorRepository. It keeps no sessions of its own.
type DirectoryService struct {
	repo ports.DoctorRepository
	cost int
}

func NewDirectoryService(repo ports.DoctorRepository) *DirectoryService {
	return &DirectoryService{repo: repo, cost: bcrypt.DefaultCost}
}

func (s *DirectoryService) Register(ctx context.Context, in ports.RegisterDoctorInput) (*domain.Doctor, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" || in.FirstName == "" || in.LastName == "" {
		return nil, domain.ErrMissingField
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	doctor := &domain.Doctor{
		FirstName:           in.FirstName,
		LastName:            in.LastName,
		Email:               email,
		Phone:               in.Phone,
		Country:             in.Country,
		Specialization:      in.Specialization,
		LicenseNumber:       in.LicenseNumber,
		HospitalAffiliation: in.HospitalAffiliation,
		PasswordHash:        string(hash),
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	created, err := s.repo.Create(ctx, doctor)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// SignIn checks the password against the stored bcrypt hash. Unknown emails
// and wrong passwords are both InvalidCredentials; repository failures are
// returned as is.
func (s *DirectoryService) SignIn(ctx context.Context, email, password string) (domain.Identity, error) {
	doctor, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrDoctorNotFound) {
			return domain.Identity{}, domain.ErrInvalidCredentials
		}
		return domain.Identity{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(doctor.PasswordHash), []byte(password)) != nil {
		return domain.Identity{}, domain.ErrInvalidCredentials
	}

	return domain.Identity{
		ID:             doctor.ID,
		Email:          doctor.Email,
		Name:           doctor.DisplayName(),
		Specialization: doctor.Specialization,
		Provider:       domain.ProviderDirectory,
	}, nil
}

func (s *DirectoryService) SignOut(context.Context, string) error { return nil }

func (s *DirectoryService) GetSession(context.Context, string) (*domain.Session, error) {
	return nil, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
