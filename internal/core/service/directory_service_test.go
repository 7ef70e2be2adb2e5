package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/smartmed/doctor-portal/internal/core/domain"
	"github.com/smartmed/doctor-portal/internal/core/ports"
)

type stubDoctorRepo struct {
	doctors map[string]*domain.Doctor
	findErr error
}

func newStubDoctorRepo() *stubDoctorRepo {
	return &stubDoctorRepo{doctors: make(map[string]*domain.Doctor)}
}

func cloneDoctor(d *domain.Doctor) *domain.Doctor {
	if d == nil {
		return nil
	}
	clone := *d
	return &clone
}

func (r *stubDoctorRepo) Create(_ context.Context, doctor *domain.Doctor) (*domain.Doctor, error) {
	if _, exists := r.doctors[doctor.Email]; exists {
		return nil, domain.ErrDoctorExists
	}
	stored := cloneDoctor(doctor)
	if stored.ID == "" {
		stored.ID = "doc_" + doctor.Email
	}
	r.doctors[stored.Email] = cloneDoctor(stored)
	return cloneDoctor(stored), nil
}

func (r *stubDoctorRepo) FindByEmail(_ context.Context, email string) (*domain.Doctor, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	if d, ok := r.doctors[email]; ok {
		return cloneDoctor(d), nil
	}
	return nil, domain.ErrDoctorNotFound
}

func newTestDirectory(repo ports.DoctorRepository) *DirectoryService {
	svc := NewDirectoryService(repo)
	svc.cost = bcrypt.MinCost
	return svc
}

func registerInput(email, password string) ports.RegisterDoctorInput {
	return ports.RegisterDoctorInput{
		FirstName:      "Alice",
		LastName:       "Grant",
		Email:          email,
		Specialization: "neurology",
		Password:       password,
	}
}

func TestDirectoryService_Register_Success(t *testing.T) {
	svc := newTestDirectory(newStubDoctorRepo())

	doctor, err := svc.Register(context.Background(), registerInput(" Alice@Example.com ", "longpass1"))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if doctor.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", doctor.Email)
	}
	if doctor.PasswordHash == "longpass1" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(doctor.PasswordHash), []byte("longpass1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestDirectoryService_Register_MissingFields(t *testing.T) {
	svc := newTestDirectory(newStubDoctorRepo())

	in := registerInput("bob@example.com", "longpass1")
	in.FirstName = ""
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
}

func TestDirectoryService_Register_Duplicate(t *testing.T) {
	svc := newTestDirectory(newStubDoctorRepo())

	_, _ = svc.Register(context.Background(), registerInput("bob@example.com", "longpass1"))
	if _, err := svc.Register(context.Background(), registerInput("bob@example.com", "longpass2")); !errors.Is(err, domain.ErrDoctorExists) {
		t.Fatalf("expected ErrDoctorExists, got %v", err)
	}
}

func TestDirectoryService_SignIn_Success(t *testing.T) {
	svc := newTestDirectory(newStubDoctorRepo())

	if _, err := svc.Register(context.Background(), registerInput("carol@example.com", "s3cret99")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	id, err := svc.SignIn(context.Background(), "CAROL@example.com", "s3cret99")
	if err != nil {
		t.Fatalf("sign in failed: %v", err)
	}
	if id.Name != "Dr. Alice Grant" {
		t.Fatalf("unexpected name: %q", id.Name)
	}
	if id.Provider != domain.ProviderDirectory {
		t.Fatalf("unexpected provider: %q", id.Provider)
	}
	if id.ID == "" {
		t.Fatalf("expected identity id")
	}
}

func TestDirectoryService_SignIn_InvalidPassword(t *testing.T) {
	svc := newTestDirectory(newStubDoctorRepo())

	_, _ = svc.Register(context.Background(), registerInput("dave@example.com", "goodpass"))
	if _, err := svc.SignIn(context.Background(), "dave@example.com", "badpass1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestDirectoryService_SignIn_UnknownEmail(t *testing.T) {
	svc := newTestDirectory(newStubDoctorRepo())

	if _, err := svc.SignIn(context.Background(), "ghost@example.com", "whatever"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestDirectoryService_SignIn_RepositoryFailure(t *testing.T) {
	repo := newStubDoctorRepo()
	repo.findErr = errors.New("connection refused")
	svc := newTestDirectory(repo)

	_, err := svc.SignIn(context.Background(), "dave@example.com", "goodpass")
	if err == nil || errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected raw repository error, got %v", err)
	}
}

func TestDirectoryService_Stateless(t *testing.T) {
	svc := newTestDirectory(newStubDoctorRepo())

	if err := svc.SignOut(context.Background(), "anyone@example.com"); err != nil {
		t.Fatalf("SignOut returned error: %v", err)
	}
	s, err := svc.GetSession(context.Background(), "anyone@example.com")
	if err != nil || s != nil {
		t.Fatalf("expected no session, got %+v, %v", s, err)
	}
}
