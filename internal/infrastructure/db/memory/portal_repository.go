package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/smartmed/doctor-portal/internal/core/domain"
	"github.com/smartmed/doctor-portal/internal/core/ports"
)

// PatientRepository serves a fixed patient panel.
type PatientRepository struct {
	patients []domain.Patient
}

func NewPatientRepository(patients []domain.Patient) *PatientRepository {
	return &PatientRepository{patients: patients}
}

func (r *PatientRepository) List(_ context.Context, f ports.PatientFilter) ([]domain.Patient, error) {
	out := make([]domain.Patient, 0, len(r.patients))
	for _, p := range r.patients {
		if !containsFold(f.Search, p.Name, p.Email) || !matchesOption(f.Status, string(p.Status)) {
			continue
		}
		out = append(out, clonePatient(p))
	}
	return out, nil
}

func (r *PatientRepository) FindByID(_ context.Context, id string) (*domain.Patient, error) {
	for _, p := range r.patients {
		if p.ID == id {
			cp := clonePatient(p)
			return &cp, nil
		}
	}
	return nil, domain.ErrPatientNotFound
}

func clonePatient(p domain.Patient) domain.Patient {
	p.MedicalConditions = append([]string(nil), p.MedicalConditions...)
	return p
}

// AlertRepository serves a fixed alert feed and tracks read state per doctor.
// Alerts seeded as read are read for everyone.
type AlertRepository struct {
	alerts []domain.Alert

	mu   sync.RWMutex
	read map[string]map[string]bool
}

func NewAlertRepository(alerts []domain.Alert) *AlertRepository {
	return &AlertRepository{alerts: alerts, read: make(map[string]map[string]bool)}
}

func (r *AlertRepository) List(_ context.Context, doctorEmail string, f ports.AlertFilter) ([]domain.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	read := r.read[strings.ToLower(doctorEmail)]
	out := make([]domain.Alert, 0, len(r.alerts))
	for _, a := range r.alerts {
		a.Read = a.Read || read[a.ID]
		if !matchesOption(f.Type, string(a.Type)) || !matchesReadStatus(f.Status, a.Read) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *AlertRepository) MarkRead(_ context.Context, doctorEmail, alertID string) error {
	found := false
	for _, a := range r.alerts {
		if a.ID == alertID {
			found = true
			break
		}
	}
	if !found {
		return domain.ErrAlertNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.readSet(doctorEmail)[alertID] = true
	return nil
}

func (r *AlertRepository) MarkAllRead(_ context.Context, doctorEmail string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := r.readSet(doctorEmail)
	for _, a := range r.alerts {
		set[a.ID] = true
	}
	return nil
}

// readSet must be called with mu held for writing.
func (r *AlertRepository) readSet(doctorEmail string) map[string]bool {
	key := strings.ToLower(doctorEmail)
	set, ok := r.read[key]
	if !ok {
		set = make(map[string]bool)
		r.read[key] = set
	}
	return set
}

// AppointmentRepository serves a fixed appointment list.
type AppointmentRepository struct {
	appointments []domain.Appointment
}

func NewAppointmentRepository(appointments []domain.Appointment) *AppointmentRepository {
	return &AppointmentRepository{appointments: appointments}
}

func (r *AppointmentRepository) List(_ context.Context, f ports.AppointmentFilter) ([]domain.Appointment, error) {
	out := make([]domain.Appointment, 0, len(r.appointments))
	for _, a := range r.appointments {
		if !containsFold(f.Search, a.Title, a.PatientName) || !matchesOption(f.Status, string(a.Status)) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func containsFold(needle string, haystacks ...string) bool {
	if needle == "" {
		return true
	}
	needle = strings.ToLower(needle)
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

func matchesOption(want, got string) bool {
	return want == "" || want == ports.FilterAll || want == got
}

func matchesReadStatus(want string, read bool) bool {
	switch want {
	case "read":
		return read
	case "unread":
		return !read
	}
	return true
}
