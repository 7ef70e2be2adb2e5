package ports

import (
	"context"

	"github.com/smartmed/doctor-portal/internal/core/domain"
)

// FilterAll disables a status or type filter.
const FilterAll = "all"

// PatientFilter narrows the patient list. Search matches name or email.
type PatientFilter struct {
	Search string
	Status string
}

// AlertFilter narrows the alert list. Status is "read", "unread" or "all".
type AlertFilter struct {
	Type   string
	Status string
}

// AppointmentFilter narrows the appointment list. Search matches title or
// patient name.
type AppointmentFilter struct {
	Search string
	Status string
}

// PatientRepository reads the patient panel.
type PatientRepository interface {
	List(ctx context.Context, filter PatientFilter) ([]domain.Patient, error)
	FindByID(ctx context.Context, id string) (*domain.Patient, error)
}

// AlertRepository reads alerts and tracks which ones a doctor has read.
type AlertRepository interface {
	List(ctx context.Context, doctorEmail string, filter AlertFilter) ([]domain.Alert, error)
	MarkRead(ctx context.Context, doctorEmail, alertID string) error
	MarkAllRead(ctx context.Context, doctorEmail string) error
}

// AppointmentRepository reads scheduled meetings.
type AppointmentRepository interface {
	List(ctx context.Context, filter AppointmentFilter) ([]domain.Appointment, error)
}

// Dashboard is the landing page model.
type Dashboard struct {
	Doctor               domain.Session
	Stats                domain.DashboardStats
	Patients             []domain.Patient
	RecentAlerts         []domain.Alert
	UpcomingAppointments []domain.Appointment
}

// AlertList is the alerts page model.
type AlertList struct {
	Items       []domain.Alert
	UnreadCount int
}

// PortalService builds the protected page models.
type PortalService interface {
	Dashboard(ctx context.Context, doctor domain.Session) (*Dashboard, error)
	Patients(ctx context.Context, filter PatientFilter) ([]domain.Patient, error)
	Patient(ctx context.Context, id string) (*domain.Patient, error)
	Alerts(ctx context.Context, doctor domain.Session, filter AlertFilter) (*AlertList, error)
	MarkAlertRead(ctx context.Context, doctor domain.Session, alertID string) error
	MarkAllAlertsRead(ctx context.Context, doctor domain.Session) error
	Appointments(ctx context.Context, filter AppointmentFilter) ([]domain.Appointment, error)
}
