package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/smartmed/doctor-portal/internal/core/domain"
	"github.com/smartmed/doctor-portal/internal/core/ports"
)

const (
	dashboardPatients     = 5
	dashboardAlerts       = 5
	dashboardAppointments = 3
)

type portalService struct {
	patients     ports.PatientRepository
	alerts       ports.AlertRepository
	appointments ports.AppointmentRepository
	log          zerolog.Logger
	now          func() time.Time
}

// NewPortalService returns a PortalService over the given repositories.
func NewPortalService(
	patients ports.PatientRepository,
	alerts ports.AlertRepository,
	appointments ports.AppointmentRepository,
	log zerolog.Logger,
) ports.PortalService {
	return &portalService{
		patients:     patients,
		alerts:       alerts,
		appointments: appointments,
		log:          log.With().Str("component", "portal").Logger(),
		now:          time.Now,
	}
}

func (s *portalService) Dashboard(ctx context.Context, doctor domain.Session) (*ports.Dashboard, error) {
	patients, err := s.patients.List(ctx, ports.PatientFilter{})
	if err != nil {
		return nil, fmt.Errorf("dashboard: list patients: %w", err)
	}
	alerts, err := s.alerts.List(ctx, doctor.Email, ports.AlertFilter{})
	if err != nil {
		return nil, fmt.Errorf("dashboard: list alerts: %w", err)
	}
	appointments, err := s.appointments.List(ctx, ports.AppointmentFilter{Status: string(domain.AppointmentScheduled)})
	if err != nil {
		return nil, fmt.Errorf("dashboard: list appointments: %w", err)
	}

	stats := computeStats(patients, alerts, appointments)

	sort.SliceStable(alerts, func(i, j int) bool { return alerts[i].Time.After(alerts[j].Time) })

	now := s.now()
	upcoming := make([]domain.Appointment, 0, len(appointments))
	for _, a := range appointments {
		if a.ScheduledTime.After(now) {
			upcoming = append(upcoming, a)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool { return upcoming[i].ScheduledTime.Before(upcoming[j].ScheduledTime) })

	return &ports.Dashboard{
		Doctor:               doctor,
		Stats:                stats,
		Patients:             head(patients, dashboardPatients),
		RecentAlerts:         head(alerts, dashboardAlerts),
		UpcomingAppointments: head(upcoming, dashboardAppointments),
	}, nil
}

func computeStats(patients []domain.Patient, alerts []domain.Alert, appointments []domain.Appointment) domain.DashboardStats {
	stats := domain.DashboardStats{TotalPatients: len(patients)}

	adherenceSum := 0
	for _, p := range patients {
		stats.ActiveMedications += p.TotalMedications
		adherenceSum += p.AdherenceRate
		if p.AdherenceRate < domain.LowAdherenceThreshold {
			stats.PatientsWithLowAdherence++
		}
	}
	if len(patients) > 0 {
		stats.OverallAdherenceRate = int(math.Round(float64(adherenceSum) / float64(len(patients))))
	}

	for _, a := range alerts {
		if !a.Read && (a.Type == domain.AlertCritical || a.Priority == "high") {
			stats.UrgentAlerts++
		}
	}
	for _, a := range appointments {
		if a.Status == domain.AppointmentScheduled {
			stats.PendingMeetings++
		}
	}
	return stats
}

func (s *portalService) Patients(ctx context.Context, filter ports.PatientFilter) ([]domain.Patient, error) {
	return s.patients.List(ctx, filter)
}

func (s *portalService) Patient(ctx context.Context, id string) (*domain.Patient, error) {
	return s.patients.FindByID(ctx, id)
}

func (s *portalService) Alerts(ctx context.Context, doctor domain.Session, filter ports.AlertFilter) (*ports.AlertList, error) {
	items, err := s.alerts.List(ctx, doctor.Email, filter)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	unread, err := s.alerts.List(ctx, doctor.Email, ports.AlertFilter{Status: "unread"})
	if err != nil {
		return nil, fmt.Errorf("count unread alerts: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Time.After(items[j].Time) })
	return &ports.AlertList{Items: items, UnreadCount: len(unread)}, nil
}

func (s *portalService) MarkAlertRead(ctx context.Context, doctor domain.Session, alertID string) error {
	if err := s.alerts.MarkRead(ctx, doctor.Email, alertID); err != nil {
		return err
	}
	s.log.Debug().Str("email", doctor.Email).Str("alert_id", alertID).Msg("alert marked read")
	return nil
}

func (s *portalService) MarkAllAlertsRead(ctx context.Context, doctor domain.Session) error {
	return s.alerts.MarkAllRead(ctx, doctor.Email)
}

func (s *portalService) Appointments(ctx context.Context, filter ports.AppointmentFilter) ([]domain.Appointment, error) {
	items, err := s.appointments.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].ScheduledTime.Before(items[j].ScheduledTime) })
	return items, nil
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
