package domain

import "time"

// PatientStatus is the clinical triage status shown on the patient list.
type PatientStatus string

const (
	PatientStable         PatientStatus = "stable"
	PatientNeedsAttention PatientStatus = "needs_attention"
	PatientCritical       PatientStatus = "critical"
)

// LowAdherenceThreshold is the adherence rate (percent) below which a patient
// counts as low-adherence on the dashboard.
const LowAdherenceThreshold = 80

// Patient is a monitored patient.
type Patient struct {
	ID                string        `json:"id" bson:"_id"`
	Name              string        `json:"name" bson:"name"`
	Age               int           `json:"age" bson:"age"`
	Email             string        `json:"email" bson:"email"`
	Phone             string        `json:"phone" bson:"phone"`
	AdherenceRate     int           `json:"adherence_rate" bson:"adherence_rate"`
	TotalMedications  int           `json:"total_medications" bson:"total_medications"`
	MissedDosesWeek   int           `json:"missed_doses_week" bson:"missed_doses_week"`
	LastVisit         string        `json:"last_visit" bson:"last_visit"`
	NextAppointment   string        `json:"next_appointment" bson:"next_appointment"`
	MedicalConditions []string      `json:"medical_conditions" bson:"medical_conditions"`
	Status            PatientStatus `json:"status" bson:"status"`
}

// AlertType categorizes an alert.
type AlertType string

const (
	AlertCritical    AlertType = "critical"
	AlertAdherence   AlertType = "adherence"
	AlertAppointment AlertType = "appointment"
	AlertMedication  AlertType = "medication"
	AlertSymptom     AlertType = "symptom"
)

// Alert is a monitoring alert raised for a patient.
type Alert struct {
	ID          string    `json:"id" bson:"_id"`
	Type        AlertType `json:"type" bson:"type"`
	Title       string    `json:"title" bson:"title"`
	Message     string    `json:"message" bson:"message"`
	PatientName string    `json:"patient_name" bson:"patient_name"`
	PatientID   string    `json:"patient_id" bson:"patient_id"`
	Medication  string    `json:"medication" bson:"medication"`
	Time        time.Time `json:"time" bson:"time"`
	Read        bool      `json:"read" bson:"read"`
	Priority    string    `json:"priority" bson:"priority"`
}

// AppointmentStatus is the lifecycle state of a virtual appointment.
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// Appointment is a virtual meeting with a patient.
type Appointment struct {
	ID              string            `json:"id" bson:"_id"`
	Title           string            `json:"title" bson:"title"`
	PatientName     string            `json:"patient_name" bson:"patient_name"`
	PatientID       string            `json:"patient_id" bson:"patient_id"`
	ScheduledTime   time.Time         `json:"scheduled_time" bson:"scheduled_time"`
	DurationMinutes int               `json:"duration_minutes" bson:"duration_minutes"`
	MeetingPlatform string            `json:"meeting_platform" bson:"meeting_platform"`
	MeetingURL      string            `json:"meeting_url" bson:"meeting_url"`
	Status          AppointmentStatus `json:"status" bson:"status"`
	Description     string            `json:"description" bson:"description"`
	IncludeFamily   bool              `json:"include_family" bson:"include_family"`
}

// DashboardStats summarizes a doctor's panel.
type DashboardStats struct {
	TotalPatients            int `json:"total_patients"`
	ActiveMedications        int `json:"active_medications"`
	PendingMeetings          int `json:"pending_meetings"`
	UrgentAlerts             int `json:"urgent_alerts"`
	OverallAdherenceRate     int `json:"overall_adherence_rate"`
	PatientsWithLowAdherence int `json:"patients_with_low_adherence"`
}
