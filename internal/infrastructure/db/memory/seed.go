package memory

import (
	"time"

	"github.com/smartmed/doctor-portal/internal/core/domain"
)

// seedAnchor is the day the demo datasets were recorded on. Seed shifts every
// timestamp so that this day becomes the current day.
var seedAnchor = time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

// Dataset is the demo panel shown when no database is configured.
type Dataset struct {
	Patients     []domain.Patient
	Alerts       []domain.Alert
	Appointments []domain.Appointment
}

// Seed returns the demo dataset anchored at now's day.
func Seed(now time.Time) Dataset {
	shift := now.UTC().Truncate(24 * time.Hour).Sub(seedAnchor)
	at := func(s string) time.Time {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			panic(err)
		}
		return t.Add(shift)
	}
	day := func(s string) string {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			panic(err)
		}
		return t.Add(shift).Format(time.DateOnly)
	}

	return Dataset{
		Patients: []domain.Patient{
			{
				ID:                "1",
				Name:              "Margaret Johnson",
				Age:               72,
				Email:             "margaret.j@email.com",
				Phone:             "+1 (555) 123-4567",
				AdherenceRate:     94,
				TotalMedications:  4,
				MissedDosesWeek:   1,
				LastVisit:         day("2024-01-10"),
				NextAppointment:   day("2024-01-20"),
				MedicalConditions: []string{"Diabetes", "Hypertension"},
				Status:            domain.PatientStable,
			},
			{
				ID:                "2",
				Name:              "Robert Chen",
				Age:               68,
				Email:             "robert.chen@email.com",
				Phone:             "+1 (555) 234-5678",
				AdherenceRate:     76,
				TotalMedications:  6,
				MissedDosesWeek:   4,
				LastVisit:         day("2024-01-12"),
				NextAppointment:   day("2024-01-18"),
				MedicalConditions: []string{"Heart Disease", "High Cholesterol"},
				Status:            domain.PatientNeedsAttention,
			},
			{
				ID:                "3",
				Name:              "Dorothy Williams",
				Age:               84,
				Email:             "dorothy.w@email.com",
				Phone:             "+1 (555) 345-6789",
				AdherenceRate:     91,
				TotalMedications:  3,
				MissedDosesWeek:   0,
				LastVisit:         day("2024-01-08"),
				NextAppointment:   day("2024-01-25"),
				MedicalConditions: []string{"Arthritis", "Osteoporosis"},
				Status:            domain.PatientStable,
			},
			{
				ID:                "4",
				Name:              "James Wilson",
				Age:               75,
				Email:             "james.wilson@email.com",
				Phone:             "+1 (555) 456-7890",
				AdherenceRate:     58,
				TotalMedications:  7,
				MissedDosesWeek:   6,
				LastVisit:         day("2024-01-05"),
				NextAppointment:   day("2024-01-16"),
				MedicalConditions: []string{"COPD", "Diabetes", "Hypertension"},
				Status:            domain.PatientCritical,
			},
		},
		Alerts: []domain.Alert{
			{
				ID:          "1",
				Type:        domain.AlertCritical,
				Title:       "Medication Not Taken - Critical",
				Message:     "Margaret Johnson missed her heart medication (Lisinopril) scheduled for 8:00 AM",
				PatientName: "Margaret Johnson",
				PatientID:   "1",
				Medication:  "Lisinopril 10mg",
				Time:        at("2024-01-15T08:00:00Z"),
				Priority:    "high",
			},
			{
				ID:          "2",
				Type:        domain.AlertAdherence,
				Title:       "Low Adherence Alert",
				Message:     "Robert Chen has missed 3 doses in the last 7 days (adherence: 57%)",
				PatientName: "Robert Chen",
				PatientID:   "2",
				Medication:  "Multiple medications",
				Time:        at("2024-01-15T07:30:00Z"),
				Priority:    "high",
			},
			{
				ID:          "3",
				Type:        domain.AlertAppointment,
				Title:       "Missed Virtual Appointment",
				Message:     "Sarah Williams did not join her scheduled appointment at 2:00 PM",
				PatientName: "Sarah Williams",
				PatientID:   "3",
				Medication:  "N/A",
				Time:        at("2024-01-15T14:15:00Z"),
				Read:        true,
				Priority:    "medium",
			},
			{
				ID:          "4",
				Type:        domain.AlertMedication,
				Title:       "Pill Verification Failed",
				Message:     "David Miller's pill verification failed - possible wrong medication",
				PatientName: "David Miller",
				PatientID:   "4",
				Medication:  "Metformin 500mg",
				Time:        at("2024-01-15T12:45:00Z"),
				Priority:    "high",
			},
			{
				ID:          "5",
				Type:        domain.AlertSymptom,
				Title:       "New Symptom Report",
				Message:     "Linda Davis reported severe headache and dizziness",
				PatientName: "Linda Davis",
				PatientID:   "5",
				Medication:  "Amlodipine 5mg",
				Time:        at("2024-01-15T11:20:00Z"),
				Read:        true,
				Priority:    "medium",
			},
		},
		Appointments: []domain.Appointment{
			{
				ID:              "1",
				Title:           "Follow-up Consultation",
				PatientName:     "Margaret Johnson",
				PatientID:       "1",
				ScheduledTime:   at("2024-01-20T10:00:00Z"),
				DurationMinutes: 30,
				MeetingPlatform: "google_meet",
				MeetingURL:      "https://meet.google.com/abc-defg-hij",
				Status:          domain.AppointmentScheduled,
				Description:     "Review medication adherence and discuss any side effects",
				IncludeFamily:   true,
			},
			{
				ID:              "2",
				Title:           "Medication Review",
				PatientName:     "Robert Chen",
				PatientID:       "2",
				ScheduledTime:   at("2024-01-18T14:30:00Z"),
				DurationMinutes: 45,
				MeetingPlatform: "jitsi",
				MeetingURL:      "https://meet.jit.si/SmartMed-Review-123",
				Status:          domain.AppointmentScheduled,
				Description:     "Adjust medication dosages based on recent lab results",
			},
			{
				ID:              "3",
				Title:           "Routine Check-in",
				PatientName:     "Dorothy Williams",
				PatientID:       "3",
				ScheduledTime:   at("2024-01-25T11:15:00Z"),
				DurationMinutes: 15,
				MeetingPlatform: "google_meet",
				MeetingURL:      "https://meet.google.com/xyz-uvwx-abc",
				Status:          domain.AppointmentScheduled,
				Description:     "Monthly wellness check and medication compliance review",
				IncludeFamily:   true,
			},
			{
				ID:              "4",
				Title:           "Emergency Consultation",
				PatientName:     "James Wilson",
				PatientID:       "4",
				ScheduledTime:   at("2024-01-16T09:00:00Z"),
				DurationMinutes: 60,
				MeetingPlatform: "zoom",
				MeetingURL:      "https://zoom.us/j/123456789",
				Status:          domain.AppointmentCompleted,
				Description:     "Address recent symptom reports and medication concerns",
				IncludeFamily:   true,
			},
		},
	}
}
