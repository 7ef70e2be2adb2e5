package handler

import "github.com/smartmed/doctor-portal/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type loginRequest struct {
	Email    string `json:"email"    form:"email"`
	Password string `json:"password" form:"password"`
}

type signupRequest struct {
	FirstName           string `json:"first_name"           form:"first_name"           validate:"required"`
	LastName            string `json:"last_name"            form:"last_name"            validate:"required"`
	Email               string `json:"email"                form:"email"                validate:"required,basic_email"`
	Phone               string `json:"phone"                form:"phone"`
	Country             string `json:"country"              form:"country"`
	Specialization      string `json:"specialization"       form:"specialization"       validate:"required"`
	LicenseNumber       string `json:"license_number"       form:"license_number"`
	HospitalAffiliation string `json:"hospital_affiliation" form:"hospital_affiliation"`
	Password            string `json:"password"             form:"password"             validate:"required,utf16_min=8"`
	ConfirmPassword     string `json:"confirm_password"     form:"confirm_password"     validate:"required,eqfield=Password"`
	AgreeToTerms        bool   `json:"agree_to_terms"       form:"agree_to_terms"       validate:"required"`
}

type demoAccount struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginPageResponse struct {
	Title        string        `json:"title"`
	DemoAccounts []demoAccount `json:"demo_accounts,omitempty"`
}

type signupPageResponse struct {
	Title           string   `json:"title"`
	Specializations []string `json:"specializations"`
	Available       bool     `json:"available"`
}

type sessionResponse struct {
	State string          `json:"state"`
	User  *domain.Session `json:"user"`
}

type dashboardResponse struct {
	Doctor               domain.Session        `json:"doctor"`
	Stats                domain.DashboardStats `json:"stats"`
	Patients             []domain.Patient      `json:"patients"`
	RecentAlerts         []domain.Alert        `json:"recent_alerts"`
	UpcomingAppointments []domain.Appointment  `json:"upcoming_appointments"`
}

type patientListResponse struct {
	Items []domain.Patient `json:"items"`
	Total int              `json:"total"`
}

type alertListResponse struct {
	Items       []domain.Alert `json:"items"`
	Total       int            `json:"total"`
	UnreadCount int            `json:"unread_count"`
}

type appointmentListResponse struct {
	Items []domain.Appointment `json:"items"`
	Total int                  `json:"total"`
}

type settingsResponse struct {
	Doctor domain.Session `json:"doctor"`
}

type messageResponse struct {
	Message string `json:"message"`
}
