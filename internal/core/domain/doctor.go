package domain

import "time"

// Providers an identity can come from.
const (
	ProviderAllowList = "allowlist"
	ProviderDirectory = "directory"
)

// Specializations offered at sign-up.
var Specializations = []string{
	"cardiology",
	"endocrinology",
	"geriatrics",
	"internal_medicine",
	"family_medicine",
	"neurology",
	"psychiatry",
	"pulmonology",
	"orthopedics",
	"dermatology",
	"oncology",
	"radiology",
	"anesthesiology",
	"emergency_medicine",
	"other",
}

// Doctor is an account in the remote doctor directory.
type Doctor struct {
	ID                  string    `json:"id"`
	FirstName           string    `json:"first_name"`
	LastName            string    `json:"last_name"`
	Email               string    `json:"email"`
	Phone               string    `json:"phone,omitempty"`
	Country             string    `json:"country,omitempty"`
	Specialization      string    `json:"specialization"`
	LicenseNumber       string    `json:"license_number,omitempty"`
	HospitalAffiliation string    `json:"hospital_affiliation,omitempty"`
	PasswordHash        string    `json:"-"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// DisplayName is the name shown in the portal header.
func (d *Doctor) DisplayName() string {
	return "Dr. " + d.FirstName + " " + d.LastName
}
