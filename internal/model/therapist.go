package model

type ProviderRole string

const (
	RoleDoctor    ProviderRole = "doctor"
	RoleTherapist ProviderRole = "therapist"
)

// Therapist doubles as the provider record for both roles; Role
// distinguishes the dashboard the account belongs to.
type Therapist struct {
	Base
	FirstName      string       `db:"first_name" json:"first_name"`
	LastName       string       `db:"last_name" json:"last_name"`
	Email          string       `db:"email" json:"email"`
	Phone          string       `db:"phone" json:"phone,omitempty"`
	Role           ProviderRole `db:"role" json:"role"`
	Specialization string       `db:"specialization" json:"specialization,omitempty"`
	PasswordHash   string       `db:"password_hash" json:"-"`
	Active         bool         `db:"active" json:"active"`
}
