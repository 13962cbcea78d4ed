package role

import "errors"

// Stored role values. These are the strings written to the session store
// under the userRole key.
const (
	ValueAdmin         = "admin"
	ValueGuestPatient  = "patient"
	ValueLoggedPatient = "loggedPatient"
	ValueDoctor        = "doctor"
)

// ErrUnknownRole is returned when a stored role value is not recognised.
var ErrUnknownRole = errors.New("role must be one of: admin, patient, loggedPatient, doctor")

type kind uint8

const (
	kindGuestPatient kind = iota
	kindAdmin
	kindLoggedPatient
	kindDoctor
)

// Role is the viewer's permission class. It is a closed set: the only values
// are the four package-level variables below. The zero value is GuestPatient,
// so a viewer without a stored role is treated as unauthenticated.
type Role struct {
	k kind
}

// The four roles.
var (
	GuestPatient  = Role{k: kindGuestPatient}
	Admin         = Role{k: kindAdmin}
	LoggedPatient = Role{k: kindLoggedPatient}
	Doctor        = Role{k: kindDoctor}
)

// Visitor dispatches on a Role. Adding a role means adding a method here,
// which fails compilation for every implementation until it handles it.
type Visitor interface {
	Admin()
	GuestPatient()
	LoggedPatient()
	Doctor()
}

// Parse converts a stored value into a Role.
// PRE: none
// POST: "" yields GuestPatient; unknown values yield GuestPatient and ErrUnknownRole
func Parse(value string) (Role, error) {
	switch value {
	case "", ValueGuestPatient:
		return GuestPatient, nil
	case ValueAdmin:
		return Admin, nil
	case ValueLoggedPatient:
		return LoggedPatient, nil
	case ValueDoctor:
		return Doctor, nil
	}
	return GuestPatient, ErrUnknownRole
}

// Accept calls the visitor method matching r.
// INVARIANT: exactly one visitor method is called
func (r Role) Accept(v Visitor) {
	switch r.k {
	case kindAdmin:
		v.Admin()
	case kindLoggedPatient:
		v.LoggedPatient()
	case kindDoctor:
		v.Doctor()
	default:
		v.GuestPatient()
	}
}

// String returns the stored value for r.
func (r Role) String() string {
	switch r.k {
	case kindAdmin:
		return ValueAdmin
	case kindLoggedPatient:
		return ValueLoggedPatient
	case kindDoctor:
		return ValueDoctor
	default:
		return ValueGuestPatient
	}
}

// RequiresToken reports whether the role is only valid alongside a session token.
func (r Role) RequiresToken() bool {
	return r.k != kindGuestPatient
}
