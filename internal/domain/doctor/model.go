package doctor

import (
	"encoding/json"
	"errors"
	"strings"

	"hospitalcms/internal/domain/entity"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength  = 100
	MaxEmailLength = 254
)

// Domain errors
var (
	ErrEmptyName      = errors.New("doctor name cannot be empty")
	ErrNameTooLong    = errors.New("doctor name cannot exceed 100 characters")
	ErrEmptyEmail     = errors.New("email cannot be empty")
	ErrInvalidEmail   = errors.New("email must contain '@'")
	ErrInvalidPhone   = errors.New("phone must be 10 digits")
	ErrEmptyPassword  = errors.New("password cannot be empty")
	ErrEmptySpecialty = errors.New("specialty cannot be empty")
)

// Doctor is a doctor record as returned by the backend. The frontend holds a
// copy for one render only.
type Doctor struct {
	ID             entity.ID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Specialization string    `json:"specialization"`
	AvailableTimes []string  `json:"availableTimes"`
}

// UnmarshalJSON also accepts "specialty", which the backend uses on some endpoints.
func (d *Doctor) UnmarshalJSON(data []byte) error {
	type plain Doctor
	var aux struct {
		plain
		Specialty string `json:"specialty"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*d = Doctor(aux.plain)
	if d.Specialization == "" {
		d.Specialization = aux.Specialty
	}
	return nil
}

// AvailabilityLabel returns the available times joined for display, or "N/A".
// INVARIANT: Doctor fields are not mutated
func (d Doctor) AvailabilityLabel() string {
	if len(d.AvailableTimes) == 0 {
		return "N/A"
	}
	return strings.Join(d.AvailableTimes, ", ")
}

// NewDoctor is the payload an admin submits to register a doctor.
type NewDoctor struct {
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	Password       string   `json:"password"`
	Specialty      string   `json:"specialty"`
	AvailableTimes []string `json:"availableTimes"`
}

// Normalize trims whitespace from the text fields.
// POST: Name, Email, Phone, Password and Specialty carry no surrounding whitespace
func (n *NewDoctor) Normalize() {
	n.Name = strings.TrimSpace(n.Name)
	n.Email = strings.TrimSpace(n.Email)
	n.Phone = strings.TrimSpace(n.Phone)
	n.Password = strings.TrimSpace(n.Password)
	n.Specialty = strings.TrimSpace(n.Specialty)
}

// Validate checks if the NewDoctor has valid data.
// PRE: NewDoctor struct is populated
// POST: Returns nil if valid, error otherwise
func (n *NewDoctor) Validate() error {
	if n.Name == "" {
		return ErrEmptyName
	}
	if len(n.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if n.Email == "" {
		return ErrEmptyEmail
	}
	if len(n.Email) > MaxEmailLength || !strings.Contains(n.Email, "@") {
		return ErrInvalidEmail
	}
	if n.Phone != "" && !isDigits(n.Phone, 10) {
		return ErrInvalidPhone
	}
	if n.Password == "" {
		return ErrEmptyPassword
	}
	if n.Specialty == "" {
		return ErrEmptySpecialty
	}
	return nil
}

func isDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
