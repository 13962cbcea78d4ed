package patient

import (
	"errors"
	"strings"

	"hospitalcms/internal/domain/entity"
)

// Domain errors
var (
	ErrEmptyName        = errors.New("name cannot be empty")
	ErrInvalidEmail     = errors.New("email must contain '@'")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrInvalidPhone     = errors.New("phone must be 10 digits")
)

// Patient is the logged-in patient's profile.
type Patient struct {
	ID      entity.ID `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Phone   string    `json:"phone"`
	Address string    `json:"address"`
}

// Signup is the payload for patient self-registration.
type Signup struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// Validate checks if the Signup has valid data.
// PRE: Signup struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Signup) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if !strings.Contains(s.Email, "@") {
		return ErrInvalidEmail
	}
	if len(s.Password) < 6 {
		return ErrPasswordTooShort
	}
	if len(s.Phone) != 10 || strings.Trim(s.Phone, "0123456789") != "" {
		return ErrInvalidPhone
	}
	return nil
}
