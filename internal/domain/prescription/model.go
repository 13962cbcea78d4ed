package prescription

import (
	"errors"
	"strings"

	"hospitalcms/internal/domain/entity"
)

// MaxNotesLength bounds the free-text doctor notes.
const MaxNotesLength = 200

// Domain errors
var (
	ErrMissingAppointment = errors.New("appointment is required")
	ErrEmptyPatientName   = errors.New("patient name cannot be empty")
	ErrEmptyMedication    = errors.New("medication cannot be empty")
	ErrEmptyDosage        = errors.New("dosage cannot be empty")
	ErrNotesTooLong       = errors.New("doctor notes cannot exceed 200 characters")
)

// Prescription is written by a doctor against one appointment.
type Prescription struct {
	PatientName   string
	AppointmentID entity.ID
	Medication    string
	Dosage        string
	DoctorNotes   string
}

// Validate checks if the Prescription has valid data.
// PRE: Prescription struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Prescription) Validate() error {
	if p.AppointmentID == "" {
		return ErrMissingAppointment
	}
	if strings.TrimSpace(p.PatientName) == "" {
		return ErrEmptyPatientName
	}
	if strings.TrimSpace(p.Medication) == "" {
		return ErrEmptyMedication
	}
	if strings.TrimSpace(p.Dosage) == "" {
		return ErrEmptyDosage
	}
	if len(p.DoctorNotes) > MaxNotesLength {
		return ErrNotesTooLong
	}
	return nil
}
