package appointment

import (
	"errors"
	"strings"
	"time"

	"hospitalcms/internal/domain/entity"
)

// NoPatientFilter is sent in place of a patient name when the doctor has not
// searched. The backend path segment cannot be empty, so the literal "null"
// stands for "no constraint".
const NoPatientFilter = "null"

// DateLayout is the wire and date-picker format for appointment dates.
const DateLayout = "2006-01-02"

// TimeLayout is the backend's LocalDateTime format.
const TimeLayout = "2006-01-02T15:04:05"

// Status values used by the backend.
const (
	StatusScheduled = 0
	StatusCompleted = 1
)

// Domain errors
var (
	ErrMissingDoctor  = errors.New("doctor is required")
	ErrMissingPatient = errors.New("patient is required")
	ErrInvalidTime    = errors.New("appointment time must be YYYY-MM-DDTHH:MM:SS")
	ErrTimeInPast     = errors.New("appointment time must be in the future")
	ErrInvalidDate    = errors.New("date must be YYYY-MM-DD")
)

// Appointment is an appointment as listed for a doctor.
type Appointment struct {
	ID              entity.ID `json:"id"`
	DoctorID        entity.ID `json:"doctorId"`
	DoctorName      string    `json:"doctorName"`
	PatientID       entity.ID `json:"patientId"`
	PatientName     string    `json:"patientName"`
	PatientEmail    string    `json:"patientEmail"`
	PatientPhone    string    `json:"patientPhone"`
	PatientAddress  string    `json:"patientAddress"`
	AppointmentTime string    `json:"appointmentTime"`
	Status          int       `json:"status"`
}

// PatientRow is the projection of an appointment shown in the doctor's table.
type PatientRow struct {
	ID            entity.ID
	Name          string
	Phone         string
	Email         string
	AppointmentID entity.ID
}

// PatientRow projects the appointment onto the patient table row.
// INVARIANT: Appointment fields are not mutated
func (a Appointment) PatientRow() PatientRow {
	return PatientRow{
		ID:            a.PatientID,
		Name:          a.PatientName,
		Phone:         a.PatientPhone,
		Email:         a.PatientEmail,
		AppointmentID: a.ID,
	}
}

// Cancellable reports whether the patient may still cancel: the appointment
// is scheduled and has not started at now.
// PRE: now is the current time in the clinic's location
func (a Appointment) Cancellable(now time.Time) bool {
	if a.ID == "" || a.Status != StatusScheduled {
		return false
	}
	at := strings.TrimSpace(a.AppointmentTime)
	if len(at) > len(TimeLayout) {
		at = at[:len(TimeLayout)]
	}
	start, err := time.ParseInLocation(TimeLayout, at, now.Location())
	return err == nil && start.After(now)
}

// Booking is the payload a logged-in patient submits from the booking overlay.
type Booking struct {
	DoctorID        entity.ID
	PatientID       entity.ID
	AppointmentTime string
	Status          int
}

// Validate checks if the Booking has valid data.
// PRE: now is the current time in the clinic's location
// POST: Returns nil if valid, error otherwise
func (b *Booking) Validate(now time.Time) error {
	if b.DoctorID == "" {
		return ErrMissingDoctor
	}
	if b.PatientID == "" {
		return ErrMissingPatient
	}
	at, err := time.ParseInLocation(TimeLayout, strings.TrimSpace(b.AppointmentTime), now.Location())
	if err != nil {
		return ErrInvalidTime
	}
	if !at.After(now) {
		return ErrTimeInPast
	}
	return nil
}

// SlotTime joins a date and the start of an availability slot such as
// "09:00-10:00" into the backend time format.
// PRE: date is YYYY-MM-DD; slot starts with HH:MM
// POST: Returns "YYYY-MM-DDTHH:MM:00" or an error
func SlotTime(date, slot string) (string, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return "", ErrInvalidDate
	}
	start, _, _ := strings.Cut(strings.TrimSpace(slot), "-")
	start = strings.TrimSpace(start)
	if _, err := time.Parse("15:04", start); err != nil {
		return "", ErrInvalidTime
	}
	return date + "T" + start + ":00", nil
}

// ValidDate reports whether s is a YYYY-MM-DD date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
