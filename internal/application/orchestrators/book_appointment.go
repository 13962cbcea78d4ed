package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"hospitalcms/internal/adapters/api"
	"hospitalcms/internal/domain/appointment"
	"hospitalcms/internal/domain/entity"
)

// MsgAppointmentBooked is shown after a booking is accepted.
const MsgAppointmentBooked = "Appointment booked successfully!"

// AppointmentBooker submits bookings to the backend.
type AppointmentBooker interface {
	BookAppointment(ctx context.Context, booking appointment.Booking, token string) api.Result
}

// BookAppointmentInput carries the booking overlay's form.
type BookAppointmentInput struct {
	Token     string
	DoctorID  entity.ID
	PatientID entity.ID
	Date      string
	Slot      string
}

// BookAppointmentDeps holds dependencies for BookAppointment.
type BookAppointmentDeps struct {
	Appointments AppointmentBooker
	Now          func() time.Time
}

// ExecuteBookAppointment books the chosen slot for the patient.
// PRE: Token is a patient token
// POST: On success the backend holds a scheduled appointment at Date + slot start
func ExecuteBookAppointment(ctx context.Context, input BookAppointmentInput, deps BookAppointmentDeps) (string, error) {
	if input.Token == "" {
		return "", ErrTokenMissing
	}
	at, err := appointment.SlotTime(input.Date, input.Slot)
	if err != nil {
		return "", err
	}
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	b := appointment.Booking{
		DoctorID:        input.DoctorID,
		PatientID:       input.PatientID,
		AppointmentTime: at,
		Status:          appointment.StatusScheduled,
	}
	if err := b.Validate(now()); err != nil {
		return "", err
	}

	res := deps.Appointments.BookAppointment(ctx, b, input.Token)
	if !res.Success {
		slog.Info("booking_event", "event", "rejected", "doctor_id", input.DoctorID.String(), "reason", res.Message)
		return "", &RejectedError{Reason: res.Message}
	}
	slog.Info("booking_event", "event", "booked", "doctor_id", input.DoctorID.String(), "at", at)
	return MsgAppointmentBooked, nil
}
