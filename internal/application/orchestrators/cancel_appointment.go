package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"hospitalcms/internal/adapters/api"
	"hospitalcms/internal/domain/entity"
)

// MsgAppointmentCancelled is shown after a cancellation is accepted.
const MsgAppointmentCancelled = "Appointment cancelled successfully."

var ErrMissingAppointment = errors.New("appointment is required")

// AppointmentCanceller cancels a patient's appointment.
type AppointmentCanceller interface {
	CancelAppointment(ctx context.Context, id entity.ID, token string) api.Result
}

// CancelAppointmentInput carries the appointment row's cancel form.
type CancelAppointmentInput struct {
	Token         string
	AppointmentID entity.ID
}

// CancelAppointmentDeps holds dependencies for CancelAppointment.
type CancelAppointmentDeps struct {
	Appointments AppointmentCanceller
}

// ExecuteCancelAppointment cancels one of the patient's appointments. The
// backend decides whether the appointment belongs to the token's patient.
// PRE: Token is a patient token
// POST: On success the backend no longer holds the appointment
func ExecuteCancelAppointment(ctx context.Context, input CancelAppointmentInput, deps CancelAppointmentDeps) (string, error) {
	if input.Token == "" {
		return "", ErrTokenMissing
	}
	if input.AppointmentID == "" {
		return "", ErrMissingAppointment
	}
	res := deps.Appointments.CancelAppointment(ctx, input.AppointmentID, input.Token)
	if !res.Success {
		slog.Info("booking_event", "event", "cancel_rejected", "appointment_id", input.AppointmentID.String(), "reason", res.Message)
		return "", &RejectedError{Reason: res.Message}
	}
	slog.Info("booking_event", "event", "cancelled", "appointment_id", input.AppointmentID.String())
	return MsgAppointmentCancelled, nil
}
