package orchestrators

import (
	"context"
	"log/slog"

	"hospitalcms/internal/adapters/api"
	"hospitalcms/internal/adapters/email"
	"hospitalcms/internal/domain/doctor"
)

// MsgDoctorAdded is shown after a doctor is registered.
const MsgDoctorAdded = "Doctor added successfully!"

// DoctorCreator registers doctors with the backend.
type DoctorCreator interface {
	CreateDoctor(ctx context.Context, payload doctor.NewDoctor, token string) api.Result
}

// AddDoctorInput carries input for the add doctor orchestrator.
type AddDoctorInput struct {
	Doctor doctor.NewDoctor
	Token  string
}

// AddDoctorDeps holds dependencies for AddDoctor.
type AddDoctorDeps struct {
	Doctors DoctorCreator
	Mailer  email.Sender
}

// ExecuteAddDoctor registers a doctor and sends them a welcome email.
// PRE: Token is the admin's backend token
// POST: On success the backend holds the doctor and a welcome email was attempted
// INVARIANT: A failed welcome email never fails the registration
func ExecuteAddDoctor(ctx context.Context, input AddDoctorInput, deps AddDoctorDeps) (string, error) {
	if input.Token == "" {
		return "", ErrTokenMissing
	}
	d := input.Doctor
	d.Normalize()
	if err := d.Validate(); err != nil {
		return "", err
	}

	res := deps.Doctors.CreateDoctor(ctx, d, input.Token)
	if !res.Success {
		slog.Warn("doctor_event", "event", "create_rejected", "reason", res.Message)
		return "", &RejectedError{Reason: res.Message}
	}
	slog.Info("doctor_event", "event", "created", "specialty", d.Specialty)

	if deps.Mailer != nil {
		msg, err := email.WelcomeDoctor(d.Email, d.Name, d.Specialty, d.AvailableTimes)
		if err == nil {
			_, err = deps.Mailer.Send(ctx, msg)
		}
		if err != nil {
			slog.Warn("doctor_event", "event", "welcome_email_failed", "error", err)
		}
	}
	return MsgDoctorAdded, nil
}
