package orchestrators

import (
	"context"
	"log/slog"
	"strings"

	"hospitalcms/internal/adapters/api"
	"hospitalcms/internal/domain/patient"
)

// PatientRegistrar creates patient accounts.
type PatientRegistrar interface {
	RegisterPatient(ctx context.Context, signup patient.Signup) api.Result
}

// SignupInput carries input for the signup orchestrator.
type SignupInput struct {
	Signup patient.Signup
}

// SignupDeps holds dependencies for Signup.
type SignupDeps struct {
	Patients PatientRegistrar
}

// ExecuteSignup validates and submits a patient signup.
// PRE: none
// POST: Returns the backend's success message, a validation error, or a RejectedError
func ExecuteSignup(ctx context.Context, input SignupInput, deps SignupDeps) (string, error) {
	s := input.Signup
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.Phone = strings.TrimSpace(s.Phone)
	s.Address = strings.TrimSpace(s.Address)
	if err := s.Validate(); err != nil {
		return "", err
	}

	res := deps.Patients.RegisterPatient(ctx, s)
	if !res.Success {
		slog.Info("auth_event", "event", "signup_rejected", "reason", res.Message)
		return "", &RejectedError{Reason: res.Message}
	}
	slog.Info("auth_event", "event", "signup")
	return res.Message, nil
}
