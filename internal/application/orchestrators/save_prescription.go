package orchestrators

import (
	"context"
	"log/slog"
	"strings"

	"hospitalcms/internal/adapters/api"
	"hospitalcms/internal/domain/prescription"
)

// PrescriptionSaver stores prescriptions with the backend.
type PrescriptionSaver interface {
	SavePrescription(ctx context.Context, p prescription.Prescription, token string) api.Result
}

// SavePrescriptionInput carries input for the save prescription orchestrator.
type SavePrescriptionInput struct {
	Token        string
	Prescription prescription.Prescription
}

// SavePrescriptionDeps holds dependencies for SavePrescription.
type SavePrescriptionDeps struct {
	Prescriptions PrescriptionSaver
}

// ExecuteSavePrescription validates and stores a prescription.
// PRE: Token is a doctor token
// POST: Returns the backend's success message, a validation error, or a RejectedError
func ExecuteSavePrescription(ctx context.Context, input SavePrescriptionInput, deps SavePrescriptionDeps) (string, error) {
	if input.Token == "" {
		return "", ErrTokenMissing
	}
	p := input.Prescription
	p.Medication = strings.TrimSpace(p.Medication)
	p.Dosage = strings.TrimSpace(p.Dosage)
	p.DoctorNotes = strings.TrimSpace(p.DoctorNotes)
	if err := p.Validate(); err != nil {
		return "", err
	}

	res := deps.Prescriptions.SavePrescription(ctx, p, input.Token)
	if !res.Success {
		slog.Info("prescription_event", "event", "rejected", "appointment_id", p.AppointmentID.String(), "reason", res.Message)
		return "", &RejectedError{Reason: res.Message}
	}
	slog.Info("prescription_event", "event", "saved", "appointment_id", p.AppointmentID.String())
	return res.Message, nil
}
