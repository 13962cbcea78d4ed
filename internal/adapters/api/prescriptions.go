package api

import (
	"context"
	"net/http"

	"hospitalcms/internal/domain/prescription"
)

type prescriptionPayload struct {
	PatientName string `json:"patientName"`
	Appointment idRef  `json:"appointment"`
	Medication  string `json:"medication"`
	Dosage      string `json:"dosage"`
	DoctorNotes string `json:"doctorNotes"`
}

// SavePrescription stores a prescription with a doctor token.
// PRE: p has been validated
func (c *Client) SavePrescription(ctx context.Context, p prescription.Prescription, token string) Result {
	payload := prescriptionPayload{
		PatientName: p.PatientName,
		Appointment: idRef{ID: p.AppointmentID},
		Medication:  p.Medication,
		Dosage:      p.Dosage,
		DoctorNotes: p.DoctorNotes,
	}
	return c.mutate(ctx, "prescription.save", http.MethodPost, "/prescription/save/"+seg(token), payload,
		"Prescription saved successfully.", "Failed to save prescription. Please try again.")
}
