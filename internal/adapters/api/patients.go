package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"hospitalcms/internal/domain/patient"
)

// PatientByToken returns the profile behind a patient token.
// POST: (nil, nil) when the backend answers 404 or an empty body
func (c *Client) PatientByToken(ctx context.Context, token string) (*patient.Patient, error) {
	var raw json.RawMessage
	err := c.doJSON(ctx, "patient.get", http.MethodGet, "/patient/"+seg(token), nil, &raw)
	var se *StatusError
	if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get patient: %w", err)
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var wrapped struct {
		Patient *patient.Patient `json:"patient"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Patient != nil {
		return wrapped.Patient, nil
	}
	var p patient.Patient
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode patient: %w", err)
	}
	if p.ID == "" {
		return nil, nil
	}
	return &p, nil
}

// RegisterPatient creates a patient account.
// PRE: signup has been validated
func (c *Client) RegisterPatient(ctx context.Context, signup patient.Signup) Result {
	return c.mutate(ctx, "patient.register", http.MethodPost, "/patient/register", signup,
		"Signup successful! Please log in.", "Failed to sign up. Please try again.")
}
