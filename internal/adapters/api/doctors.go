package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"hospitalcms/internal/domain/doctor"
	"hospitalcms/internal/domain/entity"
)

// doctorList decodes either {"doctors": [...]} or a bare array.
type doctorList []doctor.Doctor

func (l *doctorList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, (*[]doctor.Doctor)(l))
	}
	var wrapped struct {
		Doctors []doctor.Doctor `json:"doctors"`
		Data    []doctor.Doctor `json:"data"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	if wrapped.Doctors != nil {
		*l = wrapped.Doctors
	} else {
		*l = wrapped.Data
	}
	return nil
}

// ListDoctors returns every doctor.
// POST: A nil slice with nil error means the backend has no doctors
func (c *Client) ListDoctors(ctx context.Context) ([]doctor.Doctor, error) {
	var out doctorList
	if err := c.doJSON(ctx, "doctor.list", http.MethodGet, "/doctor", nil, &out); err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return out, nil
}

// FilterDoctors returns doctors matching all three constraints. Each value is
// passed through as a path segment, empty strings included.
// PRE: none; empty values mean "no constraint" to the backend
// POST: The request path is /doctor/filter/{name}/{time}/{specialty}
func (c *Client) FilterDoctors(ctx context.Context, name, time, specialty string) ([]doctor.Doctor, error) {
	path := fmt.Sprintf("/doctor/filter/%s/%s/%s", seg(name), seg(time), seg(specialty))
	var out doctorList
	if err := c.doJSON(ctx, "doctor.filter", http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("filter doctors: %w", err)
	}
	return out, nil
}

// CreateDoctor registers a new doctor with an admin token.
// PRE: payload has been validated
// POST: Success reflects a 2xx response; Message is the backend's or a fixed fallback
func (c *Client) CreateDoctor(ctx context.Context, payload doctor.NewDoctor, token string) Result {
	path := "/doctor/register/" + seg(token)
	return c.mutate(ctx, "doctor.create", http.MethodPost, path, payload,
		"Doctor saved successfully", "Failed to save doctor. Please try again.")
}

// DeleteDoctor removes a doctor with an admin token.
// PRE: id is non-empty
// POST: Success reflects a 2xx response; transport failures never surface as errors
func (c *Client) DeleteDoctor(ctx context.Context, id entity.ID, token string) Result {
	path := fmt.Sprintf("/doctor/delete/%s/%s", seg(id.String()), seg(token))
	return c.mutate(ctx, "doctor.delete", http.MethodDelete, path, nil,
		"Doctor deleted successfully.", "Failed to delete doctor. Please try again.")
}
