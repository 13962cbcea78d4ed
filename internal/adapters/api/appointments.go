package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"hospitalcms/internal/domain/appointment"
	"hospitalcms/internal/domain/entity"
)

type appointmentList []appointment.Appointment

func (l *appointmentList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, (*[]appointment.Appointment)(l))
	}
	var wrapped struct {
		Appointments []appointment.Appointment `json:"appointments"`
		Data         []appointment.Appointment `json:"data"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	if wrapped.Appointments != nil {
		*l = wrapped.Appointments
	} else {
		*l = wrapped.Data
	}
	return nil
}

// ListAppointments returns the logged-in doctor's appointments on date.
// PRE: date is YYYY-MM-DD; patientName is a name or appointment.NoPatientFilter
// POST: The request path is /appointments/{date}/{patientName}/{token}
func (c *Client) ListAppointments(ctx context.Context, date, patientName, token string) ([]appointment.Appointment, error) {
	path := fmt.Sprintf("/appointments/%s/%s/%s", seg(date), seg(patientName), seg(token))
	var out appointmentList
	if err := c.doJSON(ctx, "appointment.list", http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return out, nil
}

type idRef struct {
	ID entity.ID `json:"id"`
}

type bookingPayload struct {
	Doctor          idRef  `json:"doctor"`
	Patient         idRef  `json:"patient"`
	AppointmentTime string `json:"appointmentTime"`
	Status          int    `json:"status"`
}

// BookAppointment books a slot with a patient token.
// PRE: booking has been validated
// POST: Success reflects a 2xx response
func (c *Client) BookAppointment(ctx context.Context, booking appointment.Booking, token string) Result {
	payload := bookingPayload{
		Doctor:          idRef{ID: booking.DoctorID},
		Patient:         idRef{ID: booking.PatientID},
		AppointmentTime: booking.AppointmentTime,
		Status:          booking.Status,
	}
	return c.mutate(ctx, "appointment.book", http.MethodPost, "/appointments/book/"+seg(token), payload,
		"Appointment booked successfully.", "Failed to book appointment. Please try again.")
}

// CancelAppointment cancels one of the logged-in patient's appointments.
// PRE: id is non-empty
// POST: The request is DELETE /appointments/cancel/{id}/{token}
func (c *Client) CancelAppointment(ctx context.Context, id entity.ID, token string) Result {
	path := fmt.Sprintf("/appointments/cancel/%s/%s", seg(id.String()), seg(token))
	return c.mutate(ctx, "appointment.cancel", http.MethodDelete, path, nil,
		"Appointment cancelled successfully.", "Failed to cancel appointment. Please try again.")
}

// ListPatientAppointments returns every appointment of the logged-in patient.
// PRE: patientID comes from PatientByToken
// POST: The request path is /patient/appointments/{patientID}/{token}/patient
func (c *Client) ListPatientAppointments(ctx context.Context, patientID entity.ID, token string) ([]appointment.Appointment, error) {
	path := fmt.Sprintf("/patient/appointments/%s/%s/patient", seg(patientID.String()), seg(token))
	var out appointmentList
	if err := c.doJSON(ctx, "patient.appointments", http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("list patient appointments: %w", err)
	}
	return out, nil
}

// FilterPatientAppointments narrows the patient's appointments by condition
// ("past" or "future") and doctor name. Either may be appointment.NoPatientFilter.
// POST: The request path is /patient/appointments/filter/{condition}/{doctorName}/{token}
func (c *Client) FilterPatientAppointments(ctx context.Context, condition, doctorName, token string) ([]appointment.Appointment, error) {
	path := fmt.Sprintf("/patient/appointments/filter/%s/%s/%s", seg(condition), seg(doctorName), seg(token))
	var out appointmentList
	if err := c.doJSON(ctx, "patient.appointments_filter", http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("filter patient appointments: %w", err)
	}
	return out, nil
}
