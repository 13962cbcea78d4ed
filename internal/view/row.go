package view

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"hospitalcms/internal/domain/appointment"
)

// PatientColumns is the column count of the doctor's patient table.
const PatientColumns = 5

// BuildPatientRow builds the doctor's table row for one appointment's patient.
// POST: tr with id, name, phone and email cells plus a prescription link
// carrying the appointment id
func BuildPatientRow(r appointment.PatientRow) *html.Node {
	q := url.Values{}
	q.Set("appointmentId", r.AppointmentID.String())
	q.Set("patientName", r.Name)

	action := elem(atom.Td)
	action.AppendChild(withText(atom.A, "Add Prescription",
		"class", "prescription-btn", "href", "/doctor/prescriptions/new?"+q.Encode()))

	return appendAll(elem(atom.Tr, "class", "patient-row", "data-patient-id", r.ID.String()),
		withText(atom.Td, r.ID.String(), "class", "patient-id"),
		withText(atom.Td, r.Name),
		withText(atom.Td, r.Phone),
		withText(atom.Td, r.Email),
		action,
	)
}

// AppointmentColumns is the column count of the patient's appointment table.
const AppointmentColumns = 5

// AppointmentActions is what the patient's appointment rows need to offer a cancel form.
type AppointmentActions struct {
	CSRFToken string
	Now       time.Time
}

// BuildAppointmentRow builds a patient's own appointment row.
// POST: the last cell holds a cancel form only when the appointment is still cancellable
func BuildAppointmentRow(a appointment.Appointment, actions AppointmentActions) *html.Node {
	date, clock, _ := strings.Cut(a.AppointmentTime, "T")
	if len(clock) > 5 {
		clock = clock[:5]
	}
	status := "Scheduled"
	if a.Status == appointment.StatusCompleted {
		status = "Completed"
	}

	action := elem(atom.Td)
	if a.Cancellable(actions.Now) {
		form := postForm(fmt.Sprintf("/patient/appointments/%s/cancel", url.PathEscape(a.ID.String())), actions.CSRFToken, "class", "cancel-form")
		form.AppendChild(withText(atom.Button, "Cancel", "type", "submit", "class", "cancel-btn"))
		action.AppendChild(form)
	}

	return appendAll(elem(atom.Tr, "class", "appointment-row", "data-appointment-id", a.ID.String()),
		withText(atom.Td, a.DoctorName),
		withText(atom.Td, date),
		withText(atom.Td, clock),
		withText(atom.Td, status),
		action,
	)
}
