package view

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"hospitalcms/internal/domain/doctor"
	"hospitalcms/internal/domain/patient"
)

// BuildBookingOverlay builds the booking dialog for p booking with d.
// PRE: minDate is YYYY-MM-DD
// POST: the form posts doctorId, patientId, date and slot to /patient/appointments
func BuildBookingOverlay(d doctor.Doctor, p patient.Patient, csrfToken, minDate string) *html.Node {
	form := postForm("/patient/appointments", csrfToken, "class", "booking-form")
	appendAll(form,
		hidden("doctorId", d.ID.String()),
		hidden("patientId", p.ID.String()),
		readonlyField("Patient", p.Name),
		readonlyField("Email", p.Email),
		readonlyField("Doctor", d.Name),
		readonlyField("Specialization", d.Specialization),
		labelled("Date", elem(atom.Input, "type", "date", "name", "date", "min", minDate, "required", "")),
		labelled("Time", slotSelect(d.AvailableTimes)),
		withText(atom.Button, "Confirm Booking", "type", "submit", "class", "confirm-booking"),
	)

	content := appendAll(elem(atom.Div, "class", "modal-content"),
		withText(atom.H2, "Book Appointment"),
		form,
		withText(atom.A, "Cancel", "href", "/patient/dashboard", "class", "cancel-booking"),
	)
	overlay := elem(atom.Div, "id", "bookingOverlay", "class", "modal booking-overlay active")
	overlay.AppendChild(content)
	return overlay
}

func labelled(label string, control *html.Node) *html.Node {
	l := withText(atom.Label, label+" ")
	l.AppendChild(control)
	return l
}

func readonlyField(label, value string) *html.Node {
	return labelled(label, elem(atom.Input, "type", "text", "value", value, "readonly", ""))
}

func slotSelect(times []string) *html.Node {
	sel := elem(atom.Select, "name", "slot", "required", "")
	if len(times) == 0 {
		sel.AppendChild(withText(atom.Option, "No available times", "value", "", "disabled", ""))
		return sel
	}
	for _, t := range times {
		sel.AppendChild(withText(atom.Option, t, "value", t))
	}
	return sel
}
