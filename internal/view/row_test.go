package view

import (
	"net/url"
	"testing"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"hospitalcms/internal/domain/appointment"
)

func cells(n *html.Node) []string {
	var out []string
	for _, td := range Children(n) {
		out = append(out, TextContent(td))
	}
	return out
}

func TestBuildPatientRow(t *testing.T) {
	a := appointment.Appointment{
		ID: "9", PatientID: "3", PatientName: "Bo Lee", PatientPhone: "5551234567", PatientEmail: "bo@x.io",
	}
	row := BuildPatientRow(a.PatientRow())

	if row.DataAtom != atom.Tr {
		t.Fatalf("row = <%s>", row.Data)
	}
	got := cells(row)
	want := []string{"3", "Bo Lee", "5551234567", "bo@x.io", "Add Prescription"}
	if len(got) != PatientColumns || len(got) != len(want) {
		t.Fatalf("cells = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cell %d = %q, want %q", i, got[i], want[i])
		}
	}

	link := FindAll(row, ByClass("prescription-btn"))[0]
	u, err := url.Parse(Attr(link, "href"))
	if err != nil {
		t.Fatalf("href: %v", err)
	}
	if u.Path != "/doctor/prescriptions/new" || u.Query().Get("appointmentId") != "9" || u.Query().Get("patientName") != "Bo Lee" {
		t.Errorf("href = %s", u)
	}
}

func TestBuildAppointmentRow(t *testing.T) {
	actions := AppointmentActions{CSRFToken: "csrf", Now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	row := BuildAppointmentRow(appointment.Appointment{
		ID: "7", DoctorName: "Jane Roe", AppointmentTime: "2026-03-02T09:00:00", Status: appointment.StatusCompleted,
	}, actions)
	got := cells(row)
	want := []string{"Jane Roe", "2026-03-02", "09:00", "Completed", ""}
	if len(got) != AppointmentColumns {
		t.Fatalf("cells = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cell %d = %q, want %q", i, got[i], want[i])
		}
	}
}

// TestBuildAppointmentRow_CancelForm verifies only an upcoming scheduled appointment offers a cancel form.
func TestBuildAppointmentRow_CancelForm(t *testing.T) {
	actions := AppointmentActions{CSRFToken: "csrf", Now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	upcoming := BuildAppointmentRow(appointment.Appointment{ID: "7", DoctorName: "Jane Roe", AppointmentTime: "2026-03-02T09:00:00"}, actions)
	forms := FindAll(upcoming, ByClass("cancel-form"))
	if len(forms) != 1 || Attr(forms[0], "action") != "/patient/appointments/7/cancel" {
		t.Fatalf("cancel forms = %d", len(forms))
	}
	inputs := FindAll(forms[0], func(n *html.Node) bool { return Attr(n, "name") == CSRFField })
	if len(inputs) != 1 || Attr(inputs[0], "value") != "csrf" {
		t.Error("cancel form lacks CSRF field")
	}

	past := BuildAppointmentRow(appointment.Appointment{ID: "8", AppointmentTime: "2026-02-27T09:00:00"}, actions)
	if n := len(FindAll(past, ByClass("cancel-form"))); n != 0 {
		t.Errorf("past appointment has %d cancel forms", n)
	}
}

func TestBuildBookingOverlay(t *testing.T) {
	d := sampleDoctor("5")
	overlay := BuildBookingOverlay(d, patientFixture(), "csrf", "2026-03-01")

	forms := FindAll(overlay, func(n *html.Node) bool { return n.DataAtom == atom.Form })
	if len(forms) != 1 || Attr(forms[0], "action") != "/patient/appointments" {
		t.Fatalf("forms = %d", len(forms))
	}
	values := map[string]string{}
	for _, in := range FindAll(forms[0], func(n *html.Node) bool { return n.DataAtom == atom.Input }) {
		if name := Attr(in, "name"); name != "" {
			values[name] = Attr(in, "value")
		}
	}
	if values["doctorId"] != "5" || values["patientId"] != "7" || values[CSRFField] != "csrf" {
		t.Errorf("hidden values = %v", values)
	}
	options := FindAll(overlay, func(n *html.Node) bool { return n.DataAtom == atom.Option })
	if len(options) != 2 || Attr(options[0], "value") != "09:00-10:00" {
		t.Errorf("options = %d", len(options))
	}
}

func TestBuildBookingOverlay_NoTimes(t *testing.T) {
	d := sampleDoctor("5")
	d.AvailableTimes = nil
	overlay := BuildBookingOverlay(d, patientFixture(), "csrf", "2026-03-01")
	options := FindAll(overlay, func(n *html.Node) bool { return n.DataAtom == atom.Option })
	if len(options) != 1 || TextContent(options[0]) != "No available times" {
		t.Errorf("options = %d", len(options))
	}
}
