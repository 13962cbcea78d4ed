package web

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/csrf"
	"golang.org/x/net/html"

	"hospitalcms/internal/application/controllers"
	"hospitalcms/internal/application/orchestrators"
	"hospitalcms/internal/domain/appointment"
	"hospitalcms/internal/domain/entity"
	"hospitalcms/internal/domain/prescription"
	"hospitalcms/internal/view"
)

// MsgNoPatientAppointments is the empty state of the patient's appointment table.
const MsgNoPatientAppointments = "No appointments found."

type doctorDashboard struct {
	Search       string
	DatePicker   string
	SelectedDate string
	Rows         template.HTML
}

// handleDoctorDashboard handles GET /doctor/dashboard. Each control submits
// its own form; the trigger decides which controller event runs, so exactly
// one appointment fetch happens per request.
func (a *App) handleDoctorDashboard(w http.ResponseWriter, r *http.Request) {
	ch, ok := a.beginPage(w, r)
	if !ok {
		return
	}
	tbody := view.NewTableBody("patientTableBody", view.PatientColumns)
	ctl := controllers.NewAppointmentController(a.backend, ch.sess.Token, tbody, a.now)

	q := r.URL.Query()
	date, name := q.Get("date"), q.Get("q")
	var err error
	switch {
	case q.Get("today") != "":
		ctl.Restore("", name)
		err = ctl.OnToday(r.Context())
	case q.Get("trigger") == "search":
		ctl.Restore(date, "")
		err = ctl.OnSearchInput(r.Context(), name)
	case q.Get("trigger") == "date":
		ctl.Restore("", name)
		err = ctl.OnDateChange(r.Context(), date)
		if errors.Is(err, appointment.ErrInvalidDate) {
			ch.signals.Alert(err.Error())
			err = ctl.Load(r.Context())
		}
	default:
		ctl.Restore(date, name)
		err = ctl.Load(r.Context())
	}
	if a.tokenRejected(w, r, err) {
		return
	}

	rows, err := view.HTML(tbody)
	if err != nil {
		internalError(w, err)
		return
	}
	a.render(w, r, ch, "doctor_dashboard.html", "Doctor Dashboard", doctorDashboard{
		Search:       ctl.SearchValue(),
		DatePicker:   ctl.DatePickerValue(),
		SelectedDate: ctl.SelectedDate(),
		Rows:         rows,
	})
}

type prescriptionForm struct {
	AppointmentID string
	PatientName   string
	MaxNotes      int
}

// handlePrescriptionForm handles GET /doctor/prescriptions/new
func (a *App) handlePrescriptionForm(w http.ResponseWriter, r *http.Request) {
	ch, ok := a.beginPage(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	a.render(w, r, ch, "prescription.html", "Add Prescription", prescriptionForm{
		AppointmentID: q.Get("appointmentId"),
		PatientName:   q.Get("patientName"),
		MaxNotes:      prescription.MaxNotesLength,
	})
}

// handleSavePrescription handles POST /doctor/prescriptions
func (a *App) handleSavePrescription(w http.ResponseWriter, r *http.Request) {
	ch, ok := a.beginPage(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	p := prescription.Prescription{
		AppointmentID: entity.ID(r.FormValue("appointmentId")),
		PatientName:   r.FormValue("patientName"),
		Medication:    r.FormValue("medication"),
		Dosage:        r.FormValue("dosage"),
		DoctorNotes:   r.FormValue("doctorNotes"),
	}
	msg, err := orchestrators.ExecuteSavePrescription(r.Context(),
		orchestrators.SavePrescriptionInput{Token: ch.sess.Token, Prescription: p},
		orchestrators.SavePrescriptionDeps{Prescriptions: a.backend})
	if err != nil {
		retry := "/doctor/prescriptions/new?" + url.Values{
			"appointmentId": {p.AppointmentID.String()},
			"patientName":   {p.PatientName},
		}.Encode()
		a.redirectWith(w, r, retry, userMessage("Failed to save prescription: ", err))
		return
	}
	a.redirectWith(w, r, "/doctor/dashboard", msg)
}

// handleBookAppointment handles POST /patient/appointments (booking overlay submit).
func (a *App) handleBookAppointment(w http.ResponseWriter, r *http.Request) {
	ch, ok := a.beginPage(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	input := orchestrators.BookAppointmentInput{
		Token:     ch.sess.Token,
		DoctorID:  entity.ID(r.FormValue("doctorId")),
		PatientID: entity.ID(r.FormValue("patientId")),
		Date:      r.FormValue("date"),
		Slot:      r.FormValue("slot"),
	}
	deps := orchestrators.BookAppointmentDeps{Appointments: a.backend, Now: a.now}

	msg, err := orchestrators.ExecuteBookAppointment(r.Context(), input, deps)
	if err != nil {
		a.redirectWith(w, r, "/patient/dashboard", userMessage("Failed to book appointment: ", err))
		return
	}
	a.redirectWith(w, r, "/patient/appointments", msg)
}

// handleCancelAppointment handles POST /patient/appointments/{id}/cancel
func (a *App) handleCancelAppointment(w http.ResponseWriter, r *http.Request) {
	ch, ok := a.beginPage(w, r)
	if !ok {
		return
	}
	input := orchestrators.CancelAppointmentInput{Token: ch.sess.Token, AppointmentID: entity.ID(r.PathValue("id"))}
	deps := orchestrators.CancelAppointmentDeps{Appointments: a.backend}

	msg, err := orchestrators.ExecuteCancelAppointment(r.Context(), input, deps)
	if err != nil {
		a.redirectWith(w, r, "/patient/appointments", userMessage("Failed to cancel appointment: ", err))
		return
	}
	a.redirectWith(w, r, "/patient/appointments", msg)
}

type patientAppointments struct {
	Condition  string
	Doctor     string
	Conditions []string
	Rows       template.HTML
}

// handlePatientAppointments handles GET /patient/appointments. A condition
// or doctor name narrows the list through the backend filter.
func (a *App) handlePatientAppointments(w http.ResponseWriter, r *http.Request) {
	ch, ok := a.beginPage(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	condition, doctorName := q.Get("condition"), strings.TrimSpace(q.Get("doctor"))
	tbody := view.NewTableBody("patientTableBody", view.AppointmentColumns)

	appts, msg, err := a.patientAppointments(r, ch.sess.Token, condition, doctorName)
	if a.tokenRejected(w, r, err) {
		return
	}
	actions := view.AppointmentActions{CSRFToken: csrf.Token(r), Now: a.now()}
	view.Render(tbody, appts, func(appt appointment.Appointment) *html.Node {
		return view.BuildAppointmentRow(appt, actions)
	}, msg)

	rows, err := view.HTML(tbody)
	if err != nil {
		internalError(w, err)
		return
	}
	a.render(w, r, ch, "patient_appointments.html", "Your Appointments", patientAppointments{
		Condition:  condition,
		Doctor:     doctorName,
		Conditions: appointmentConditions,
		Rows:       rows,
	})
}

// patientAppointments fetches the list and the placeholder shown when it is
// empty. A read failure yields the error placeholder and the error.
func (a *App) patientAppointments(r *http.Request, token, condition, doctorName string) ([]appointment.Appointment, string, error) {
	ctx := r.Context()
	if condition != "" || doctorName != "" {
		appts, err := a.backend.FilterPatientAppointments(ctx, orNull(condition), orNull(doctorName), token)
		if err != nil {
			slog.Warn("appointment_event", "event", "patient_filter_failed", "error", err)
			return nil, controllers.MsgAppointmentsError, err
		}
		return appts, MsgNoPatientAppointments, nil
	}

	p, err := a.backend.PatientByToken(ctx, token)
	if err != nil {
		slog.Warn("appointment_event", "event", "patient_fetch_failed", "error", err)
		return nil, controllers.MsgAppointmentsError, err
	}
	if p == nil {
		return nil, view.MsgPatientNotFound, nil
	}
	appts, err := a.backend.ListPatientAppointments(ctx, p.ID, token)
	if err != nil {
		slog.Warn("appointment_event", "event", "patient_list_failed", "error", err)
		return nil, controllers.MsgAppointmentsError, err
	}
	return appts, MsgNoPatientAppointments, nil
}

func orNull(s string) string {
	if s == "" {
		return appointment.NoPatientFilter
	}
	return s
}
