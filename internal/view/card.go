package view

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"hospitalcms/internal/adapters/api"
	"hospitalcms/internal/domain/doctor"
	"hospitalcms/internal/domain/entity"
	"hospitalcms/internal/domain/patient"
	"hospitalcms/internal/domain/role"
	"hospitalcms/internal/domain/session"
)

// User-facing messages for card actions.
const (
	MsgDeleteSucceeded  = "Doctor deleted successfully."
	MsgDeleteFailed     = "Failed to delete doctor."
	MsgLoginToBook      = "Please log in to book an appointment."
	MsgSessionExpired   = "Session expired. Please log in again."
	MsgPatientNotFound  = "Failed to retrieve patient information."
	MsgBookingError     = "An error occurred while processing your booking."
	confirmDeleteFormat = "Are you sure you want to delete Dr. %s?"
)

// DoctorDeleter deletes a doctor record with an admin token.
type DoctorDeleter interface {
	DeleteDoctor(ctx context.Context, id entity.ID, token string) api.Result
}

// PatientFetcher resolves a patient token to a profile. A nil profile with a
// nil error means no patient is behind the token.
type PatientFetcher interface {
	PatientByToken(ctx context.Context, token string) (*patient.Patient, error)
}

// BookingOverlay opens the booking dialog for a doctor on behalf of a patient.
type BookingOverlay interface {
	Show(origin *html.Node, d doctor.Doctor, p patient.Patient)
}

// CardDeps are the collaborators a card's action may call.
type CardDeps struct {
	Doctors   DoctorDeleter
	Patients  PatientFetcher
	Overlay   BookingOverlay
	Prompt    Prompter
	Signals   Signaler
	CSRFToken string
}

// Action is the behavior behind a card's action control.
type Action interface {
	Invoke(ctx context.Context, origin *html.Node)
}

// Card is a built doctor card: the fragment, plus the action its control
// triggers. Action is nil when the role gets no control.
type Card struct {
	Node   *html.Node
	Action Action
}

// BuildDoctorCard builds the card for d as seen by sess.Role.
// PRE: d has an ID
// POST: Node is div.doctor-card holding div.doctor-info and div.card-actions;
// the action section depends only on sess.Role
// INVARIANT: d and deps are not mutated; no network call is made
func BuildDoctorCard(d doctor.Doctor, sess session.Context, deps CardDeps) *Card {
	card := elem(atom.Div, "class", "doctor-card", "data-doctor-id", d.ID.String())

	info := appendAll(elem(atom.Div, "class", "doctor-info"),
		withText(atom.H3, d.Name),
		withText(atom.P, "Specialization: "+d.Specialization),
		withText(atom.P, "Email: "+d.Email),
		withText(atom.P, "Available Times: "+d.AvailabilityLabel()),
	)

	actions := elem(atom.Div, "class", "card-actions")
	b := &actionBuilder{doctor: d, sess: sess, deps: deps, card: card, section: actions}
	sess.Role.Accept(b)

	appendAll(card, info, actions)
	return &Card{Node: card, Action: b.action}
}

// actionBuilder fills the action section for one role.
type actionBuilder struct {
	doctor  doctor.Doctor
	sess    session.Context
	deps    CardDeps
	card    *html.Node
	section *html.Node
	action  Action
}

var _ role.Visitor = (*actionBuilder)(nil)

func (b *actionBuilder) Admin() {
	form := postForm(fmt.Sprintf("/admin/doctors/%s/delete", b.doctor.ID), b.deps.CSRFToken)
	appendAll(form,
		hidden("name", b.doctor.Name),
		withText(atom.Button, "Delete", "type", "submit", "class", "delete-btn"),
	)
	b.section.AppendChild(form)
	b.action = &DeleteAction{card: b.card, doctor: b.doctor, token: b.sess.Token, deps: b.deps}
}

func (b *actionBuilder) GuestPatient() {
	b.section.AppendChild(b.bookForm())
	b.action = &GuestBookAction{signals: b.deps.Signals}
}

func (b *actionBuilder) LoggedPatient() {
	b.section.AppendChild(b.bookForm())
	b.action = &LoggedBookAction{doctor: b.doctor, token: b.sess.Token, deps: b.deps}
}

// Doctors browse the listing without actions.
func (b *actionBuilder) Doctor() {}

func (b *actionBuilder) bookForm() *html.Node {
	form := postForm(fmt.Sprintf("/patient/doctors/%s/book", b.doctor.ID), b.deps.CSRFToken)
	form.AppendChild(withText(atom.Button, "Book Now", "type", "submit", "class", "book-btn"))
	return form
}

// DeleteAction confirms, deletes the doctor, and detaches the card from its
// container on success.
type DeleteAction struct {
	card   *html.Node
	doctor doctor.Doctor
	token  string
	deps   CardDeps
}

// Invoke runs the delete flow.
// POST: on success the card is removed from its parent and a success alert
// is raised; otherwise the card is untouched and a failure alert is raised
// INVARIANT: sibling cards are never touched
func (a *DeleteAction) Invoke(ctx context.Context, _ *html.Node) {
	if !a.deps.Prompt.Confirm(fmt.Sprintf(confirmDeleteFormat, a.doctor.Name)) {
		return
	}
	res := a.deps.Doctors.DeleteDoctor(ctx, a.doctor.ID, a.token)
	if !res.Success {
		slog.Warn("doctor_event", "event", "delete_failed", "doctor_id", a.doctor.ID.String(), "reason", res.Message)
		a.deps.Signals.Alert(MsgDeleteFailed)
		return
	}
	slog.Info("doctor_event", "event", "deleted", "doctor_id", a.doctor.ID.String())
	a.deps.Signals.Alert(MsgDeleteSucceeded)
	if a.card.Parent != nil {
		a.card.Parent.RemoveChild(a.card)
	}
}

// GuestBookAction tells an unauthenticated viewer to log in.
type GuestBookAction struct {
	signals Signaler
}

// Invoke raises the login alert.
// INVARIANT: makes no network call
func (a *GuestBookAction) Invoke(context.Context, *html.Node) {
	a.signals.Alert(MsgLoginToBook)
}

// LoggedBookAction loads the patient's profile and opens the booking overlay.
type LoggedBookAction struct {
	doctor doctor.Doctor
	token  string
	deps   CardDeps
}

// Invoke runs the booking hand-off.
// POST: the overlay is shown only when the profile was fetched
func (a *LoggedBookAction) Invoke(ctx context.Context, origin *html.Node) {
	if a.token == "" {
		a.deps.Signals.Alert(MsgSessionExpired)
		a.deps.Signals.Redirect("/")
		return
	}
	p, err := a.deps.Patients.PatientByToken(ctx, a.token)
	if err != nil {
		slog.Warn("booking_event", "event", "patient_fetch_failed", "error", err)
		a.deps.Signals.Alert(MsgBookingError)
		return
	}
	if p == nil {
		a.deps.Signals.Alert(MsgPatientNotFound)
		return
	}
	a.deps.Overlay.Show(origin, a.doctor, *p)
}
