package controllers

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/net/html"

	"hospitalcms/internal/domain/appointment"
	"hospitalcms/internal/view"
)

// Placeholder messages for the doctor's appointment table.
const (
	MsgNoAppointments    = "No Appointments found for today."
	MsgAppointmentsError = "Error loading appointments. Try again later."
)

// AppointmentSource lists a doctor's appointments.
type AppointmentSource interface {
	ListAppointments(ctx context.Context, date, patientName, token string) ([]appointment.Appointment, error)
}

// AppointmentController owns the doctor dashboard's date and patient filter.
type AppointmentController struct {
	source       AppointmentSource
	token        string
	container    *html.Node
	now          func() time.Time
	selectedDate string
	patientName  string
	pickerValue  string
}

// NewAppointmentController creates a controller for the doctor behind token.
// PRE: source and container are non-nil; now returns local time
// POST: selected date is today's local date; patient name is the no-filter sentinel
func NewAppointmentController(source AppointmentSource, token string, container *html.Node, now func() time.Time) *AppointmentController {
	if now == nil {
		now = time.Now
	}
	today := now().Format(appointment.DateLayout)
	return &AppointmentController{
		source:       source,
		token:        token,
		container:    container,
		now:          now,
		selectedDate: today,
		patientName:  appointment.NoPatientFilter,
		pickerValue:  today,
	}
}

// SelectedDate returns the date being listed.
func (c *AppointmentController) SelectedDate() string {
	return c.selectedDate
}

// PatientName returns the patient filter, or the sentinel.
func (c *AppointmentController) PatientName() string {
	return c.patientName
}

// DatePickerValue is the value the date picker should display.
func (c *AppointmentController) DatePickerValue() string {
	return c.pickerValue
}

// SearchValue is the value the search box should display.
func (c *AppointmentController) SearchValue() string {
	if c.patientName == appointment.NoPatientFilter {
		return ""
	}
	return c.patientName
}

// Restore sets state carried across requests without fetching. Invalid
// dates keep today; empty names keep the sentinel.
func (c *AppointmentController) Restore(date, patientName string) {
	if appointment.ValidDate(date) {
		c.selectedDate = date
		c.pickerValue = date
	}
	c.patientName = nameOrSentinel(patientName)
}

// Load renders the current state.
func (c *AppointmentController) Load(ctx context.Context) error {
	return c.refresh(ctx)
}

// OnSearchInput sets the patient filter and re-fetches.
// POST: an empty or blank value resets the filter to the sentinel
func (c *AppointmentController) OnSearchInput(ctx context.Context, value string) error {
	c.patientName = nameOrSentinel(value)
	return c.refresh(ctx)
}

// OnToday resets the date and the date picker to today and re-fetches.
func (c *AppointmentController) OnToday(ctx context.Context) error {
	c.selectedDate = c.now().Format(appointment.DateLayout)
	c.pickerValue = c.selectedDate
	return c.refresh(ctx)
}

// OnDateChange sets the date and re-fetches.
// PRE: value is YYYY-MM-DD
func (c *AppointmentController) OnDateChange(ctx context.Context, value string) error {
	if !appointment.ValidDate(value) {
		return appointment.ErrInvalidDate
	}
	c.selectedDate = value
	c.pickerValue = value
	return c.refresh(ctx)
}

func (c *AppointmentController) refresh(ctx context.Context) error {
	appts, err := c.source.ListAppointments(ctx, c.selectedDate, c.patientName, c.token)
	if err != nil {
		slog.Warn("appointment_event", "event", "list_failed", "date", c.selectedDate, "error", err)
		view.Render(c.container, nil, buildPatientRow, MsgAppointmentsError)
		return err
	}
	view.Render(c.container, appts, buildPatientRow, MsgNoAppointments)
	return nil
}

func buildPatientRow(a appointment.Appointment) *html.Node {
	return view.BuildPatientRow(a.PatientRow())
}

func nameOrSentinel(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return appointment.NoPatientFilter
	}
	return value
}
