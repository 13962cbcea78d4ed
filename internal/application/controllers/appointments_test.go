package controllers

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/net/html/atom"

	"hospitalcms/internal/domain/appointment"
	"hospitalcms/internal/view"
)

type listCall struct {
	date, name, token string
}

// mockAppointmentSource records list calls.
type mockAppointmentSource struct {
	appts []appointment.Appointment
	err   error
	calls []listCall
}

func (m *mockAppointmentSource) ListAppointments(_ context.Context, date, name, token string) ([]appointment.Appointment, error) {
	m.calls = append(m.calls, listCall{date, name, token})
	return m.appts, m.err
}

func fixedClock(s string) func() time.Time {
	t, _ := time.ParseInLocation("2006-01-02 15:04", s, time.Local)
	return func() time.Time { return t }
}

func newApptController(src *mockAppointmentSource, now string) *AppointmentController {
	tbody := view.NewContainer(atom.Tbody, "patientTableBody")
	return NewAppointmentController(src, "doc-token", tbody, fixedClock(now))
}

// TestAppointments_Defaults verifies the initial state is today's local date and the sentinel.
func TestAppointments_Defaults(t *testing.T) {
	src := &mockAppointmentSource{}
	// 23:30 local: a UTC-based default would roll into the next day east of UTC.
	c := newApptController(src, "2026-03-01 23:30")

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := listCall{"2026-03-01", "null", "doc-token"}
	if len(src.calls) != 1 || src.calls[0] != want {
		t.Errorf("calls = %+v, want [%+v]", src.calls, want)
	}
	if c.DatePickerValue() != "2026-03-01" || c.SearchValue() != "" {
		t.Errorf("picker=%q search=%q", c.DatePickerValue(), c.SearchValue())
	}
}

func TestAppointments_Triggers(t *testing.T) {
	src := &mockAppointmentSource{}
	c := newApptController(src, "2026-03-01 10:00")
	ctx := context.Background()

	_ = c.OnSearchInput(ctx, " Bo ")
	_ = c.OnDateChange(ctx, "2026-03-05")
	_ = c.OnSearchInput(ctx, "   ")
	_ = c.OnToday(ctx)

	want := []listCall{
		{"2026-03-01", "Bo", "doc-token"},
		{"2026-03-05", "Bo", "doc-token"},
		{"2026-03-05", "null", "doc-token"},
		{"2026-03-01", "null", "doc-token"},
	}
	if len(src.calls) != len(want) {
		t.Fatalf("calls = %d, want %d", len(src.calls), len(want))
	}
	for i := range want {
		if src.calls[i] != want[i] {
			t.Errorf("call %d = %+v, want %+v", i, src.calls[i], want[i])
		}
	}
	if c.DatePickerValue() != "2026-03-01" {
		t.Errorf("picker = %q after today", c.DatePickerValue())
	}
}

// TestAppointments_InvalidDate verifies a malformed date is rejected without a fetch.
func TestAppointments_InvalidDate(t *testing.T) {
	src := &mockAppointmentSource{}
	c := newApptController(src, "2026-03-01 10:00")
	if err := c.OnDateChange(context.Background(), "03/05/2026"); !errors.Is(err, appointment.ErrInvalidDate) {
		t.Errorf("err = %v", err)
	}
	if len(src.calls) != 0 || c.SelectedDate() != "2026-03-01" {
		t.Errorf("calls=%d date=%s", len(src.calls), c.SelectedDate())
	}
}

func TestAppointments_Restore(t *testing.T) {
	src := &mockAppointmentSource{}
	c := newApptController(src, "2026-03-01 10:00")
	c.Restore("2026-02-10", "Cy")
	if c.SelectedDate() != "2026-02-10" || c.PatientName() != "Cy" || c.SearchValue() != "Cy" {
		t.Errorf("state = %s %s", c.SelectedDate(), c.PatientName())
	}
	c.Restore("garbage", "")
	if c.SelectedDate() != "2026-02-10" || c.PatientName() != appointment.NoPatientFilter {
		t.Errorf("state = %s %s", c.SelectedDate(), c.PatientName())
	}
}

func TestAppointments_Rendering(t *testing.T) {
	tests := []struct {
		name     string
		appts    []appointment.Appointment
		err      error
		wantRows int
		wantText string
	}{
		{"rows", []appointment.Appointment{{ID: "1", PatientID: "3", PatientName: "Bo"}, {ID: "2", PatientID: "4", PatientName: "Cy"}}, nil, 2, ""},
		{"empty", nil, nil, 1, MsgNoAppointments},
		{"failure", nil, errors.New("timeout"), 1, MsgAppointmentsError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &mockAppointmentSource{appts: tt.appts, err: tt.err}
			tbody := view.NewContainer(atom.Tbody, "patientTableBody")
			c := NewAppointmentController(src, "t", tbody, fixedClock("2026-03-01 10:00"))
			_ = c.Load(context.Background())

			rows := view.Children(tbody)
			if len(rows) != tt.wantRows {
				t.Fatalf("rows = %d, want %d", len(rows), tt.wantRows)
			}
			if tt.wantText != "" && view.TextContent(rows[0]) != tt.wantText {
				t.Errorf("placeholder = %q", view.TextContent(rows[0]))
			}
			if tt.wantText == "" && !view.HasClass(rows[0], "patient-row") {
				t.Error("record row missing patient-row class")
			}
		})
	}
}
