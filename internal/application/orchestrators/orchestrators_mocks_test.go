package orchestrators

import (
	"context"
	"errors"

	"hospitalcms/internal/adapters/api"
	"hospitalcms/internal/adapters/email"
	"hospitalcms/internal/domain/appointment"
	"hospitalcms/internal/domain/doctor"
	"hospitalcms/internal/domain/entity"
	"hospitalcms/internal/domain/patient"
	"hospitalcms/internal/domain/prescription"
)

// mockBackend implements every backend interface the orchestrators use.
type mockBackend struct {
	result api.Result
	token  string
	err    error

	createdDoctor doctor.NewDoctor
	createCalls   int
	loginCalls    []string
	signups       []patient.Signup
	bookings      []appointment.Booking
	prescriptions []prescription.Prescription
	cancelled     []entity.ID
	tokens        []string
}

func (m *mockBackend) CreateDoctor(_ context.Context, d doctor.NewDoctor, token string) api.Result {
	m.createCalls++
	m.createdDoctor = d
	m.tokens = append(m.tokens, token)
	return m.result
}

func (m *mockBackend) AdminLogin(_ context.Context, _ api.Credentials) (string, error) {
	m.loginCalls = append(m.loginCalls, "admin")
	return m.token, m.err
}

func (m *mockBackend) DoctorLogin(_ context.Context, _ api.Credentials) (string, error) {
	m.loginCalls = append(m.loginCalls, "doctor")
	return m.token, m.err
}

func (m *mockBackend) PatientLogin(_ context.Context, _ api.Credentials) (string, error) {
	m.loginCalls = append(m.loginCalls, "patient")
	return m.token, m.err
}

func (m *mockBackend) RegisterPatient(_ context.Context, s patient.Signup) api.Result {
	m.signups = append(m.signups, s)
	return m.result
}

func (m *mockBackend) BookAppointment(_ context.Context, b appointment.Booking, token string) api.Result {
	m.bookings = append(m.bookings, b)
	m.tokens = append(m.tokens, token)
	return m.result
}

func (m *mockBackend) CancelAppointment(_ context.Context, id entity.ID, token string) api.Result {
	m.cancelled = append(m.cancelled, id)
	m.tokens = append(m.tokens, token)
	return m.result
}

func (m *mockBackend) SavePrescription(_ context.Context, p prescription.Prescription, token string) api.Result {
	m.prescriptions = append(m.prescriptions, p)
	m.tokens = append(m.tokens, token)
	return m.result
}

// mockSessions is an in-memory SessionWriter. Set fails with errBoom for failKey.
type mockSessions struct {
	values  map[string]map[string]string
	err     error
	failKey string
}

func newMockSessions() *mockSessions {
	return &mockSessions{values: map[string]map[string]string{}}
}

func (m *mockSessions) Set(_ context.Context, sid, key, value string) error {
	if m.err != nil {
		return m.err
	}
	if key == m.failKey {
		return errBoom
	}
	if m.values[sid] == nil {
		m.values[sid] = map[string]string{}
	}
	m.values[sid][key] = value
	return nil
}

func (m *mockSessions) Clear(_ context.Context, sid string) error {
	delete(m.values, sid)
	return m.err
}

// mockMailer records sent messages.
type mockMailer struct {
	sent []email.Message
	err  error
}

func (m *mockMailer) Send(_ context.Context, msg email.Message) (email.Receipt, error) {
	m.sent = append(m.sent, msg)
	return email.Receipt{MessageID: "m1"}, m.err
}

var errBoom = errors.New("boom")
