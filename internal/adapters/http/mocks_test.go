package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"hospitalcms/internal/adapters/api"
	"hospitalcms/internal/adapters/email"
	"hospitalcms/internal/adapters/http/middleware"
	"hospitalcms/internal/domain/appointment"
	"hospitalcms/internal/domain/doctor"
	"hospitalcms/internal/domain/entity"
	"hospitalcms/internal/domain/patient"
	"hospitalcms/internal/domain/prescription"
	"hospitalcms/internal/domain/session"
)

// mockBackend implements Backend for testing.
// PRE: fields hold canned responses
// POST: every call is recorded in calls
type mockBackend struct {
	mu           sync.Mutex
	calls        []string
	doctors      []doctor.Doctor
	appointments []appointment.Appointment
	patient      *patient.Patient
	listErr      error
	token        string
	loginErr     error
	result       api.Result

	filterArgs []string
	apptArgs   []string
	deleted    []entity.ID
	created    []doctor.NewDoctor
	bookings   []appointment.Booking
	cancelled  []entity.ID
	saved      []prescription.Prescription
	signups    []patient.Signup
}

func (m *mockBackend) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockBackend) count(call string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (m *mockBackend) ListDoctors(context.Context) ([]doctor.Doctor, error) {
	m.record("ListDoctors")
	return m.doctors, m.listErr
}

func (m *mockBackend) FilterDoctors(_ context.Context, name, tm, specialty string) ([]doctor.Doctor, error) {
	m.record("FilterDoctors")
	m.filterArgs = []string{name, tm, specialty}
	return m.doctors, m.listErr
}

func (m *mockBackend) ListAppointments(_ context.Context, date, name, token string) ([]appointment.Appointment, error) {
	m.record("ListAppointments")
	m.apptArgs = []string{date, name, token}
	return m.appointments, m.listErr
}

func (m *mockBackend) ListPatientAppointments(_ context.Context, id entity.ID, token string) ([]appointment.Appointment, error) {
	m.record("ListPatientAppointments")
	m.apptArgs = []string{id.String(), token}
	return m.appointments, m.listErr
}

func (m *mockBackend) FilterPatientAppointments(_ context.Context, condition, name, token string) ([]appointment.Appointment, error) {
	m.record("FilterPatientAppointments")
	m.apptArgs = []string{condition, name, token}
	return m.appointments, m.listErr
}

func (m *mockBackend) DeleteDoctor(_ context.Context, id entity.ID, _ string) api.Result {
	m.record("DeleteDoctor")
	m.deleted = append(m.deleted, id)
	return m.result
}

func (m *mockBackend) PatientByToken(context.Context, string) (*patient.Patient, error) {
	m.record("PatientByToken")
	return m.patient, nil
}

func (m *mockBackend) CreateDoctor(_ context.Context, d doctor.NewDoctor, _ string) api.Result {
	m.record("CreateDoctor")
	m.created = append(m.created, d)
	return m.result
}

func (m *mockBackend) AdminLogin(context.Context, api.Credentials) (string, error) {
	m.record("AdminLogin")
	return m.token, m.loginErr
}

func (m *mockBackend) DoctorLogin(context.Context, api.Credentials) (string, error) {
	m.record("DoctorLogin")
	return m.token, m.loginErr
}

func (m *mockBackend) PatientLogin(context.Context, api.Credentials) (string, error) {
	m.record("PatientLogin")
	return m.token, m.loginErr
}

func (m *mockBackend) RegisterPatient(_ context.Context, s patient.Signup) api.Result {
	m.record("RegisterPatient")
	m.signups = append(m.signups, s)
	return m.result
}

func (m *mockBackend) BookAppointment(_ context.Context, b appointment.Booking, _ string) api.Result {
	m.record("BookAppointment")
	m.bookings = append(m.bookings, b)
	return m.result
}

func (m *mockBackend) CancelAppointment(_ context.Context, id entity.ID, _ string) api.Result {
	m.record("CancelAppointment")
	m.cancelled = append(m.cancelled, id)
	return m.result
}

func (m *mockBackend) SavePrescription(_ context.Context, p prescription.Prescription, _ string) api.Result {
	m.record("SavePrescription")
	m.saved = append(m.saved, p)
	return m.result
}

// memStore is an in-memory session store.
type memStore struct {
	mu     sync.Mutex
	values map[string]map[string]string
}

func newMemStore() *memStore {
	return &memStore{values: map[string]map[string]string{}}
}

func (s *memStore) Get(_ context.Context, sid, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[sid][key]
	return v, ok, nil
}

func (s *memStore) Set(_ context.Context, sid, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values[sid] == nil {
		s.values[sid] = map[string]string{}
	}
	s.values[sid][key] = value
	return nil
}

func (s *memStore) Remove(_ context.Context, sid, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values[sid], key)
	return nil
}

func (s *memStore) Clear(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, sid)
	return nil
}

func (s *memStore) Touch(context.Context, string) error {
	return nil
}

func (s *memStore) PurgeOlderThan(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (s *memStore) value(sid, key string) string {
	v, _, _ := s.Get(context.Background(), sid, key)
	return v
}

// mockMailer records sent messages.
type mockMailer struct {
	sent []email.Message
}

func (m *mockMailer) Send(_ context.Context, msg email.Message) (email.Receipt, error) {
	m.sent = append(m.sent, msg)
	return email.Receipt{MessageID: "test"}, nil
}

const testSID = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local)

// testEnv is an app served without CSRF protection, with one browser session.
type testEnv struct {
	t       *testing.T
	backend *mockBackend
	store   *memStore
	mailer  *mockMailer
	handler http.Handler
}

func newTestEnv(t *testing.T, backend *mockBackend) *testEnv {
	t.Helper()
	store := newMemStore()
	mailer := &mockMailer{}
	app, err := NewApp(Deps{Backend: backend, Sessions: store, Mailer: mailer, Now: func() time.Time { return fixedNow }})
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	return &testEnv{
		t:       t,
		backend: backend,
		store:   store,
		mailer:  mailer,
		handler: middleware.Sessions(store, false)(app.Routes()),
	}
}

// as stores a role and token for the test session.
func (e *testEnv) as(roleValue, token string) *testEnv {
	ctx := context.Background()
	if roleValue != "" {
		_ = e.store.Set(ctx, testSID, session.KeyUserRole, roleValue)
	}
	if token != "" {
		_ = e.store.Set(ctx, testSID, session.KeyToken, token)
	}
	return e
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	e.t.Helper()
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: testSID})
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) get(target string) *httptest.ResponseRecorder {
	return e.do(httptest.NewRequest("GET", target, nil))
}

func (e *testEnv) post(target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req)
}

func body(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	b, err := io.ReadAll(rr.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func wantRedirect(t *testing.T, rr *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rr.Code)
	}
	if got := rr.Header().Get("Location"); got != location {
		t.Errorf("Location = %q, want %q", got, location)
	}
}
