package browser_test

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/prometheus/client_golang/prometheus"

	_ "modernc.org/sqlite"

	"hospitalcms/internal/adapters/api"
	"hospitalcms/internal/adapters/email"
	web "hospitalcms/internal/adapters/http"
	"hospitalcms/internal/adapters/http/perf"
	"hospitalcms/internal/adapters/storage"
	sessionStore "hospitalcms/internal/adapters/storage/session"
	"hospitalcms/internal/domain/appointment"
	"hospitalcms/internal/domain/doctor"
	"hospitalcms/internal/platform/logging"
)

const (
	adminUser     = "admin"
	adminPassword = "admin@1234"
	doctorEmail   = "ann@clinic.test"
	doctorPass    = "doctor@1234"
	patientEmail  = "bo@mail.test"
	patientPass   = "patient@1234"
)

// fakeBackend is an in-memory stand-in for the hospital REST API.
type fakeBackend struct {
	mu           sync.Mutex
	doctors      []doctor.Doctor
	appointments []appointment.Appointment
	deleted      []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		doctors: []doctor.Doctor{
			{ID: "1", Name: "Ann Lee", Email: doctorEmail, Phone: "5550001111", Specialization: "Cardiologist", AvailableTimes: []string{"09:00-10:00", "10:00-11:00"}},
			{ID: "2", Name: "Raj Patel", Email: "raj@clinic.test", Phone: "5550002222", Specialization: "Dentist", AvailableTimes: []string{"14:00-15:00"}},
		},
		appointments: []appointment.Appointment{
			{ID: "9", DoctorID: "1", DoctorName: "Ann Lee", PatientID: "3", PatientName: "Bo Chen", PatientPhone: "5553334444", PatientEmail: patientEmail, AppointmentTime: time.Now().Format(appointment.DateLayout) + "T09:00:00"},
		},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ServeHTTP routes on raw path segments so empty filter values survive.
func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	parts := strings.Split(strings.TrimPrefix(r.URL.EscapedPath(), "/"), "/")
	for i, p := range parts {
		parts[i], _ = url.PathUnescape(p)
	}

	switch {
	case r.Method == http.MethodPost && len(parts) == 2 && parts[1] == "login":
		b.login(w, r, parts[0])
	case r.Method == http.MethodGet && len(parts) == 1 && parts[0] == "doctor":
		writeJSON(w, http.StatusOK, map[string]any{"doctors": b.doctors})
	case r.Method == http.MethodGet && len(parts) == 5 && parts[0] == "doctor" && parts[1] == "filter":
		writeJSON(w, http.StatusOK, map[string]any{"doctors": b.filter(parts[2], parts[3], parts[4])})
	case r.Method == http.MethodDelete && len(parts) == 4 && parts[0] == "doctor" && parts[1] == "delete":
		b.delete(w, parts[2], parts[3])
	case r.Method == http.MethodGet && len(parts) == 4 && parts[0] == "appointments":
		if parts[3] != "doctor-token" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid token"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"appointments": b.appointmentsFor(parts[1], parts[2])})
	case r.Method == http.MethodGet && len(parts) == 2 && parts[0] == "patient":
		if parts[1] != "patient-token" {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Patient not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"patient": map[string]string{"id": "3", "name": "Bo Chen", "email": patientEmail, "phone": "5553334444"}})
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
	}
}

func (b *fakeBackend) login(w http.ResponseWriter, r *http.Request, who string) {
	var body map[string]string
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad request"})
		return
	}
	accounts := map[string][3]string{
		"admin":   {"username", adminUser, adminPassword},
		"doctor":  {"email", doctorEmail, doctorPass},
		"patient": {"email", patientEmail, patientPass},
	}
	acct, ok := accounts[who]
	if !ok || body[acct[0]] != acct[1] || body["password"] != acct[2] {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials!"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": who + "-token"})
}

func (b *fakeBackend) filter(name, tm, specialty string) []doctor.Doctor {
	var out []doctor.Doctor
	for _, d := range b.doctors {
		if name != "" && !strings.Contains(strings.ToLower(d.Name), strings.ToLower(name)) {
			continue
		}
		if specialty != "" && d.Specialization != specialty {
			continue
		}
		if tm != "" && !hasPeriod(d.AvailableTimes, tm) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func hasPeriod(slots []string, period string) bool {
	for _, s := range slots {
		if (s < "12:00") == (period == "AM") {
			return true
		}
	}
	return false
}

func (b *fakeBackend) delete(w http.ResponseWriter, id, token string) {
	if token != "admin-token" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid token"})
		return
	}
	for i, d := range b.doctors {
		if d.ID.String() == id {
			b.doctors = append(b.doctors[:i], b.doctors[i+1:]...)
			b.deleted = append(b.deleted, id)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Doctor deleted successfully"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Doctor not found"})
}

func (b *fakeBackend) deletedIDs() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.deleted...)
}

func (b *fakeBackend) appointmentsFor(date, name string) []appointment.Appointment {
	var out []appointment.Appointment
	for _, a := range b.appointments {
		if !strings.HasPrefix(a.AppointmentTime, date) {
			continue
		}
		if name != appointment.NoPatientFilter && !strings.Contains(strings.ToLower(a.PatientName), strings.ToLower(name)) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// testApp holds the running test server and Playwright handles.
type testApp struct {
	BaseURL string
	Backend *fakeBackend
	Server  *http.Server
	PW      *playwright.Playwright
	Browser playwright.Browser
}

// newTestApp wires the real handler stack to a fake backend and a temp
// SQLite session store, and starts an HTTP server.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("failed to init test DB: %v", err)
	}
	sealer, err := sessionStore.NewSealer([]byte("browser-test-session-key"))
	if err != nil {
		t.Fatalf("failed to create sealer: %v", err)
	}

	backend := newFakeBackend()
	backendSrv := httptest.NewServer(backend)

	reg := prometheus.NewRegistry()
	metrics := perf.NewMetrics(reg)
	handler, err := web.NewMux(web.Deps{
		Backend:  api.NewClient(backendSrv.URL, 5*time.Second, logging.Default(), metrics),
		Sessions: sessionStore.NewSQLiteStore(storage.NewTimedDB(db, metrics, 0), sealer),
		Mailer:   email.NewNoopSender(),
		Metrics:  metrics,
		Gatherer: reg,
		CSRFKey:  []byte("browser-test-csrf-key-0123456789"),
	})
	if err != nil {
		t.Fatalf("failed to build handler: %v", err)
	}

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: handler,
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()

	// Wait for server to be ready
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	// Start Playwright
	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start Playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("failed to launch browser: %v", err)
	}

	app := &testApp{
		BaseURL: baseURL,
		Backend: backend,
		Server:  srv,
		PW:      pw,
		Browser: browser,
	}

	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
		backendSrv.Close()
		db.Close()
	})

	return app
}

// newPage creates a new browser page (tab).
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	return page
}

// login picks a role on the landing page and submits its login form.
// PRE: roleButton is adminBtn or doctorBtn
func (a *testApp) login(t *testing.T, page playwright.Page, roleButton, identifier, password, wantPath string) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + "/"); err != nil {
		t.Fatalf("failed to navigate to role selection: %v", err)
	}
	if err := page.Locator("#" + roleButton).Click(); err != nil {
		t.Fatalf("failed to pick role: %v", err)
	}
	if err := page.Locator(".login-form input[name=identifier]").Fill(identifier); err != nil {
		t.Fatalf("failed to fill identifier: %v", err)
	}
	if err := page.Locator(".login-form input[name=password]").Fill(password); err != nil {
		t.Fatalf("failed to fill password: %v", err)
	}
	if err := page.Locator(".login-form button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to click login: %v", err)
	}
	if err := page.WaitForURL(a.BaseURL+wantPath, playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("login did not land on %s: %v", wantPath, err)
	}
}

// waitText waits for selector to contain text.
func waitText(t *testing.T, page playwright.Page, selector, text string) {
	t.Helper()
	err := page.Locator(selector + " >> text=" + text).First().WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(5000),
	})
	if err != nil {
		t.Errorf("%q not shown in %s", text, selector)
	}
}
