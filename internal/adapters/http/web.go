package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hospitalcms/internal/adapters/email"
	"hospitalcms/internal/adapters/http/middleware"
	"hospitalcms/internal/adapters/http/perf"
	sessionStore "hospitalcms/internal/adapters/storage/session"
	"hospitalcms/internal/application/controllers"
	"hospitalcms/internal/application/orchestrators"
	"hospitalcms/internal/domain/appointment"
	"hospitalcms/internal/domain/entity"
	"hospitalcms/internal/domain/role"
	"hospitalcms/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Backend is every backend call the dashboards make. *api.Client satisfies it.
type Backend interface {
	controllers.DoctorSource
	controllers.AppointmentSource
	view.DoctorDeleter
	view.PatientFetcher
	orchestrators.DoctorCreator
	orchestrators.Authenticator
	orchestrators.PatientRegistrar
	orchestrators.AppointmentBooker
	orchestrators.AppointmentCanceller
	orchestrators.PrescriptionSaver
	ListPatientAppointments(ctx context.Context, patientID entity.ID, token string) ([]appointment.Appointment, error)
	FilterPatientAppointments(ctx context.Context, condition, doctorName, token string) ([]appointment.Appointment, error)
}

// Deps holds everything the HTTP surface needs.
type Deps struct {
	Backend       Backend
	Sessions      sessionStore.Store
	Mailer        email.Sender
	Metrics       *perf.Metrics
	Gatherer      prometheus.Gatherer
	CSRFKey       []byte
	Secure        bool
	Limiter       *middleware.RateLimiter
	SlowRequestMs int
	Now           func() time.Time
}

// App serves the role selection page and the three dashboards.
type App struct {
	backend  Backend
	sessions sessionStore.Store
	mailer   email.Sender
	pages    map[string]*template.Template
	now      func() time.Time
	secure   bool
}

// pageNames are the page templates rendered inside layout.html.
var pageNames = []string{
	"index.html",
	"admin_dashboard.html",
	"doctor_dashboard.html",
	"patient_dashboard.html",
	"patient_appointments.html",
	"prescription.html",
	"confirm.html",
}

// NewApp parses the page templates.
// PRE: deps.Backend and deps.Sessions are non-nil
// POST: Returns an App whose handlers are ready to register
func NewApp(deps Deps) (*App, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tpl, err := template.New("layout.html").ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tpl
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	mailer := deps.Mailer
	if mailer == nil {
		mailer = email.NewNoopSender()
	}
	return &App{backend: deps.Backend, sessions: deps.Sessions, mailer: mailer, pages: pages, now: now, secure: deps.Secure}, nil
}

// Routes registers every page and form handler on a new mux. Session
// resolution is not included; NewMux wraps it.
func (a *App) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	static, _ := fs.Sub(staticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	mux.HandleFunc("GET /{$}", a.handleIndex)
	mux.HandleFunc("POST /role", a.handleSelectRole)
	mux.HandleFunc("POST /login/{role}", a.handleLogin)
	mux.HandleFunc("POST /logout", a.handleLogout)
	mux.HandleFunc("POST /patient/signup", a.handleSignup)

	admin := middleware.RequireRole(role.Admin)
	mux.Handle("GET /admin/dashboard", admin(http.HandlerFunc(a.handleAdminDashboard)))
	mux.Handle("POST /admin/doctors", admin(http.HandlerFunc(a.handleAddDoctor)))
	mux.Handle("POST /admin/doctors/{id}/delete", admin(http.HandlerFunc(a.handleDeleteDoctor)))

	doc := middleware.RequireRole(role.Doctor)
	mux.Handle("GET /doctor/dashboard", doc(http.HandlerFunc(a.handleDoctorDashboard)))
	mux.Handle("GET /doctor/prescriptions/new", doc(http.HandlerFunc(a.handlePrescriptionForm)))
	mux.Handle("POST /doctor/prescriptions", doc(http.HandlerFunc(a.handleSavePrescription)))

	anyPatient := middleware.RequireRole(role.GuestPatient, role.LoggedPatient)
	logged := middleware.RequireRole(role.LoggedPatient)
	mux.Handle("GET /patient/dashboard", anyPatient(http.HandlerFunc(a.handlePatientDashboard)))
	mux.Handle("POST /patient/doctors/{id}/book", anyPatient(http.HandlerFunc(a.handleBookDoctor)))
	mux.Handle("POST /patient/appointments", logged(http.HandlerFunc(a.handleBookAppointment)))
	mux.Handle("GET /patient/appointments", logged(http.HandlerFunc(a.handlePatientAppointments)))
	mux.Handle("POST /patient/appointments/{id}/cancel", logged(http.HandlerFunc(a.handleCancelAppointment)))
	return mux
}

// NewMux wires HTTP handlers and middleware for the app.
// PRE: deps.CSRFKey is 32 bytes
// POST: Returns the full handler including /metrics
func NewMux(deps Deps) (http.Handler, error) {
	app, err := NewApp(deps)
	if err != nil {
		return nil, err
	}
	mux := app.Routes()

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	limiter := deps.Limiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(20)
	}

	// Apply middleware: Timing -> RateLimit -> SecurityHeaders -> CSRF -> Sessions -> Mux
	return middleware.Chain(mux,
		middleware.Sessions(deps.Sessions, deps.Secure),
		middleware.CSRF(deps.CSRFKey, deps.Secure),
		middleware.SecurityHeaders,
		middleware.RateLimit(limiter),
		middleware.Timing(deps.Metrics, deps.SlowRequestMs),
	), nil
}
