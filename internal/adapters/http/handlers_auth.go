package web

import (
	"net/http"

	"hospitalcms/internal/adapters/http/middleware"
	"hospitalcms/internal/application/orchestrators"
	"hospitalcms/internal/domain/patient"
	"hospitalcms/internal/domain/role"
)

// dashboards maps each logged-in role to its landing page.
var dashboards = map[role.Role]string{
	role.Admin:         "/admin/dashboard",
	role.Doctor:        "/doctor/dashboard",
	role.LoggedPatient: "/patient/dashboard",
}

// handleIndex handles GET / (role selection). Visiting it forgets the stored role.
func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	ch, ok := a.beginPage(w, r)
	if !ok {
		return
	}
	a.render(w, r, ch, "index.html", "Hospital CMS", nil)
}

// handleSelectRole handles POST /role
func (a *App) handleSelectRole(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	switch r.FormValue("role") {
	case role.ValueAdmin:
		http.Redirect(w, r, "/?modal=adminLogin", http.StatusSeeOther)
	case role.ValueDoctor:
		http.Redirect(w, r, "/?modal=doctorLogin", http.StatusSeeOther)
	case role.ValueGuestPatient:
		sid := middleware.FromContext(r.Context()).ID
		if err := orchestrators.ExecuteSelectGuestPatient(r.Context(), sid, a.sessions); err != nil {
			internalError(w, err)
			return
		}
		http.Redirect(w, r, "/patient/dashboard", http.StatusSeeOther)
	default:
		http.Error(w, "Unknown role", http.StatusBadRequest)
	}
}

// loginPaths maps the {role} path value to the role logged in as and the
// page that shows its login form again after a failure.
var loginPaths = map[string]struct {
	as    role.Role
	retry string
}{
	role.ValueAdmin:        {role.Admin, "/?modal=adminLogin"},
	role.ValueDoctor:       {role.Doctor, "/?modal=doctorLogin"},
	role.ValueGuestPatient: {role.GuestPatient, "/patient/dashboard?modal=patientLogin"},
}

// handleLogin handles POST /login/{role}
func (a *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	target, ok := loginPaths[r.PathValue("role")]
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	input := orchestrators.LoginInput{
		SessionID:  middleware.FromContext(r.Context()).ID,
		Role:       target.as,
		Identifier: r.FormValue("identifier"),
		Password:   r.FormValue("password"),
	}
	deps := orchestrators.LoginDeps{Auth: a.backend, Sessions: a.sessions}

	res, err := orchestrators.ExecuteLogin(r.Context(), input, deps)
	if err != nil {
		a.redirectWith(w, r, target.retry, err.Error())
		return
	}
	middleware.SetSessionCookie(w, res.SessionID, a.secure)
	http.Redirect(w, r, dashboards[res.Role], http.StatusSeeOther)
}

// handleLogout handles POST /logout
func (a *App) handleLogout(w http.ResponseWriter, r *http.Request) {
	sid := middleware.FromContext(r.Context()).ID
	if err := orchestrators.ExecuteLogout(r.Context(), sid, a.sessions); err != nil {
		internalError(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleSignup handles POST /patient/signup
func (a *App) handleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	input := orchestrators.SignupInput{Signup: patient.Signup{
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		Phone:    r.FormValue("phone"),
		Address:  r.FormValue("address"),
	}}
	msg, err := orchestrators.ExecuteSignup(r.Context(), input, orchestrators.SignupDeps{Patients: a.backend})
	if err != nil {
		a.redirectWith(w, r, "/patient/dashboard?modal=patientSignup", userMessage("", err))
		return
	}
	a.redirectWith(w, r, "/patient/dashboard?modal=patientLogin", msg)
}
