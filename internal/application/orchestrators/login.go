package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"hospitalcms/internal/adapters/api"
	"hospitalcms/internal/domain/role"
	"hospitalcms/internal/domain/session"
)

var (
	ErrInvalidCredentials = errors.New("Invalid credentials!")
	ErrLoginUnavailable   = errors.New("Login failed. Please try again later.")
)

// Authenticator exchanges credentials for a backend token.
type Authenticator interface {
	AdminLogin(ctx context.Context, cred api.Credentials) (string, error)
	DoctorLogin(ctx context.Context, cred api.Credentials) (string, error)
	PatientLogin(ctx context.Context, cred api.Credentials) (string, error)
}

// SessionWriter writes per-browser-session values.
type SessionWriter interface {
	Set(ctx context.Context, sid, key, value string) error
	Clear(ctx context.Context, sid string) error
}

// LoginInput carries input for the login orchestrator. Role is the role
// the viewer is logging in as; a guest patient logs in as a patient.
// SessionID is the anonymous session being replaced.
type LoginInput struct {
	SessionID  string
	Role       role.Role
	Identifier string
	Password   string
}

// LoginDeps holds dependencies for Login. NewSessionID defaults to a random UUID.
type LoginDeps struct {
	Auth         Authenticator
	Sessions     SessionWriter
	NewSessionID func() string
}

// LoginResult is the logged-in role and the session id that now carries it.
type LoginResult struct {
	Role      role.Role
	SessionID string
}

// loginDispatch picks the backend endpoint and resulting role per role.
type loginDispatch struct {
	auth   Authenticator
	login  func(context.Context, api.Credentials) (string, error)
	result role.Role
}

func (d *loginDispatch) Admin()         { d.login, d.result = d.auth.AdminLogin, role.Admin }
func (d *loginDispatch) Doctor()        { d.login, d.result = d.auth.DoctorLogin, role.Doctor }
func (d *loginDispatch) GuestPatient()  { d.login, d.result = d.auth.PatientLogin, role.LoggedPatient }
func (d *loginDispatch) LoggedPatient() { d.login, d.result = d.auth.PatientLogin, role.LoggedPatient }

// ExecuteLogin authenticates against the backend and stores token and role
// under a freshly minted session id. The anonymous session is cleared so its
// id can never carry a login.
// PRE: SessionID is non-empty
// POST: On success the new session holds the token and the logged-in role
// INVARIANT: On failure the old session is not modified and no new session remains
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	guest := LoginResult{Role: role.GuestPatient, SessionID: input.SessionID}
	cred := api.Credentials{Identifier: strings.TrimSpace(input.Identifier), Password: input.Password}
	if cred.Identifier == "" || cred.Password == "" {
		return guest, ErrInvalidCredentials
	}

	d := &loginDispatch{auth: deps.Auth}
	input.Role.Accept(d)

	token, err := d.login(ctx, cred)
	if err != nil {
		var se *api.StatusError
		if errors.As(err, &se) || errors.Is(err, api.ErrNoToken) {
			slog.Info("auth_event", "event", "login_failed", "role", d.result.String())
			return guest, ErrInvalidCredentials
		}
		slog.Warn("auth_event", "event", "login_unavailable", "role", d.result.String(), "error", err)
		return guest, ErrLoginUnavailable
	}

	newID := uuid.NewString
	if deps.NewSessionID != nil {
		newID = deps.NewSessionID
	}
	sid := newID()
	if err := storeLogin(ctx, deps.Sessions, sid, token, d.result); err != nil {
		if cerr := deps.Sessions.Clear(ctx, sid); cerr != nil {
			slog.Error("session_event", "event", "clear_failed", "error", cerr)
		}
		return guest, err
	}
	if err := deps.Sessions.Clear(ctx, input.SessionID); err != nil {
		slog.Error("session_event", "event", "clear_failed", "error", err)
	}
	slog.Info("auth_event", "event", "login", "role", d.result.String())
	return LoginResult{Role: d.result, SessionID: sid}, nil
}

func storeLogin(ctx context.Context, sessions SessionWriter, sid, token string, r role.Role) error {
	if err := sessions.Set(ctx, sid, session.KeyToken, token); err != nil {
		return err
	}
	return sessions.Set(ctx, sid, session.KeyUserRole, r.String())
}

// ExecuteLogout forgets the session's token and role.
// POST: The session holds no values
func ExecuteLogout(ctx context.Context, sid string, sessions SessionWriter) error {
	if err := sessions.Clear(ctx, sid); err != nil {
		return err
	}
	slog.Info("auth_event", "event", "logout")
	return nil
}

// ExecuteSelectGuestPatient records that the viewer browses as an unauthenticated patient.
// POST: userRole is "patient"
func ExecuteSelectGuestPatient(ctx context.Context, sid string, sessions SessionWriter) error {
	return sessions.Set(ctx, sid, session.KeyUserRole, role.GuestPatient.String())
}
