package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"hospitalcms/internal/domain/role"
	"hospitalcms/internal/domain/session"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "session"

// SessionCookieName names the cookie carrying the browser session id.
const SessionCookieName = "hospitalcms_session"

// SessionReader is the part of the session store the middleware needs.
type SessionReader interface {
	Get(ctx context.Context, sid, key string) (string, bool, error)
	Remove(ctx context.Context, sid, key string) error
	Touch(ctx context.Context, sid string) error
}

// Sessions returns middleware that resolves the browser session and places a
// session.Context in the request context. A browser without a valid session
// cookie is issued a new id. A session holding a token or role is touched so
// it only expires once idle. It does NOT block any request; use RequireRole for that.
// POST: FromContext(r.Context()) carries the session id, token and role
func Sessions(store SessionReader, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := ""
			if cookie, err := r.Cookie(SessionCookieName); err == nil {
				if id, err := uuid.Parse(cookie.Value); err == nil {
					sid = id.String()
				}
			}
			if sid == "" {
				sid = uuid.NewString()
				SetSessionCookie(w, sid, secure)
			}

			sc := load(r.Context(), store, sid)
			next.ServeHTTP(w, r.WithContext(ContextWithSession(r.Context(), sc)))
		})
	}
}

// load reads token and role. A store failure yields a guest view of the session.
func load(ctx context.Context, store SessionReader, sid string) session.Context {
	sc := session.Context{ID: sid}
	token, _, err := store.Get(ctx, sid, session.KeyToken)
	if err != nil {
		slog.Error("session_event", "event", "load_failed", "error", err)
		return sc
	}
	stored, _, err := store.Get(ctx, sid, session.KeyUserRole)
	if err != nil {
		slog.Error("session_event", "event", "load_failed", "error", err)
		return sc
	}
	r, err := role.Parse(stored)
	if errors.Is(err, role.ErrUnknownRole) {
		slog.Warn("session_event", "event", "unknown_role", "value", stored)
		if err := store.Remove(ctx, sid, session.KeyUserRole); err != nil {
			slog.Error("session_event", "event", "remove_failed", "error", err)
		}
	}
	sc.Token = token
	sc.Role = r
	if token != "" || stored != "" {
		if err := store.Touch(ctx, sid); err != nil {
			slog.Error("session_event", "event", "touch_failed", "error", err)
		}
	}
	return sc
}

// RequireRole returns middleware that sends viewers without one of the given
// roles back to role selection.
func RequireRole(roles ...role.Role) func(http.Handler) http.Handler {
	allowed := make(map[role.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !allowed[FromContext(r.Context()).Role] {
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// FromContext extracts the session from the request context. Without one the
// viewer is an anonymous guest patient.
func FromContext(ctx context.Context) session.Context {
	sc, _ := ctx.Value(sessionContextKey).(session.Context)
	return sc
}

// ContextWithSession returns a context with the given session set.
func ContextWithSession(ctx context.Context, sc session.Context) context.Context {
	return context.WithValue(ctx, sessionContextKey, sc)
}

// SetSessionCookie sets the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, sid string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sid,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})
}
