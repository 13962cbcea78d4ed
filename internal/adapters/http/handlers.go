package web

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gorilla/csrf"
	"golang.org/x/net/html"

	"hospitalcms/internal/adapters/api"
	"hospitalcms/internal/adapters/http/middleware"
	sessionStore "hospitalcms/internal/adapters/storage/session"
	"hospitalcms/internal/application/orchestrators"
	"hospitalcms/internal/domain/session"
	"hospitalcms/internal/view"
)

// internalError logs the error and returns a generic 500 response.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// sessionRoles clears the stored role of one browser session.
type sessionRoles struct {
	store sessionStore.Store
	sid   string
}

func (s sessionRoles) ClearRole(ctx context.Context) error {
	return s.store.Remove(ctx, s.sid, session.KeyUserRole)
}

// page is the data every page template receives.
type page struct {
	Title     string
	Header    template.HTML
	Footer    template.HTML
	Alerts    []string
	CSRFField template.HTML
	Modal     string
	Body      any
}

// chrome is a request's header and pending signals, built before any
// dashboard data is loaded.
type chrome struct {
	sess    session.Context
	signals *view.Signals
	header  *html.Node
}

// beginPage builds the header for the request. When the session has
// expired the redirect is written and ok is false.
// POST: ok is false only after a response was written
func (a *App) beginPage(w http.ResponseWriter, r *http.Request) (*chrome, bool) {
	sess := middleware.FromContext(r.Context())
	ch := &chrome{sess: sess, signals: &view.Signals{}}
	ch.header = view.BuildHeader(r.Context(), r.URL.Path, sess, view.HeaderDeps{
		Roles:     sessionRoles{store: a.sessions, sid: sess.ID},
		Signals:   ch.signals,
		CSRFToken: csrf.Token(r),
	})
	if ch.header == nil {
		a.finish(w, r, ch.signals, "/")
		return nil, false
	}
	return ch, true
}

// render writes name inside the layout with ch's header, the footer and any
// flashed or pending alerts.
func (a *App) render(w http.ResponseWriter, r *http.Request, ch *chrome, name, title string, body any) {
	tpl, ok := a.pages[name]
	if !ok {
		internalError(w, errors.New("unknown page "+name))
		return
	}
	header, err := view.HTML(ch.header)
	if err != nil {
		internalError(w, err)
		return
	}
	footer, err := view.HTML(view.BuildFooter())
	if err != nil {
		internalError(w, err)
		return
	}
	alerts := append(a.takeFlash(r.Context(), ch.sess.ID), ch.signals.Alerts...)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, page{
		Title:     title,
		Header:    header,
		Footer:    footer,
		Alerts:    alerts,
		CSRFField: csrf.TemplateField(r),
		Modal:     r.URL.Query().Get("modal"),
		Body:      body,
	}); err != nil {
		slog.Error("render_error", "page", name, "error", err)
	}
}

// finish stores the signalled alerts as a flash and redirects with 303 to
// the signalled location, or to fallback when none was signalled.
func (a *App) finish(w http.ResponseWriter, r *http.Request, sig *view.Signals, fallback string) {
	loc := sig.Location
	if loc == "" {
		loc = fallback
	}
	a.flash(r.Context(), middleware.FromContext(r.Context()).ID, sig.Alerts...)
	http.Redirect(w, r, loc, http.StatusSeeOther)
}

// tokenRejected ends the session when the backend refused its token, the
// same way an expired login is ended. It reports whether the redirect was written.
// POST: on true the session holds only the invalid-login alert
func (a *App) tokenRejected(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, api.ErrUnauthorized) {
		return false
	}
	sess := middleware.FromContext(r.Context())
	if err := a.sessions.Clear(r.Context(), sess.ID); err != nil {
		slog.Error("session_event", "event", "clear_failed", "error", err)
	}
	slog.Info("session_event", "event", "token_rejected", "role", sess.Role.String(), "path", r.URL.Path)
	a.redirectWith(w, r, "/", view.MsgInvalidLogin)
	return true
}

// redirectWith flashes messages and redirects with 303.
func (a *App) redirectWith(w http.ResponseWriter, r *http.Request, loc string, messages ...string) {
	a.finish(w, r, &view.Signals{Alerts: messages}, loc)
}

// flash appends messages to the session's pending alerts.
func (a *App) flash(ctx context.Context, sid string, messages ...string) {
	if len(messages) == 0 || sid == "" {
		return
	}
	pending := a.peekFlash(ctx, sid)
	data, err := json.Marshal(append(pending, messages...))
	if err != nil {
		slog.Error("session_event", "event", "flash_encode_failed", "error", err)
		return
	}
	if err := a.sessions.Set(ctx, sid, session.KeyFlash, string(data)); err != nil {
		slog.Error("session_event", "event", "flash_store_failed", "error", err)
	}
}

func (a *App) peekFlash(ctx context.Context, sid string) []string {
	raw, ok, err := a.sessions.Get(ctx, sid, session.KeyFlash)
	if err != nil || !ok {
		return nil
	}
	var messages []string
	if err := json.Unmarshal([]byte(raw), &messages); err != nil {
		slog.Warn("session_event", "event", "flash_decode_failed", "error", err)
		return nil
	}
	return messages
}

// takeFlash returns and forgets the session's pending alerts.
// POST: the flash key is removed
func (a *App) takeFlash(ctx context.Context, sid string) []string {
	if sid == "" {
		return nil
	}
	messages := a.peekFlash(ctx, sid)
	if messages != nil {
		if err := a.sessions.Remove(ctx, sid, session.KeyFlash); err != nil {
			slog.Error("session_event", "event", "flash_remove_failed", "error", err)
		}
	}
	return messages
}

// userMessage turns an orchestrator error into the alert text shown to the viewer.
func userMessage(prefix string, err error) string {
	var rej *orchestrators.RejectedError
	switch {
	case errors.As(err, &rej):
		return prefix + rej.Reason
	case errors.Is(err, orchestrators.ErrTokenMissing):
		return err.Error()
	default:
		return prefix + err.Error()
	}
}
