package view

import (
	"context"
	"log/slog"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"hospitalcms/internal/domain/role"
	"hospitalcms/internal/domain/session"
)

// MsgInvalidLogin is raised when a role that needs a token has none.
const MsgInvalidLogin = "Session expired or invalid login. Please log in again."

const logoSrc = "/static/logo.svg"

// RoleClearer forgets the viewer's stored role.
type RoleClearer interface {
	ClearRole(ctx context.Context) error
}

// HeaderDeps are the collaborators the header needs.
type HeaderDeps struct {
	Roles     RoleClearer
	Signals   Signaler
	CSRFToken string
}

// BuildHeader builds the page header for the viewer at path.
// POST: at "/" the stored role is cleared and only the logo is shown; a
// token-requiring role without a token clears the role, alerts, redirects
// to "/" and yields nil
func BuildHeader(ctx context.Context, path string, sess session.Context, deps HeaderDeps) *html.Node {
	header := elem(atom.Header, "class", "header")
	header.AppendChild(logo())

	if path == "/" {
		clearRole(ctx, deps.Roles)
		return header
	}
	if sess.Expired() {
		clearRole(ctx, deps.Roles)
		slog.Info("session_event", "event", "expired", "role", sess.Role.String())
		deps.Signals.Alert(MsgInvalidLogin)
		deps.Signals.Redirect("/")
		return nil
	}

	nb := &navBuilder{nav: elem(atom.Nav), csrf: deps.CSRFToken}
	sess.Role.Accept(nb)
	header.AppendChild(nb.nav)
	return header
}

func clearRole(ctx context.Context, roles RoleClearer) {
	if err := roles.ClearRole(ctx); err != nil {
		slog.Error("session_event", "event", "clear_role_failed", "error", err)
	}
}

func logo() *html.Node {
	return appendAll(elem(atom.Div, "class", "logo-section"),
		elem(atom.Img, "src", logoSrc, "alt", "Hospital CMS Logo", "class", "logo-img"),
		withText(atom.Span, "Hospital CMS", "class", "logo-title"),
	)
}

type navBuilder struct {
	nav  *html.Node
	csrf string
}

var _ role.Visitor = (*navBuilder)(nil)

func (b *navBuilder) Admin() {
	appendAll(b.nav,
		withText(atom.A, "Add Doctor", "id", "addDocBtn", "class", "adminBtn", "href", "/admin/dashboard?modal=addDoctor"),
		b.logout(),
	)
}

func (b *navBuilder) Doctor() {
	appendAll(b.nav,
		withText(atom.A, "Home", "class", "adminBtn", "href", "/doctor/dashboard"),
		b.logout(),
	)
}

func (b *navBuilder) GuestPatient() {
	appendAll(b.nav,
		withText(atom.A, "Login", "id", "patientLogin", "class", "adminBtn", "href", "/patient/dashboard?modal=patientLogin"),
		withText(atom.A, "Sign Up", "id", "patientSignup", "class", "adminBtn", "href", "/patient/dashboard?modal=patientSignup"),
	)
}

func (b *navBuilder) LoggedPatient() {
	appendAll(b.nav,
		withText(atom.A, "Home", "id", "home", "class", "adminBtn", "href", "/patient/dashboard"),
		withText(atom.A, "Appointments", "id", "patientAppointments", "class", "adminBtn", "href", "/patient/appointments"),
		b.logout(),
	)
}

func (b *navBuilder) logout() *html.Node {
	form := postForm("/logout", b.csrf, "class", "logout-form")
	form.AppendChild(withText(atom.Button, "Logout", "type", "submit", "class", "logout-btn"))
	return form
}

// BuildFooter builds the static site footer.
func BuildFooter() *html.Node {
	column := func(title string, links ...string) *html.Node {
		col := elem(atom.Div, "class", "footer-column")
		col.AppendChild(withText(atom.H4, title))
		for _, l := range links {
			col.AppendChild(withText(atom.A, l, "href", "#"))
		}
		return col
	}

	return appendAll(elem(atom.Footer, "class", "footer"),
		appendAll(elem(atom.Div, "class", "footer-container"),
			appendAll(elem(atom.Div, "class", "footer-logo"),
				elem(atom.Img, "src", logoSrc, "alt", "Hospital CMS Logo"),
				withText(atom.P, "© Copyright 2025. All Rights Reserved by Hospital CMS."),
			),
			appendAll(elem(atom.Div, "class", "footer-links"),
				column("Company", "About", "Careers", "Press"),
				column("Support", "Account", "Help Center", "Contact Us"),
				column("Legals", "Terms & Conditions", "Privacy Policy", "Licensing"),
			),
		),
	)
}
