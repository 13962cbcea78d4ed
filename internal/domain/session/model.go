package session

import "hospitalcms/internal/domain/role"

// Keys stored per browser session.
const (
	KeyToken    = "token"
	KeyUserRole = "userRole"
	KeyFlash    = "flash"
)

// Context is the read-only view of a browser session handed to builders and
// controllers. It is rebuilt from the store on every request, so a role
// change is never rendered stale.
type Context struct {
	ID    string
	Token string
	Role  role.Role
}

// HasToken reports whether a backend token is present.
func (c Context) HasToken() bool {
	return c.Token != ""
}

// Expired reports whether the role claims authentication but no token backs it.
func (c Context) Expired() bool {
	return c.Role.RequiresToken() && !c.HasToken()
}
