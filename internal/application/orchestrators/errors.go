package orchestrators

import "errors"

// ErrTokenMissing is returned when an action needs a backend token and the session has none.
var ErrTokenMissing = errors.New("Authentication token missing. Please log in again.")

// RejectedError carries the backend's user-facing reason for refusing a mutation.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	return e.Reason
}
