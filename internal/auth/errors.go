package auth

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated is returned when an operation requires a session that
// does not exist. The remote collaborator is never contacted in that case.
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrOperationInFlight is returned when a session operation is attempted
// while another one is still running. Operations are never queued.
var ErrOperationInFlight = errors.New("operation already in flight")

// ValidationError reports bad local input. It is returned synchronously,
// before any network or IO step begins.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
