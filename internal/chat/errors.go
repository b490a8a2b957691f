package chat

import (
	"errors"
	"strings"
)

// Domain errors mapped to HTTP status codes by the transport layer.
var (
	// ErrNameTaken indicates the participant name is already registered.
	ErrNameTaken = errors.New("participant already exists")
	// ErrNoIdentity indicates the request carried no claimed identity.
	ErrNoIdentity = errors.New("missing claimed identity")
	// ErrUnknownParticipant indicates the claimed identity is not registered.
	ErrUnknownParticipant = errors.New("unknown participant")
	// ErrUnknownSender indicates a message sender that is not registered.
	ErrUnknownSender = errors.New("unknown sender")
	// ErrBadLimit indicates a limit that does not parse as a positive integer.
	ErrBadLimit = errors.New("limit must be a positive integer")
)

// ValidationError carries the full ordered list of field errors for a
// rejected payload.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}
