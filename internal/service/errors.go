package service

import "errors"

// Service errors.  Callers match them with errors.Is; the returned errors
// wrap one of these with a human-readable message.
var (
	ErrValidation            = errors.New("validation error")
	ErrNotFound              = errors.New("not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrInvalidState          = errors.New("invalid state")
	ErrInsufficientInventory = errors.New("insufficient inventory")
	ErrConflict              = errors.New("conflict")
)

// detailError keeps a client-facing message while still matching its
// sentinel.
type detailError struct {
	kind error
	msg  string
}

func (e *detailError) Error() string { return e.msg }
func (e *detailError) Unwrap() error { return e.kind }

func newError(kind error, msg string) error {
	return &detailError{kind: kind, msg: msg}
}

// Message returns the client-facing text of a service error.
func Message(err error) string {
	var de *detailError
	if errors.As(err, &de) {
		return de.msg
	}
	return err.Error()
}
