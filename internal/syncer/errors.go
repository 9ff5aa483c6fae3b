package syncer

import (
	"context"
	"errors"
)

// Error types recorded as the tracker's last error type.
const (
	ErrTypeAuth      = "auth"
	ErrTypeIO        = "io"
	ErrTypeCancelled = "cancelled"
	ErrTypeUnknown   = "unknown"
)

var (
	ErrNotLoggedIn = errors.New("not logged in")
	ErrNoInterval  = errors.New("sync interval is not set")
)

// Error is a sync failure tagged with its type.
type Error struct {
	Type string
	Err  error
}

func (e *Error) Error() string {
	return e.Type + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorType classifies err for the tracker.
func ErrorType(err error) string {
	var se *Error
	switch {
	case errors.As(err, &se):
		return se.Type
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrTypeCancelled
	default:
		return ErrTypeUnknown
	}
}
