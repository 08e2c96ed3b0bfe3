package domain

import (
	"errors"
	"fmt"
)

// Business-rule rejections. These are semantic failures reported to the
// caller as distinct kinds; they are never retried.
var (
	ErrEventNotFound    = errors.New("event not found")
	ErrRSVPNotFound     = errors.New("rsvp not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrDeadlinePassed   = errors.New("rsvp deadline has passed")
	ErrCapacityExceeded = errors.New("event is at capacity")
	ErrIdentityRequired = errors.New("authenticated guest identity required")
	ErrNotOrganizer     = errors.New("only the event organizer may do this")
	ErrEmailTaken       = errors.New("user with this email already exists")
	ErrEventLimit       = errors.New("event limit reached for current plan")
)

// ErrStoreUnavailable wraps unexpected persistence failures so handlers can
// surface a generic 503 without leaking driver detail.
var ErrStoreUnavailable = errors.New("store unavailable")

type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func Invalid(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}
