package service

import (
	"errors"
	"fmt"
)

// Messages shown inline on the auth forms
const (
	MsgEmptyFields      = "Fields cannot be empty!"
	MsgPasswordMismatch = "Passwords do not match!"
	MsgPasswordTooShort = "Password must be at least 8 characters long!"
)

// MinPasswordLength is the shortest password accepted at signup
const MinPasswordLength = 8

// ErrToggleInFlight is returned when a save toggle for the same recipe is still pending
var ErrToggleInFlight = errors.New("save toggle already in flight")

// ValidationError is a form error detected before any request is made
type ValidationError struct {
	Form    Form
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Form, e.Message)
}

// ServerError is a failure reported by the backend in its status envelope
type ServerError struct {
	Op      string
	Message string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: rejected by server", e.Op)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}
