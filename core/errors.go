package core

import "github.com/pkg/errors"

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// AuthenticationError indicates bad or missing credentials on login.
type AuthenticationError struct {
	Err error
}

func NewAuthenticationError(err error) error {
	return &AuthenticationError{Err: err}
}

func (err AuthenticationError) Error() string {
	if err.Err == nil {
		return "authentication failed"
	}
	return err.Err.Error()
}

func IsAuthenticationError(err error) bool {
	_, ok := errors.Cause(err).(*AuthenticationError)
	return ok
}

// TransportError indicates the remote data source was unreachable or
// returned a non-success status.
type TransportError struct {
	Op  string
	Err error
}

func NewTransportError(op string, err error) error {
	return &TransportError{Op: op, Err: err}
}

func (err TransportError) Error() string {
	msg := "remote data source unavailable"
	if err.Op != "" {
		msg += ": " + err.Op
	}
	return msg
}

func (err TransportError) Unwrap() error { return err.Err }

func IsTransportError(err error) bool {
	_, ok := errors.Cause(err).(*TransportError)
	return ok
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
