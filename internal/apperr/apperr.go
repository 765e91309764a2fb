// Package apperr defines the client-side error taxonomy.
//
// Validation errors are resolved locally and never reach the remote
// service; remote-validation errors are the service's own 422 rejections.
// Auth, authorization, and transport errors propagate to a user-visible
// message and leave local state in a well-defined condition.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError is a local, pre-flight rejection tied to a form field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func Validation(field, reason string) error {
	return ValidationError{Field: field, Reason: reason}
}

func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// RemoteValidationError is a 422 from the service: the request was
// well-formed but its content was rejected. Unlike ValidationError it is
// only known after the round trip.
type RemoteValidationError struct {
	Reason string
}

func (e RemoteValidationError) Error() string {
	if e.Reason == "" {
		return "rejected by the service"
	}
	return "rejected by the service: " + e.Reason
}

func RemoteValidation(reason string) error {
	return RemoteValidationError{Reason: reason}
}

func IsRemoteValidation(err error) bool {
	var rve RemoteValidationError
	return errors.As(err, &rve)
}

// AuthError is a remote rejection of credentials. The previous session, if
// any, is untouched when this is returned.
type AuthError struct {
	Reason string
}

func (e AuthError) Error() string {
	if e.Reason == "" {
		return "authentication failed"
	}
	return "authentication failed: " + e.Reason
}

func IsAuth(err error) bool {
	var ae AuthError
	return errors.As(err, &ae)
}

// AuthorizationError is a local guard rejection: a role-gated view or
// operation was attempted without the required role.
type AuthorizationError struct {
	Role     string
	Required string
	Target   string
}

func (e AuthorizationError) Error() string {
	return fmt.Sprintf("role %q may not access %s (requires %s)", e.Role, e.Target, e.Required)
}

func IsAuthorization(err error) bool {
	var ae AuthorizationError
	return errors.As(err, &ae)
}

// TransportError wraps a failure to reach the remote service or an
// unexpected response from it.
type TransportError struct {
	Op  string
	Err error
}

func (e TransportError) Error() string {
	if e.Err == nil {
		return e.Op + ": transport error"
	}
	return e.Op + ": " + e.Err.Error()
}

func (e TransportError) Unwrap() error { return e.Err }

func Transport(op string, err error) error {
	return TransportError{Op: op, Err: err}
}

func IsTransport(err error) bool {
	var te TransportError
	return errors.As(err, &te)
}
