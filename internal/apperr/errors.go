// Package apperr defines the error taxonomy reported at the request
// boundary. Services return these typed errors; handlers map them to
// HTTP status codes with Status. Everything is fail-fast: an error
// means the operation had no effect.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// AuthenticationError covers bad credentials and unusable tokens.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string { return e.Message }

// InvalidCredentials is the login failure reported to clients. The
// message deliberately does not say which of email/password was wrong.
func InvalidCredentials() *AuthenticationError {
	return &AuthenticationError{Message: "invalid email or password"}
}

// AuthorizationError means the actor's role lacks permission for the
// requested mutation.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string { return e.Message }

func Forbidden(format string, args ...any) *AuthorizationError {
	return &AuthorizationError{Message: fmt.Sprintf(format, args...)}
}

// PreconditionError means a stage gate is not satisfied. It names the
// blocking stage so clients can explain what must happen first.
type PreconditionError struct {
	Stage    string // stage the caller tried to mutate
	Blocking string // upstream stage that blocks it
	Required string // status the blocking stage must reach
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s cannot progress until %s reaches %q", e.Stage, e.Blocking, e.Required)
}

// ValidationError carries field-level messages for a rejected request.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func Invalid(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// NotFoundError means the referenced record does not exist.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

func NotFound(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

// Status maps an error to the HTTP status it is reported with.
// Unrecognized errors are internal.
func Status(err error) int {
	var (
		authn  *AuthenticationError
		authz  *AuthorizationError
		precon *PreconditionError
		valid  *ValidationError
		nf     *NotFoundError
	)
	switch {
	case errors.As(err, &authn):
		return http.StatusUnauthorized
	case errors.As(err, &authz):
		return http.StatusForbidden
	case errors.As(err, &precon):
		return http.StatusPreconditionFailed
	case errors.As(err, &valid):
		return http.StatusBadRequest
	case errors.As(err, &nf):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
