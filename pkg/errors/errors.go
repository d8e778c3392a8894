// pkg/errors/errors.go
package errors

import "fmt"

// AuthenticationError means the backend rejected the bearer token (401).
// Callers treat it as a signal to drop local credentials.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	if e.Message == "" {
		return "authentication required"
	}
	return e.Message
}

func NewAuthenticationError(message string) *AuthenticationError {
	return &AuthenticationError{Message: message}
}

// APIError is any non-2xx backend response other than 401.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Detail)
}

func NewAPIError(status int, detail string) *APIError {
	return &APIError{Status: status, Detail: detail}
}

// TransportError means the request never got a response (connection
// refused, timeout, DNS failure). Distinguished so the CLI can report
// "API unreachable" instead of a raw wrapped error chain.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "api unreachable: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func NewTransportError(err error) *TransportError {
	return &TransportError{Err: err}
}
