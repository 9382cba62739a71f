package intell

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors matched by *APIError. Use errors.Is() to check.
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrServer         = errors.New("server error")
	ErrUnavailable    = errors.New("service unavailable")
)

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("intell: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("intell: %d %s", e.StatusCode, e.Message)
}

// Is maps the status code onto the package sentinel errors.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrInvalidRequest:
		return e.StatusCode == http.StatusBadRequest
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrUnavailable:
		return e.StatusCode == http.StatusServiceUnavailable
	case ErrServer:
		return e.StatusCode >= http.StatusInternalServerError
	}
	return false
}
