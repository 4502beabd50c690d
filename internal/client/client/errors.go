package client

import (
	"errors"
	"net/http"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a failure reported by the backend. Message is suitable for
// showing to the user.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden {
		return ErrUnauthorized
	}
	return nil
}

// UserMessage extracts the user-facing text from err: the backend message for
// an *APIError, a fixed text for connectivity problems, err.Error() otherwise.
func UserMessage(err error) string {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.Is(err, ErrUnavailable):
		return "Cannot reach the server. Check your connection and try again."
	case err == nil:
		return ""
	default:
		return err.Error()
	}
}
