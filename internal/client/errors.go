package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotLoggedIn = errors.New("not logged in")
	ErrEmptyQuery  = errors.New("search query is empty")
)

// StatusError is a non-2xx answer from the backend.
type StatusError struct {
	Method    string
	Endpoint  string
	Status    int
	Details   string
	RequestID string
}

func (e *StatusError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Endpoint, e.Status, http.StatusText(e.Status), e.Details)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Endpoint, e.Status, http.StatusText(e.Status))
}

func (e *StatusError) StatusCode() int {
	return e.Status
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}

// IsUnauthorized reports whether err means the token is missing or stale.
func IsUnauthorized(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && (se.Status == http.StatusUnauthorized || se.Status == http.StatusForbidden)
}
