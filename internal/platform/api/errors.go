package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrTransport matches any failure that happened before a response was received.
var ErrTransport = errors.New("api: transport failure")

// TransportError wraps a network-level failure for a single request.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is reports ErrTransport as a match so callers need not know the concrete type.
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// StatusError is returned for any non-2xx response. Body holds the response
// text, which the backend uses as its only error payload.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// Message collapses err into the single inline string shown to the user. The
// backend's response text wins when present; otherwise fallback is used.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var se *StatusError
	if errors.As(err, &se) {
		if body := strings.TrimSpace(se.Body); body != "" && !strings.HasPrefix(body, "<") {
			return body
		}
	}
	return fallback
}
