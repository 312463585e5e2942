package connection

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// FallbackMessage is shown when a failed response carries no message.
const FallbackMessage = "Something went wrong. Please try again."

// Sentinels matched by *APIError through errors.Is.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
	Code    string
	// Fields holds per-field messages from a 422 validation response.
	Fields map[string][]string
	Body   []byte
}

// Error implements error.
func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s (status %d)", e.Code, msg, e.Status)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.Status)
}

// Is matches the status sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// UserMessage is the text shown to the user for this error.
func (e *APIError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return FallbackMessage
}

// FieldErrors flattens Fields into "field: message" lines in field order.
func (e *APIError) FieldErrors() []string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []string
	for _, k := range keys {
		out = append(out, k+": "+strings.Join(e.Fields[k], " "))
	}
	return out
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status, Body: body}

	var payload struct {
		Message string              `json:"message"`
		Code    string              `json:"code"`
		Errors  map[string][]string `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Message = payload.Message
		apiErr.Code = payload.Code
		apiErr.Fields = payload.Errors
	}
	return apiErr
}

// TransportError is a request that produced no HTTP response.
type TransportError struct {
	Method   string
	Endpoint string
	Err      error
}

// Error implements error.
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Endpoint, e.Err)
}

// Unwrap returns the underlying network error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsAPIError reports whether err wraps an *APIError and returns it.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
