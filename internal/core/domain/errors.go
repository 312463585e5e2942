// Package domain defines the core domain models for ipadmin.
package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// DomainError represents a business domain error with a structured error code.
// Codes follow the format IA-<AREA>-<NNNN>; the last four digits mirror the
// closest HTTP status.
type DomainError struct {
	Code    string // Error code (e.g., "IA-IP-4040")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Validation Errors (VAL)
// ============================================================================

var (
	// ErrValidation indicates local input validation failed before any request was sent.
	ErrValidation = NewDomainError("IA-VAL-4000", "validation failed")

	// ErrMissingArgument indicates a required argument is missing.
	ErrMissingArgument = NewDomainError("IA-VAL-4001", "missing required argument")
)

// ============================================================================
// Authentication Errors (AUTH)
// ============================================================================

var (
	// ErrNotAuthenticated indicates no session credential is available.
	ErrNotAuthenticated = NewDomainError("IA-AUTH-4010", "not authenticated")

	// ErrSessionExpired indicates the session could not be refreshed.
	ErrSessionExpired = NewDomainError("IA-AUTH-4011", "session expired, please log in again")

	// ErrPermissionDenied indicates the current role may not perform the action.
	ErrPermissionDenied = NewDomainError("IA-AUTH-4030", "permission denied")
)

// ============================================================================
// Resource Errors (IP, AUDIT)
// ============================================================================

var (
	// ErrIPAddressNotFound indicates the IP record does not exist.
	ErrIPAddressNotFound = NewDomainError("IA-IP-4040", "ip address not found")

	// ErrAuditUnavailable indicates the audit trail could not be fetched.
	ErrAuditUnavailable = NewDomainError("IA-AUDIT-5030", "audit logs unavailable")
)

// ValidationError carries per-field messages produced by local form checks.
// It never reaches the network layer.
type ValidationError struct {
	Fields map[string]string
}

// Error implements the error interface. Fields are listed in a stable order.
func (e *ValidationError) Error() string {
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

// Is makes errors.Is(err, ErrValidation) hold for any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Field returns the message recorded for field, or "".
func (e *ValidationError) Field(name string) string {
	return e.Fields[name]
}
