package command

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/yndnr/ipadmin-go/internal/cli/connection"
	"github.com/yndnr/ipadmin-go/internal/core/domain"
)

// commandError annotates a failed command for Report.
type commandError struct {
	err error
	// shown is set when the notifier already told the user.
	shown bool
	hint  string
}

func (e *commandError) Error() string {
	return e.err.Error()
}

func (e *commandError) Unwrap() error {
	return e.err
}

// notified reports whether err came out of the HTTP client, which notifies
// the user before returning.
func notified(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *connection.APIError
	var transportErr *connection.TransportError
	return errors.As(err, &apiErr) || errors.As(err, &transportErr)
}

func hintFor(err error) string {
	switch {
	case errors.Is(err, connection.ErrUnauthorized),
		errors.Is(err, domain.ErrNotAuthenticated),
		errors.Is(err, domain.ErrSessionExpired):
		return fmt.Sprintf("run '%s auth login' or pass --email and --password", AppName)
	case errors.Is(err, connection.ErrNotConnected):
		return fmt.Sprintf("run '%s config set server URL' or pass --server", AppName)
	case errors.Is(err, domain.ErrPermissionDenied), errors.Is(err, connection.ErrForbidden):
		return "this action requires the super-admin role"
	}
	return ""
}

// Report writes err for the user. Messages the notifier already showed are
// not repeated; hints are always printed.
func Report(w io.Writer, err error) {
	if err == nil {
		return
	}
	var ce *commandError
	if !errors.As(err, &ce) {
		ce = &commandError{err: err, hint: hintFor(err)}
	}
	var ve *domain.ValidationError
	switch {
	case ce.shown:
	case errors.As(ce.err, &ve):
		fmt.Fprintln(w, "error: validation failed")
		for _, field := range sortedKeys(ve.Fields) {
			fmt.Fprintf(w, "  %s: %s\n", field, ve.Fields[field])
		}
	default:
		fmt.Fprintf(w, "error: %v\n", ce.err)
	}
	if apiErr, ok := connection.IsAPIError(ce.err); ok {
		for _, line := range apiErr.FieldErrors() {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
	if ce.hint != "" {
		fmt.Fprintf(w, "hint: %s\n", ce.hint)
	}
}
