package connection

import (
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// Messages shown after a successful mutating request.
const (
	MsgCreated = "Created successfully!"
	MsgUpdated = "Updated successfully!"
	MsgDeleted = "Deleted successfully!"
)

// Notifier surfaces transient success and error messages to the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// ConsoleNotifier prints colored one-line notifications.
type ConsoleNotifier struct {
	mu      sync.Mutex
	out     io.Writer
	success *color.Color
	failure *color.Color
}

// NewConsoleNotifier writes to out, or stderr when out is nil.
func NewConsoleNotifier(out io.Writer) *ConsoleNotifier {
	if out == nil {
		out = os.Stderr
	}
	return &ConsoleNotifier{
		out:     out,
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
	}
}

// Success implements Notifier.
func (n *ConsoleNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.success.Fprintln(n.out, "✓ "+msg)
}

// Error implements Notifier.
func (n *ConsoleNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failure.Fprintln(n.out, "✗ "+msg)
}

// NopNotifier drops every notification.
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Error(string)   {}

func successMessage(method string) string {
	switch method {
	case "POST":
		return MsgCreated
	case "PUT", "PATCH":
		return MsgUpdated
	case "DELETE":
		return MsgDeleted
	}
	return ""
}
