// Package domain defines the core domain models for ipadmin.
package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Audit events recorded by the backend.
const (
	AuditEventLogin   = "login"
	AuditEventLogout  = "logout"
	AuditEventCreated = "created"
	AuditEventUpdated = "updated"
	AuditEventDeleted = "deleted"

	// AuditActionAll disables the action filter.
	AuditActionAll = "all"
)

// AuditEvents lists every known event, in display order.
var AuditEvents = []string{
	AuditEventLogin,
	AuditEventLogout,
	AuditEventCreated,
	AuditEventUpdated,
	AuditEventDeleted,
}

// IsAuditAction reports whether action is "all" or a known event.
func IsAuditAction(action string) bool {
	if action == AuditActionAll {
		return true
	}
	for _, e := range AuditEvents {
		if e == action {
			return true
		}
	}
	return false
}

// AuditLog is one entry of the audit trail.
type AuditLog struct {
	ID            ID           `json:"id"`
	Event         string       `json:"event"`
	AuditableType string       `json:"auditable_type,omitempty"`
	AuditableID   ID           `json:"auditable_id,omitempty"`
	User          *UserDetails `json:"user,omitempty"`
	IPAddress     string       `json:"ip_address"`
	UserAgent     string       `json:"user_agent"`
	URL           string       `json:"url"`
	OldValues     Values       `json:"old_values"`
	NewValues     Values       `json:"new_values"`
	CreatedAt     time.Time    `json:"created_at"`
}

// FormatValues renders an attribute map as "key: value, ..." with keys
// sorted, or "-" when empty.
func FormatValues(values Values) string {
	if len(values) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %v", k, values[k]))
	}
	return strings.Join(parts, ", ")
}
