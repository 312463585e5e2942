// Package domain defines the core domain models for ipadmin.
//
// Domain models are plain value types decoded from the backend API.
// This package contains:
//
//   - IPAddress: IP record, its create/update form and list filter
//   - AuditLog: audit trail entry and event names
//   - UserDetails / CurrentUser: users and role checks
//   - Page: the paginated list envelope
//   - Errors: coded domain errors and local validation errors
//
// Form validation runs here, before any request is built.
package domain
