// Package service implements the ipadmin use cases on top of the backend
// API.
//
// This package contains:
//
//   - AuthService: login, logout and the current user
//   - IPService: IP record listing, CRUD and permission checks
//   - AuditService: audit trail pages and local search/action filtering
//   - DashboardService: aggregate stats and recent activity
//   - Pager: page state shared by the list views
//
// Services hold no state of their own beyond the injected API and
// session, and are safe for concurrent use.
package service
