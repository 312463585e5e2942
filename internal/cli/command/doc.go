// Package command defines the ipadmin-cli command tree on urfave/cli/v2.
//
//   - root.go: App, global flags, Runtime and Execute/Main
//   - auth.go: login, logout, whoami, status
//   - ip.go: IP address records and the address validator
//   - audit.go, dashboard.go: super-admin views
//   - config.go, system.go: local settings, version and metrics
//   - repl.go: interactive mode sharing one Runtime across lines
//   - errors.go: Report and hints for failed commands
//
// Handlers parse flags, call a service from internal/core/service and
// render the result with internal/cli/output.
package command
