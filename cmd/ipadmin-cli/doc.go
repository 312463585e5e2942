// Package main provides the entry point for ipadmin-cli.
//
// ipadmin-cli is the terminal client for the ipadmin backend:
//
//   - Authentication (login, logout, whoami, status)
//   - IP address records (list, get, create, update, delete, validate)
//   - Audit trail and dashboard (super-admin)
//   - Local configuration and build information
//
// Usage:
//
//	ipadmin-cli [global flags] command [flags]
//	ipadmin-cli --server https://ipadmin.example.com auth login
//	ipadmin-cli ip list --label office -o json
//	ipadmin-cli repl
//
// The login lives in process memory only, so the REPL is the way to run
// several commands on one session.
package main
