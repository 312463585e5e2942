// Package shutdown coordinates cleanup for ipadmin-cli.
//
// Commands run under a signal-aware context so Ctrl-C cancels the request
// in flight. Hooks such as saving the REPL history run once, in reverse
// registration order, whether the process exits normally or on a signal.
package shutdown
