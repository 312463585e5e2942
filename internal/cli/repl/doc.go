// Package repl runs ipadmin-cli interactively.
//
// One process keeps one session and one HTTP client for every line, so a
// login carries over to later commands. Lines are split with shell-like
// quoting and handed to an Executor; "exit", "quit" and "history" are
// handled locally, and a line ending in "?" lists matching commands.
// History is saved without any line that carries --password or --token.
package repl
