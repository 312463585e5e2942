// Package repl provides the interactive REPL mode for ipadmin-cli.
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yndnr/ipadmin-go/internal/telemetry/logger"
)

// ErrExit may be returned by an Executor to end the loop.
var ErrExit = errors.New("exit")

// Executor runs one command line, already split into words.
type Executor func(ctx context.Context, args []string) error

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	errOutput io.Writer
	prompt    func() string
	exec      Executor
	completer *Completer
	history   *History
	log       logger.Logger

	reqs  chan struct{}
	lines chan string
	errs  chan error
}

// Option configures a REPL.
type Option func(*REPL)

// WithIO sets the input and output streams. Errors go to out as well.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *REPL) {
		r.input = in
		r.output = out
		r.errOutput = out
	}
}

// WithPrompt sets a prompt function evaluated before every line.
func WithPrompt(prompt func() string) Option {
	return func(r *REPL) { r.prompt = prompt }
}

// WithHistory sets the command history.
func WithHistory(h *History) Option {
	return func(r *REPL) { r.history = h }
}

// WithCompleter sets the completer used for "?" help and suggestions.
func WithCompleter(c *Completer) Option {
	return func(r *REPL) { r.completer = c }
}

// WithLogger sets the logger. Without it the REPL does not log.
func WithLogger(l logger.Logger) Option {
	return func(r *REPL) { r.log = l }
}

// New creates a REPL that hands each line to exec.
func New(exec Executor, opts ...Option) *REPL {
	r := &REPL{
		input:     os.Stdin,
		output:    os.Stdout,
		errOutput: os.Stderr,
		prompt:    func() string { return "ipadmin> " },
		exec:      exec,
		completer: NewCompleter(nil),
		history:   NewHistory(""),
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// History returns the command history.
func (r *REPL) History() *History {
	return r.history
}

// Run reads lines until exit, EOF or ctx is done. Command errors are
// printed and the loop continues.
func (r *REPL) Run(ctx context.Context) error {
	readCtx, stop := context.WithCancel(ctx)
	defer stop()

	r.reqs = make(chan struct{})
	r.lines = make(chan string)
	r.errs = make(chan error, 1)
	go read(readCtx, r.input, r.reqs, r.lines, r.errs)
	defer func() { r.reqs = nil }()

	for {
		fmt.Fprint(r.output, r.prompt())

		line, err := r.nextLine(ctx)
		if err != nil {
			fmt.Fprintln(r.output)
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.history.Add(line)

		if err := r.handle(ctx, line); err != nil {
			if errors.Is(err, ErrExit) {
				return nil
			}
			fmt.Fprintf(r.errOutput, "error: %v\n", err)
		}
	}
}

// Ask prints question and reads one answer line from the REPL input. It
// lets a running command prompt for confirmation without racing the loop
// for input, and is only valid while Run is active.
func (r *REPL) Ask(ctx context.Context, question string) (string, error) {
	if r.reqs == nil {
		return "", errors.New("repl is not running")
	}
	fmt.Fprint(r.output, question)
	line, err := r.nextLine(ctx)
	return strings.TrimSpace(line), err
}

func (r *REPL) nextLine(ctx context.Context) (string, error) {
	select {
	case r.reqs <- struct{}{}:
	case err := <-r.errs:
		return "", err
	case <-ctx.Done():
		return "", ctx.Err()
	}
	select {
	case line := <-r.lines:
		return line, nil
	case err := <-r.errs:
		return "", err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// read serves one line per request so that nothing consumes input while a
// command runs.
func read(ctx context.Context, in io.Reader, reqs <-chan struct{}, lines chan<- string, errs chan<- error) {
	reader := bufio.NewReader(in)
	for {
		select {
		case <-ctx.Done():
			return
		case <-reqs:
		}

		line, err := reader.ReadString('\n')
		if line != "" {
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			errs <- err
			return
		}
	}
}

func (r *REPL) handle(ctx context.Context, line string) error {
	if strings.HasSuffix(line, "?") {
		r.printCompletions(strings.TrimSuffix(line, "?"))
		return nil
	}

	args, err := SplitArgs(line)
	if err != nil {
		return err
	}

	switch args[0] {
	case "exit", "quit":
		return ErrExit
	case "history":
		for i, e := range r.history.Entries() {
			fmt.Fprintf(r.output, "%4d  %s\n", i+1, e)
		}
		return nil
	}

	r.log.Debug("repl execute", "command", args[0])
	if err := r.exec(ctx, args); err != nil {
		if s := r.completer.Suggest(line); s != "" && isUnknownCommand(err) {
			return fmt.Errorf("%w (did you mean %q?)", err, s)
		}
		return err
	}
	return nil
}

func (r *REPL) printCompletions(prefix string) {
	matches := r.completer.Complete(prefix)
	if len(matches) == 0 {
		fmt.Fprintln(r.output, "no matching commands")
		return
	}
	for _, m := range matches {
		fmt.Fprintln(r.output, "  "+m)
	}
}

// UnknownCommandError reports a line whose first word names no command.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command %q", e.Name)
}

func isUnknownCommand(err error) bool {
	var uce *UnknownCommandError
	return errors.As(err, &uce)
}
