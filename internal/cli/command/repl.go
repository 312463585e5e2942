package command

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/ipadmin-go/internal/cli/repl"
	"github.com/yndnr/ipadmin-go/internal/infra/confloader"
)

// errNestedREPL is returned for "repl" typed inside the REPL.
var errNestedREPL = errors.New("already in interactive mode")

// REPLCommand returns the interactive mode command.
func REPLCommand() *cli.Command {
	return &cli.Command{
		Name:    "repl",
		Aliases: []string{"shell"},
		Usage:   "Start interactive mode",
		Description: "Runs commands without the program name, keeping the login between them.\n" +
			"Type a prefix followed by ? to list commands, history to show past lines, exit to leave.",
		Action: runREPL,
	}
}

func runREPL(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	if rt.Interactive {
		return errNestedREPL
	}
	rt.Interactive = true
	defer func() {
		rt.Interactive = false
		rt.ask = nil
	}()
	opts := optionsFrom(c)

	history := repl.NewHistory(rt.Config.HistoryFile)
	if err := history.Load(); err != nil {
		rt.Log.Warn("failed to load history", "file", rt.Config.HistoryFile, "error", err)
	}
	saveHistory := func(context.Context) error {
		if err := history.Save(); err != nil {
			rt.Log.Warn("failed to save history", "file", rt.Config.HistoryFile, "error", err)
			return err
		}
		return nil
	}
	if opts.Shutdown != nil {
		opts.Shutdown.OnShutdown(saveHistory)
	} else {
		defer func() { _ = saveHistory(context.Background()) }()
	}

	reload := make(chan struct{}, 1)
	if w, err := confloader.NewWatcher(confloader.WithWatcherLogger(rt.Log)); err != nil {
		rt.Log.Debug("config watcher unavailable", "error", err)
	} else {
		defer w.Stop()
		if err := w.Watch(rt.ConfigPath); err != nil {
			rt.Log.Debug("config file not watched", "path", rt.ConfigPath, "error", err)
		}
		w.OnChange(func(string) {
			select {
			case reload <- struct{}{}:
			default:
			}
		})
		w.StartAsync()
	}

	exec := func(ctx context.Context, args []string) error {
		select {
		case <-reload:
			if err := rt.Reload(); err != nil {
				fmt.Fprintf(rt.Err, "warning: config not reloaded: %v\n", err)
			}
		default:
		}

		if args[0] == "repl" || args[0] == "shell" {
			return errNestedREPL
		}
		err := Execute(ctx, newApp(opts, rt), args)
		if err == nil {
			return nil
		}
		var unknown *repl.UnknownCommandError
		if errors.As(err, &unknown) {
			return err
		}
		Report(rt.Err, err)
		return nil
	}

	r := repl.New(exec,
		repl.WithIO(rt.In, rt.Out),
		repl.WithPrompt(func() string { return prompt(rt) }),
		repl.WithHistory(history),
		repl.WithCompleter(repl.NewCompleter(commandNames(newApp(opts, rt)))),
		repl.WithLogger(rt.Log),
	)
	rt.ask = r.Ask

	fmt.Fprintf(rt.Out, "%s interactive mode. Type '?' for commands, 'exit' to quit.\n", AppName)
	return r.Run(c.Context)
}

// prompt shows the server host, with a * when logged in.
func prompt(rt *Runtime) string {
	host := rt.Manager.Server()
	if u, err := url.Parse(host); err == nil && u.Host != "" {
		host = u.Host
	}
	mark := ""
	if rt.Session().Active() {
		mark = "*"
	}
	return fmt.Sprintf("ipadmin(%s)%s> ", host, mark)
}
