// Package command provides CLI command definitions for ipadmin-cli.
//
// It uses urfave/cli/v2 for command parsing and supports both
// single-command mode and interactive REPL mode.
package command

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/yndnr/ipadmin-go/internal/cli/config"
	"github.com/yndnr/ipadmin-go/internal/cli/connection"
	"github.com/yndnr/ipadmin-go/internal/cli/output"
	"github.com/yndnr/ipadmin-go/internal/cli/repl"
	"github.com/yndnr/ipadmin-go/internal/core/domain"
	"github.com/yndnr/ipadmin-go/internal/core/service"
	"github.com/yndnr/ipadmin-go/internal/infra/buildinfo"
	"github.com/yndnr/ipadmin-go/internal/infra/shutdown"
	"github.com/yndnr/ipadmin-go/internal/telemetry/logger"
	"github.com/yndnr/ipadmin-go/internal/telemetry/metric"
)

// AppName is the binary name shown in help and the REPL prompt.
const AppName = "ipadmin-cli"

const (
	runtimeKey = "runtime"
	optionsKey = "options"
	unknownKey = "unknown"
)

// Options sets the streams and defaults of an App. Zero values select the
// process streams and the default config path.
type Options struct {
	In         io.Reader
	Out        io.Writer
	Err        io.Writer
	ConfigPath string
	Metrics    *metric.Registry
	// Shutdown receives cleanup hooks such as saving REPL history. Without
	// one the hooks run when the command returns.
	Shutdown *shutdown.Handler
}

func (o Options) withDefaults() Options {
	if o.In == nil {
		o.In = os.Stdin
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Err == nil {
		o.Err = os.Stderr
	}
	if o.Metrics == nil {
		o.Metrics = metric.Global()
	}
	return o
}

// Runtime is the state shared by every command of one process: the
// resolved configuration, the logger and the connection manager holding
// the session. The REPL reuses one Runtime for all of its lines.
type Runtime struct {
	Config      *config.CLIConfig
	ConfigPath  string
	Log         logger.Logger
	Metrics     *metric.Registry
	Manager     *connection.Manager
	Quiet       bool
	Interactive bool

	In  io.Reader
	Out io.Writer
	Err io.Writer

	// List positions for "next" and "prev" in the REPL.
	ipView    ipListState
	auditView auditListState

	quietFlag bool
	overrides map[string]any
	opts      Options

	// ask reads an answer to a question; the REPL replaces it so prompts
	// share the loop's input.
	ask   func(ctx context.Context, question string) (string, error)
	stdin *bufio.Reader
}

// AskSecret reads a line without echo when input is a terminal.
func (rt *Runtime) AskSecret(ctx context.Context, question string) (string, error) {
	if f, ok := rt.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(rt.Err, question)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(rt.Err)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}
	return rt.Ask(ctx, question)
}

// Ask prints question on stderr and reads one line of input.
func (rt *Runtime) Ask(ctx context.Context, question string) (string, error) {
	if rt.ask != nil {
		return rt.ask(ctx, question)
	}
	if rt.stdin == nil {
		rt.stdin = bufio.NewReader(rt.In)
	}
	fmt.Fprint(rt.Err, question)
	line, err := rt.stdin.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Client returns the HTTP client bound to the configured server.
func (rt *Runtime) Client() (*connection.Client, error) {
	return rt.Manager.Client()
}

// Session returns the credential holder.
func (rt *Runtime) Session() *connection.Session {
	return rt.Manager.Session()
}

// App creates the CLI application.
func App(opts Options) *cli.App {
	return newApp(opts.withDefaults(), nil)
}

func newApp(opts Options, rt *Runtime) *cli.App {
	app := &cli.App{
		Name:    AppName,
		Usage:   "Manage IP address records from the terminal",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			AuthCommand(),
			IPCommand(),
			AuditCommand(),
			DashboardCommand(),
			ConfigCommand(),
			SystemCommand(),
			REPLCommand(),
		},
		Before:    before,
		Reader:    opts.In,
		Writer:    opts.Out,
		ErrWriter: opts.Err,
		// Errors are reported by Report, never by os.Exit inside the app.
		ExitErrHandler: func(*cli.Context, error) {},
		CommandNotFound: func(c *cli.Context, name string) {
			c.App.Metadata[unknownKey] = name
		},
		Metadata: map[string]any{optionsKey: opts},
	}
	if rt != nil {
		app.Metadata[runtimeKey] = rt
	}
	return app
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "Backend base URL (e.g., https://ipadmin.example.com)",
			EnvVars: []string{"IPADMIN_SERVER"},
		},
		&cli.StringFlag{
			Name:    "token",
			Usage:   "Access token to use instead of logging in",
			EnvVars: []string{"IPADMIN_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "email",
			Usage:   "Login email for automatic login",
			EnvVars: []string{"IPADMIN_EMAIL"},
		},
		&cli.StringFlag{
			Name:    "password",
			Usage:   "Login password for automatic login",
			EnvVars: []string{"IPADMIN_PASSWORD"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Log each request to stderr",
		},
		&cli.StringFlag{
			Name:    "config",
			Usage:   "Config file path (default ~/.ipadmin/cli.yaml)",
			EnvVars: []string{"IPADMIN_CONFIG"},
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "Suppress success and error notifications",
		},
	}
}

// before builds the Runtime once per process. A Runtime already present
// (REPL lines) is kept as is.
func before(c *cli.Context) error {
	if c.IsSet("output") {
		if _, err := output.ParseFormat(c.String("output")); err != nil {
			return err
		}
	}
	if _, ok := c.App.Metadata[runtimeKey].(*Runtime); ok {
		return nil
	}
	rt, err := newRuntime(c, optionsFrom(c))
	if err != nil {
		return err
	}
	c.App.Metadata[runtimeKey] = rt
	return nil
}

func newRuntime(c *cli.Context, opts Options) (*Runtime, error) {
	path := c.String("config")
	if path == "" {
		path = opts.ConfigPath
	}
	if path == "" {
		path = config.DefaultConfigPath()
	}

	overrides := map[string]any{}
	for _, name := range []string{"server", "email"} {
		if c.IsSet(name) {
			overrides[name] = c.String(name)
		}
	}
	if c.IsSet("output") {
		f, _ := output.ParseFormat(c.String("output"))
		overrides["output"] = string(f)
	}
	if c.Bool("verbose") {
		overrides["log_level"] = "debug"
	}

	cfg, err := config.Load(path, overrides)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: "text",
		Output: opts.Err,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	logger.SetDefault(log)

	quietFlag := c.Bool("quiet")
	quiet := quietFlag || !cfg.Notifications
	mgr := connection.NewManager(connection.NewSession(c.String("token")), clientOptions(cfg, quiet, opts, log))
	if strings.TrimSpace(cfg.Server) != "" {
		if _, err := mgr.Connect(cfg.Server); err != nil {
			return nil, err
		}
	}

	log.Debug("runtime ready", "server", mgr.Server(), "config", path, "level", logger.GetLevel())
	return &Runtime{
		Config:     cfg,
		ConfigPath: path,
		Log:        log,
		Metrics:    opts.Metrics,
		Manager:    mgr,
		Quiet:      quiet,
		quietFlag:  quietFlag,
		overrides:  overrides,
		opts:       opts,
		ipView:     ipListState{pager: service.NewPager()},
		auditView:  auditListState{pager: service.NewPager(), action: domain.AuditActionAll},
		In:         opts.In,
		Out:        opts.Out,
		Err:        opts.Err,
	}, nil
}

func clientOptions(cfg *config.CLIConfig, quiet bool, opts Options, log logger.Logger) connection.Options {
	var notifier connection.Notifier = connection.NopNotifier{}
	if !quiet {
		notifier = connection.NewConsoleNotifier(opts.Err)
	}
	return connection.Options{
		Timeout:   cfg.Timeout,
		RateLimit: cfg.RateLimit,
		Burst:     cfg.Burst,
		UserAgent: buildinfo.UserAgent(),
		Notifier:  notifier,
		Logger:    log.With("component", "http"),
		Metrics:   opts.Metrics,
	}
}

// Reload re-reads the config file with the startup flag overrides on top
// and applies it: log level, output, notifications, client options and
// server. The session survives.
func (rt *Runtime) Reload() error {
	cfg, err := config.Load(rt.ConfigPath, rt.overrides)
	if err != nil {
		return err
	}
	logger.SetLevel(cfg.LogLevel)

	quiet := rt.quietFlag || !cfg.Notifications
	if _, err := rt.Manager.Reconfigure(cfg.Server, clientOptions(cfg, quiet, rt.opts, rt.Log)); err != nil {
		return err
	}
	rt.Config = cfg
	rt.Quiet = quiet
	rt.Log.Debug("config reloaded", "server", rt.Manager.Server(), "log_level", cfg.LogLevel)
	return nil
}

func optionsFrom(c *cli.Context) Options {
	if opts, ok := c.App.Metadata[optionsKey].(Options); ok {
		return opts
	}
	return Options{}.withDefaults()
}

// runtimeFrom returns the Runtime built by the Before hook.
func runtimeFrom(c *cli.Context) (*Runtime, error) {
	if rt, ok := c.App.Metadata[runtimeKey].(*Runtime); ok {
		return rt, nil
	}
	return nil, fmt.Errorf("%s: not initialized", AppName)
}

// Execute runs one command line (without the program name) and returns
// the command's error, annotated for Report.
func Execute(ctx context.Context, app *cli.App, args []string) error {
	err := app.RunContext(ctx, append([]string{app.Name}, args...))
	if name, ok := app.Metadata[unknownKey].(string); ok {
		delete(app.Metadata, unknownKey)
		if err == nil {
			err = &repl.UnknownCommandError{Name: name}
		}
	}
	if err == nil {
		return nil
	}

	shown := false
	if rt, ok := app.Metadata[runtimeKey].(*Runtime); ok {
		rt.Log.Debug("command failed", "code", domain.GetErrorCode(err), "error", err)
		shown = !rt.Quiet && notified(err)
	}
	return &commandError{err: err, shown: shown, hint: hintFor(err)}
}

// Main runs the application for os.Args-style arguments and returns the
// process exit code.
func Main(ctx context.Context, opts Options, args []string) int {
	opts = opts.withDefaults()
	app := App(opts)
	if len(args) > 0 {
		args = args[1:]
	}
	if err := Execute(ctx, app, args); err != nil {
		Report(opts.Err, err)
		return 1
	}
	return 0
}

// commandNames lists every command path of app, such as "ip list", for
// REPL completion.
func commandNames(app *cli.App) []string {
	var names []string
	var walk func(prefix string, cmds []*cli.Command)
	walk = func(prefix string, cmds []*cli.Command) {
		for _, cmd := range cmds {
			if cmd.Hidden {
				continue
			}
			path := strings.TrimSpace(prefix + " " + cmd.Name)
			names = append(names, path)
			walk(path, cmd.Subcommands)
		}
	}
	walk("", app.Commands)
	return append(names, "help")
}

func formatFrom(c *cli.Context, rt *Runtime) output.Format {
	value := rt.Config.Output
	if c.IsSet("output") {
		value = c.String("output")
	}
	// Values were validated by before and config.Load.
	f, _ := output.ParseFormat(value)
	return f
}
