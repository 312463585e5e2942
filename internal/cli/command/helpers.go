package command

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/ipadmin-go/internal/cli/output"
	"github.com/yndnr/ipadmin-go/internal/core/domain"
	"github.com/yndnr/ipadmin-go/internal/core/service"
	"github.com/yndnr/ipadmin-go/internal/telemetry/logger"
)

// services bundles the use cases for one command invocation.
type services struct {
	rt        *Runtime
	auth      *service.AuthService
	ips       *service.IPService
	audit     *service.AuditService
	dashboard *service.DashboardService
}

// connect returns the services bound to the current client.
func connect(c *cli.Context) (*services, error) {
	rt, err := runtimeFrom(c)
	if err != nil {
		return nil, err
	}
	client, err := rt.Client()
	if err != nil {
		return nil, err
	}
	c.Context = logger.WithCommand(c.Context, commandPath(c))
	return &services{
		rt:        rt,
		auth:      service.NewAuthService(client, rt.Session()),
		ips:       service.NewIPService(client),
		audit:     service.NewAuditService(client),
		dashboard: service.NewDashboardService(client),
	}, nil
}

// commandPath returns the command as typed without the program name,
// e.g. "ip list".
func commandPath(c *cli.Context) string {
	if c.Command == nil {
		return ""
	}
	if path := strings.TrimPrefix(c.Command.HelpName, c.App.Name+" "); path != "" {
		return path
	}
	return c.Command.Name
}

// authenticated returns the services after making sure a token is held.
// Without one it logs in with --email/--password (or the configured email)
// when a password is available.
func authenticated(c *cli.Context) (*services, error) {
	svc, err := connect(c)
	if err != nil {
		return nil, err
	}
	if svc.auth.LoggedIn() {
		return svc, nil
	}

	email := c.String("email")
	if email == "" {
		email = svc.rt.Config.Email
	}
	password := c.String("password")
	if email == "" || password == "" {
		return nil, domain.ErrNotAuthenticated
	}

	svc.rt.Log.Debug("logging in automatically", "email", email)
	if _, err := svc.auth.Login(c.Context, email, password); err != nil {
		return nil, err
	}
	return svc, nil
}

// currentUser fetches the logged-in user for permission checks.
func (s *services) currentUser(ctx context.Context) (*domain.CurrentUser, error) {
	return s.auth.CurrentUser(ctx)
}

// render writes data in the selected format. Table output prints table
// instead of data.
func render(c *cli.Context, rt *Runtime, data any, table *output.Table) error {
	format := formatFrom(c, rt)
	if format == output.FormatTable {
		return output.NewFormatter(format).Format(rt.Out, table)
	}
	return output.NewFormatter(format).Format(rt.Out, data)
}

// humanOutput reports whether the selected format is for people, so extra
// lines such as page footers may be printed.
func humanOutput(c *cli.Context, rt *Runtime) bool {
	return !output.IsStructured(formatFrom(c, rt))
}

// spin runs fn behind a spinner on stderr when the output is for people.
func spin[T any](c *cli.Context, rt *Runtime, message string, fn func() (T, error)) (T, error) {
	if !humanOutput(c, rt) {
		return fn()
	}
	s := output.NewSpinner(rt.Err, message)
	s.Start()
	v, err := fn()
	s.Stop()
	return v, err
}

// confirm asks a yes/no question. Anything but y or yes, including a read
// error, is a no.
func confirm(ctx context.Context, rt *Runtime, question string) bool {
	answer, err := rt.Ask(ctx, question+" [y/N]: ")
	if err != nil {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}

// idArg returns the first positional argument as a record ID.
func idArg(c *cli.Context) (domain.ID, error) {
	id := strings.TrimSpace(c.Args().First())
	if id == "" {
		return "", domain.ErrMissingArgument.WithDetails("ID")
	}
	return domain.ID(id), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// interactivePaging rejects next and prev outside the REPL, where no
// earlier listing is remembered.
func interactivePaging(c *cli.Context, group string) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	if !rt.Interactive {
		return fmt.Errorf("'%s %s' only works in interactive mode; use '%s list --page N'", group, c.Command.Name, group)
	}
	return nil
}

// pageFooter prints "Page N of M (T total)" under a table. Interactive
// sessions also get the navigation commands that apply.
func pageFooter[T any](c *cli.Context, rt *Runtime, group string, page *domain.Page[T]) {
	if !humanOutput(c, rt) {
		return
	}
	fmt.Fprintf(rt.Out, "\nPage %d of %d (%d total)\n", page.CurrentPage, max(page.LastPage, 1), page.Total)
	if !rt.Interactive {
		return
	}
	var moves []string
	if page.HasPrev() {
		moves = append(moves, fmt.Sprintf("'%s prev'", group))
	}
	if page.HasNext() {
		moves = append(moves, fmt.Sprintf("'%s next'", group))
	}
	if len(moves) > 0 {
		fmt.Fprintf(rt.Out, "Type %s to change page.\n", strings.Join(moves, " or "))
	}
}
