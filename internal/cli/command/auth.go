package command

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/ipadmin-go/internal/cli/connection"
	"github.com/yndnr/ipadmin-go/internal/cli/output"
	"github.com/yndnr/ipadmin-go/internal/core/domain"
	"github.com/yndnr/ipadmin-go/internal/telemetry/logger"
)

// AuthCommand returns the auth subcommand group.
func AuthCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Log in, log out and inspect the current session",
		Subcommands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log in and keep the access token for this process",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "print-token",
						Usage: "Print the access token to stdout (for IPADMIN_TOKEN)",
					},
				},
				Action: authLogin,
			},
			{
				Name:   "logout",
				Usage:  "End the session on the server and forget the token",
				Action: authLogout,
			},
			{
				Name:   "whoami",
				Usage:  "Show the logged-in user and role",
				Action: authWhoami,
			},
			{
				Name:   "status",
				Usage:  "Show the local session state without contacting the server",
				Action: authStatus,
			},
		},
	}
}

func authLogin(c *cli.Context) error {
	svc, err := connect(c)
	if err != nil {
		return err
	}
	rt := svc.rt

	email := c.String("email")
	if email == "" {
		email = rt.Config.Email
	}
	if email == "" {
		if email, err = rt.Ask(c.Context, "Email: "); err != nil {
			return err
		}
	}
	password := c.String("password")
	if password == "" {
		if password, err = rt.AskSecret(c.Context, "Password: "); err != nil {
			return err
		}
	}

	_, err = spin(c, rt, "Logging in", func() (*domain.LoginResponse, error) {
		return svc.auth.Login(c.Context, email, password)
	})
	if err != nil {
		return err
	}
	rt.Log.Info("logged in", "email", email)

	if c.Bool("print-token") {
		fmt.Fprintln(rt.Out, rt.Session().Token())
		return nil
	}
	fmt.Fprintf(rt.Out, "Logged in as %s\n", email)
	if !rt.Interactive {
		fmt.Fprintln(rt.Err, "The token is kept in memory only; use 'repl' or --print-token to reuse it.")
	}
	return nil
}

func authLogout(c *cli.Context) error {
	svc, err := connect(c)
	if err != nil {
		return err
	}
	if !svc.auth.LoggedIn() {
		fmt.Fprintln(svc.rt.Out, "Not logged in.")
		return nil
	}
	if err := svc.auth.Logout(c.Context); err != nil {
		return err
	}
	fmt.Fprintln(svc.rt.Out, "Logged out.")
	return nil
}

// whoamiView is the structured form of `auth whoami`.
type whoamiView struct {
	ID       domain.ID  `json:"id"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Role     string     `json:"role"`
	Verified *time.Time `json:"email_verified_at"`
}

func authWhoami(c *cli.Context) error {
	svc, err := authenticated(c)
	if err != nil {
		return err
	}
	rt := svc.rt

	user, err := spin(c, rt, "Loading user", func() (*domain.CurrentUser, error) {
		return svc.currentUser(c.Context)
	})
	if err != nil {
		return err
	}

	view := whoamiView{
		ID:       user.User.ID,
		Name:     user.User.Name,
		Email:    user.User.Email,
		Role:     user.Role,
		Verified: user.User.EmailVerifiedAt,
	}
	table := &output.Table{Headers: []string{"FIELD", "VALUE"}}
	table.AddRow("Name", user.User.DisplayName())
	table.AddRow("Email", user.User.Email)
	table.AddRow("Role", user.RoleLabel())
	table.AddRow("ID", user.User.ID.String())
	return render(c, rt, view, table)
}

// statusView is the structured form of `auth status`.
type statusView struct {
	Server    string     `json:"server"`
	LoggedIn  bool       `json:"logged_in"`
	Token     string     `json:"token,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Expired   bool       `json:"expired"`
}

func authStatus(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}

	token := rt.Session().Token()
	view := statusView{
		Server:   rt.Manager.Server(),
		LoggedIn: token != "",
		Token:    logger.RedactToken(token),
	}
	if exp, ok := connection.TokenExpiry(token); ok {
		view.ExpiresAt = &exp
		view.Expired = time.Now().After(exp)
	}

	table := &output.Table{Headers: []string{"FIELD", "VALUE"}}
	table.AddRow("Server", view.Server)
	table.AddRow("Logged in", fmt.Sprintf("%t", view.LoggedIn))
	if view.LoggedIn {
		table.AddRow("Token", view.Token)
		expiry := "unknown"
		if view.ExpiresAt != nil {
			expiry = output.FormatTime(*view.ExpiresAt)
			if view.Expired {
				expiry += " (expired, refreshed on next request)"
			} else {
				expiry += fmt.Sprintf(" (in %s)", time.Until(*view.ExpiresAt).Round(time.Second))
			}
		}
		table.AddRow("Expires", expiry)
	}
	return render(c, rt, view, table)
}
