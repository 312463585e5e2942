package command

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/ipadmin-go/internal/cli/output"
	"github.com/yndnr/ipadmin-go/internal/core/domain"
	"github.com/yndnr/ipadmin-go/internal/core/service"
)

// auditListState remembers the last audit list query.
type auditListState struct {
	pager  *service.Pager
	search string
	action string
}

// AuditCommand returns the audit subcommand group.
func AuditCommand() *cli.Command {
	return &cli.Command{
		Name:  "audit",
		Usage: "Read the audit trail (super-admin)",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List audit entries",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "page", Aliases: []string{"p"}, Value: 1, Usage: "Page number"},
					&cli.StringFlag{Name: "search", Usage: "Filter by user, event, IP, user agent or values"},
					&cli.StringFlag{
						Name:  "action",
						Value: domain.AuditActionAll,
						Usage: "Filter by event: all, " + strings.Join(domain.AuditEvents, ", "),
					},
				},
				Action: auditList,
			},
			{
				Name:   "next",
				Usage:  "Show the next page of the last audit list",
				Action: auditNext,
			},
			{
				Name:   "prev",
				Usage:  "Show the previous page of the last audit list",
				Action: auditPrev,
			},
			{
				Name:   "recent",
				Usage:  "Show the newest audit entries",
				Action: auditRecent,
			},
		},
	}
}

func auditList(c *cli.Context) error {
	action := strings.ToLower(strings.TrimSpace(c.String("action")))
	if action == "" {
		action = domain.AuditActionAll
	}
	if !domain.IsAuditAction(action) {
		return &domain.ValidationError{Fields: map[string]string{
			"action": fmt.Sprintf("must be all or one of %s", strings.Join(domain.AuditEvents, ", ")),
		}}
	}

	svc, err := authenticated(c)
	if err != nil {
		return err
	}
	view := &svc.rt.auditView
	view.search = c.String("search")
	view.action = action
	view.pager.Set(c.Int("page"))
	return showAuditPage(c, svc)
}

func auditNext(c *cli.Context) error {
	if err := interactivePaging(c, "audit"); err != nil {
		return err
	}
	svc, err := authenticated(c)
	if err != nil {
		return err
	}
	svc.rt.auditView.pager.Next()
	return showAuditPage(c, svc)
}

func auditPrev(c *cli.Context) error {
	if err := interactivePaging(c, "audit"); err != nil {
		return err
	}
	svc, err := authenticated(c)
	if err != nil {
		return err
	}
	svc.rt.auditView.pager.Prev()
	return showAuditPage(c, svc)
}

func showAuditPage(c *cli.Context, svc *services) error {
	rt := svc.rt
	view := &rt.auditView

	page, err := spin(c, rt, "Fetching audit logs", func() (*domain.Page[domain.AuditLog], error) {
		return svc.audit.List(c.Context, view.pager.Page())
	})
	if err != nil {
		return err
	}
	view.pager.Observe(page.CurrentPage, page.LastPage)
	page.Data = service.FilterAudit(page.Data, view.search, view.action)

	if err := render(c, rt, page, auditTable(page.Data, c.Bool("wide"))); err != nil {
		return err
	}
	if len(page.Data) == 0 && humanOutput(c, rt) {
		fmt.Fprintln(rt.Out, "No audit logs found.")
	}
	pageFooter(c, rt, "audit", page)
	return nil
}

func auditTable(logs []domain.AuditLog, wide bool) *output.Table {
	headers := []string{"TIMESTAMP", "ACTION", "USER", "IP ADDRESS", "OLD VALUES", "NEW VALUES"}
	if wide {
		headers = append(headers, "USER AGENT", "URL")
	}
	table := &output.Table{Headers: headers}
	for _, log := range logs {
		user := "-"
		if log.User != nil && log.User.Name != "" {
			user = log.User.Name
		}
		row := []string{
			output.FormatTime(log.CreatedAt),
			log.Event,
			user,
			dash(log.IPAddress),
			valuesCell(log.OldValues, wide),
			valuesCell(log.NewValues, wide),
		}
		if wide {
			row = append(row, dash(output.Truncate(log.UserAgent, 40)), dash(log.URL))
		}
		table.AddRow(row...)
	}
	return table
}

func valuesCell(v domain.Values, wide bool) string {
	s := domain.FormatValues(v)
	if wide {
		return s
	}
	return output.Truncate(s, 40)
}

func auditRecent(c *cli.Context) error {
	svc, err := authenticated(c)
	if err != nil {
		return err
	}
	user, err := svc.currentUser(c.Context)
	if err != nil {
		return err
	}
	if !service.CanViewAudit(user) {
		return domain.ErrPermissionDenied.WithDetails("the audit trail is only visible to super-admins")
	}
	logs, err := svc.dashboard.RecentActivity(c.Context, user)
	if err != nil {
		return err
	}
	if err := render(c, svc.rt, logs, recentTable(logs)); err != nil {
		return err
	}
	if len(logs) == 0 && humanOutput(c, svc.rt) {
		fmt.Fprintln(svc.rt.Out, "No recent activity.")
	}
	return nil
}

func recentTable(logs []domain.AuditLog) *output.Table {
	table := &output.Table{Headers: []string{"ACTION", "USER", "URL", "DATE"}}
	for _, log := range logs {
		table.AddRow(log.Event, log.User.DisplayName(), dash(log.URL), output.FormatTime(log.CreatedAt))
	}
	return table
}
