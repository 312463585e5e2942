package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/ipadmin-go/internal/cli/output"
	"github.com/yndnr/ipadmin-go/internal/core/domain"
	"github.com/yndnr/ipadmin-go/internal/core/service"
	"github.com/yndnr/ipadmin-go/pkg/ipcheck"
)

// ipListState remembers the last IP list query.
type ipListState struct {
	pager  *service.Pager
	filter domain.IPFilter
	search string
}

// IPCommand returns the ip subcommand group.
func IPCommand() *cli.Command {
	return &cli.Command{
		Name:  "ip",
		Usage: "Manage IP address records",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List IP address records",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "page", Aliases: []string{"p"}, Value: 1, Usage: "Page number"},
					&cli.StringFlag{Name: "label", Usage: "Filter by label (server side)"},
					&cli.StringFlag{Name: "comment", Usage: "Filter by comment (server side)"},
					&cli.StringFlag{Name: "ip-start", Usage: "Lower bound of the address range"},
					&cli.StringFlag{Name: "ip-end", Usage: "Upper bound of the address range"},
					&cli.StringFlag{Name: "search", Usage: "Filter the fetched page by any text"},
				},
				Action: ipList,
			},
			{
				Name:   "next",
				Usage:  "Show the next page of the last list",
				Action: ipNext,
			},
			{
				Name:   "prev",
				Usage:  "Show the previous page of the last list",
				Action: ipPrev,
			},
			{
				Name:      "get",
				Usage:     "Show one IP address record",
				ArgsUsage: "ID",
				Action:    ipGet,
			},
			{
				Name:  "create",
				Usage: "Create an IP address record",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "ip", Usage: "IPv4 or IPv6 address"},
					&cli.StringFlag{Name: "label", Usage: "Label (max 255 characters)"},
					&cli.StringFlag{Name: "comment", Usage: "Optional comment"},
				},
				Action: ipCreate,
			},
			{
				Name:      "update",
				Aliases:   []string{"edit"},
				Usage:     "Update an IP address record; unset flags keep their value",
				ArgsUsage: "ID",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "ip", Usage: "IPv4 or IPv6 address"},
					&cli.StringFlag{Name: "label", Usage: "Label (max 255 characters)"},
					&cli.StringFlag{Name: "comment", Usage: "Comment; an empty value clears it"},
				},
				Action: ipUpdate,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete an IP address record (super-admin)",
				ArgsUsage: "ID",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "Skip confirmation"},
				},
				Action: ipDelete,
			},
			{
				Name:      "validate",
				Usage:     "Check address syntax locally",
				ArgsUsage: "ADDRESS...",
				Action:    ipValidate,
			},
		},
	}
}

func ipList(c *cli.Context) error {
	filter := domain.IPFilter{
		Label:   c.String("label"),
		Comment: c.String("comment"),
		IPStart: strings.TrimSpace(c.String("ip-start")),
		IPEnd:   strings.TrimSpace(c.String("ip-end")),
	}
	if err := validateRange(filter); err != nil {
		return err
	}
	svc, err := authenticated(c)
	if err != nil {
		return err
	}
	view := &svc.rt.ipView
	view.filter = filter
	view.search = c.String("search")
	view.pager.Set(c.Int("page"))

	return showIPPage(c, svc)
}

func ipNext(c *cli.Context) error {
	if err := interactivePaging(c, "ip"); err != nil {
		return err
	}
	svc, err := authenticated(c)
	if err != nil {
		return err
	}
	svc.rt.ipView.pager.Next()
	return showIPPage(c, svc)
}

func ipPrev(c *cli.Context) error {
	if err := interactivePaging(c, "ip"); err != nil {
		return err
	}
	svc, err := authenticated(c)
	if err != nil {
		return err
	}
	svc.rt.ipView.pager.Prev()
	return showIPPage(c, svc)
}

func showIPPage(c *cli.Context, svc *services) error {
	rt := svc.rt
	view := &rt.ipView

	page, err := spin(c, rt, "Fetching IP addresses", func() (*domain.Page[domain.IPAddress], error) {
		return svc.ips.List(c.Context, view.pager.Page(), view.filter)
	})
	if err != nil {
		return err
	}
	view.pager.Observe(page.CurrentPage, page.LastPage)

	if view.search != "" {
		kept := page.Data[:0:0]
		for _, ip := range page.Data {
			if ip.MatchesSearch(view.search) {
				kept = append(kept, ip)
			}
		}
		page.Data = kept
	}

	var user *domain.CurrentUser
	if c.Bool("wide") && humanOutput(c, rt) {
		// Best effort: the access column is omitted when the user lookup fails.
		user, _ = svc.currentUser(c.Context)
	}

	if err := render(c, rt, page, ipTable(page.Data, c.Bool("wide"), user)); err != nil {
		return err
	}
	if len(page.Data) == 0 && humanOutput(c, rt) {
		fmt.Fprintln(rt.Out, "No IP addresses found.")
	}
	pageFooter(c, rt, "ip", page)
	return nil
}

func ipTable(ips []domain.IPAddress, wide bool, user *domain.CurrentUser) *output.Table {
	headers := []string{"ID", "IP ADDRESS", "LABEL", "OWNER", "CREATED"}
	if wide {
		headers = append(headers, "COMMENT", "UPDATED")
		if user != nil {
			headers = append(headers, "ACCESS")
		}
	}
	table := &output.Table{Headers: headers}
	for i := range ips {
		ip := &ips[i]
		row := []string{
			ip.ID.String(),
			ip.IPAddress,
			ip.Label,
			ip.User.DisplayName(),
			output.FormatTime(ip.CreatedAt),
		}
		if wide {
			row = append(row, dash(output.Truncate(ip.Comment, 40)), output.FormatTime(ip.UpdatedAt))
			if user != nil {
				row = append(row, access(user, ip))
			}
		}
		table.AddRow(row...)
	}
	return table
}

// access mirrors the server's permission rules for one record.
func access(user *domain.CurrentUser, ip *domain.IPAddress) string {
	var perms []string
	if service.CanModify(user, ip) {
		perms = append(perms, "edit")
	}
	if service.CanDelete(user) {
		perms = append(perms, "delete")
	}
	if len(perms) == 0 {
		return "view"
	}
	return strings.Join(perms, ",")
}

func ipDetail(ip *domain.IPAddress) *output.Table {
	table := &output.Table{Headers: []string{"FIELD", "VALUE"}}
	table.AddRow("ID", ip.ID.String())
	table.AddRow("IP Address", ip.IPAddress)
	table.AddRow("Type", ipcheck.Classify(ip.IPAddress).String())
	table.AddRow("Label", ip.Label)
	table.AddRow("Comment", dash(ip.Comment))
	table.AddRow("Owner", ip.User.DisplayName())
	table.AddRow("Created", output.FormatTime(ip.CreatedAt))
	table.AddRow("Updated", output.FormatTime(ip.UpdatedAt))
	return table
}

func ipGet(c *cli.Context) error {
	id, err := idArg(c)
	if err != nil {
		return err
	}
	svc, err := authenticated(c)
	if err != nil {
		return err
	}
	ip, err := spin(c, svc.rt, "Fetching IP address", func() (*domain.IPAddress, error) {
		return svc.ips.Get(c.Context, id)
	})
	if err != nil {
		return err
	}
	return render(c, svc.rt, ip, ipDetail(ip))
}

func ipCreate(c *cli.Context) error {
	form := domain.NewIPAddressForm(c.String("ip"), c.String("label"), c.String("comment"))
	// Validate before authenticating so bad input never costs a login.
	if err := domain.Validate(form); err != nil {
		return err
	}
	svc, err := authenticated(c)
	if err != nil {
		return err
	}
	ip, err := svc.ips.Create(c.Context, form)
	if err != nil {
		return err
	}
	return showSaved(c, svc.rt, ip, form)
}

func ipUpdate(c *cli.Context) error {
	id, err := idArg(c)
	if err != nil {
		return err
	}
	svc, err := authenticated(c)
	if err != nil {
		return err
	}

	current, err := svc.ips.Get(c.Context, id)
	if err != nil {
		return err
	}
	if err := requireModify(c.Context, svc, current); err != nil {
		return err
	}

	comment := current.Comment
	if c.IsSet("comment") {
		comment = c.String("comment")
	}
	address, label := current.IPAddress, current.Label
	if c.IsSet("ip") {
		address = c.String("ip")
	}
	if c.IsSet("label") {
		label = c.String("label")
	}
	form := domain.NewIPAddressForm(address, label, comment)

	ip, err := svc.ips.Update(c.Context, id, form)
	if err != nil {
		return err
	}
	return showSaved(c, svc.rt, ip, form)
}

// requireModify refuses edits the server would reject, so the user gets a
// clear message instead of a 403.
func requireModify(ctx context.Context, svc *services, ip *domain.IPAddress) error {
	user, err := svc.currentUser(ctx)
	if err != nil {
		return err
	}
	if !service.CanModify(user, ip) {
		return domain.ErrPermissionDenied.WithDetails("only the owner or a super-admin may edit this record")
	}
	return nil
}

// showSaved prints the record echoed by the server, or the submitted form
// when the server returns no body.
func showSaved(c *cli.Context, rt *Runtime, ip *domain.IPAddress, form domain.IPAddressForm) error {
	if ip != nil {
		return render(c, rt, ip, ipDetail(ip))
	}
	if humanOutput(c, rt) {
		fmt.Fprintf(rt.Out, "%s  %s\n", form.IPAddress, form.Label)
		return nil
	}
	return render(c, rt, form, nil)
}

func ipDelete(c *cli.Context) error {
	id, err := idArg(c)
	if err != nil {
		return err
	}
	svc, err := authenticated(c)
	if err != nil {
		return err
	}

	user, err := svc.currentUser(c.Context)
	if err != nil {
		return err
	}
	if !service.CanDelete(user) {
		return domain.ErrPermissionDenied.WithDetails("only a super-admin may delete records")
	}

	if !c.Bool("force") && !confirm(c.Context, svc.rt, fmt.Sprintf("Delete IP address record %s?", id)) {
		fmt.Fprintln(svc.rt.Out, "Cancelled.")
		return nil
	}
	return svc.ips.Delete(c.Context, id)
}

// validationResult is one row of `ip validate`.
type validationResult struct {
	Address string `json:"address"`
	Kind    string `json:"kind"`
	Valid   bool   `json:"valid"`
}

func ipValidate(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	if c.NArg() == 0 {
		return domain.ErrMissingArgument.WithDetails("ADDRESS")
	}

	results := make([]validationResult, 0, c.NArg())
	table := &output.Table{Headers: []string{"ADDRESS", "KIND", "VALID"}}
	invalid := 0
	for _, addr := range c.Args().Slice() {
		kind := ipcheck.Classify(addr)
		r := validationResult{Address: addr, Kind: kind.String(), Valid: kind != ipcheck.Invalid}
		if !r.Valid {
			invalid++
		}
		results = append(results, r)
		table.AddRow(addr, r.Kind, fmt.Sprintf("%t", r.Valid))
	}

	if err := render(c, rt, results, table); err != nil {
		return err
	}
	if invalid > 0 {
		return fmt.Errorf("%d of %d addresses are invalid", invalid, len(results))
	}
	return nil
}

func validateRange(f domain.IPFilter) error {
	fields := map[string]string{}
	if f.IPStart != "" && !ipcheck.Valid(f.IPStart) {
		fields["ip-start"] = "Invalid IP address format"
	}
	if f.IPEnd != "" && !ipcheck.Valid(f.IPEnd) {
		fields["ip-end"] = "Invalid IP address format"
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
