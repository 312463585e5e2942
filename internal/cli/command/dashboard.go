package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/ipadmin-go/internal/cli/output"
	"github.com/yndnr/ipadmin-go/internal/core/domain"
)

// DashboardCommand returns the dashboard command.
func DashboardCommand() *cli.Command {
	return &cli.Command{
		Name:   "dashboard",
		Usage:  "Show summary statistics and recent activity",
		Action: dashboardShow,
	}
}

// dashboardView is the structured form of the dashboard.
type dashboardView struct {
	User           *domain.CurrentUser `json:"user"`
	Stats          *domain.Stats       `json:"stats"`
	RecentActivity []domain.AuditLog   `json:"recent_activity,omitempty"`
	ActivityError  string              `json:"activity_error,omitempty"`
}

type dashboardData struct {
	user  *domain.CurrentUser
	stats *domain.Stats
}

func dashboardShow(c *cli.Context) error {
	svc, err := authenticated(c)
	if err != nil {
		return err
	}
	rt := svc.rt

	data, err := spin(c, rt, "Loading dashboard", func() (dashboardData, error) {
		user, err := svc.currentUser(c.Context)
		if err != nil {
			return dashboardData{}, err
		}
		stats, err := svc.dashboard.Stats(c.Context)
		return dashboardData{user: user, stats: stats}, err
	})
	if err != nil {
		return err
	}

	view := dashboardView{User: data.user, Stats: data.stats}
	// Recent activity failing does not fail the dashboard.
	logs, err := svc.dashboard.RecentActivity(c.Context, data.user)
	if err != nil {
		rt.Log.Debug("recent activity unavailable", "error", err)
		view.ActivityError = "Error loading recent activity"
	}
	view.RecentActivity = logs

	if !humanOutput(c, rt) {
		return render(c, rt, view, nil)
	}

	fmt.Fprintf(rt.Out, "Welcome, %s (%s)\n\n", data.user.User.DisplayName(), data.user.RoleLabel())

	stats := &output.Table{Headers: []string{"QUICK STATS", ""}}
	stats.AddRow("Total IP Addresses", fmt.Sprintf("%d", data.stats.TotalIPAddresses))
	stats.AddRow("Added This Month", fmt.Sprintf("%d", data.stats.AddedThisMonth))
	stats.AddRow("Active Users", fmt.Sprintf("%d", data.stats.ActiveUsers))
	if err := stats.Render(rt.Out); err != nil {
		return err
	}

	if !data.user.IsSuperAdmin() {
		return nil
	}
	fmt.Fprintln(rt.Out, "\nRecent Activity")
	switch {
	case view.ActivityError != "":
		fmt.Fprintln(rt.Out, view.ActivityError)
	case len(logs) == 0:
		fmt.Fprintln(rt.Out, "No recent activity")
	default:
		return recentTable(logs).Render(rt.Out)
	}
	return nil
}
