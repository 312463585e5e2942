package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/ipadmin-go/internal/cli/output"
	"github.com/yndnr/ipadmin-go/internal/infra/buildinfo"
)

// SystemCommand returns the system subcommand group.
func SystemCommand() *cli.Command {
	return &cli.Command{
		Name:    "system",
		Aliases: []string{"sys"},
		Usage:   "Client build and runtime information",
		Subcommands: []*cli.Command{
			{
				Name:   "version",
				Usage:  "Show build information",
				Action: systemVersion,
			},
			{
				Name:  "metrics",
				Usage: "Dump this process's client metrics",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "all", Usage: "Include Go runtime and process metrics"},
				},
				Action: systemMetrics,
			},
		},
	}
}

func systemVersion(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	info := buildinfo.Get()
	table := &output.Table{Headers: []string{"FIELD", "VALUE"}}
	table.AddRow("Version", info.Version)
	table.AddRow("Commit", info.Commit)
	table.AddRow("Built", info.BuildTime)
	table.AddRow("Go", info.GoVersion)
	table.AddRow("Platform", info.Platform)
	return render(c, rt, info, table)
}

func systemMetrics(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	return rt.Metrics.WriteText(rt.Out, c.Bool("all"))
}
