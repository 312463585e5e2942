package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/ipadmin-go/internal/cli/config"
	"github.com/yndnr/ipadmin-go/internal/cli/output"
	"github.com/yndnr/ipadmin-go/internal/telemetry/logger"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show or change the CLI configuration",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the effective configuration",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "file", Usage: "Show only what the config file holds"},
				},
				Action: configShow,
			},
			{
				Name:   "path",
				Usage:  "Print the config file path",
				Action: configPath,
			},
			{
				Name:      "set",
				Usage:     "Persist a setting to the config file",
				ArgsUsage: "KEY VALUE",
				Action:    configSet,
			},
			{
				Name:   "keys",
				Usage:  "List the settable keys",
				Action: configKeys,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	cfg := rt.Config
	if c.Bool("file") {
		if cfg, err = config.LoadFile(rt.ConfigPath); err != nil {
			return err
		}
	}

	table := &output.Table{Headers: []string{"KEY", "VALUE"}}
	table.AddRow("server", dash(cfg.Server))
	table.AddRow("output", cfg.Output)
	table.AddRow("timeout", cfg.Timeout.String())
	table.AddRow("rate_limit", fmt.Sprintf("%g", cfg.RateLimit))
	table.AddRow("burst", fmt.Sprintf("%d", cfg.Burst))
	table.AddRow("log_level", cfg.LogLevel)
	table.AddRow("history_file", dash(cfg.HistoryFile))
	table.AddRow("notifications", fmt.Sprintf("%t", cfg.Notifications))
	table.AddRow("email", dash(cfg.Email))
	return render(c, rt, cfg, table)
}

func configPath(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	fmt.Fprintln(rt.Out, rt.ConfigPath)
	return nil
}

func configSet(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	if c.NArg() != 2 {
		return fmt.Errorf("usage: config set KEY VALUE")
	}
	key, value := c.Args().Get(0), c.Args().Get(1)

	cfg, err := config.LoadFile(rt.ConfigPath)
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := config.Save(cfg, rt.ConfigPath); err != nil {
		return err
	}
	rt.Log.Info("config updated", "key", key, "path", rt.ConfigPath)

	shown := value
	if logger.IsSensitiveKey(key) {
		shown = logger.RedactToken(value)
	}
	fmt.Fprintf(rt.Out, "Set %s = %s in %s\n", key, shown, rt.ConfigPath)
	return nil
}

func configKeys(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	keys := config.Keys()
	table := &output.Table{Headers: []string{"KEY"}}
	for _, k := range keys {
		table.AddRow(k)
	}
	return render(c, rt, keys, table)
}
