// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   defaultConfigPath,
	}
}

func logLevelFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "log-level",
		Usage: "Log level (debug, info, warn, error)",
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format (table, plain, json)",
		Value:   "table",
	}
}

// presentCommand steps through the exported accounts as QR codes
func presentCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "present",
		Aliases:   []string{"show"},
		Usage:     "Show each exported account as a QR code, one at a time",
		ArgsUsage: "[FILE...]",
		Flags: []cli.Flag{
			configFlag(),
			logLevelFlag(),
			&cli.BoolFlag{
				Name:    "plain",
				Aliases: []string{"p"},
				Usage:   "Use the line-oriented surface instead of the full-screen UI",
			},
			&cli.BoolFlag{
				Name:  "journal",
				Usage: "Record shown account names in the journal",
			},
			&cli.BoolFlag{
				Name:  "enrich",
				Usage: "Include algorithm, digits and HOTP counters in the codes",
			},
			&cli.BoolFlag{
				Name:  "omit-padding",
				Usage: "Strip base32 padding from secrets",
			},
			&cli.StringFlag{
				Name:  "recovery",
				Usage: "QR error correction level (low, medium, high, highest)",
			},
		},
		Action: r.Present,
	}
}

// listCommand prints decoded account metadata
func listCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List the accounts in an export without showing secrets",
		ArgsUsage: "[FILE...]",
		Flags:     []cli.Flag{configFlag(), logLevelFlag(), formatFlag()},
		Action:    r.List,
	}
}

// checkCommand verifies every account survives the URI round trip
func checkCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Verify each account's enrollment URI decodes back to its secret",
		ArgsUsage: "[FILE...]",
		Flags:     []cli.Flag{configFlag(), logLevelFlag(), formatFlag()},
		Action:    r.Check,
	}
}

// historyCommand reads the presentation journal
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List journal sessions, or the accounts shown in one session",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "session",
			},
		},
		Flags: []cli.Flag{
			configFlag(),
			logLevelFlag(),
			formatFlag(),
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of sessions to list (0 for all)",
				Value:   20,
			},
		},
		Action: r.History,
	}
}

// setupCommand writes a config file and initializes the journal database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml if missing and initialize the journal database",
		Flags:  []cli.Flag{configFlag(), logLevelFlag()},
		Action: r.Setup,
	}
}

// configCommand manages configuration files
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration file helpers",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write the default configuration",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags:  []cli.Flag{logLevelFlag()},
				Action: r.ConfigInit,
			},
			{
				Name:   "show",
				Usage:  "Print the effective configuration",
				Flags:  []cli.Flag{configFlag(), logLevelFlag()},
				Action: r.ConfigShow,
			},
		},
	}
}
