package main

import (
	appcli "github.com/urfave/cli/v3"
)

// globalFlags returns all global flags for the application.
// Note: --version is provided automatically by urfave/cli via Command.Version
func globalFlags() []appcli.Flag {
	return []appcli.Flag{
		&appcli.StringFlag{
			Name:  "config-file",
			Usage: "Path to configuration file",
		},
		&appcli.StringFlag{
			Name:  "debug-log",
			Usage: "Path to debug log file, - for stderr",
		},
		&appcli.StringFlag{
			Name:    "theme",
			Aliases: []string{"t"},
			Usage:   "Override the UI theme",
		},
		&appcli.StringFlag{
			Name:  "token",
			Usage: "GitHub token, takes precedence over CODEMEDIC_GITHUB_TOKEN and GITHUB_TOKEN",
		},
		&appcli.BoolFlag{
			Name:  "no-icons",
			Usage: "Disable Nerd Font file icons",
		},
		&appcli.StringSliceFlag{
			Name:    "config",
			Aliases: []string{"C"},
			Usage:   "Override config values (repeatable): --config=cm.key=value",
		},
	}
}
