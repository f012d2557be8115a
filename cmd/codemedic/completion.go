package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/chmouel/codemedic/internal/completion"
	appcli "github.com/urfave/cli/v3"
)

// completionCommand returns the completion subcommand definition.
func completionCommand() *appcli.Command {
	return &appcli.Command{
		Name:      "completion",
		Usage:     "Generate shell completion scripts",
		ArgsUsage: "<" + strings.Join(completion.Shells, "|") + ">",
		Action: func(_ context.Context, cmd *appcli.Command) error {
			if cmd.NArg() == 0 {
				return fmt.Errorf("usage: codemedic completion %s", cmd.ArgsUsage)
			}
			script, err := completion.Script(cmd.Args().First())
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.Root().Writer, script)
			return err
		},
	}
}
