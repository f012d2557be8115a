// Package main is the entry point for the codemedic application.
package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/chmouel/codemedic/internal/app"
	"github.com/chmouel/codemedic/internal/buildinfo"
	"github.com/chmouel/codemedic/internal/config"
	"github.com/chmouel/codemedic/internal/log"
	appcli "github.com/urfave/cli/v3"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	buildinfo.Set(version, commit, date, builtBy)
	buildinfo.Enrich()

	if err := newRootCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		_ = log.Close()
		os.Exit(1)
	}
}

func newRootCommand() *appcli.Command {
	return &appcli.Command{
		Name:                  "codemedic",
		Usage:                 "Browse GitHub repositories and ZIP archives in the terminal",
		ArgsUsage:             "[owner/repo | github-url | archive.zip ...]",
		Version:               buildinfo.Summary(),
		EnableShellCompletion: true,
		Flags:                 globalFlags(),
		Commands: []*appcli.Command{
			treeCommand(),
			showCommand(),
			statsCommand(),
			languagesCommand(),
			completionCommand(),
		},
		Action: runTUI,
	}
}

// runTUI is the default action that launches the workspace when no
// subcommand is given. Positional arguments are imported on start.
func runTUI(ctx context.Context, cmd *appcli.Command) error {
	s, err := loadSession(cmd)
	if err != nil {
		_ = log.Close()
		return err
	}
	defer func() {
		if err := log.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing debug log: %v\n", err)
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if watcher := watchConfig(ctx, s); watcher != nil {
		defer watcher.Stop()
	}

	model := app.NewModel(app.Deps{
		Config:  s.cfg,
		Store:   s.store,
		Fetcher: s.fetcher,
		Logf:    log.Component("app"),
		Initial: cmd.Args().Slice(),
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}

// watchConfig reloads the GitHub token when the config file changes.
func watchConfig(ctx context.Context, s *session) *config.Watcher {
	if s.cfg.Path == "" {
		return nil
	}
	watcher := config.NewWatcher(s.cfg.Path, log.Component("config"))
	err := watcher.Start(ctx, func(fresh *config.AppConfig) {
		if token, changed := s.cfg.ReloadToken(fresh); changed {
			s.client.SetToken(token)
			log.Printf("github token reloaded from %s", s.cfg.Path)
		}
	})
	if err != nil {
		log.Printf("config watch disabled: %v", err)
		return nil
	}
	return watcher
}
