package main

import (
	"fmt"
	"io"
	"os"

	"github.com/chmouel/codemedic/internal/buildinfo"
	"github.com/chmouel/codemedic/internal/config"
	"github.com/chmouel/codemedic/internal/github"
	"github.com/chmouel/codemedic/internal/log"
	"github.com/chmouel/codemedic/internal/project"
	"github.com/chmouel/codemedic/internal/theme"
	"github.com/chmouel/codemedic/internal/utils"
	appcli "github.com/urfave/cli/v3"
)

// session holds the services shared by the TUI and the subcommands.
type session struct {
	cfg     *config.AppConfig
	client  *github.Client
	store   *project.Store
	fetcher *project.Fetcher
}

func loadSession(cmd *appcli.Command) (*session, error) {
	debugFlag := cmd.String("debug-log")
	if debugFlag != "" {
		openDebugLog(debugFlag, errWriter(cmd))
	}

	cfg, err := config.LoadConfig(cmd.String("config-file"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
	}

	if debugFlag == "" {
		if cfg.DebugLog != "" {
			openDebugLog(cfg.DebugLog, errWriter(cmd))
		} else {
			// No debug log configured, discard any buffered logs
			_ = log.SetFile("")
		}
	}

	if err := applyThemeConfig(cfg, cmd.String("theme")); err != nil {
		return nil, err
	}
	if cmd.Bool("no-icons") {
		cfg.ShowIcons = false
	}
	if overrides := cmd.StringSlice("config"); len(overrides) > 0 {
		if err := cfg.ApplyCLIOverrides(overrides); err != nil {
			return nil, fmt.Errorf("error applying config overrides: %w", err)
		}
	}
	cfg.ResolveToken(cmd.String("token"))
	log.Printf("codemedic %s, config %q, token from %q", buildinfo.Summary(), cfg.Path, cfg.TokenSource)

	client := github.NewClient(github.Options{
		BaseURL:          cfg.APIURL,
		Token:            cfg.GitHubToken,
		UserAgent:        buildinfo.UserAgent(),
		Timeout:          cfg.RequestTimeout,
		FallbackBranches: cfg.FallbackBranches,
		Logf:             log.Component("github"),
	})
	store := project.NewStore(project.Options{
		Remote:       client,
		MaxFileBytes: cfg.MaxFileBytes,
		KeepRoot:     !cfg.ArchiveStripRoot,
		Logf:         log.Component("store"),
	})
	return &session{
		cfg:     cfg,
		client:  client,
		store:   store,
		fetcher: project.NewFetcher(client, log.Component("fetcher")),
	}, nil
}

// openDebugLog sends the debug log to path, or to stderr when path is "-".
func openDebugLog(path string, stderr io.Writer) {
	if path == "-" {
		log.SetOutput(stderr)
		return
	}
	if expanded, err := utils.ExpandPath(path); err == nil {
		path = expanded
	}
	if err := log.SetFile(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error opening debug log file %q: %v\n", path, err)
	}
}

func errWriter(cmd *appcli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}

// applyThemeConfig applies theme configuration from command line flag.
func applyThemeConfig(cfg *config.AppConfig, themeName string) error {
	if themeName == "" {
		return nil
	}
	normalized := theme.NormalizeThemeName(themeName)
	if normalized == "" {
		return fmt.Errorf("unknown theme %q", themeName)
	}
	cfg.Theme = normalized
	return nil
}
