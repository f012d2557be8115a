package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/chmouel/codemedic/internal/app"
	"github.com/chmouel/codemedic/internal/highlight"
	"github.com/chmouel/codemedic/internal/log"
	"github.com/chmouel/codemedic/internal/models"
	"github.com/chmouel/codemedic/internal/theme"
	"github.com/chmouel/codemedic/internal/tree"
	appcli "github.com/urfave/cli/v3"
	"golang.org/x/term"
)

var errUsage = errors.New("usage")

func sourceArg(cmd *appcli.Command) (string, error) {
	source := strings.TrimSpace(cmd.Args().First())
	if source == "" {
		return "", fmt.Errorf("%w: codemedic %s %s", errUsage, cmd.Name, cmd.ArgsUsage)
	}
	return source, nil
}

// openProject loads the session and imports the project named by the first
// argument.
func openProject(ctx context.Context, cmd *appcli.Command) (*session, *models.Project, error) {
	source, err := sourceArg(cmd)
	if err != nil {
		return nil, nil, err
	}
	s, err := loadSession(cmd)
	if err != nil {
		return nil, nil, err
	}
	p, err := s.store.Open(ctx, source, nil)
	if err != nil {
		return nil, nil, err
	}
	return s, p, nil
}

func treeCommand() *appcli.Command {
	return &appcli.Command{
		Name:      "tree",
		Usage:     "Print the file tree of a repository or archive",
		ArgsUsage: "<owner/repo | github-url | archive.zip>",
		Action: func(ctx context.Context, cmd *appcli.Command) error {
			defer func() { _ = log.Close() }()
			s, p, err := openProject(ctx, cmd)
			if err != nil {
				return err
			}
			writeTree(cmd.Root().Writer, p, s.cfg.ShowIcons)
			return nil
		},
	}
}

// writeTree prints every node, folders first, indented by depth.
func writeTree(w io.Writer, p *models.Project, icons bool) {
	rows := tree.Flatten(p.Files, tree.DefaultExpanded(p.Files, math.MaxInt), 0)
	for _, row := range rows {
		name := row.Node.Name
		if row.Node.IsFolder() {
			name += "/"
		}
		prefix := ""
		if icons {
			prefix = app.DeviconForName(row.Node.Name, row.Node.IsFolder()) + " "
		}
		_, _ = fmt.Fprintf(w, "%s%s%s\n", strings.Repeat("  ", row.Depth), prefix, name)
	}
	if p.Truncated {
		_, _ = fmt.Fprintln(w, "(tree truncated by GitHub)")
	}
}

func showCommand() *appcli.Command {
	return &appcli.Command{
		Name:      "show",
		Usage:     "Print a file, highlighted when writing to a terminal",
		ArgsUsage: "<owner/repo | github-url | archive.zip> <path>",
		Flags: []appcli.Flag{
			&appcli.BoolFlag{
				Name:  "plain",
				Usage: "Never highlight",
			},
			&appcli.BoolFlag{
				Name:    "line-numbers",
				Aliases: []string{"n"},
				Usage:   "Prefix lines with their number",
			},
		},
		Action: func(ctx context.Context, cmd *appcli.Command) error {
			defer func() { _ = log.Close() }()
			filePath := strings.TrimSpace(cmd.Args().Get(1))
			if filePath == "" {
				return fmt.Errorf("%w: codemedic show %s", errUsage, cmd.ArgsUsage)
			}
			s, p, err := openProject(ctx, cmd)
			if err != nil {
				return err
			}
			node := tree.Find(p.Files, filePath)
			switch {
			case node == nil:
				return fmt.Errorf("%s: no such file in %s", filePath, p.ID)
			case node.IsFolder():
				return fmt.Errorf("%s: is a folder", filePath)
			}
			content, err := s.fetcher.Content(ctx, p, node.Path)
			if err != nil {
				return err
			}

			w := cmd.Root().Writer
			var thm *theme.Theme
			if !cmd.Bool("plain") && isTerminal(w) {
				thm = theme.GetTheme(s.cfg.Theme)
			}
			writeContent(w, content, highlight.LanguageForFile(node.Name), thm, s.cfg.TabWidth, cmd.Bool("line-numbers"))
			return nil
		},
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec
}

// writeContent prints content, highlighted when thm is set.
func writeContent(w io.Writer, content string, lang highlight.Language, thm *theme.Theme, tabWidth int, numbers bool) {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	if thm != nil {
		lines = highlight.Render(highlight.Highlight(content, lang), thm, tabWidth)
	}
	width := len(fmt.Sprint(len(lines)))
	for i, line := range lines {
		if i == len(lines)-1 && line == "" {
			break
		}
		if numbers {
			_, _ = fmt.Fprintf(w, "%*d  ", width, i+1)
		}
		_, _ = fmt.Fprintln(w, line)
	}
}

func statsCommand() *appcli.Command {
	return &appcli.Command{
		Name:      "stats",
		Usage:     "Print file, folder and language counts",
		ArgsUsage: "<owner/repo | github-url | archive.zip>",
		Action: func(ctx context.Context, cmd *appcli.Command) error {
			defer func() { _ = log.Close() }()
			_, p, err := openProject(ctx, cmd)
			if err != nil {
				return err
			}
			writeStats(cmd.Root().Writer, p, tree.ComputeStats(p.Files))
			return nil
		},
	}
}

func writeStats(w io.Writer, p *models.Project, st tree.Stats) {
	_, _ = fmt.Fprintf(w, "Project:       %s\n", p.Name)
	if p.Origin == models.OriginGitHub {
		_, _ = fmt.Fprintf(w, "Branch:        %s\n", p.Branch)
	}
	_, _ = fmt.Fprintf(w, "Files:         %d\n", st.Files)
	_, _ = fmt.Fprintf(w, "Folders:       %d\n", st.Folders)
	_, _ = fmt.Fprintf(w, "Main language: %s\n", st.MainLanguage)

	exts := make([]string, 0, len(st.Extensions))
	for ext := range st.Extensions {
		exts = append(exts, ext)
	}
	sort.Slice(exts, func(i, j int) bool {
		if st.Extensions[exts[i]] != st.Extensions[exts[j]] {
			return st.Extensions[exts[i]] > st.Extensions[exts[j]]
		}
		return exts[i] < exts[j]
	})
	if len(exts) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w, "Extensions:")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, ext := range exts {
		_, _ = fmt.Fprintf(tw, "  .%s\t%d\n", ext, st.Extensions[ext])
	}
	_ = tw.Flush()
}

func languagesCommand() *appcli.Command {
	return &appcli.Command{
		Name:  "languages",
		Usage: "List the file extensions that are highlighted",
		Action: func(_ context.Context, cmd *appcli.Command) error {
			tw := tabwriter.NewWriter(cmd.Root().Writer, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "EXTENSION\tLANGUAGE")
			for _, m := range highlight.Extensions() {
				_, _ = fmt.Fprintf(tw, ".%s\t%s\n", m.Extension, m.Language)
			}
			return tw.Flush()
		},
	}
}
