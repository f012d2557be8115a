// Package app implements the codemedic terminal workspace.
package app

import (
	"context"
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/chmouel/codemedic/internal/app/screen"
	"github.com/chmouel/codemedic/internal/config"
	"github.com/chmouel/codemedic/internal/project"
	"github.com/chmouel/codemedic/internal/theme"
	"github.com/chmouel/codemedic/internal/tree"
)

const (
	minLeftPaneWidth  = 28
	minRightPaneWidth = 32
	maxHistory        = 20
)

type pane int

const (
	paneExplorer pane = iota
	paneViewer
)

// Deps wires the services the workspace drives.
type Deps struct {
	Config  *config.AppConfig
	Store   *project.Store
	Fetcher *project.Fetcher
	Logf    func(string, ...any)
	// Initial lists references or archive paths imported on start, in order.
	Initial []string
}

// explorerState is the per-project explorer position.
type explorerState struct {
	expanded map[string]bool
	cursor   int
	offset   int
	stats    tree.Stats
}

// Model is the Bubble Tea model of the workspace.
type Model struct {
	config  *config.AppConfig
	theme   *theme.Theme
	store   *project.Store
	fetcher *project.Fetcher
	logf    func(string, ...any)

	ctx    context.Context
	cancel context.CancelFunc

	screens *screen.Manager
	spinner spinner.Model
	viewer  viewport.Model

	windowWidth  int
	windowHeight int
	focus        pane

	explorers map[string]*explorerState
	view      viewerState

	queue     []string
	importing string
	history   []string

	statusMsg string
	statusErr bool
	quitting  bool
}

// NewModel creates the workspace model.
func NewModel(deps Deps) *Model {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	store := deps.Store
	if store == nil {
		store = project.NewStore(project.Options{MaxFileBytes: cfg.MaxFileBytes, KeepRoot: !cfg.ArchiveStripRoot})
	}
	fetcher := deps.Fetcher
	if fetcher == nil {
		fetcher = project.NewFetcher(nil, deps.Logf)
	}
	thm := theme.GetTheme(cfg.Theme)

	ctx, cancel := context.WithCancel(context.Background())
	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(thm.Accent)),
	)

	return &Model{
		config:    cfg,
		theme:     thm,
		store:     store,
		fetcher:   fetcher,
		logf:      deps.Logf,
		ctx:       ctx,
		cancel:    cancel,
		screens:   screen.NewManager(),
		spinner:   sp,
		viewer:    viewport.New(minRightPaneWidth, 10),
		explorers: map[string]*explorerState{},
		queue:     slices.Clone(deps.Initial),
	}
}

func (m *Model) debugf(format string, args ...any) {
	if m.logf == nil {
		return
	}
	m.logf(format, args...)
}

// Init starts the imports requested on the command line.
func (m *Model) Init() tea.Cmd {
	return m.nextImport()
}

// Update routes messages to the screen, explorer or viewer handlers.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setWindowSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		return m.handleSpinnerTick(msg)

	case importDoneMsg:
		return m.handleImportDone(msg)

	case contentMsg:
		m.handleContent(msg)
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	if m.screens.IsActive() {
		return m.handleScreenKey(msg)
	}

	switch msg.String() {
	case "q":
		return m.quit()
	case "?":
		m.screens.Push(screen.NewHelpScreen(m.theme))
		return m, nil
	case "i":
		m.showImportInput()
		return m, textInputBlink()
	case "tab":
		if m.focus == paneExplorer {
			m.focus = paneViewer
		} else {
			m.focus = paneExplorer
		}
		return m, nil
	case "p":
		m.cycleProject()
		return m, nil
	}

	if m.focus == paneViewer {
		m.handleViewerKey(msg)
		return m, nil
	}
	return m, m.handleExplorerKey(msg)
}

func (m *Model) handleScreenKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	scr := m.screens.Current()
	next, cmd := scr.Update(msg)
	switch {
	case next == nil:
		m.screens.Remove(scr.Type())
	case next != scr:
		m.screens.Remove(scr.Type())
		m.screens.Push(next)
	}
	return m, cmd
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.cancel()
	return m, tea.Quit
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.statusMsg = msg
	m.statusErr = isErr
}

// cycleProject makes the project after the current one current, wrapping.
func (m *Model) cycleProject() {
	projects := m.store.Projects()
	if len(projects) == 0 {
		m.setStatus("No project imported yet", true)
		return
	}
	current := m.store.Current()
	idx := 0
	for i, p := range projects {
		if p == current {
			idx = (i + 1) % len(projects)
			break
		}
	}
	next := projects[idx]
	if err := m.store.SetCurrent(next.ID); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.syncViewerWithStore()
	m.setStatus(fmt.Sprintf("Switched to %s (%d/%d)", next.Name, idx+1, len(projects)), false)
}

// explorer returns the state of the current project, creating it on first use.
func (m *Model) explorer() *explorerState {
	p := m.store.Current()
	if p == nil {
		return nil
	}
	st, ok := m.explorers[p.ID]
	if !ok {
		st = &explorerState{
			expanded: tree.DefaultExpanded(p.Files, m.config.ExpandDepth),
			stats:    tree.ComputeStats(p.Files),
		}
		m.explorers[p.ID] = st
	}
	return st
}

func (m *Model) rememberInput(input string) {
	m.history = slices.DeleteFunc(m.history, func(h string) bool { return h == input })
	m.history = append([]string{input}, m.history...)
	if len(m.history) > maxHistory {
		m.history = m.history[:maxHistory]
	}
}
