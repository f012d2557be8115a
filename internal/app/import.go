package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/chmouel/codemedic/internal/app/screen"
	"github.com/chmouel/codemedic/internal/github"
	"github.com/chmouel/codemedic/internal/models"
	"github.com/chmouel/codemedic/internal/project"
)

type importDoneMsg struct {
	input   string
	project *models.Project
	err     error
}

func textInputBlink() tea.Cmd {
	return textinput.Blink
}

func validateImportInput(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "Enter owner/repo, a GitHub URL or a .zip path"
	}
	if project.IsArchivePath(value) {
		return ""
	}
	if strings.HasSuffix(strings.ToLower(value), ".zip") {
		return "Archive not found: " + value
	}
	if _, err := github.ParseReference(value); err != nil {
		return err.Error()
	}
	return ""
}

func (m *Model) showImportInput() {
	input := screen.NewInputScreen("Import a GitHub repository or .zip archive", "owner/repo", m.theme)
	input.History = m.history
	input.Validate = validateImportInput
	input.OnSubmit = func(value string) tea.Cmd {
		return m.startImport(strings.TrimSpace(value))
	}
	m.screens.Push(input)
}

// startImport runs an import now, or queues it behind the running one since
// the store rejects concurrent imports.
func (m *Model) startImport(input string) tea.Cmd {
	if input == "" {
		return nil
	}
	if m.importing != "" {
		m.queue = append(m.queue, input)
		m.setStatus(fmt.Sprintf("Queued %s", input), false)
		return nil
	}

	m.importing = input
	m.rememberInput(input)
	m.screens.Remove(screen.TypeLoading)
	m.screens.Push(screen.NewLoadingScreen("Importing "+input, m.theme))
	m.debugf("import %s: started", input)

	store, ctx := m.store, m.ctx
	run := func() tea.Msg {
		p, err := store.Open(ctx, input, nil)
		return importDoneMsg{input: input, project: p, err: err}
	}
	return tea.Batch(m.spinner.Tick, run)
}

func (m *Model) nextImport() tea.Cmd {
	if len(m.queue) == 0 {
		return nil
	}
	input := m.queue[0]
	m.queue = m.queue[1:]
	return m.startImport(input)
}

func (m *Model) handleImportDone(msg importDoneMsg) (tea.Model, tea.Cmd) {
	m.importing = ""
	m.screens.Remove(screen.TypeLoading)

	if msg.err != nil {
		m.debugf("import %s: %v", msg.input, msg.err)
		m.setStatus(importErrorText(msg.err), true)
		return m, m.nextImport()
	}

	p := msg.project
	st := m.explorer()
	m.syncViewerWithStore()
	status := fmt.Sprintf("Imported %s: %d files, %d folders", p.Name, st.stats.Files, st.stats.Folders)
	if p.Truncated {
		status += " (tree truncated by GitHub)"
	}
	m.setStatus(status, false)
	m.debugf("import %s: done as %s", msg.input, p.ID)
	return m, m.nextImport()
}

// importErrorText phrases an import failure for the status line.
func importErrorText(err error) string {
	switch {
	case errors.Is(err, project.ErrInvalidReference):
		return "Invalid repository reference: " + err.Error()
	case errors.Is(err, project.ErrNotFound):
		return "Repository not found: " + err.Error()
	case errors.Is(err, project.ErrRateLimited):
		return "GitHub rate limit reached, set a token: " + err.Error()
	case errors.Is(err, project.ErrEmptyRepository):
		return "Repository is empty: " + err.Error()
	case errors.Is(err, project.ErrImportInProgress):
		return "Another import is running"
	default:
		return "Import failed: " + err.Error()
	}
}

func (m *Model) handleSpinnerTick(msg spinner.TickMsg) (tea.Model, tea.Cmd) {
	if m.importing == "" {
		return m, nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	if ls, ok := m.screens.Current().(*screen.LoadingScreen); ok {
		ls.Spinner = m.spinner.View()
		ls.SetProgress(m.store.Progress())
	}
	return m, cmd
}
