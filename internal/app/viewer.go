package app

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/chmouel/codemedic/internal/highlight"
	"github.com/chmouel/codemedic/internal/models"
	"github.com/chmouel/codemedic/internal/project"
	"github.com/muesli/reflow/truncate"
)

type contentMsg struct {
	projectID string
	path      string
	content   string
	err       error
}

// viewerState describes the file shown in the viewer.
type viewerState struct {
	projectID string
	path      string
	language  highlight.Language
	loading   bool
	err       error
	lines     int
	chars     int
}

func (v viewerState) open() bool {
	return v.path != ""
}

// ContentStats returns the line and character counts shown in the status bar.
// An empty file has one empty line.
func ContentStats(content string) (lines, chars int) {
	return strings.Count(content, "\n") + 1, utf8.RuneCountInString(content)
}

func (m *Model) openFile(node *models.FileNode) tea.Cmd {
	p := m.store.Current()
	if err := m.store.SelectFile(node); err != nil {
		m.setStatus(err.Error(), true)
		return nil
	}
	m.view = viewerState{
		projectID: p.ID,
		path:      node.Path,
		language:  highlight.LanguageForFile(node.Name),
		loading:   true,
	}
	m.viewer.SetContent("")
	m.viewer.GotoTop()

	fetcher, ctx := m.fetcher, m.ctx
	return func() tea.Msg {
		content, err := fetcher.Content(ctx, p, node.Path)
		return contentMsg{projectID: p.ID, path: node.Path, content: content, err: err}
	}
}

// handleContent shows fetched content unless the user moved on meanwhile.
func (m *Model) handleContent(msg contentMsg) {
	if msg.projectID != m.view.projectID || msg.path != m.view.path {
		m.debugf("content %s:%s: stale, dropped", msg.projectID, msg.path)
		return
	}
	m.view.loading = false
	if msg.err != nil {
		m.debugf("content %s:%s: %v", msg.projectID, msg.path, msg.err)
		m.view.err = msg.err
		m.viewer.SetContent("")
		return
	}
	m.view.lines, m.view.chars = ContentStats(msg.content)
	m.viewer.SetContent(m.renderContent(msg.content, m.view.language))
	m.viewer.GotoTop()
}

// renderContent highlights content and prefixes a line number gutter.
func (m *Model) renderContent(content string, lang highlight.Language) string {
	lines := highlight.Render(highlight.Highlight(content, lang), m.theme, m.config.TabWidth)
	gutterWidth := len(strconv.Itoa(len(lines)))
	gutter := lipgloss.NewStyle().Foreground(m.theme.MutedFg)
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(gutter.Render(fmt.Sprintf("%*d ", gutterWidth, i+1)))
		b.WriteString(line)
	}
	return b.String()
}

// syncViewerWithStore clears the viewer when the store no longer has the shown
// file active, which happens after switching projects.
func (m *Model) syncViewerWithStore() {
	active := m.store.Active()
	if active == nil || active.Path != m.view.path {
		m.view = viewerState{}
		m.viewer.SetContent("")
	}
}

func (m *Model) handleViewerKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "j", "down":
		m.viewer.ScrollDown(1)
	case "k", "up":
		m.viewer.ScrollUp(1)
	case "ctrl+d":
		m.viewer.HalfPageDown()
	case "ctrl+u":
		m.viewer.HalfPageUp()
	case "pgdown", " ":
		m.viewer.PageDown()
	case "pgup":
		m.viewer.PageUp()
	case "g", "home":
		m.viewer.GotoTop()
	case "G", "end":
		m.viewer.GotoBottom()
	}
}

// renderViewer renders the title, the content area and the status bar.
func (m *Model) renderViewer(width, height int) string {
	muted := lipgloss.NewStyle().Foreground(m.theme.MutedFg)
	titleStyle := lipgloss.NewStyle().Foreground(m.theme.TextFg).Bold(true)
	errStyle := lipgloss.NewStyle().Foreground(m.theme.ErrorFg)

	if !m.view.open() {
		msg := "Select a file in the explorer"
		if m.store.Current() == nil {
			msg = "Press i to import a GitHub repository or a .zip archive"
		}
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, muted.Render(msg))
	}

	title := titleStyle.Render(truncate.StringWithTail(m.view.path, uint(max(width, 1)), "…")) //nolint:gosec
	bodyHeight := max(height-2, 1)

	var body string
	switch {
	case m.view.loading:
		body = muted.Render("Loading " + m.view.path + "...")
	case m.view.err != nil:
		body = errStyle.Render(contentErrorText(m.view.err))
	default:
		m.viewer.Width = width
		m.viewer.Height = bodyHeight
		lines := strings.Split(m.viewer.View(), "\n")
		for i, line := range lines {
			lines[i] = truncate.String(line, uint(max(width, 1))) //nolint:gosec
		}
		body = strings.Join(lines, "\n")
	}
	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, title, body, m.renderViewerStatus(width))
}

func (m *Model) renderViewerStatus(width int) string {
	style := lipgloss.NewStyle().Foreground(m.theme.MutedFg)
	if m.view.loading || m.view.err != nil {
		return style.Render(string(m.view.language))
	}
	text := fmt.Sprintf("Lines: %d  Characters: %d  Language: %s  %3.f%%",
		m.view.lines, m.view.chars, m.view.language, m.viewer.ScrollPercent()*100)
	return style.Render(truncate.String(text, uint(max(width, 1)))) //nolint:gosec
}

func contentErrorText(err error) string {
	if errors.Is(err, project.ErrRateLimited) {
		return "GitHub rate limit reached while loading the file: " + err.Error()
	}
	return "Could not load file: " + err.Error()
}
