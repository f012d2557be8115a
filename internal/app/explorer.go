package app

import (
	"path"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/chmouel/codemedic/internal/models"
	"github.com/chmouel/codemedic/internal/tree"
	"github.com/muesli/reflow/truncate"
)

// explorerRows returns the visible rows of the current project.
func (m *Model) explorerRows() []tree.Row {
	p := m.store.Current()
	st := m.explorer()
	if p == nil || st == nil {
		return nil
	}
	rows := tree.Flatten(p.Files, st.expanded, 0)
	st.cursor = min(max(st.cursor, 0), max(len(rows)-1, 0))
	return rows
}

func (m *Model) selectedRow() (tree.Row, bool) {
	rows := m.explorerRows()
	st := m.explorer()
	if len(rows) == 0 {
		return tree.Row{}, false
	}
	return rows[st.cursor], true
}

func (m *Model) handleExplorerKey(msg tea.KeyMsg) tea.Cmd {
	rows := m.explorerRows()
	st := m.explorer()
	if len(rows) == 0 {
		return nil
	}

	switch msg.String() {
	case "j", "down":
		st.cursor = min(st.cursor+1, len(rows)-1)
	case "k", "up":
		st.cursor = max(st.cursor-1, 0)
	case "g", "home":
		st.cursor = 0
	case "G", "end":
		st.cursor = len(rows) - 1
	case "enter", "l", "right":
		row := rows[st.cursor]
		if row.Node.IsFolder() {
			st.expanded[row.Node.Path] = !row.Expanded
			return nil
		}
		return m.openFile(row.Node)
	case "h", "left":
		row := rows[st.cursor]
		if row.Node.IsFolder() && row.Expanded {
			delete(st.expanded, row.Node.Path)
			return nil
		}
		m.moveToParent(rows, row.Node)
	}
	return nil
}

func (m *Model) moveToParent(rows []tree.Row, node *models.FileNode) {
	if !strings.Contains(node.Path, "/") {
		return
	}
	parent := path.Dir(node.Path)
	for i, r := range rows {
		if r.Node.Path == parent {
			m.explorer().cursor = i
			return
		}
	}
}

// renderExplorer renders the rows visible in a pane of the given inner size.
func (m *Model) renderExplorer(width, height int) string {
	p := m.store.Current()
	muted := lipgloss.NewStyle().Foreground(m.theme.MutedFg)
	if p == nil {
		return muted.Render("No project")
	}
	rows := m.explorerRows()
	if len(rows) == 0 {
		return muted.Render("Empty project")
	}

	st := m.explorer()
	if st.cursor < st.offset {
		st.offset = st.cursor
	}
	if st.cursor >= st.offset+height {
		st.offset = st.cursor - height + 1
	}
	end := min(st.offset+height, len(rows))

	folderStyle := lipgloss.NewStyle().Foreground(m.theme.Accent).Bold(true)
	fileStyle := lipgloss.NewStyle().Foreground(m.theme.TextFg)
	selected := lipgloss.NewStyle().Foreground(m.theme.AccentFg).Background(m.theme.Accent).Bold(true)
	if m.focus != paneExplorer {
		selected = lipgloss.NewStyle().Foreground(m.theme.TextFg).Background(m.theme.AccentDim)
	}
	active := m.store.Active()

	lines := make([]string, 0, end-st.offset)
	for i := st.offset; i < end; i++ {
		row := rows[i]
		text := m.explorerLabel(row)
		text = truncate.StringWithTail(text, uint(max(width, 1)), "…") //nolint:gosec
		switch {
		case i == st.cursor:
			text = selected.Width(width).Render(text)
		case row.Node.IsFolder():
			text = folderStyle.Render(text)
		case row.Node == active:
			text = fileStyle.Underline(true).Render(text)
		default:
			text = fileStyle.Render(text)
		}
		lines = append(lines, text)
	}
	return strings.Join(lines, "\n")
}

// explorerLabel is the plain text of a row: indent, marker, icon and name.
func (m *Model) explorerLabel(row tree.Row) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", row.Depth))
	switch {
	case row.Node.IsFolder() && row.Expanded:
		b.WriteString("▾ ")
	case row.Node.IsFolder():
		b.WriteString("▸ ")
	default:
		b.WriteString("  ")
	}
	if m.config.ShowIcons {
		icon := DeviconForName(row.Node.Name, false)
		if row.Node.IsFolder() {
			icon = folderIcon(row.Expanded)
		}
		b.WriteString(iconWithSpace(icon))
	}
	b.WriteString(row.Node.Name)
	if row.Node.IsFolder() {
		b.WriteString("/")
	}
	return b.String()
}
