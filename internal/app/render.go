package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/chmouel/codemedic/internal/models"
	"github.com/muesli/reflow/truncate"
)

// View renders the workspace and any active overlay.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.windowWidth == 0 || m.windowHeight == 0 {
		return "Loading..."
	}

	layout := m.computeLayout()
	m.applyLayout(layout)

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderLeftColumn(layout), m.renderViewerPane(layout))
	body = truncateToHeight(body, layout.bodyHeight)
	baseView := lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(layout), body, m.renderFooter(layout))

	if m.screens.IsActive() {
		return m.overlayPopup(baseView, m.screens.Current().View(), 3)
	}
	return baseView
}

func (m *Model) paneStyle(focused bool) lipgloss.Style {
	color := m.theme.BorderDim
	if focused {
		color = m.theme.Accent
	}
	return m.basePaneStyle().BorderForeground(color)
}

func (m *Model) renderHeader(layout layoutDims) string {
	brand := lipgloss.NewStyle().
		Foreground(m.theme.AccentFg).
		Background(m.theme.Accent).
		Bold(true).
		Padding(0, 1).
		Render("codemedic")
	info := lipgloss.NewStyle().Foreground(m.theme.MutedFg)

	text := "no project"
	if p := m.store.Current(); p != nil {
		projects := m.store.Projects()
		idx := 0
		for i, candidate := range projects {
			if candidate == p {
				idx = i + 1
			}
		}
		text = fmt.Sprintf("%s  [%d/%d]", projectLabel(p), idx, len(projects))
	}
	avail := max(layout.width-lipgloss.Width(brand)-1, 1)
	return brand + " " + info.Render(truncate.StringWithTail(text, uint(avail), "…")) //nolint:gosec
}

// projectLabel names a project with its source.
func projectLabel(p *models.Project) string {
	if p.Origin == models.OriginGitHub {
		return fmt.Sprintf("%s/%s@%s", p.Owner, p.Repo, p.Branch)
	}
	return p.SourceURL
}

func (m *Model) renderLeftColumn(layout layoutDims) string {
	title := m.renderPaneTitle("Explorer", m.focus == paneExplorer)
	explorer := m.paneStyle(m.focus == paneExplorer).
		Width(layout.leftInnerWidth).
		Height(layout.explorerInnerH).
		Render(title + "\n" + m.renderExplorer(layout.leftInnerWidth, max(layout.explorerInnerH-1, 1)))

	info := m.paneStyle(false).
		Width(layout.leftInnerWidth).
		Height(layout.infoInnerH).
		Render(m.renderPaneTitle("Project", false) + "\n" + m.renderInfo(layout.leftInnerWidth, max(layout.infoInnerH-1, 1)))

	return lipgloss.JoinVertical(lipgloss.Left, explorer, info)
}

func (m *Model) renderViewerPane(layout layoutDims) string {
	return m.paneStyle(m.focus == paneViewer).
		Width(layout.rightInnerWidth).
		Height(layout.rightInnerHeight).
		Render(m.renderViewer(layout.rightInnerWidth, layout.rightInnerHeight))
}

func (m *Model) renderPaneTitle(title string, focused bool) string {
	style := lipgloss.NewStyle().Foreground(m.theme.MutedFg)
	if focused {
		style = style.Foreground(m.theme.Accent).Bold(true)
	}
	return style.Render(title)
}

// renderInfo renders the project statistics.
func (m *Model) renderInfo(width, height int) string {
	p := m.store.Current()
	muted := lipgloss.NewStyle().Foreground(m.theme.MutedFg)
	if p == nil {
		return muted.Render("Nothing imported")
	}
	st := m.explorer().stats
	label := lipgloss.NewStyle().Foreground(m.theme.MutedFg)
	value := lipgloss.NewStyle().Foreground(m.theme.TextFg)

	lines := []string{
		label.Render("Name: ") + value.Render(p.Name),
		label.Render("Files: ") + value.Render(fmt.Sprintf("%d", st.Files)) +
			label.Render("  Folders: ") + value.Render(fmt.Sprintf("%d", st.Folders)),
	}
	if st.MainLanguage != "" {
		lines = append(lines, label.Render("Main language: ")+value.Render(st.MainLanguage))
	}
	if top := topExtensions(st.Extensions, 3); top != "" {
		lines = append(lines, label.Render("Extensions: ")+value.Render(top))
	}
	if p.Truncated {
		lines = append(lines, lipgloss.NewStyle().Foreground(m.theme.WarnFg).Render("Tree truncated by GitHub"))
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, line := range lines {
		lines[i] = truncate.StringWithTail(line, uint(max(width, 1)), "…") //nolint:gosec
	}
	return strings.Join(lines, "\n")
}

// topExtensions formats the n most frequent extensions, ties by name.
func topExtensions(counts map[string]int, n int) string {
	exts := make([]string, 0, len(counts))
	for ext := range counts {
		exts = append(exts, ext)
	}
	sort.Slice(exts, func(i, j int) bool {
		if counts[exts[i]] != counts[exts[j]] {
			return counts[exts[i]] > counts[exts[j]]
		}
		return exts[i] < exts[j]
	})
	if len(exts) > n {
		exts = exts[:n]
	}
	parts := make([]string, 0, len(exts))
	for _, ext := range exts {
		parts = append(parts, fmt.Sprintf(".%s %d", ext, counts[ext]))
	}
	return strings.Join(parts, ", ")
}

func (m *Model) renderFooter(layout layoutDims) string {
	hints := []string{
		m.renderKeyHint("i", "Import"),
		m.renderKeyHint("Tab", "Pane"),
		m.renderKeyHint("p", "Project"),
		m.renderKeyHint("?", "Help"),
		m.renderKeyHint("q", "Quit"),
	}
	footer := strings.Join(hints, "  ")
	if m.importing != "" {
		footer = m.spinner.View() + " " + footer
	}
	if m.statusMsg != "" {
		style := lipgloss.NewStyle().Foreground(m.theme.SuccessFg)
		if m.statusErr {
			style = style.Foreground(m.theme.ErrorFg)
		}
		footer += "  " + style.Render(m.statusMsg)
	}
	return ansi.Truncate(footer, layout.width, "…")
}

// renderKeyHint renders a single key hint with pill styling.
func (m *Model) renderKeyHint(key, label string) string {
	keyStyle := lipgloss.NewStyle().
		Foreground(m.theme.AccentFg).
		Background(m.theme.Accent).
		Bold(true).
		Padding(0, 1)
	labelStyle := lipgloss.NewStyle().Foreground(m.theme.Accent)
	return fmt.Sprintf("%s %s", keyStyle.Render(key), labelStyle.Render(label))
}

// overlayPopup overlays a popup on top of the base view, preserving
// the portions of the base that fall outside the popup bounds so that
// underlying box borders remain visible.
func (m *Model) overlayPopup(base, popup string, marginTop int) string {
	if base == "" || popup == "" {
		return base
	}

	baseLines := strings.Split(base, "\n")
	popupLines := strings.Split(popup, "\n")

	baseWidth := lipgloss.Width(baseLines[0])
	popupWidth := lipgloss.Width(popupLines[0])
	leftPad := max((baseWidth-popupWidth)/2, 0)

	for i, line := range popupLines {
		row := marginTop + i
		if row >= len(baseLines) {
			break
		}

		leftPart := ansi.Truncate(baseLines[row], leftPad, "")
		if w := lipgloss.Width(leftPart); w < leftPad {
			leftPart += strings.Repeat(" ", leftPad-w)
		}
		rightPart := ansi.TruncateLeft(baseLines[row], leftPad+popupWidth, "")

		newLine := leftPart + line + rightPart
		if w := lipgloss.Width(newLine); w < baseWidth {
			newLine += strings.Repeat(" ", baseWidth-w)
		}
		baseLines[row] = newLine
	}

	return strings.Join(baseLines, "\n")
}

// truncateToHeight ensures output doesn't exceed maxLines.
func truncateToHeight(s string, maxLines int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return strings.Join(lines, "\n")
}
