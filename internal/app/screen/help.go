package screen

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/chmouel/codemedic/internal/theme"
)

// HelpBindings lists the key bindings shown by the help screen.
var HelpBindings = [][2]string{
	{"i", "Import a GitHub repository or .zip archive"},
	{"p", "Cycle imported projects"},
	{"Tab", "Switch between explorer and viewer"},
	{"j / k", "Move down / up, scroll in the viewer"},
	{"Enter / l", "Open file or expand folder"},
	{"h", "Collapse folder or jump to parent"},
	{"g / G", "Jump to top / bottom"},
	{"?", "Toggle this help"},
	{"q", "Quit"},
}

// HelpScreen lists the key bindings.
type HelpScreen struct {
	Thm *theme.Theme
}

// NewHelpScreen creates the help overlay.
func NewHelpScreen(thm *theme.Theme) *HelpScreen {
	return &HelpScreen{Thm: thm}
}

// Type returns the screen type.
func (s *HelpScreen) Type() Type {
	return TypeHelp
}

// Update closes the screen on any of esc, q or ?.
func (s *HelpScreen) Update(msg tea.KeyMsg) (Screen, tea.Cmd) {
	switch msg.String() {
	case keyEsc, keyCtrlC, "q", "?":
		return nil, nil
	}
	return s, nil
}

// View renders the bindings table.
func (s *HelpScreen) View() string {
	keyStyle := lipgloss.NewStyle().
		Foreground(s.Thm.AccentFg).
		Background(s.Thm.Accent).
		Bold(true).
		Padding(0, 1)
	labelStyle := lipgloss.NewStyle().Foreground(s.Thm.TextFg)
	titleStyle := lipgloss.NewStyle().Foreground(s.Thm.Accent).Bold(true)

	keyWidth := 0
	for _, b := range HelpBindings {
		keyWidth = max(keyWidth, lipgloss.Width(keyStyle.Render(b[0])))
	}

	lines := []string{titleStyle.Render("codemedic key bindings"), ""}
	for _, b := range HelpBindings {
		key := keyStyle.Render(b[0])
		pad := strings.Repeat(" ", keyWidth-lipgloss.Width(key))
		lines = append(lines, key+pad+"  "+labelStyle.Render(b[1]))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Thm.Accent).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
}
