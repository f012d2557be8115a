package screen

import (
	"fmt"
	"math/rand/v2"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/chmouel/codemedic/internal/theme"
)

// LoadingTips is a list of helpful tips shown during an import.
var LoadingTips = []string{
	"Press 'i' to import another repository or a .zip archive.",
	"Press 'p' to cycle through imported projects.",
	"Use Tab to move between the explorer and the viewer.",
	"Press Enter or 'l' on a folder to expand it, 'h' to collapse.",
	"Set GITHUB_TOKEN to raise the GitHub API rate limit.",
	"Private repositories need a token with read access.",
	"Add fallback_branches to your config for unusual branch names.",
	"Imported projects stay available until you quit.",
	"Press '?' to view the key bindings.",
}

const progressBarWidth = 40

// LoadingScreen displays a modal with a spinner, a progress bar and a tip.
type LoadingScreen struct {
	Message  string
	Progress int
	Spinner  string
	Tip      string
	Thm      *theme.Theme
}

// NewLoadingScreen creates a loading modal with the given message.
func NewLoadingScreen(message string, thm *theme.Theme) *LoadingScreen {
	tip := LoadingTips[rand.IntN(len(LoadingTips))] //nolint:gosec
	return &LoadingScreen{Message: message, Tip: tip, Thm: thm}
}

// Type returns the screen type.
func (s *LoadingScreen) Type() Type {
	return TypeLoading
}

// Update ignores keys; the import cannot be cancelled from the modal.
func (s *LoadingScreen) Update(_ tea.KeyMsg) (Screen, tea.Cmd) {
	return s, nil
}

// SetProgress records the import progress, clamped to 0..100.
func (s *LoadingScreen) SetProgress(pct int) {
	s.Progress = min(max(pct, 0), 100)
}

// ProgressBar renders a textual bar for pct.
func ProgressBar(pct, width int) string {
	pct = min(max(pct, 0), 100)
	filled := pct * width / 100
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}

// View renders the loading modal.
func (s *LoadingScreen) View() string {
	width := 60

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Thm.Accent).
		Padding(1, 2).
		Width(width)

	spinnerStyle := lipgloss.NewStyle().Foreground(s.Thm.Accent).Bold(true)
	messageStyle := lipgloss.NewStyle().Foreground(s.Thm.TextFg).Bold(true)
	barStyle := lipgloss.NewStyle().Foreground(s.Thm.SuccessFg)
	separator := lipgloss.NewStyle().Foreground(s.Thm.BorderDim).Render(strings.Repeat("-", width-6))

	tipText := s.Tip
	if maxTipLen := width - 12; len(tipText) > maxTipLen {
		tipText = tipText[:maxTipLen-3] + "..."
	}
	tipStyle := lipgloss.NewStyle().Foreground(s.Thm.MutedFg).Italic(true)

	content := lipgloss.JoinVertical(lipgloss.Center,
		spinnerStyle.Render(s.Spinner)+" "+messageStyle.Render(s.Message),
		"",
		barStyle.Render(ProgressBar(s.Progress, progressBarWidth))+fmt.Sprintf(" %3d%%", s.Progress),
		separator,
		tipStyle.Render("Tip: "+tipText),
	)
	return boxStyle.Render(content)
}
