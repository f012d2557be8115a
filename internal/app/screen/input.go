package screen

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chmouel/codemedic/internal/theme"
)

// InputScreen is a one-line prompt with optional validation and history.
type InputScreen struct {
	Prompt   string
	Input    textinput.Model
	ErrorMsg string
	Thm      *theme.Theme

	// Validate returns an error message, empty when value is acceptable.
	Validate func(value string) string
	OnSubmit func(value string) tea.Cmd

	// History is newest first. HistoryIndex is -1 while not browsing.
	History       []string
	HistoryIndex  int
	OriginalInput string

	boxWidth int
}

// NewInputScreen creates an input screen with the given prompt.
func NewInputScreen(prompt, placeholder string, thm *theme.Theme) *InputScreen {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	ti.CharLimit = 512
	ti.Prompt = ""
	ti.TextStyle = lipgloss.NewStyle().Foreground(thm.TextFg)
	ti.Width = 56

	return &InputScreen{
		Prompt:       prompt,
		Input:        ti,
		Thm:          thm,
		HistoryIndex: -1,
		boxWidth:     64,
	}
}

// Type returns the screen type.
func (s *InputScreen) Type() Type {
	return TypeInput
}

// Update handles keyboard input. A nil screen closes the prompt.
func (s *InputScreen) Update(msg tea.KeyMsg) (Screen, tea.Cmd) {
	switch msg.String() {
	case keyEnter:
		value := strings.TrimSpace(s.Input.Value())
		if s.Validate != nil {
			if errMsg := strings.TrimSpace(s.Validate(value)); errMsg != "" {
				s.ErrorMsg = errMsg
				return s, nil
			}
		}
		s.ErrorMsg = ""
		var cmd tea.Cmd
		if s.OnSubmit != nil {
			cmd = s.OnSubmit(value)
		}
		return nil, cmd

	case keyEsc, keyCtrlC:
		return nil, nil

	case keyUp:
		if len(s.History) == 0 {
			return s, nil
		}
		if s.HistoryIndex == -1 {
			s.OriginalInput = s.Input.Value()
		}
		if s.HistoryIndex < len(s.History)-1 {
			s.HistoryIndex++
		}
		s.Input.SetValue(s.History[s.HistoryIndex])
		s.Input.CursorEnd()
		return s, nil

	case keyDown:
		switch {
		case s.HistoryIndex > 0:
			s.HistoryIndex--
			s.Input.SetValue(s.History[s.HistoryIndex])
		case s.HistoryIndex == 0:
			s.HistoryIndex = -1
			s.Input.SetValue(s.OriginalInput)
		}
		s.Input.CursorEnd()
		return s, nil
	}

	if msg.Type == tea.KeyRunes || msg.Type == tea.KeyBackspace || msg.Type == tea.KeyDelete {
		s.HistoryIndex = -1
		s.ErrorMsg = ""
	}

	var cmd tea.Cmd
	s.Input, cmd = s.Input.Update(msg)
	return s, cmd
}

// View renders the prompt.
func (s *InputScreen) View() string {
	width := s.boxWidth

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Thm.Accent).
		Padding(1, 2).
		Width(width)

	promptStyle := lipgloss.NewStyle().
		Foreground(s.Thm.Accent).
		Bold(true).
		Width(width - 6).
		Align(lipgloss.Center)

	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(s.Thm.Border).
		Padding(0, 1).
		Width(width - 6)

	footerStyle := lipgloss.NewStyle().
		Foreground(s.Thm.MutedFg).
		Width(width - 6).
		Align(lipgloss.Center)

	lines := []string{
		promptStyle.Render(s.Prompt),
		inputStyle.Render(s.Input.View()),
	}
	if s.ErrorMsg != "" {
		errorStyle := lipgloss.NewStyle().
			Foreground(s.Thm.ErrorFg).
			Width(width - 6).
			Align(lipgloss.Center)
		lines = append(lines, errorStyle.Render(s.ErrorMsg))
	}

	footer := "Enter to import • Esc to cancel"
	if len(s.History) > 0 {
		footer = "Up/Down history • " + footer
	}
	lines = append(lines, footerStyle.Render(footer))

	return boxStyle.Render(strings.Join(lines, "\n\n"))
}
