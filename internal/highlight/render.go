package highlight

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chmouel/codemedic/internal/theme"
)

// Style returns the lipgloss style for class under thm.
func Style(class Class, thm *theme.Theme) lipgloss.Style {
	s := lipgloss.NewStyle()
	syn := thm.Syntax
	switch class {
	case ClassComment:
		return s.Foreground(syn.Comment).Italic(true)
	case ClassString, ClassValue, ClassCode:
		return s.Foreground(syn.String)
	case ClassTemplate:
		return s.Foreground(syn.Template)
	case ClassBold:
		return s.Foreground(syn.Template).Bold(true)
	case ClassKeyword, ClassKey, ClassTag, ClassProperty:
		return s.Foreground(syn.Keyword)
	case ClassHeading:
		return s.Foreground(syn.Keyword).Bold(true)
	case ClassType, ClassBuiltin:
		return s.Foreground(syn.Type)
	case ClassLink:
		return s.Foreground(syn.Type).Underline(true)
	case ClassConstant, ClassAttribute, ClassSelector:
		return s.Foreground(syn.Constant)
	case ClassItalic:
		return s.Foreground(syn.Constant).Italic(true)
	case ClassNumber:
		return s.Foreground(syn.Number)
	case ClassDecorator:
		return s.Foreground(syn.Decorator)
	case ClassImport:
		return s.Foreground(syn.Import)
	default:
		return s.Foreground(thm.TextFg)
	}
}

// RenderLine styles one highlighted line. Tabs are expanded to tabWidth spaces.
func RenderLine(segments []Segment, thm *theme.Theme, tabWidth int) string {
	tab := strings.Repeat(" ", max(tabWidth, 1))
	var b strings.Builder
	for _, seg := range segments {
		text := strings.ReplaceAll(seg.Text, "\t", tab)
		if text == "" {
			continue
		}
		b.WriteString(Style(seg.Class, thm).Render(text))
	}
	return b.String()
}

// Render styles every line.
func Render(lines [][]Segment, thm *theme.Theme, tabWidth int) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = RenderLine(line, thm, tabWidth)
	}
	return out
}
