// Package highlight colours source text with ordered, first-match-wins
// regular expression rules. It is a cosmetic preview, not a lexer: rules only
// see one line at a time and never revisit text an earlier rule classified.
package highlight

import (
	"regexp"
	"strings"
)

// Class names the role of a highlighted span.
type Class string

// Span classes.
const (
	ClassNone      Class = ""
	ClassComment   Class = "comment"
	ClassString    Class = "string"
	ClassTemplate  Class = "template"
	ClassKeyword   Class = "keyword"
	ClassType      Class = "type"
	ClassBuiltin   Class = "builtin"
	ClassConstant  Class = "constant"
	ClassNumber    Class = "number"
	ClassTag       Class = "tag"
	ClassAttribute Class = "attribute"
	ClassKey       Class = "key"
	ClassProperty  Class = "property"
	ClassValue     Class = "value"
	ClassSelector  Class = "selector"
	ClassHeading   Class = "heading"
	ClassBold      Class = "bold"
	ClassItalic    Class = "italic"
	ClassCode      Class = "code"
	ClassLink      Class = "link"
	ClassDecorator Class = "decorator"
	ClassImport    Class = "import"
)

// Segment is a run of text with an optional class.
type Segment struct {
	Text  string
	Class Class
}

// Rule styles every non-overlapping match of Pattern with Class. When Group
// is non-zero only that submatch is styled; the rest of the match stays
// unstyled and is available to later rules, which stands in for a trailing
// lookahead.
type Rule struct {
	Pattern *regexp.Regexp
	Class   Class
	Group   int
}

func rule(pattern string, class Class) Rule {
	return Rule{Pattern: regexp.MustCompile(pattern), Class: class}
}

func ruleGroup(pattern string, class Class, group int) Rule {
	return Rule{Pattern: regexp.MustCompile(pattern), Class: class, Group: group}
}

// Apply runs rules in order over line. Each rule only scans segments that are
// still unstyled, so earlier rules take priority over later ones.
func Apply(line string, rules []Rule) []Segment {
	segments := []Segment{{Text: line}}
	for _, r := range rules {
		next := make([]Segment, 0, len(segments))
		for _, seg := range segments {
			if seg.Class != ClassNone {
				next = append(next, seg)
				continue
			}
			next = append(next, splitSegment(seg.Text, r)...)
		}
		segments = next
	}
	return mergeEmpty(segments)
}

func splitSegment(text string, r Rule) []Segment {
	matches := r.Pattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return []Segment{{Text: text}}
	}

	out := make([]Segment, 0, len(matches)*2+1)
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if r.Group > 0 && len(m) > 2*r.Group+1 {
			start, end = m[2*r.Group], m[2*r.Group+1]
		}
		if start < 0 || end <= start || start < last {
			continue
		}
		if start > last {
			out = append(out, Segment{Text: text[last:start]})
		}
		out = append(out, Segment{Text: text[start:end], Class: r.Class})
		last = end
	}
	if last < len(text) {
		out = append(out, Segment{Text: text[last:]})
	}
	return out
}

// mergeEmpty drops empty segments and joins adjacent unstyled ones.
func mergeEmpty(segments []Segment) []Segment {
	out := segments[:0]
	for _, seg := range segments {
		if seg.Text == "" {
			continue
		}
		if n := len(out); n > 0 && seg.Class == ClassNone && out[n-1].Class == ClassNone {
			out[n-1].Text += seg.Text
			continue
		}
		out = append(out, seg)
	}
	if len(out) == 0 {
		return []Segment{{Text: ""}}
	}
	return out
}

// HighlightLine highlights a single line.
func HighlightLine(line string, lang Language) []Segment {
	rules := RulesFor(lang)
	if len(rules) == 0 {
		return []Segment{{Text: line}}
	}
	return Apply(line, rules)
}

// Highlight splits text on newlines and highlights every line.
func Highlight(text string, lang Language) [][]Segment {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([][]Segment, len(lines))
	for i, line := range lines {
		out[i] = HighlightLine(line, lang)
	}
	return out
}

// PlainText joins a line's segments back into its source text.
func PlainText(segments []Segment) string {
	var b strings.Builder
	for _, seg := range segments {
		b.WriteString(seg.Text)
	}
	return b.String()
}
