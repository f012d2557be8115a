package app

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/chmouel/codemedic/internal/app/screen"
	"github.com/chmouel/codemedic/internal/config"
	"github.com/chmouel/codemedic/internal/highlight"
	"github.com/chmouel/codemedic/internal/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeZip(t *testing.T, name string, files map[string]string, order ...string) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, entry := range order {
		w, err := zw.Create(entry)
		require.NoError(t, err)
		_, err = w.Write([]byte(files[entry]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, buf.Bytes(), 0o600))
	return p
}

func demoZip(t *testing.T) string {
	return writeZip(t, "demo.zip", map[string]string{
		"demo/main.py":     "print('hi')\n",
		"demo/lib/util.go": "package lib\n",
		"demo/README.md":   "# demo\n",
	}, "demo/", "demo/main.py", "demo/lib/util.go", "demo/README.md")
}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.ShowIcons = false
	m := NewModel(Deps{Config: cfg})
	m.setWindowSize(120, 40)
	return m
}

func importSync(t *testing.T, m *Model, input string) {
	t.Helper()
	p, err := m.store.Open(context.Background(), input, nil)
	require.NoError(t, err)
	m.Update(importDoneMsg{input: input, project: p})
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func rowPaths(m *Model) []string {
	var paths []string
	for _, r := range m.explorerRows() {
		paths = append(paths, r.Node.Path)
	}
	return paths
}

func TestImportDoneShowsProject(t *testing.T) {
	m := newTestModel(t)
	importSync(t, m, demoZip(t))

	assert.Equal(t, []string{"lib", "lib/util.go", "README.md", "main.py"}, rowPaths(m))
	assert.False(t, m.statusErr)
	assert.Contains(t, m.statusMsg, "Imported demo: 3 files, 1 folders")

	view := m.View()
	assert.Contains(t, view, "Explorer")
	assert.Contains(t, view, "main.py")
	assert.Contains(t, view, "Main language")
	assert.Equal(t, "GO", m.explorer().stats.MainLanguage)
}

func TestImportErrorGoesToStatus(t *testing.T) {
	m := newTestModel(t)
	m.importing = "foo/missing"
	m.Update(importDoneMsg{input: "foo/missing", err: fmt.Errorf("foo/missing: %w", project.ErrNotFound)})

	assert.True(t, m.statusErr)
	assert.Contains(t, m.statusMsg, "Repository not found")
	assert.Empty(t, m.importing)
	assert.Nil(t, m.store.Current())
}

func TestStartImportQueuesWhileBusy(t *testing.T) {
	m := newTestModel(t)
	m.importing = "foo/bar"

	assert.Nil(t, m.startImport("foo/other"))
	assert.Equal(t, []string{"foo/other"}, m.queue)

	m.Update(importDoneMsg{input: "foo/bar", err: project.ErrAccessFailure})
	assert.Equal(t, "foo/other", m.importing)
	assert.Empty(t, m.queue)
	assert.Equal(t, screen.TypeLoading, m.screens.Type())
}

func TestExplorerNavigation(t *testing.T) {
	m := newTestModel(t)
	importSync(t, m, demoZip(t))

	m.Update(key("h"))
	assert.Equal(t, []string{"lib", "README.md", "main.py"}, rowPaths(m))
	m.Update(key("l"))
	assert.Len(t, rowPaths(m), 4)

	m.Update(key("j"))
	assert.Equal(t, 1, m.explorer().cursor)
	m.Update(key("h"))
	assert.Equal(t, 0, m.explorer().cursor, "h on a file jumps to its folder")

	m.Update(key("G"))
	assert.Equal(t, 3, m.explorer().cursor)
	m.Update(key("j"))
	assert.Equal(t, 3, m.explorer().cursor)
	m.Update(key("g"))
	assert.Equal(t, 0, m.explorer().cursor)
}

func TestOpenFileShowsHighlightedContent(t *testing.T) {
	m := newTestModel(t)
	importSync(t, m, demoZip(t))

	m.Update(key("G"))
	_, cmd := m.Update(key("enter"))
	require.NotNil(t, cmd)
	assert.True(t, m.view.loading)
	assert.Equal(t, "main.py", m.store.Active().Path)

	m.Update(cmd())
	assert.False(t, m.view.loading)
	assert.NoError(t, m.view.err)
	assert.Equal(t, highlight.LangPython, m.view.language)
	assert.Equal(t, 2, m.view.lines)
	assert.Equal(t, 12, m.view.chars)

	view := m.View()
	assert.Contains(t, view, "print")
	assert.Contains(t, view, "Lines: 2")
	assert.Contains(t, view, "Language: python")
}

func TestStaleContentIsDropped(t *testing.T) {
	m := newTestModel(t)
	m.view = viewerState{projectID: "upload/demo.zip", path: "main.py", loading: true}

	m.Update(contentMsg{projectID: "upload/demo.zip", path: "README.md", content: "# x"})
	assert.True(t, m.view.loading)
	assert.Zero(t, m.view.lines)
}

func TestContentErrorIsInline(t *testing.T) {
	m := newTestModel(t)
	m.view = viewerState{projectID: "foo/bar", path: "a.go", loading: true}

	m.Update(contentMsg{projectID: "foo/bar", path: "a.go", err: fmt.Errorf("%w: a.go", project.ErrContentUnavailable)})
	assert.Error(t, m.view.err)
	assert.Contains(t, m.renderViewer(80, 20), "Could not load file")
	assert.Empty(t, m.statusMsg)
}

func TestCycleProjectClearsViewer(t *testing.T) {
	m := newTestModel(t)
	importSync(t, m, demoZip(t))
	other := writeZip(t, "other.zip", map[string]string{"x.json": "{}"}, "x.json")
	importSync(t, m, other)
	assert.Equal(t, "upload/other.zip", m.store.Current().ID)

	_, cmd := m.Update(key("enter"))
	require.NotNil(t, cmd)
	m.Update(cmd())
	assert.Equal(t, "x.json", m.view.path)

	m.Update(key("p"))
	assert.Equal(t, "upload/demo.zip", m.store.Current().ID)
	assert.False(t, m.view.open())
	assert.Contains(t, m.statusMsg, "(1/2)")

	m.Update(key("p"))
	assert.Equal(t, "upload/other.zip", m.store.Current().ID)
}

func TestFocusSwitchScrollsViewer(t *testing.T) {
	m := newTestModel(t)
	m.Update(key("tab"))
	assert.Equal(t, paneViewer, m.focus)
	m.Update(key("j"))
	m.Update(key("tab"))
	assert.Equal(t, paneExplorer, m.focus)
}

func TestImportInputValidation(t *testing.T) {
	zipPath := demoZip(t)
	tests := []struct {
		input   string
		wantErr bool
	}{
		{input: "", wantErr: true},
		{input: "   ", wantErr: true},
		{input: "foo/bar"},
		{input: "https://github.com/foo/bar"},
		{input: "not a repo", wantErr: true},
		{input: "missing.zip", wantErr: true},
		{input: zipPath},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := validateImportInput(tt.input)
			if tt.wantErr {
				assert.NotEmpty(t, got)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestImportInputSubmitStartsImport(t *testing.T) {
	m := newTestModel(t)
	m.Update(key("i"))
	require.Equal(t, screen.TypeInput, m.screens.Type())

	for _, r := range "foo/bar" {
		m.Update(key(string(r)))
	}
	_, cmd := m.Update(key("enter"))
	require.NotNil(t, cmd)
	assert.Equal(t, "foo/bar", m.importing)
	assert.Equal(t, screen.TypeLoading, m.screens.Type())
	assert.Equal(t, []string{"foo/bar"}, m.history)
	assert.Contains(t, m.View(), "Importing foo/bar")
}

func TestHelpOverlay(t *testing.T) {
	m := newTestModel(t)
	m.Update(key("?"))
	assert.Equal(t, screen.TypeHelp, m.screens.Type())
	assert.Contains(t, m.View(), "key bindings")

	m.Update(key("q"))
	assert.False(t, m.screens.IsActive())
	assert.False(t, m.quitting, "q closes the help before quitting")
}

func TestContentStats(t *testing.T) {
	lines, chars := ContentStats("")
	assert.Equal(t, 1, lines)
	assert.Zero(t, chars)

	lines, chars = ContentStats("héllo\nworld")
	assert.Equal(t, 2, lines)
	assert.Equal(t, 11, chars)
}

func TestTopExtensions(t *testing.T) {
	got := topExtensions(map[string]int{"go": 3, "md": 1, "py": 3, "json": 2}, 3)
	assert.Equal(t, ".go 3, .py 3, .json 2", got)
	assert.Empty(t, topExtensions(nil, 3))
}

func TestOverlayPopupKeepsWidth(t *testing.T) {
	m := newTestModel(t)
	base := strings.Join([]string{"aaaaaaaaaa", "bbbbbbbbbb", "cccccccccc"}, "\n")
	got := m.overlayPopup(base, "XX", 1)
	assert.Equal(t, "aaaaaaaaaa\nbbbbXXbbbb\ncccccccccc", got)
}

func TestWorkspaceImportsOnStart(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ShowIcons = false
	tm := teatest.NewTestModel(
		t,
		NewModel(Deps{Config: cfg, Initial: []string{demoZip(t)}}),
		teatest.WithInitialTermSize(120, 40),
	)

	teatest.WaitFor(
		t, tm.Output(),
		func(bts []byte) bool {
			return bytes.Contains(bts, []byte("main.py"))
		},
		teatest.WithCheckInterval(50*time.Millisecond),
		teatest.WithDuration(3*time.Second),
	)

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	m, ok := tm.FinalModel(t).(*Model)
	require.True(t, ok)
	assert.True(t, m.quitting)
	require.Len(t, m.store.Projects(), 1)
	assert.Equal(t, "demo", m.store.Current().Name)
}
