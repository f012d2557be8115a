package archive

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/chmouel/codemedic/internal/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type zipItem struct {
	name string
	body []byte
}

func buildZip(t *testing.T, items ...zipItem) *bytes.Reader {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, item := range items {
		w, err := zw.Create(item.name)
		require.NoError(t, err)
		if !strings.HasSuffix(item.name, "/") {
			_, err = w.Write(item.body)
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
	return bytes.NewReader(buf.Bytes())
}

func entryPaths(entries []tree.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Path)
	}
	return out
}

func TestExpandKeepsContentAndFolders(t *testing.T) {
	r := buildZip(t,
		zipItem{name: "src/"},
		zipItem{name: "src/main.go", body: []byte("package main\n")},
		zipItem{name: "README.md", body: []byte("# hi\n")},
	)

	entries, err := Expand(r, r.Size(), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"src", "src/main.go", "README.md"}, entryPaths(entries))
	assert.True(t, entries[0].Folder)
	assert.Equal(t, "package main\n", entries[1].Content)
	assert.True(t, entries[1].HasContent)
}

func TestExpandStripsSharedRoot(t *testing.T) {
	r := buildZip(t,
		zipItem{name: "project-main/"},
		zipItem{name: "project-main/go.mod", body: []byte("module x\n")},
		zipItem{name: "project-main/cmd/x/main.go", body: []byte("package main\n")},
	)

	entries, err := Expand(r, r.Size(), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"go.mod", "cmd/x/main.go"}, entryPaths(entries))

	r = buildZip(t,
		zipItem{name: "project-main/go.mod", body: []byte("module x\n")},
	)
	entries, err = Expand(r, r.Size(), Options{KeepRoot: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"project-main/go.mod"}, entryPaths(entries))
}

func TestExpandDoesNotStripWhenRootsDiffer(t *testing.T) {
	r := buildZip(t,
		zipItem{name: "a/x.txt", body: []byte("x")},
		zipItem{name: "b/y.txt", body: []byte("y")},
	)

	entries, err := Expand(r, r.Size(), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a/x.txt", "b/y.txt"}, entryPaths(entries))
}

func TestExpandSkipsJunk(t *testing.T) {
	r := buildZip(t,
		zipItem{name: "__MACOSX/._a.txt", body: []byte{0, 1}},
		zipItem{name: "docs/.DS_Store", body: []byte{0, 1}},
		zipItem{name: "docs/a.txt", body: []byte("a")},
		zipItem{name: "b.txt", body: []byte("b")},
	)

	entries, err := Expand(r, r.Size(), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"docs/a.txt", "b.txt"}, entryPaths(entries))
}

func TestExpandProgress(t *testing.T) {
	r := buildZip(t,
		zipItem{name: "dir/"},
		zipItem{name: "dir/1.txt", body: []byte("1")},
		zipItem{name: "dir/2.txt", body: []byte("2")},
		zipItem{name: "3.txt", body: []byte("3")},
	)

	var calls [][2]int
	_, err := Expand(r, r.Size(), Options{Progress: func(done, total int) {
		calls = append(calls, [2]int{done, total})
	}})
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{1, 3}, {2, 3}, {3, 3}}, calls)
}

func TestExpandCorruptArchive(t *testing.T) {
	data := []byte("definitely not a zip")
	_, err := Expand(bytes.NewReader(data), int64(len(data)), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrImport)
}

func TestExpandBinaryAndTruncated(t *testing.T) {
	r := buildZip(t,
		zipItem{name: "logo.png", body: []byte{0x89, 'P', 'N', 'G', 0, 0, 0}},
		zipItem{name: "big.txt", body: []byte(strings.Repeat("a", 64))},
	)

	entries, err := Expand(r, r.Size(), Options{MaxFileBytes: 16})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, BinaryPlaceholder, entries[0].Content)
	assert.True(t, strings.HasPrefix(entries[1].Content, strings.Repeat("a", 16)))
	assert.Contains(t, entries[1].Content, "truncated")
}

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
		ok   bool
	}{
		{name: "utf8", in: []byte("héllo"), want: "héllo", ok: true},
		{name: "utf8 bom", in: append([]byte{0xEF, 0xBB, 0xBF}, []byte("x")...), want: "x", ok: true},
		{name: "utf16le bom", in: []byte{0xFF, 0xFE, 'h', 0, 'i', 0}, want: "hi", ok: true},
		{name: "utf16be bom", in: []byte{0xFE, 0xFF, 0, 'h', 0, 'i'}, want: "hi", ok: true},
		{name: "windows-1252", in: []byte{'c', 'a', 'f', 0xE9}, want: "café", ok: true},
		{name: "binary", in: []byte{'a', 0, 'b'}, ok: false},
		{name: "empty", in: []byte{}, want: "", ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DecodeText(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
