// Package archive expands ZIP archives into tree entries with eagerly
// decoded text content.
package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/chmouel/codemedic/internal/tree"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrImport is returned for corrupt or unreadable archives.
var ErrImport = errors.New("archive import failed")

const (
	// DefaultMaxFileBytes caps the content kept per file.
	DefaultMaxFileBytes = 1 << 20

	binarySniffLen = 8000

	// BinaryPlaceholder replaces the content of files that are not text.
	BinaryPlaceholder = "// Binary file not shown"
	truncatedMarker   = "\n// ... truncated ..."
)

// ProgressFunc receives the number of processed file entries out of total.
type ProgressFunc func(done, total int)

// Options tunes expansion.
type Options struct {
	// MaxFileBytes truncates larger files. Zero means DefaultMaxFileBytes.
	MaxFileBytes int64
	// KeepRoot disables stripping a single top-level directory shared by every entry.
	KeepRoot bool
	// Progress is called after every file entry.
	Progress ProgressFunc
}

// Expand reads a ZIP archive and returns its entries. Directory entries are
// returned as folders; everything else carries decoded content.
func Expand(r io.ReaderAt, size int64, opts Options) ([]tree.Entry, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImport, err)
	}

	maxBytes := opts.MaxFileBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxFileBytes
	}

	files := make([]*zip.File, 0, len(zr.File))
	for _, f := range zr.File {
		if isJunk(f.Name) {
			continue
		}
		files = append(files, f)
	}

	prefix := ""
	if !opts.KeepRoot {
		prefix = commonRoot(files)
	}

	total := 0
	for _, f := range files {
		if !f.FileInfo().IsDir() {
			total++
		}
	}

	entries := make([]tree.Entry, 0, len(files))
	done := 0
	for _, f := range files {
		name := tree.NormalizePath(f.Name)
		if prefix != "" {
			if name == strings.TrimSuffix(prefix, "/") {
				continue
			}
			name = strings.TrimPrefix(name, prefix)
		}
		if name == "" {
			continue
		}

		if f.FileInfo().IsDir() {
			entries = append(entries, tree.Entry{Path: name, Folder: true})
			continue
		}

		content, err := readText(f, maxBytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrImport, f.Name, err)
		}
		entries = append(entries, tree.Entry{Path: name, Content: content, HasContent: true})

		done++
		if opts.Progress != nil {
			opts.Progress(done, total)
		}
	}

	return entries, nil
}

// isJunk filters metadata that archivers on macOS add.
func isJunk(name string) bool {
	clean := tree.NormalizePath(name)
	if clean == "__MACOSX" || strings.HasPrefix(clean, "__MACOSX/") {
		return true
	}
	return path.Base(clean) == ".DS_Store"
}

// commonRoot returns "dir/" when every entry lives under the same top-level
// directory, as in GitHub's "Download ZIP" archives.
func commonRoot(files []*zip.File) string {
	root := ""
	sawNested := false
	for _, f := range files {
		name := tree.NormalizePath(f.Name)
		if name == "" {
			continue
		}
		first, rest, nested := strings.Cut(name, "/")
		if !nested && !f.FileInfo().IsDir() {
			return ""
		}
		if root == "" {
			root = first
		} else if first != root {
			return ""
		}
		if nested && rest != "" {
			sawNested = true
		}
	}
	if root == "" || !sawNested {
		return ""
	}
	return root + "/"
}

func readText(f *zip.File, maxBytes int64) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(io.LimitReader(rc, maxBytes+1))
	if err != nil {
		return "", err
	}
	truncated := int64(len(data)) > maxBytes
	if truncated {
		data = data[:maxBytes]
		// do not split a multi-byte rune at the cut
		for i := 0; i < utf8.UTFMax-1 && len(data) > 0 && !utf8.Valid(data); i++ {
			data = data[:len(data)-1]
		}
	}

	text, ok := DecodeText(data)
	if !ok {
		return BinaryPlaceholder, nil
	}
	if truncated {
		text += truncatedMarker
	}
	return text, nil
}

// DecodeText converts raw file bytes to UTF-8. UTF-8 (with or without BOM) is
// kept, UTF-16 with a BOM is transcoded, other invalid UTF-8 is read as
// Windows-1252. The boolean is false for binary data.
func DecodeText(data []byte) (string, bool) {
	switch {
	case bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}):
		return string(data[3:]), true
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}), bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		return transcode(data, unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM))
	}

	sniff := data
	if len(sniff) > binarySniffLen {
		sniff = sniff[:binarySniffLen]
	}
	if bytes.IndexByte(sniff, 0) >= 0 {
		return "", false
	}

	if utf8.Valid(data) {
		return string(data), true
	}
	return transcode(data, charmap.Windows1252)
}

func transcode(data []byte, enc encoding.Encoding) (string, bool) {
	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", false
	}
	return string(out), true
}
