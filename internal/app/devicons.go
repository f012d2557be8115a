package app

import (
	"os"
	"time"

	devicons "github.com/epilande/go-devicons"
)

// iconFileInfo lets devicons resolve icons for tree nodes that only exist in
// memory.
type iconFileInfo struct {
	name  string
	isDir bool
}

func (i iconFileInfo) Name() string { return i.name }

func (i iconFileInfo) Size() int64 { return 0 }

func (i iconFileInfo) Mode() os.FileMode {
	if i.isDir {
		return os.ModeDir | 0o755
	}
	return 0
}

func (i iconFileInfo) ModTime() time.Time { return time.Time{} }

func (i iconFileInfo) IsDir() bool { return i.isDir }

func (i iconFileInfo) Sys() any { return nil }

const (
	iconFolderOpen   = ""
	iconFolderClosed = ""
)

// DeviconForName returns the nerd font icon for a file or folder name.
func DeviconForName(name string, isDir bool) string {
	if name == "" {
		return ""
	}
	if isDir {
		return iconFolderClosed
	}
	style := devicons.IconForInfo(iconFileInfo{name: name, isDir: isDir})
	return style.Icon
}

func folderIcon(open bool) string {
	if open {
		return iconFolderOpen
	}
	return iconFolderClosed
}

func iconWithSpace(icon string) string {
	if icon == "" {
		return ""
	}
	return icon + " "
}
