// Package models defines the data objects shared across codemedic packages.
package models

import "time"

// Kind distinguishes files from folders in a project tree.
type Kind string

const (
	// KindFile is a leaf node carrying (or resolving to) text content.
	KindFile Kind = "file"
	// KindFolder is a node that only holds children.
	KindFolder Kind = "folder"
)

// Origin tells the content fetcher where a project's files come from.
type Origin string

const (
	// OriginGitHub projects fetch file content from the GitHub contents API on demand.
	OriginGitHub Origin = "github"
	// OriginArchive projects carry eagerly materialised content in their nodes.
	OriginArchive Origin = "archive"
)

// FileNode represents one file or folder of an imported project.
type FileNode struct {
	Name       string      // Last path segment
	Path       string      // Slash-delimited path from the project root, unique per project
	Kind       Kind        // KindFile or KindFolder
	Content    string      // Materialised content, archive projects only
	HasContent bool        // Whether Content was materialised (an empty file is still content)
	Children   []*FileNode // Folder children in encounter order, nil for files
}

// IsFolder reports whether the node is a folder.
func (n *FileNode) IsFolder() bool {
	return n != nil && n.Kind == KindFolder
}

// IsFile reports whether the node is a file.
func (n *FileNode) IsFile() bool {
	return n != nil && n.Kind == KindFile
}

// Project represents one imported codebase.
type Project struct {
	ID        string // owner/repo for GitHub, upload/<archive> for archives
	ImportID  string // Unique per import, used to correlate debug log lines
	Name      string
	Owner     string
	Repo      string
	Branch    string // Branch the tree was read from, GitHub only
	SourceURL string // Reference or archive name exactly as supplied
	Origin    Origin
	Truncated bool // GitHub reported a truncated recursive tree
	CreatedAt time.Time
	Files     []*FileNode
}

// Contains reports whether node belongs to this project's tree.
func (p *Project) Contains(node *FileNode) bool {
	if p == nil || node == nil {
		return false
	}
	var walk func(nodes []*FileNode) bool
	walk = func(nodes []*FileNode) bool {
		for _, n := range nodes {
			if n == node {
				return true
			}
			if walk(n.Children) {
				return true
			}
		}
		return false
	}
	return walk(p.Files)
}
