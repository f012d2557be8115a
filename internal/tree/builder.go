// Package tree turns flat path listings into nested FileNode forests and
// provides the traversal helpers used by the explorer and the CLI.
package tree

import (
	"path"
	"strings"

	"github.com/chmouel/codemedic/internal/models"
)

// Entry is one flat path from a remote tree listing or an archive.
type Entry struct {
	Path       string
	Folder     bool
	Content    string
	HasContent bool
}

// NormalizePath cleans an entry path into the canonical slash form used as
// node identity: no leading "/" or "./", no trailing "/", no empty segments.
// It returns "" for paths that name the root itself.
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	parts := strings.Split(p, "/")
	kept := parts[:0]
	for _, part := range parts {
		if part == "" || part == "." {
			continue
		}
		kept = append(kept, part)
	}
	return strings.Join(kept, "/")
}

func parentPath(p string) string {
	idx := strings.LastIndex(p, "/")
	if idx < 0 {
		return ""
	}
	return p[:idx]
}

// Build converts entries into a forest of FileNodes.
//
// Every path gets exactly one node; ancestors that no entry lists are
// synthesised as folders. Children and roots keep the order in which their
// paths were first seen.
func Build(entries []Entry) []*models.FileNode {
	nodes := make(map[string]*models.FileNode, len(entries))
	order := make([]string, 0, len(entries))

	var ensureFolder func(p string)
	ensureFolder = func(p string) {
		if p == "" {
			return
		}
		if _, ok := nodes[p]; ok {
			return
		}
		ensureFolder(parentPath(p))
		nodes[p] = &models.FileNode{
			Name:     path.Base(p),
			Path:     p,
			Kind:     models.KindFolder,
			Children: []*models.FileNode{},
		}
		order = append(order, p)
	}

	for _, entry := range entries {
		p := NormalizePath(entry.Path)
		if p == "" {
			continue
		}

		// The first node for a path wins, including synthesised folders.
		if _, ok := nodes[p]; ok {
			continue
		}

		ensureFolder(parentPath(p))

		node := &models.FileNode{
			Name: path.Base(p),
			Path: p,
		}
		if entry.Folder {
			node.Kind = models.KindFolder
			node.Children = []*models.FileNode{}
		} else {
			node.Kind = models.KindFile
			node.Content = entry.Content
			node.HasContent = entry.HasContent
		}
		nodes[p] = node
		order = append(order, p)
	}

	roots := make([]*models.FileNode, 0)
	for _, p := range order {
		node := nodes[p]
		parent, ok := nodes[parentPath(p)]
		if !ok || !parent.IsFolder() {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}
	return roots
}
