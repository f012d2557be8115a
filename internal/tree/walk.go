package tree

import (
	"path"
	"sort"
	"strings"

	"github.com/chmouel/codemedic/internal/models"
)

// Find resolves a path with a depth-first search. It returns nil when no node matches.
func Find(nodes []*models.FileNode, p string) *models.FileNode {
	p = NormalizePath(p)
	for _, node := range nodes {
		if node.Path == p {
			return node
		}
		if found := Find(node.Children, p); found != nil {
			return found
		}
	}
	return nil
}

// Walk visits every node depth-first in tree order. Returning false from fn
// stops the walk.
func Walk(nodes []*models.FileNode, fn func(*models.FileNode) bool) bool {
	for _, node := range nodes {
		if !fn(node) {
			return false
		}
		if !Walk(node.Children, fn) {
			return false
		}
	}
	return true
}

// Stats summarises a project tree.
type Stats struct {
	Files        int
	Folders      int
	Extensions   map[string]int
	MainLanguage string
}

// Extension returns the lower-cased text after the last dot of name, or "" if
// there is none.
func Extension(name string) string {
	ext := path.Ext(name)
	if ext == "" || ext == name {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// ComputeStats counts files and folders and picks the most common file
// extension as the main language. Ties go to the alphabetically first
// extension so the result is stable.
func ComputeStats(nodes []*models.FileNode) Stats {
	stats := Stats{Extensions: make(map[string]int), MainLanguage: "Unknown"}
	Walk(nodes, func(n *models.FileNode) bool {
		if n.IsFolder() {
			stats.Folders++
			return true
		}
		stats.Files++
		if ext := Extension(n.Name); ext != "" {
			stats.Extensions[ext]++
		}
		return true
	})

	exts := make([]string, 0, len(stats.Extensions))
	for ext := range stats.Extensions {
		exts = append(exts, ext)
	}
	sort.Slice(exts, func(i, j int) bool {
		ci, cj := stats.Extensions[exts[i]], stats.Extensions[exts[j]]
		if ci != cj {
			return ci > cj
		}
		return exts[i] < exts[j]
	})
	if len(exts) > 0 {
		stats.MainLanguage = strings.ToUpper(exts[0])
	}
	return stats
}
