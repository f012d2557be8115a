package tree

import (
	"sort"

	"github.com/chmouel/codemedic/internal/models"
)

// DefaultExpandDepth matches the explorer's behaviour of opening the first two levels.
const DefaultExpandDepth = 2

// Row is one visible line of the explorer.
type Row struct {
	Node     *models.FileNode
	Depth    int
	Expanded bool
}

// SortForDisplay returns a copy of nodes ordered folders first, then by
// case-sensitive name. Children are sorted recursively in new slices; the
// FileNodes themselves are shared, never mutated.
func SortForDisplay(nodes []*models.FileNode) []*models.FileNode {
	sorted := append([]*models.FileNode(nil), nodes...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.IsFolder() != b.IsFolder() {
			return a.IsFolder()
		}
		return a.Name < b.Name
	})
	return sorted
}

// Flatten returns the visible rows for nodes in display order. Folders are
// descended into only when expanded[path] is true.
func Flatten(nodes []*models.FileNode, expanded map[string]bool, depth int) []Row {
	rows := make([]Row, 0, len(nodes))
	for _, node := range SortForDisplay(nodes) {
		open := node.IsFolder() && expanded[node.Path]
		rows = append(rows, Row{Node: node, Depth: depth, Expanded: open})
		if open {
			rows = append(rows, Flatten(node.Children, expanded, depth+1)...)
		}
	}
	return rows
}

// DefaultExpanded returns the expansion set where every folder shallower than
// depth starts open.
func DefaultExpanded(nodes []*models.FileNode, depth int) map[string]bool {
	expanded := make(map[string]bool)
	var walk func(nodes []*models.FileNode, level int)
	walk = func(nodes []*models.FileNode, level int) {
		if level >= depth {
			return
		}
		for _, n := range nodes {
			if !n.IsFolder() {
				continue
			}
			expanded[n.Path] = true
			walk(n.Children, level+1)
		}
	}
	walk(nodes, 0)
	return expanded
}
