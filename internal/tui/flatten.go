package tui

import (
	"context"

	"foldertree/internal/model"
	"foldertree/internal/view"
)

// Row is one visible line of the tree.
type Row struct {
	Node  model.Node
	State model.VisualState
	Depth int
}

// Flatten walks the host from the root pseudo-node, descending only into
// directories whose visual state says they are expanded.
func Flatten(ctx context.Context, host view.Host) []Row {
	var rows []Row
	var walk func(parent *model.Node, depth int)
	walk = func(parent *model.Node, depth int) {
		for _, node := range host.Children(ctx, parent) {
			state := host.VisualState(node)
			rows = append(rows, Row{Node: node, State: state, Depth: depth})
			if state.Expanded {
				walk(&node, depth+1)
			}
		}
	}
	walk(nil, 0)
	return rows
}

// parentIdx finds the row of the node that contains rows[idx].
func parentIdx(rows []Row, idx int) int {
	depth := rows[idx].Depth
	for i := idx - 1; i >= 0; i-- {
		if rows[i].Depth < depth {
			return i
		}
	}
	return -1
}
