// SPDX-License-Identifier: MPL-2.0

package luadep

import (
	"path/filepath"
	"strings"
)

type (
	// Origin records how a node entered the graph.
	Origin int

	// NodeState tracks a node's position in the traversal lifecycle.
	NodeState int

	// Node is one resolved file in the dependency graph.
	Node struct {
		// Path is the resolved absolute file path.
		Path string
		// Origin is auto (found by scanning) or manual (declared by the caller).
		Origin Origin
		// Index is the discovery index: the order in which the node was
		// first reached. The entry script is always index 0.
		Index int
		// State is the traversal state of the node.
		State NodeState
	}

	// Graph is the dependency graph: an arena of nodes indexed by resolved
	// path, with parent->child edges stored as index pairs. A path already
	// present is never added twice, which is how cycles collapse to
	// back-edges instead of recursion.
	Graph struct {
		nodes  []Node
		byPath map[string]int
		// children holds each node's outgoing edges in first-reference
		// order, deduplicated per parent.
		children [][]int
	}
)

const (
	// OriginAuto marks a node discovered by scanning require statements.
	OriginAuto Origin = iota
	// OriginManual marks a node declared directly by the caller.
	OriginManual
)

const (
	// StatePending means the node is queued but not yet scanned.
	StatePending NodeState = iota
	// StateResolved means the node's scan completed.
	StateResolved
)

// String returns a human-readable origin name.
func (o Origin) String() string {
	if o == OriginManual {
		return "manual"
	}
	return "auto"
}

// newGraph creates an empty Graph.
func newGraph() *Graph {
	return &Graph{byPath: make(map[string]int)}
}

// lookup returns the index of the node for path, if present.
func (g *Graph) lookup(path string) (int, bool) {
	idx, ok := g.byPath[path]
	return idx, ok
}

// add inserts a node for path with the next discovery index and returns the
// index. The caller must have checked that the path is not already present.
func (g *Graph) add(path string, origin Origin) int {
	idx := len(g.nodes)
	g.nodes = append(g.nodes, Node{Path: path, Origin: origin, Index: idx})
	g.byPath[path] = idx
	g.children = append(g.children, nil)
	return idx
}

// addEdge records that the scan of parent produced a reference to child.
// Repeated references from the same parent are collapsed.
func (g *Graph) addEdge(parent, child int) {
	for _, c := range g.children[parent] {
		if c == child {
			return
		}
	}
	g.children[parent] = append(g.children[parent], child)
}

// markResolved moves a node out of the pending state.
func (g *Graph) markResolved(idx int) {
	g.nodes[idx].State = StateResolved
}

// paths returns every node path in discovery order.
func (g *Graph) paths() []string {
	out := make([]string, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = n.Path
	}
	return out
}

// renderTree writes an indented tree of the graph rooted at node 0. Each
// node's children are expanded only at its first appearance; later
// appearances (shared dependencies, back-edges from cycles) print the name
// alone, which keeps the rendering finite.
func (g *Graph) renderTree() string {
	if len(g.nodes) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(filepath.Base(g.nodes[0].Path))
	b.WriteByte('\n')
	expanded := make([]bool, len(g.nodes))
	expanded[0] = true
	g.renderChildren(&b, 0, "", expanded)
	return b.String()
}

func (g *Graph) renderChildren(b *strings.Builder, idx int, prefix string, expanded []bool) {
	kids := g.children[idx]
	for i, child := range kids {
		last := i == len(kids)-1
		connector, childPrefix := "├── ", prefix+"│   "
		if last {
			connector, childPrefix = "└── ", prefix+"    "
		}
		b.WriteString(prefix + connector + filepath.Base(g.nodes[child].Path))
		if expanded[child] {
			b.WriteString(" (shared)")
			b.WriteByte('\n')
			continue
		}
		b.WriteByte('\n')
		expanded[child] = true
		g.renderChildren(b, child, childPrefix, expanded)
	}
}
