// SPDX-License-Identifier: MPL-2.0

package luadep

type (
	// Manifest is the final ordered, deduplicated list of file paths to hand
	// to the build toolchain. The entry script is always the first element;
	// auto-discovered files follow in discovery order; manual-only extras
	// form the tail in caller order.
	Manifest []string

	// Resolution is the result of one resolution run: the manifest plus the
	// per-node metadata needed for verbose and diagnostic reporting.
	Resolution struct {
		// Entry is the absolute path of the entry script.
		Entry string
		// Manifest is the ordered file list.
		Manifest Manifest
		// Nodes are the graph nodes in discovery order.
		Nodes []Node
		// Unresolved records references that best-effort analysis could
		// not locate. Always empty in strict mode.
		Unresolved []UnresolvedRef
		// AnalyzeOnly marks a diagnostic run whose manifest must not be
		// handed to the build toolchain.
		AnalyzeOnly bool

		graph *Graph
	}
)

// assembleManifest linearizes the finished graph into a Manifest. It is a
// pure function of the node arena: nodes already sit in discovery order with
// manual extras at the tail, so the manifest is the path of every node in
// index order.
func assembleManifest(g *Graph) Manifest {
	return Manifest(g.paths())
}

// Dependencies returns the manifest without its leading entry script.
func (m Manifest) Dependencies() []string {
	if len(m) <= 1 {
		return nil
	}
	return m[1:]
}

// Tree renders the dependency graph as an indented tree rooted at the entry
// script, for the analyze command.
func (r *Resolution) Tree() string {
	return r.graph.renderTree()
}
