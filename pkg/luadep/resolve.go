// SPDX-License-Identifier: MPL-2.0

package luadep

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type (
	// Request describes one resolution run. All inputs are explicit; the
	// engine keeps no state between runs.
	Request struct {
		// Entry is the path of the entry script. It must exist and carry
		// the source extension.
		Entry string
		// SearchRoots are the ordered directories for module-name
		// resolution. Empty means name-based resolution is disabled and
		// only manual extras can contribute files.
		SearchRoots []string
		// ManualExtras are dependency file paths declared directly by the
		// caller, appended after traversal in the given order. Extras that
		// duplicate an auto-discovered path are dropped silently.
		ManualExtras []string
		// MaxNodes is the ceiling on discovered dependencies, entry script
		// excluded. It must be positive.
		MaxNodes int
		// SkipScan disables require scanning entirely: the manifest is the
		// entry script plus the manual extras.
		SkipScan bool
		// AnalyzeOnly marks the run as diagnostic. It is required for
		// BestEffort and recorded on the Resolution.
		AnalyzeOnly bool
		// BestEffort converts unresolved module names into recorded
		// entries instead of hard failures. Only honored together with
		// AnalyzeOnly; production manifests always fail on the first
		// unresolved dependency.
		BestEffort bool
	}

	// UnresolvedRef records a module reference that best-effort analysis
	// could not locate.
	UnresolvedRef struct {
		// Module is the module name (or manual extra path).
		Module string
		// From is the file that referenced it; empty for manual extras.
		From string
	}
)

// Resolve builds the dependency graph for a request and assembles its
// manifest. Traversal is breadth-first by discovery order and strictly
// sequential, so repeated runs over an unchanged tree produce identical
// manifests. The context is honored at every queue-pop boundary; on error or
// cancellation no partial result is returned.
func Resolve(ctx context.Context, req Request) (*Resolution, error) {
	if req.MaxNodes <= 0 {
		return nil, fmt.Errorf("max nodes must be positive, got %d", req.MaxNodes)
	}
	bestEffort := req.BestEffort && req.AnalyzeOnly

	loc := NewLocator(req.SearchRoots)

	entry, err := validateEntry(req.Entry, loc.Ext)
	if err != nil {
		return nil, err
	}

	g := newGraph()
	g.add(entry, OriginAuto)

	res := &Resolution{Entry: entry, AnalyzeOnly: req.AnalyzeOnly, graph: g}

	if !req.SkipScan {
		if err := traverse(ctx, g, loc, req.MaxNodes, bestEffort, res); err != nil {
			return nil, err
		}
	} else {
		g.markResolved(0)
	}

	if err := appendExtras(g, req.ManualExtras, bestEffort, res); err != nil {
		return nil, err
	}

	res.Manifest = assembleManifest(g)
	res.Nodes = append([]Node(nil), g.nodes...)
	return res, nil
}

// validateEntry checks existence and extension of the entry script and
// returns its absolute path.
func validateEntry(entry, ext string) (string, error) {
	if !strings.HasSuffix(entry, ext) {
		return "", &EntryNotFoundError{Path: entry, Reason: "expected a " + ext + " file"}
	}
	if !fileExists(entry) {
		return "", &EntryNotFoundError{Path: entry}
	}
	abs, err := filepath.Abs(entry)
	if err != nil {
		return "", &EntryNotFoundError{Path: entry, Reason: err.Error()}
	}
	return abs, nil
}

// traverse runs the breadth-first walk: pop a node, scan it, locate each
// reference, and enqueue files not seen before. Revisiting a known file only
// adds an edge, which is how cycles are absorbed.
func traverse(ctx context.Context, g *Graph, loc *Locator, maxNodes int, bestEffort bool, res *Resolution) error {
	queue := []int{0}
	deps := 0

	for len(queue) > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		idx := queue[0]
		queue = queue[1:]
		node := g.nodes[idx]

		src, err := os.ReadFile(node.Path)
		if err != nil {
			// The file was located earlier in the run; treat a read failure
			// as the dependency having become unresolvable.
			return &UnresolvedDependencyError{Module: node.Path, From: "", Searched: nil}
		}

		refs, err := ExtractRequires(string(src), node.Path)
		if err != nil {
			return err
		}

		seen := make(map[string]bool)
		for _, ref := range refs {
			path, err := loc.Resolve(ref.Module, node.Path)
			if err != nil {
				if bestEffort && errors.Is(err, ErrUnresolvedDependency) {
					res.Unresolved = append(res.Unresolved, UnresolvedRef{Module: ref.Module, From: node.Path})
					continue
				}
				return err
			}
			if seen[path] {
				continue
			}
			seen[path] = true

			if child, ok := g.lookup(path); ok {
				g.addEdge(idx, child)
				continue
			}
			if deps+1 > maxNodes {
				return &BudgetExceededError{Module: ref.Module, From: node.Path, Limit: maxNodes}
			}
			deps++
			child := g.add(path, OriginAuto)
			g.addEdge(idx, child)
			queue = append(queue, child)
		}

		g.markResolved(idx)
	}

	return nil
}

// appendExtras folds the manual-extras list into the graph: a direct file
// existence check per path (no module-name resolution), appended in caller
// order, with auto-discovered duplicates dropped silently.
func appendExtras(g *Graph, extras []string, bestEffort bool, res *Resolution) error {
	for _, extra := range extras {
		if !fileExists(extra) {
			if bestEffort {
				res.Unresolved = append(res.Unresolved, UnresolvedRef{Module: extra})
				continue
			}
			return &UnresolvedDependencyError{Module: extra}
		}
		abs, err := filepath.Abs(extra)
		if err != nil {
			return &UnresolvedDependencyError{Module: extra}
		}
		if _, ok := g.lookup(abs); ok {
			continue
		}
		idx := g.add(abs, OriginManual)
		g.markResolved(idx)
	}
	return nil
}
