// SPDX-License-Identifier: MPL-2.0

// Package luadep resolves the transitive module dependencies of a Lua script.
//
// Given an entry script, a set of search roots, and a dependency budget, the
// engine scans static require statements, locates each module on the roots,
// and builds a directed graph over distinct files. The graph is linearized
// into a deterministic manifest: entry script first, auto-discovered modules
// in breadth-first discovery order, manually declared extras at the tail.
//
// The engine is a stateless function of its inputs: it reads files, performs
// no network I/O, and keeps nothing between runs. Cycles in the module graph
// are absorbed (a revisited file becomes a back-edge, never a second node),
// and all failure modes are typed errors that identify the offending file.
package luadep
