// SPDX-License-Identifier: MPL-2.0

package luadep

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"
)

// resolveProject writes a fixture tree and resolves its entry with sensible
// defaults, returning the result. Callers that need custom request fields use
// Resolve directly.
func resolveProject(t *testing.T, files map[string]string, entry string) (*Resolution, error) {
	t.Helper()
	root := t.TempDir()
	paths := make(map[string]string, len(files))
	for rel, content := range files {
		paths[rel] = writeFile(t, root, rel, content)
	}
	return Resolve(context.Background(), Request{
		Entry:       paths[entry],
		SearchRoots: []string{root},
		MaxNodes:    36,
	})
}

func TestResolve_LinearChain(t *testing.T) {
	t.Parallel()

	res, err := resolveProject(t, map[string]string{
		"a.lua": `require("b")`,
		"b.lua": `require("c")`,
		"c.lua": `local x = 1`,
	}, "a.lua")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := manifestBases(res.Manifest)
	want := []string{"a.lua", "b.lua", "c.lua"}
	if !slices.Equal(got, want) {
		t.Errorf("manifest = %v, want %v", got, want)
	}
}

func TestResolve_SharedDependencyAppearsOnce(t *testing.T) {
	t.Parallel()

	res, err := resolveProject(t, map[string]string{
		"a.lua": "require('b')\nrequire('c')\n",
		"b.lua": `require("c")`,
		"c.lua": "",
	}, "a.lua")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := manifestBases(res.Manifest)
	want := []string{"a.lua", "b.lua", "c.lua"}
	if !slices.Equal(got, want) {
		t.Errorf("manifest = %v, want %v", got, want)
	}
}

func TestResolve_CycleTerminates(t *testing.T) {
	t.Parallel()

	res, err := resolveProject(t, map[string]string{
		"a.lua": `require("b")`,
		"b.lua": `require("a")`,
	}, "a.lua")
	if err != nil {
		t.Fatalf("cycle must not fail resolution: %v", err)
	}

	got := manifestBases(res.Manifest)
	want := []string{"a.lua", "b.lua"}
	if !slices.Equal(got, want) {
		t.Errorf("manifest = %v, want %v", got, want)
	}
}

func TestResolve_SelfRequire(t *testing.T) {
	t.Parallel()

	res, err := resolveProject(t, map[string]string{
		"a.lua": `require("a")`,
	}, "a.lua")
	if err != nil {
		t.Fatalf("self-require must not fail resolution: %v", err)
	}
	if len(res.Manifest) != 1 {
		t.Errorf("manifest = %v, want single entry", res.Manifest)
	}
}

func TestResolve_BreadthFirstOrder(t *testing.T) {
	t.Parallel()

	// a pulls b and c directly; b pulls d. Breadth-first discovery puts both
	// of a's direct references before b's.
	res, err := resolveProject(t, map[string]string{
		"a.lua": "require('b')\nrequire('c')\n",
		"b.lua": `require("d")`,
		"c.lua": "",
		"d.lua": "",
	}, "a.lua")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := manifestBases(res.Manifest)
	want := []string{"a.lua", "b.lua", "c.lua", "d.lua"}
	if !slices.Equal(got, want) {
		t.Errorf("manifest = %v, want %v", got, want)
	}
}

func TestResolve_Determinism(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	entry := writeFile(t, root, "a.lua", "require('x')\nrequire('y')\nrequire('z')\n")
	writeFile(t, root, "x.lua", "require('y')")
	writeFile(t, root, "y.lua", "require('z')")
	writeFile(t, root, "z.lua", "")

	req := Request{Entry: entry, SearchRoots: []string{root}, MaxNodes: 36}

	first, err := Resolve(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Resolve(context.Background(), req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !slices.Equal(first.Manifest, again.Manifest) {
			t.Fatalf("run %d manifest differs: %v vs %v", i, again.Manifest, first.Manifest)
		}
	}
}

func TestResolve_BudgetExceeded(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	entry := writeFile(t, root, "a.lua", "require('b')\nrequire('c')\nrequire('d')\n")
	writeFile(t, root, "b.lua", "")
	writeFile(t, root, "c.lua", "")
	writeFile(t, root, "d.lua", "")

	_, err := Resolve(context.Background(), Request{
		Entry:       entry,
		SearchRoots: []string{root},
		MaxNodes:    2,
	})
	if !errors.Is(err, ErrBudgetExceeded) {
		t.Fatalf("expected ErrBudgetExceeded, got %v", err)
	}
	var bee *BudgetExceededError
	if !errors.As(err, &bee) {
		t.Fatalf("error is not *BudgetExceededError: %v", err)
	}
	// The third new module is the one that overflows a budget of two.
	if bee.Module != "d" {
		t.Errorf("overflow module = %q, want d", bee.Module)
	}
	if bee.Limit != 2 {
		t.Errorf("limit = %d, want 2", bee.Limit)
	}
}

func TestResolve_BudgetExactFitSucceeds(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	entry := writeFile(t, root, "a.lua", "require('b')\nrequire('c')\n")
	writeFile(t, root, "b.lua", "")
	writeFile(t, root, "c.lua", "")

	res, err := Resolve(context.Background(), Request{
		Entry:       entry,
		SearchRoots: []string{root},
		MaxNodes:    2,
	})
	if err != nil {
		t.Fatalf("two dependencies must fit a budget of two: %v", err)
	}
	if len(res.Manifest) != 3 {
		t.Errorf("manifest = %v, want 3 files", res.Manifest)
	}
}

func TestResolve_ManualExtras(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	entry := writeFile(t, root, "a.lua", "require('b')")
	auto := writeFile(t, root, "b.lua", "")
	extra1 := writeFile(t, root, "assets/data.lua", "")
	extra2 := writeFile(t, root, "assets/more.lua", "")

	res, err := Resolve(context.Background(), Request{
		Entry:        entry,
		SearchRoots:  []string{root},
		ManualExtras: []string{extra2, extra1},
		MaxNodes:     36,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Manifest{entry, auto, extra2, extra1}
	if !slices.Equal(res.Manifest, want) {
		t.Errorf("manifest = %v, want %v (extras appended in caller order)", res.Manifest, want)
	}

	origins := map[string]Origin{}
	for _, n := range res.Nodes {
		origins[n.Path] = n.Origin
	}
	if origins[auto] != OriginAuto || origins[extra1] != OriginManual {
		t.Errorf("unexpected origins: %v", origins)
	}
}

func TestResolve_ManualDuplicateOfAutoDropped(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	entry := writeFile(t, root, "a.lua", "require('b')")
	auto := writeFile(t, root, "b.lua", "")

	res, err := Resolve(context.Background(), Request{
		Entry:        entry,
		SearchRoots:  []string{root},
		ManualExtras: []string{auto},
		MaxNodes:     36,
	})
	if err != nil {
		t.Fatalf("duplicate manual extra must not fail: %v", err)
	}

	// Auto wins: the path stays at its discovery position and appears once.
	want := Manifest{entry, auto}
	if !slices.Equal(res.Manifest, want) {
		t.Errorf("manifest = %v, want %v", res.Manifest, want)
	}
	if res.Nodes[1].Origin != OriginAuto {
		t.Errorf("duplicated path origin = %v, want auto", res.Nodes[1].Origin)
	}
}

func TestResolve_ManualExtraMissing(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	entry := writeFile(t, root, "a.lua", "")

	_, err := Resolve(context.Background(), Request{
		Entry:        entry,
		ManualExtras: []string{root + "/nope.lua"},
		MaxNodes:     36,
	})
	if !errors.Is(err, ErrUnresolvedDependency) {
		t.Fatalf("expected ErrUnresolvedDependency for missing extra, got %v", err)
	}
}

func TestResolve_EntryErrors(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	notLua := writeFile(t, root, "script.txt", "")

	tests := []struct {
		name  string
		entry string
	}{
		{name: "missing file", entry: root + "/ghost.lua"},
		{name: "wrong extension", entry: notLua},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Resolve(context.Background(), Request{Entry: tt.entry, MaxNodes: 36})
			if !errors.Is(err, ErrEntryNotFound) {
				t.Fatalf("expected ErrEntryNotFound, got %v", err)
			}
		})
	}
}

func TestResolve_UnsupportedRequireIsTerminal(t *testing.T) {
	t.Parallel()

	_, err := resolveProject(t, map[string]string{
		"a.lua": `require(modname)`,
	}, "a.lua")
	if !errors.Is(err, ErrUnsupportedRequire) {
		t.Fatalf("expected ErrUnsupportedRequire, got %v", err)
	}
}

func TestResolve_UnresolvedIsTerminal(t *testing.T) {
	t.Parallel()

	_, err := resolveProject(t, map[string]string{
		"a.lua": `require("nowhere")`,
	}, "a.lua")
	if !errors.Is(err, ErrUnresolvedDependency) {
		t.Fatalf("expected ErrUnresolvedDependency, got %v", err)
	}
}

func TestResolve_BestEffortRecordsUnresolved(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	entry := writeFile(t, root, "a.lua", "require('b')\nrequire('missing')\n")
	auto := writeFile(t, root, "b.lua", "")

	res, err := Resolve(context.Background(), Request{
		Entry:       entry,
		SearchRoots: []string{root},
		MaxNodes:    36,
		AnalyzeOnly: true,
		BestEffort:  true,
	})
	if err != nil {
		t.Fatalf("best-effort analysis must not fail on unresolved: %v", err)
	}

	want := Manifest{entry, auto}
	if !slices.Equal(res.Manifest, want) {
		t.Errorf("manifest = %v, want %v (unresolved excluded)", res.Manifest, want)
	}
	if len(res.Unresolved) != 1 || res.Unresolved[0].Module != "missing" {
		t.Errorf("unresolved = %+v, want one entry for missing", res.Unresolved)
	}
}

func TestResolve_BestEffortRequiresAnalyzeOnly(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	entry := writeFile(t, root, "a.lua", "require('missing')\n")

	_, err := Resolve(context.Background(), Request{
		Entry:       entry,
		SearchRoots: []string{root},
		MaxNodes:    36,
		BestEffort:  true, // without AnalyzeOnly: still strict
	})
	if !errors.Is(err, ErrUnresolvedDependency) {
		t.Fatalf("best-effort without analyze mode must stay strict, got %v", err)
	}
}

func TestResolve_SkipScan(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	entry := writeFile(t, root, "a.lua", "require('never_scanned')")
	extra := writeFile(t, root, "extra.lua", "")

	res, err := Resolve(context.Background(), Request{
		Entry:        entry,
		ManualExtras: []string{extra},
		MaxNodes:     36,
		SkipScan:     true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Manifest{entry, extra}
	if !slices.Equal(res.Manifest, want) {
		t.Errorf("manifest = %v, want %v", res.Manifest, want)
	}
}

func TestResolve_Cancellation(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	entry := writeFile(t, root, "a.lua", "require('b')")
	writeFile(t, root, "b.lua", "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Resolve(ctx, Request{Entry: entry, SearchRoots: []string{root}, MaxNodes: 36})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestResolve_InvalidBudget(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	entry := writeFile(t, root, "a.lua", "")

	if _, err := Resolve(context.Background(), Request{Entry: entry}); err == nil {
		t.Fatal("expected error for non-positive MaxNodes")
	}
}

func TestResolve_DiscoveryIndexes(t *testing.T) {
	t.Parallel()

	res, err := resolveProject(t, map[string]string{
		"a.lua": "require('b')\nrequire('c')\n",
		"b.lua": `require("c")`,
		"c.lua": "",
	}, "a.lua")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, n := range res.Nodes {
		if n.Index != i {
			t.Errorf("node %d has index %d", i, n.Index)
		}
		if n.State != StateResolved {
			t.Errorf("node %s left in state %v", n.Path, n.State)
		}
	}
}

// manifestBases maps a manifest to base names for compact comparisons.
func manifestBases(m Manifest) []string {
	out := make([]string, len(m))
	for i, p := range m {
		out[i] = filepath.Base(p)
	}
	return out
}
