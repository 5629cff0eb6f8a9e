// SPDX-License-Identifier: MPL-2.0

package luadep

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeFile creates a file (and its parent directories) under dir.
func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
	return path
}

func TestLocator_DottedNames(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	flat := writeFile(t, root, "util.lua", "")
	nested := writeFile(t, root, "foo/bar.lua", "")
	initMod := writeFile(t, root, "pkg/init.lua", "")

	loc := NewLocator([]string{root})

	tests := []struct {
		name   string
		module string
		want   string
	}{
		{name: "flat module", module: "util", want: flat},
		{name: "dotted module", module: "foo.bar", want: nested},
		{name: "init file module", module: "pkg", want: initMod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := loc.Resolve(tt.module, "")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.module, got, tt.want)
			}
		})
	}
}

func TestLocator_FileBeatsInitFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	file := writeFile(t, root, "mod.lua", "")
	writeFile(t, root, "mod/init.lua", "")

	loc := NewLocator([]string{root})
	got, err := loc.Resolve("mod", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != file {
		t.Errorf("Resolve(mod) = %q, want the plain file %q", got, file)
	}
}

func TestLocator_RootPrecedence(t *testing.T) {
	t.Parallel()

	first := t.TempDir()
	second := t.TempDir()
	wanted := writeFile(t, first, "shared.lua", "-- first")
	writeFile(t, second, "shared.lua", "-- second")

	loc := NewLocator([]string{first, second})
	got, err := loc.Resolve("shared", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != wanted {
		t.Errorf("Resolve(shared) = %q, want first-root copy %q", got, wanted)
	}
}

func TestLocator_RelativeNames(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	from := writeFile(t, root, "sub/main.lua", "")
	sibling := writeFile(t, root, "sub/helper.lua", "")
	parent := writeFile(t, root, "top.lua", "")
	initMod := writeFile(t, root, "sub/inner/init.lua", "")

	// Relative resolution works off the requiring file, not the roots.
	loc := NewLocator(nil)

	tests := []struct {
		name   string
		module string
		want   string
	}{
		{name: "sibling", module: "./helper", want: sibling},
		{name: "explicit extension", module: "./helper.lua", want: sibling},
		{name: "parent dir", module: "../top", want: parent},
		{name: "relative init file", module: "./inner", want: initMod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := loc.Resolve(tt.module, from)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.module, got, tt.want)
			}
		})
	}
}

func TestLocator_CModule(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "native.so", "")

	loc := NewLocator([]string{root})
	_, err := loc.Resolve("native", "")
	if !errors.Is(err, ErrCModule) {
		t.Fatalf("expected ErrCModule, got %v", err)
	}
	var cme *CModuleError
	if !errors.As(err, &cme) {
		t.Fatalf("error is not *CModuleError: %v", err)
	}
	if cme.Module != "native" {
		t.Errorf("CModuleError.Module = %q, want native", cme.Module)
	}
}

func TestLocator_NotFound(t *testing.T) {
	t.Parallel()

	rootA := t.TempDir()
	rootB := t.TempDir()
	loc := NewLocator([]string{rootA, rootB})

	_, err := loc.Resolve("missing", "main.lua")
	if !errors.Is(err, ErrUnresolvedDependency) {
		t.Fatalf("expected ErrUnresolvedDependency, got %v", err)
	}
	var ude *UnresolvedDependencyError
	if !errors.As(err, &ude) {
		t.Fatalf("error is not *UnresolvedDependencyError: %v", err)
	}
	if ude.Module != "missing" || ude.From != "main.lua" {
		t.Errorf("error context = %+v", ude)
	}
	if len(ude.Searched) != 2 {
		t.Errorf("expected 2 searched roots, got %v", ude.Searched)
	}
}

func TestLocator_EmptyRoots(t *testing.T) {
	t.Parallel()

	loc := NewLocator(nil)
	_, err := loc.Resolve("anything", "main.lua")
	if !errors.Is(err, ErrUnresolvedDependency) {
		t.Fatalf("expected ErrUnresolvedDependency with no roots, got %v", err)
	}
}
