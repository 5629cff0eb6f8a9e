// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"path/filepath"
	"testing"

	"luapack-cli/internal/config"
)

func TestAssembleSearchRoots_Precedence(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	entry := filepath.Join(tmpDir, "main.lua")
	flagDir := filepath.Join(tmpDir, "vendor")
	cfgDir := filepath.Join(tmpDir, "configured")

	cfg := config.DefaultConfig()
	cfg.UseLuaRocks = false
	cfg.SearchPaths = []config.SearchPath{config.SearchPath(cfgDir)}

	roots, err := assembleSearchRoots(context.Background(), cfg, entry, []string{flagDir})
	if err != nil {
		t.Fatalf("assembleSearchRoots failed: %v", err)
	}

	if len(roots) == 0 {
		t.Fatal("expected roots, got none")
	}

	// Flags come first, then the entry dir, then conventional subdirs,
	// then configured paths.
	if roots[0] != filepath.Clean(flagDir) {
		t.Errorf("roots[0] = %q, want flag path %q", roots[0], flagDir)
	}
	if roots[1] != filepath.Clean(tmpDir) {
		t.Errorf("roots[1] = %q, want entry dir %q", roots[1], tmpDir)
	}

	last := roots[len(roots)-1]
	if last != filepath.Clean(cfgDir) {
		t.Errorf("last root = %q, want configured path %q", last, cfgDir)
	}
}

func TestAssembleSearchRoots_ConventionalSubdirs(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	entry := filepath.Join(tmpDir, "main.lua")

	cfg := config.DefaultConfig()
	cfg.UseLuaRocks = false

	roots, err := assembleSearchRoots(context.Background(), cfg, entry, nil)
	if err != nil {
		t.Fatalf("assembleSearchRoots failed: %v", err)
	}

	want := []string{
		filepath.Clean(tmpDir),
		filepath.Join(tmpDir, "lua_modules", "share", "lua"),
		filepath.Join(tmpDir, "lua_modules"),
		filepath.Join(tmpDir, "lib"),
		filepath.Join(tmpDir, "src"),
	}
	if len(roots) != len(want) {
		t.Fatalf("got %d roots %v, want %d", len(roots), roots, len(want))
	}
	for i := range want {
		if roots[i] != want[i] {
			t.Errorf("roots[%d] = %q, want %q", i, roots[i], want[i])
		}
	}
}

func TestAssembleSearchRoots_DeduplicatesKeepingFirst(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	entry := filepath.Join(tmpDir, "main.lua")

	cfg := config.DefaultConfig()
	cfg.UseLuaRocks = false
	// Configured path duplicates the entry dir (with a trailing separator).
	cfg.SearchPaths = []config.SearchPath{config.SearchPath(tmpDir + string(filepath.Separator))}

	// Flag path duplicates the lib subdir.
	libDir := filepath.Join(tmpDir, "lib")
	roots, err := assembleSearchRoots(context.Background(), cfg, entry, []string{libDir, libDir})
	if err != nil {
		t.Fatalf("assembleSearchRoots failed: %v", err)
	}

	seen := make(map[string]int)
	for _, root := range roots {
		seen[root]++
	}
	for root, count := range seen {
		if count > 1 {
			t.Errorf("root %q appears %d times", root, count)
		}
	}

	// The lib dir came from a flag, so it must precede the entry dir.
	if roots[0] != filepath.Clean(libDir) {
		t.Errorf("roots[0] = %q, want flag-supplied %q", roots[0], libDir)
	}
}

func TestAssembleSearchRoots_KeepsMissingDirectories(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	entry := filepath.Join(tmpDir, "main.lua")
	missing := filepath.Join(tmpDir, "does", "not", "exist")

	cfg := config.DefaultConfig()
	cfg.UseLuaRocks = false

	roots, err := assembleSearchRoots(context.Background(), cfg, entry, []string{missing})
	if err != nil {
		t.Fatalf("assembleSearchRoots failed: %v", err)
	}

	if roots[0] != filepath.Clean(missing) {
		t.Errorf("missing directories should be kept; roots[0] = %q", roots[0])
	}
}
