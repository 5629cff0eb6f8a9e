// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"path/filepath"

	"luapack-cli/internal/config"
	"luapack-cli/internal/toolchain"
)

// conventionalSubdirs are probed under the entry script's directory. These
// mirror the layouts produced by luarocks --tree lua_modules and common
// hand-rolled project structures.
var conventionalSubdirs = []string{
	filepath.Join("lua_modules", "share", "lua"),
	"lua_modules",
	"lib",
	"src",
}

// assembleSearchRoots builds the ordered list of module search roots for a
// resolution run. Precedence:
//
//  1. --search-path flags, in the order given
//  2. the entry script's directory, then its conventional subdirectories
//  3. search_paths from the config file (globs expanded)
//  4. local LuaRocks trees, when use_luarocks is enabled
//
// Missing directories are kept; the locator skips roots that do not exist.
// Duplicates collapse to their first occurrence so precedence is stable.
func assembleSearchRoots(ctx context.Context, cfg *config.Config, entry string, flagPaths []string) ([]string, error) {
	var roots []string
	seen := make(map[string]struct{})

	add := func(dir string) {
		dir = filepath.Clean(dir)
		if _, dup := seen[dir]; dup {
			return
		}
		seen[dir] = struct{}{}
		roots = append(roots, dir)
	}

	for _, p := range flagPaths {
		add(p)
	}

	entryDir := filepath.Dir(entry)
	add(entryDir)
	for _, sub := range conventionalSubdirs {
		add(filepath.Join(entryDir, sub))
	}

	configured, err := config.ExpandSearchPaths(cfg.SearchPaths)
	if err != nil {
		return nil, err
	}
	for _, dir := range configured {
		add(dir)
	}

	if cfg.UseLuaRocks {
		for _, tree := range toolchain.LuaRocksTrees(ctx) {
			add(tree)
		}
	}

	return roots, nil
}
