// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ExpandSearchPaths turns configured search_paths entries into concrete
// directory roots. Literal entries are normalized and kept as-is; missing
// directories are tolerated because the module locator skips roots that do
// not exist. Glob entries are expanded with doublestar and contribute only
// matches that are directories; a pattern with no matches contributes
// nothing. Entries are deduplicated while preserving first-seen order.
func ExpandSearchPaths(paths []SearchPath) ([]string, error) {
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

	for i, p := range paths {
		expanded, err := expandHome(string(p))
		if err != nil {
			return nil, fmt.Errorf("search_paths[%d]: %w", i, err)
		}

		if !p.IsGlob() {
			add(expanded)
			continue
		}

		matches, err := doublestar.FilepathGlob(expanded)
		if err != nil {
			return nil, fmt.Errorf("search_paths[%d]: invalid glob pattern %q: %w", i, p, err)
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || !info.IsDir() {
				continue
			}
			add(m)
		}
	}

	return roots, nil
}

// expandHome replaces a leading "~" or "~/" with the current user's home
// directory. Paths referencing other users ("~alice/...") are passed through
// unchanged.
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}
