// SPDX-License-Identifier: MPL-2.0

package luadep

import (
	"os"
	"path/filepath"
	"strings"
)

// cExtensions are native-library suffixes that mark a module as a C module.
var cExtensions = []string{".so", ".dll", ".dylib"}

// Locator maps module names to file paths using an ordered list of search
// roots. The roots and the extension convention are caller-supplied policy;
// the locator never probes outside the configured roots.
type Locator struct {
	// Roots are the directories searched, in precedence order. An empty
	// list disables name-based resolution entirely.
	Roots []string
	// Ext is the source file extension, including the dot.
	Ext string
	// InitFile is the per-directory module entry file name.
	InitFile string
}

// NewLocator creates a Locator over the given roots with the standard Lua
// conventions (".lua" extension, "init.lua" directory modules).
func NewLocator(roots []string) *Locator {
	return &Locator{Roots: roots, Ext: ".lua", InitFile: "init.lua"}
}

// Resolve maps a module name to the first existing file under the search
// roots. Dotted names map to nested directories (foo.bar -> foo/bar.lua or
// foo/bar/init.lua). Relative names (./x, ../x) resolve against the directory
// of the requiring file instead of the roots; from may be empty when there is
// no requiring file.
//
// A module that resolves to a native library yields CModuleError; a module
// found nowhere yields UnresolvedDependencyError.
func (loc *Locator) Resolve(name, from string) (string, error) {
	if strings.HasPrefix(name, "./") || strings.HasPrefix(name, "../") {
		return loc.resolveRelative(name, from)
	}

	rel := filepath.Join(strings.Split(name, ".")...)
	for _, root := range loc.Roots {
		base := filepath.Join(root, rel)
		for _, candidate := range []string{base + loc.Ext, filepath.Join(base, loc.InitFile)} {
			if fileExists(candidate) {
				return filepath.Abs(candidate)
			}
		}
		for _, ext := range cExtensions {
			if c := base + ext; fileExists(c) {
				return "", &CModuleError{Module: name, Path: c}
			}
		}
	}

	return "", &UnresolvedDependencyError{Module: name, From: from, Searched: append([]string(nil), loc.Roots...)}
}

// resolveRelative resolves ./ and ../ module names against the requiring
// file's directory. A name that already carries the source extension is
// probed as-is, so require("./foo.lua") keeps working.
func (loc *Locator) resolveRelative(name, from string) (string, error) {
	baseDir := filepath.Dir(from)
	target := filepath.Join(baseDir, filepath.FromSlash(name))

	var candidates []string
	if strings.HasSuffix(name, loc.Ext) {
		candidates = []string{target}
	} else {
		candidates = []string{target + loc.Ext, filepath.Join(target, loc.InitFile)}
	}
	for _, candidate := range candidates {
		if fileExists(candidate) {
			return filepath.Abs(candidate)
		}
	}
	for _, ext := range cExtensions {
		if c := target + ext; fileExists(c) {
			return "", &CModuleError{Module: name, Path: c}
		}
	}

	return "", &UnresolvedDependencyError{Module: name, From: from, Searched: []string{baseDir}}
}

// fileExists checks if a path exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
