// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// luaRocksTimeout bounds the `luarocks path` probe so a wedged installation
// cannot stall resolution.
const luaRocksTimeout = 5 * time.Second

// LuaRocksTrees asks an installed LuaRocks for its Lua module search trees
// and returns the directories that exist. Detection is best effort: a missing
// or failing luarocks yields an empty list, never an error.
func LuaRocksTrees(ctx context.Context) []string {
	ctx, cancel := context.WithTimeout(ctx, luaRocksTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "luarocks", "path", "--lr-path")
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil
	}

	var trees []string
	for _, dir := range parseLuaPath(stdout.String(), listSeparator()) {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			trees = append(trees, dir)
		}
	}
	return trees
}

// parseLuaPath extracts search directories from a LUA_PATH-style pattern
// list: entries are `?`-pattern templates like /usr/share/lua/5.4/?.lua, and
// the directory is what remains after stripping the pattern suffix.
func parseLuaPath(raw, sep string) []string {
	raw = strings.TrimSpace(raw)

	// Some LuaRocks versions print a shell snippet (LUA_PATH='...'); keep
	// only the last line's content in that case.
	if strings.Contains(raw, "=") && strings.Contains(raw, "\n") {
		lines := strings.Split(raw, "\n")
		raw = strings.Trim(strings.TrimSpace(lines[len(lines)-1]), `'"`)
	}

	var dirs []string
	for _, entry := range strings.Split(raw, sep) {
		entry = strings.Trim(strings.TrimSpace(entry), `'"`)
		switch {
		case strings.HasSuffix(entry, "?.lua"):
			entry = strings.TrimSuffix(entry, "?.lua")
		case strings.HasSuffix(entry, "?/init.lua"):
			entry = strings.TrimSuffix(entry, "?/init.lua")
		}
		entry = strings.TrimSpace(entry)
		if entry != "" {
			dirs = append(dirs, entry)
		}
	}
	return dirs
}

// listSeparator returns the LUA_PATH entry separator for the host platform.
func listSeparator() string {
	if runtime.GOOS == "windows" {
		return ";"
	}
	return ":"
}
