// SPDX-License-Identifier: MPL-2.0

// Command luapack packs a Lua script and its required modules into a
// standalone executable using the luastatic toolchain.
package main

import (
	cmd "luapack-cli/cmd/luapack"
)

func main() {
	cmd.Execute()
}
