// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	EntryNotFoundId Id = iota + 1
	DynamicRequireId
	ModuleNotFoundId
	CModuleId
	DependencyBudgetId
	ToolchainMissingId
	CompileFailedId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	entryNotFoundIssue = &Issue{
		id: EntryNotFoundId,
		mdMsg: `
# Entry script not found!

The script you asked luapack to pack does not exist or is not a Lua file.

## Things you can try:
- Check for typos in the path
- Make sure the file ends in ` + "`.lua`" + `:
~~~
$ luapack build path/to/main.lua
~~~

- Run from the directory that contains the script,
  or pass an absolute path`,
	}

	dynamicRequireIssue = &Issue{
		id: DynamicRequireId,
		mdMsg: `
# Dynamic require detected!

A require in your script does not use a plain string literal, so its
target cannot be known without running the program.

## Supported forms:
~~~lua
require("mod")
require('mod')
require "mod"
require [[mod]]
~~~

## Unsupported forms:
~~~lua
require(name)             -- variable
require("a" .. suffix)    -- concatenation
require(pick())           -- function call
~~~

## Things you can try:
- Replace the dynamic require with a literal module name
- If the module set is fixed, require each candidate literally
- Declare the modules explicitly instead:
~~~
$ luapack build main.lua --dep lib/mod.lua
~~~`,
	}

	moduleNotFoundIssue = &Issue{
		id: ModuleNotFoundId,
		mdMsg: `
# Lua module not found!

A required module could not be located under any search root.

## Search roots (in order of precedence):
1. Directories passed with --search-path
2. The entry script's directory
3. search_paths from your config file
4. Local LuaRocks trees (when use_luarocks is enabled)

## Things you can try:
- Add the module's directory:
~~~
$ luapack build main.lua --search-path ./vendor
~~~

- Install it with LuaRocks:
~~~
$ luarocks install <module>
~~~

- Check the require statement for typos in the dotted name`,
	}

	cModuleIssue = &Issue{
		id: CModuleId,
		mdMsg: `
# Native C module required!

A required module resolves to a compiled C extension (.so/.dll/.dylib).
luapack only packs pure-Lua sources; native extensions cannot be embedded.

## Things you can try:
- Replace the dependency with a pure-Lua alternative
- Vendor a pure-Lua implementation of the module
- If the module is optional at runtime, guard the require with pcall
  and exclude it from packing`,
	}

	dependencyBudgetIssue = &Issue{
		id: DependencyBudgetId,
		mdMsg: `
# Dependency budget exceeded!

Resolution stopped because the script pulls in more modules than the
configured limit allows.

## Things you can try:
- Raise the limit for this run:
~~~
$ luapack build main.lua --max-deps 100
~~~

- Raise it permanently in your config file:
~~~cue
max_dependencies: 100
~~~

- Inspect what is being pulled in:
~~~
$ luapack analyze main.lua --tree
~~~`,
	}

	toolchainMissingIssue = &Issue{
		id: ToolchainMissingId,
		mdMsg: `
# Build toolchain not found!

luapack needs luastatic and a C compiler to produce a standalone executable.

## Things you can try:
- Install luastatic:
~~~
$ luarocks install luastatic
~~~

- Install a C compiler (gcc or clang) via your system package manager
- Point luapack at existing binaries in your config file:
~~~cue
toolchain: {
	luastatic: "/opt/lua/bin/luastatic"
	cc:        "clang"
}
~~~

- Check the environment report:
~~~
$ luapack status
~~~`,
	}

	compileFailedIssue = &Issue{
		id: CompileFailedId,
		mdMsg: `
# Compilation failed!

luastatic was invoked but did not produce an executable.

## Common causes:
- Syntax errors in a packed Lua source
- The C compiler is missing headers for the Lua version in use
- A manifest entry is not a regular file

## Things you can try:
- Re-run with verbose mode to see the full luastatic invocation:
~~~
$ luapack --verbose build main.lua
~~~

- Check each script loads cleanly:
~~~
$ luac -p main.lua
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the luapack configuration file.

## Configuration file locations:
- Linux: ~/.config/luapack/config.cue
- macOS: ~/Library/Application Support/luapack/config.cue
- Windows: %APPDATA%\luapack\config.cue

## Things you can try:
- Create a default configuration:
~~~
$ luapack config init
~~~

- Check the configuration syntax
- Remove the config file to use defaults:
~~~
$ rm ~/.config/luapack/config.cue
~~~

## Example configuration:
~~~cue
search_paths: [
	"/home/user/lua-modules",
]
max_dependencies: 36
use_luarocks:     true

ui: {
	color_scheme: "auto"
	verbose:      false
}
~~~`,
	}

	issues = map[Id]*Issue{
		entryNotFoundIssue.Id():    entryNotFoundIssue,
		dynamicRequireIssue.Id():   dynamicRequireIssue,
		moduleNotFoundIssue.Id():   moduleNotFoundIssue,
		cModuleIssue.Id():          cModuleIssue,
		dependencyBudgetIssue.Id(): dependencyBudgetIssue,
		toolchainMissingIssue.Id(): toolchainMissingIssue,
		compileFailedIssue.Id():    compileFailedIssue,
		configLoadFailedIssue.Id(): configLoadFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
