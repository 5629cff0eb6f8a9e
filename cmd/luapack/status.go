// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"

	"luapack-cli/internal/issue"
	"luapack-cli/internal/toolchain"
	"luapack-cli/pkg/platform"

	"github.com/spf13/cobra"
)

func newStatusCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report the availability of the build toolchain",
		Long: `Report the availability of the external build toolchain.

Probes for luastatic, the configured C compiler, and the lua interpreter,
and lists the local LuaRocks trees that module resolution will search.
Exits non-zero when the binaries required for 'luapack build' are missing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context(), app)
		},
	}
}

func runStatus(ctx context.Context, app *App) error {
	cfg, err := app.loadConfig(ctx)
	if err != nil && cfgFile != "" {
		return err
	}

	env := toolchain.Env{
		Luastatic: cfg.Toolchain.Luastatic.String(),
		Compiler:  cfg.Toolchain.CC.String(),
	}
	st := toolchain.Check(env)

	fmt.Fprintln(app.stdout, TitleStyle.Render("Toolchain status"))
	fmt.Fprintln(app.stdout)
	printToolStatus(app, st.Luastatic, true)
	printToolStatus(app, st.Compiler, true)
	printToolStatus(app, st.Lua, false)

	fmt.Fprintln(app.stdout)
	fmt.Fprintln(app.stdout, TitleStyle.Render("LuaRocks trees"))
	if !cfg.UseLuaRocks {
		fmt.Fprintf(app.stdout, "  %s\n", SubtitleStyle.Render("(disabled via use_luarocks)"))
	} else if trees := toolchain.LuaRocksTrees(ctx); len(trees) == 0 {
		fmt.Fprintf(app.stdout, "  %s\n", SubtitleStyle.Render("(none found)"))
	} else {
		for _, tree := range trees {
			fmt.Fprintf(app.stdout, "  - %s\n", tree)
		}
	}

	if sandbox := platform.DetectSandbox(); sandbox != platform.SandboxNone {
		fmt.Fprintln(app.stdout)
		fmt.Fprintf(app.stdout, "%s running inside a %s sandbox; host tools may not be visible on PATH (try %s)\n",
			WarningStyle.Render("!"), sandbox, CmdStyle.Render(platform.SpawnCommandFor(sandbox)))
	}

	if !st.Ready() {
		fmt.Fprintln(app.stdout)
		svcErr := newServiceError(
			errors.New("build toolchain is not ready"),
			issue.ToolchainMissingId,
			"",
		)
		renderServiceError(app.stderr, svcErr)
		return &ExitError{Code: 1, Err: svcErr}
	}

	return nil
}

// printToolStatus writes one line of the tool report. Required tools show a
// red cross when missing; informational ones a muted note.
func printToolStatus(app *App, ts toolchain.ToolStatus, required bool) {
	if ts.Found {
		fmt.Fprintf(app.stdout, "  %s %-12s %s\n",
			SuccessStyle.Render("✓"), ts.Name, SubtitleStyle.Render(ts.Path))
		return
	}

	if required {
		fmt.Fprintf(app.stdout, "  %s %-12s %s\n",
			ErrorStyle.Render("✗"), ts.Name, ErrorStyle.Render("not found"))
		return
	}

	fmt.Fprintf(app.stdout, "  %s %-12s %s\n",
		WarningStyle.Render("-"), ts.Name, SubtitleStyle.Render("not found (optional)"))
}
