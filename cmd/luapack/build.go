// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"luapack-cli/internal/config"
	"luapack-cli/internal/issue"
	"luapack-cli/internal/toolchain"
	"luapack-cli/pkg/luadep"
	"luapack-cli/pkg/platform"

	"github.com/spf13/cobra"
)

// buildOptions captures the flag values for one `luapack build` invocation.
type buildOptions struct {
	entry       string
	output      string
	maxDeps     int
	manualDeps  []string
	noAuto      bool
	searchPaths []string
}

func newBuildCommand(app *App) *cobra.Command {
	var opts buildOptions

	buildCmd := &cobra.Command{
		Use:   "build <script>",
		Short: "Compile a Lua script and its dependencies into an executable",
		Long: `Compile a Lua script and its dependencies into a standalone executable.

The script is scanned for require statements, every transitively required
module is resolved to a file, and the complete set is handed to luastatic.
Resolution is strict: a single dynamic require or unresolvable module
aborts the build.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.entry = args[0]
			return runBuild(cmd.Context(), app, opts)
		},
	}

	buildCmd.Flags().StringVarP(&opts.output, "output", "o", "", "output executable path (default: script name without .lua)")
	buildCmd.Flags().IntVar(&opts.maxDeps, "max-deps", 0, "override the dependency budget for this run")
	buildCmd.Flags().StringArrayVar(&opts.manualDeps, "dep", nil, "extra Lua file to pack (repeatable)")
	buildCmd.Flags().BoolVar(&opts.noAuto, "no-auto", false, "disable require scanning; pack only the script and --dep files")
	buildCmd.Flags().StringArrayVar(&opts.searchPaths, "search-path", nil, "additional module search root (repeatable, highest precedence)")

	return buildCmd
}

func runBuild(ctx context.Context, app *App, opts buildOptions) error {
	if opts.output != "" && platform.IsWindowsReservedName(filepath.Base(opts.output)) {
		return fmt.Errorf("invalid output name %q: reserved filename on Windows", filepath.Base(opts.output))
	}

	res, cfg, err := resolveEntry(ctx, app, resolveOptions{
		entry:       opts.entry,
		maxDeps:     opts.maxDeps,
		manualDeps:  opts.manualDeps,
		noAuto:      opts.noAuto,
		searchPaths: opts.searchPaths,
	})
	if err != nil {
		return err
	}

	logger.Debug("manifest assembled",
		"entry", res.Entry,
		"modules", len(res.Manifest.Dependencies()))
	for _, node := range res.Nodes {
		logger.Debug("packing", "index", node.Index, "path", node.Path, "origin", node.Origin)
	}

	env := toolchain.Env{
		Luastatic: cfg.Toolchain.Luastatic.String(),
		Compiler:  cfg.Toolchain.CC.String(),
	}

	artifact, err := toolchain.Compile(ctx, env, toolchain.CompileRequest{
		Manifest: res.Manifest,
		Output:   opts.output,
		Stdout:   app.stdout,
	})
	if err != nil {
		svcErr := newServiceError(
			issue.WrapWithContext(err, "compile script", opts.entry),
			issueIdForError(err),
			"",
		)
		renderServiceError(app.stderr, svcErr)
		return &ExitError{Code: 1, Err: svcErr}
	}

	deps := len(res.Manifest.Dependencies())
	fmt.Fprintf(app.stdout, "%s Packed %s",
		SuccessStyle.Render("✓"), CmdStyle.Render(res.Entry))
	switch deps {
	case 0:
		fmt.Fprint(app.stdout, " with no dependencies")
	case 1:
		fmt.Fprint(app.stdout, " with 1 dependency")
	default:
		fmt.Fprintf(app.stdout, " with %d dependencies", deps)
	}
	fmt.Fprintf(app.stdout, " into %s\n", CmdStyle.Render(artifact))

	return nil
}

// resolveOptions are the engine-facing inputs shared by build and analyze.
type resolveOptions struct {
	entry       string
	maxDeps     int
	manualDeps  []string
	noAuto      bool
	searchPaths []string
	analyzeOnly bool
	bestEffort  bool
}

// resolveEntry loads configuration, assembles the search roots, and runs the
// dependency resolution engine. Failures are rendered as issue cards and
// returned as ExitErrors. The loaded config is returned so callers can reuse
// it without a second load.
func resolveEntry(ctx context.Context, app *App, opts resolveOptions) (*luadep.Resolution, *config.Config, error) {
	cfg, err := app.loadConfig(ctx)
	if err != nil && cfgFile != "" {
		// An explicitly requested config file must load; default-path
		// failures were already warned about and fall back to defaults.
		return nil, nil, err
	}

	maxDeps := opts.maxDeps
	if maxDeps <= 0 {
		maxDeps = cfg.MaxDependencies
	}

	roots, err := assembleSearchRoots(ctx, cfg, opts.entry, opts.searchPaths)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("search roots assembled", "count", len(roots))
	for _, root := range roots {
		logger.Debug("search root", "dir", root)
	}

	res, err := luadep.Resolve(ctx, luadep.Request{
		Entry:        opts.entry,
		SearchRoots:  roots,
		ManualExtras: opts.manualDeps,
		MaxNodes:     maxDeps,
		SkipScan:     opts.noAuto,
		AnalyzeOnly:  opts.analyzeOnly,
		BestEffort:   opts.bestEffort,
	})
	if err != nil {
		svcErr := newServiceError(
			actionableResolveError(err, opts.entry),
			issueIdForError(err),
			"",
		)
		renderServiceError(app.stderr, svcErr)
		return nil, nil, &ExitError{Code: 1, Err: svcErr}
	}

	return res, cfg, nil
}
