// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// analyzeOptions captures the flag values for one `luapack analyze` invocation.
type analyzeOptions struct {
	entry       string
	maxDeps     int
	manualDeps  []string
	noAuto      bool
	searchPaths []string
	tree        bool
	bestEffort  bool
}

func newAnalyzeCommand(app *App) *cobra.Command {
	var opts analyzeOptions

	analyzeCmd := &cobra.Command{
		Use:   "analyze <script>",
		Short: "Resolve and print a script's dependencies without compiling",
		Long: `Resolve a script's dependencies and print the manifest without compiling.

The manifest lists every file that 'luapack build' would hand to luastatic,
in discovery order. With --tree, the require structure is rendered as a
tree. With --best-effort, unresolvable modules are reported instead of
aborting the analysis.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.entry = args[0]
			return runAnalyze(cmd.Context(), app, opts)
		},
	}

	analyzeCmd.Flags().IntVar(&opts.maxDeps, "max-deps", 0, "override the dependency budget for this run")
	analyzeCmd.Flags().StringArrayVar(&opts.manualDeps, "dep", nil, "extra Lua file to include (repeatable)")
	analyzeCmd.Flags().BoolVar(&opts.noAuto, "no-auto", false, "disable require scanning; list only the script and --dep files")
	analyzeCmd.Flags().StringArrayVar(&opts.searchPaths, "search-path", nil, "additional module search root (repeatable, highest precedence)")
	analyzeCmd.Flags().BoolVar(&opts.tree, "tree", false, "render the dependency tree instead of the flat manifest")
	analyzeCmd.Flags().BoolVar(&opts.bestEffort, "best-effort", false, "report unresolved modules instead of failing")

	return analyzeCmd
}

func runAnalyze(ctx context.Context, app *App, opts analyzeOptions) error {
	res, _, err := resolveEntry(ctx, app, resolveOptions{
		entry:       opts.entry,
		maxDeps:     opts.maxDeps,
		manualDeps:  opts.manualDeps,
		noAuto:      opts.noAuto,
		searchPaths: opts.searchPaths,
		analyzeOnly: true,
		bestEffort:  opts.bestEffort,
	})
	if err != nil {
		return err
	}

	if opts.tree {
		fmt.Fprintln(app.stdout, TitleStyle.Render("Dependency tree"))
		fmt.Fprint(app.stdout, res.Tree())
	} else {
		deps := len(res.Manifest.Dependencies())
		switch deps {
		case 1:
			fmt.Fprintln(app.stdout, TitleStyle.Render("Manifest (1 dependency)"))
		default:
			fmt.Fprintln(app.stdout, TitleStyle.Render(fmt.Sprintf("Manifest (%d dependencies)", deps)))
		}
		for _, node := range res.Nodes {
			fmt.Fprintf(app.stdout, "  %3d  %-6s  %s\n",
				node.Index, SubtitleStyle.Render(node.Origin.String()), node.Path)
		}
	}

	if len(res.Unresolved) > 0 {
		fmt.Fprintln(app.stdout)
		fmt.Fprintln(app.stdout, WarningStyle.Render("Unresolved modules"))
		for _, ref := range res.Unresolved {
			// Manual extras carry no referencing file.
			if ref.From == "" {
				fmt.Fprintf(app.stdout, "  - %s\n", ref.Module)
				continue
			}
			fmt.Fprintf(app.stdout, "  - %s %s\n",
				ref.Module, SubtitleStyle.Render("(required from "+ref.From+")"))
		}
	}

	return nil
}
