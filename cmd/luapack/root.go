// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"luapack-cli/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// logger emits leveled diagnostics to stderr. Debug level is enabled by
	// --verbose (or ui.verbose in the config file).
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
	})
)

// newRootCommand builds the base command and attaches all subcommands.
func newRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "luapack",
		Short: "Pack Lua scripts into standalone executables",
		Long: TitleStyle.Render("luapack") + SubtitleStyle.Render(" - Pack Lua scripts into standalone executables") + `

luapack scans a Lua script for require statements, resolves every
transitively required module to a file on disk, and hands the complete
manifest to luastatic to compile a self-contained executable.

Only static requires with literal module names can be followed; dynamic
requires are reported with the exact file, line, and column.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Write your Lua script with plain require statements
  2. Run: luapack build main.lua
  3. Ship the resulting executable

` + SubtitleStyle.Render("Examples:") + `
  luapack build main.lua            Compile main.lua and its dependencies
  luapack build main.lua -o app     Name the executable 'app'
  luapack analyze main.lua --tree   Show the dependency tree without compiling
  luapack status                    Check the luastatic/compiler environment
  luapack config show               Show current configuration`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			applyConfigDefaults(cmd.Context(), app)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/luapack/config.cue)")

	// Add subcommands
	rootCmd.AddCommand(newBuildCommand(app))
	rootCmd.AddCommand(newAnalyzeCommand(app))
	rootCmd.AddCommand(newStatusCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	return rootCmd
}

// applyConfigDefaults folds config-file settings into flag defaults and
// configures the logger. Flags win over the config file.
func applyConfigDefaults(ctx context.Context, app *App) {
	cfg, err := app.loadConfig(ctx)
	if err != nil {
		// Always surface config loading errors to the user
		fmt.Fprintln(app.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}

	if cfg != nil && !verbose {
		verbose = cfg.UI.Verbose
	}

	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the command tree and runs it. This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	rootCmd := newRootCommand(app)

	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// GetVerbose returns the verbose flag value
func GetVerbose() bool {
	return verbose
}
