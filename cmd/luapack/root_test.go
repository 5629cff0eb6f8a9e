// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"strings"
	"testing"

	"luapack-cli/internal/issue"
)

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version takes priority", func(t *testing.T) {
		// Save and restore package-level vars.
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2026-06-15T10:00:00Z"

		got := getVersionString()
		want := "v1.2.3 (commit: abc1234, built: 2026-06-15T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("fallback to dev when no build info", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "dev"
		Commit = "unknown"
		BuildDate = "unknown"

		got := getVersionString()
		want := "dev (built from source)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})
}

func TestFormatErrorForDisplay(t *testing.T) {
	t.Parallel()

	t.Run("plain error uses Error()", func(t *testing.T) {
		t.Parallel()

		err := errors.New("plain failure")
		if got := formatErrorForDisplay(err, false); got != "plain failure" {
			t.Errorf("formatErrorForDisplay() = %q, want %q", got, "plain failure")
		}
	})

	t.Run("actionable error uses Format", func(t *testing.T) {
		t.Parallel()

		err := issue.NewErrorContext().
			WithOperation("load config").
			WithResource("config.cue").
			WithSuggestion("Run 'luapack config init' to create one").
			Wrap(errors.New("no such file")).
			BuildError()

		got := formatErrorForDisplay(err, false)
		if !strings.Contains(got, "load config") {
			t.Errorf("expected operation in output, got %q", got)
		}
		if !strings.Contains(got, "luapack config init") {
			t.Errorf("expected suggestion in output, got %q", got)
		}
	})

	t.Run("verbose shows error chain", func(t *testing.T) {
		t.Parallel()

		err := issue.NewErrorContext().
			WithOperation("load config").
			Wrap(errors.New("root cause")).
			BuildError()

		got := formatErrorForDisplay(err, true)
		if !strings.Contains(got, "Error chain:") {
			t.Errorf("expected error chain in verbose output, got %q", got)
		}
	})
}
