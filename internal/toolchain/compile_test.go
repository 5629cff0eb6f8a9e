// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"luapack-cli/pkg/luadep"
)

// stubToolchain installs a fake luastatic (with the given script body) and a
// no-op gcc on PATH.
func stubToolchain(t *testing.T, luastaticBody string) {
	t.Helper()
	dir := t.TempDir()
	stubBinary(t, dir, "luastatic", luastaticBody)
	stubBinary(t, dir, "gcc", "exit 0")
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestCompile_ProducesArtifact(t *testing.T) {
	// The stub mimics luastatic: it drops the entry stem into the cwd.
	stubToolchain(t, `touch "$(basename "$1" .lua)"`)

	project := t.TempDir()
	entry := filepath.Join(project, "app.lua")
	if err := os.WriteFile(entry, []byte("print('hi')"), 0o644); err != nil {
		t.Fatalf("write entry: %v", err)
	}

	out := filepath.Join(t.TempDir(), "app")
	got, err := Compile(context.Background(), Env{}, CompileRequest{
		Manifest: luadep.Manifest{entry},
		Output:   out,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != out {
		t.Errorf("artifact = %q, want %q", got, out)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("artifact missing: %v", err)
	}
}

func TestCompile_RenamesToOutputName(t *testing.T) {
	stubToolchain(t, `touch "$(basename "$1" .lua)"`)

	project := t.TempDir()
	entry := filepath.Join(project, "app.lua")
	if err := os.WriteFile(entry, nil, 0o644); err != nil {
		t.Fatalf("write entry: %v", err)
	}

	out := filepath.Join(t.TempDir(), "renamed-tool")
	got, err := Compile(context.Background(), Env{}, CompileRequest{
		Manifest: luadep.Manifest{entry},
		Output:   out,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(got) != "renamed-tool" {
		t.Errorf("artifact = %q, want renamed-tool", got)
	}
}

func TestCompile_NonZeroExit(t *testing.T) {
	stubToolchain(t, `echo "ld: cannot find -llua" >&2; exit 3`)

	project := t.TempDir()
	entry := filepath.Join(project, "app.lua")
	if err := os.WriteFile(entry, nil, 0o644); err != nil {
		t.Fatalf("write entry: %v", err)
	}

	_, err := Compile(context.Background(), Env{}, CompileRequest{
		Manifest: luadep.Manifest{entry},
		Output:   filepath.Join(t.TempDir(), "app"),
	})
	if !errors.Is(err, ErrCompileFailed) {
		t.Fatalf("expected ErrCompileFailed, got %v", err)
	}
	var ce *CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("error is not *CompileError: %v", err)
	}
	if ce.ExitCode != 3 {
		t.Errorf("exit code = %d, want 3", ce.ExitCode)
	}
	if !strings.Contains(ce.Stderr, "cannot find -llua") {
		t.Errorf("stderr not captured: %q", ce.Stderr)
	}
}

func TestCompile_OutputMissing(t *testing.T) {
	// luastatic exits zero but produces nothing.
	stubToolchain(t, "exit 0")

	project := t.TempDir()
	entry := filepath.Join(project, "app.lua")
	if err := os.WriteFile(entry, nil, 0o644); err != nil {
		t.Fatalf("write entry: %v", err)
	}

	_, err := Compile(context.Background(), Env{}, CompileRequest{
		Manifest: luadep.Manifest{entry},
		Output:   filepath.Join(t.TempDir(), "app"),
	})
	if !errors.Is(err, ErrOutputMissing) {
		t.Fatalf("expected ErrOutputMissing, got %v", err)
	}
}

func TestCompile_EmptyManifest(t *testing.T) {
	t.Parallel()

	if _, err := Compile(context.Background(), Env{}, CompileRequest{}); err == nil {
		t.Fatal("expected error for empty manifest")
	}
}

func TestCompile_PassesManifestInOrder(t *testing.T) {
	// The stub records its argv so the test can assert the file order.
	argFile := filepath.Join(t.TempDir(), "args")
	stubToolchain(t, `echo "$@" > `+argFile+`; touch "$(basename "$1" .lua)"`)

	project := t.TempDir()
	entry := filepath.Join(project, "app.lua")
	dep := filepath.Join(project, "dep.lua")
	for _, p := range []string{entry, dep} {
		if err := os.WriteFile(p, nil, 0o644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}

	var stdout bytes.Buffer
	_, err := Compile(context.Background(), Env{}, CompileRequest{
		Manifest: luadep.Manifest{entry, dep},
		Output:   filepath.Join(t.TempDir(), "app"),
		Stdout:   &stdout,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	recorded, err := os.ReadFile(argFile)
	if err != nil {
		t.Fatalf("stub did not record args: %v", err)
	}
	want := entry + " " + dep
	if strings.TrimSpace(string(recorded)) != want {
		t.Errorf("luastatic argv = %q, want %q", strings.TrimSpace(string(recorded)), want)
	}
}
