// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"luapack-cli/pkg/luadep"
)

type (
	// CompileRequest describes one luastatic invocation.
	CompileRequest struct {
		// Manifest is the resolved, ordered file list; the first element is
		// the entry script.
		Manifest luadep.Manifest
		// Output is the desired executable path. Empty means the entry
		// script's stem in the current working directory.
		Output string
		// Stdout, when non-nil, receives luastatic's standard output.
		Stdout io.Writer
	}

	// CompileError is returned when luastatic exits non-zero.
	CompileError struct {
		// Command is the full command line that was executed.
		Command string
		// ExitCode is the process exit status.
		ExitCode int
		// Stderr is the captured standard error output.
		Stderr string
	}

	// OutputMissingError is returned when luastatic exits zero but the
	// expected artifact does not exist.
	OutputMissingError struct {
		// Path is the artifact that was expected.
		Path string
	}
)

// Error implements the error interface.
func (e *CompileError) Error() string {
	msg := fmt.Sprintf("compilation failed (exit %d): %s", e.ExitCode, e.Command)
	if e.Stderr != "" {
		msg += "\n" + strings.TrimSpace(e.Stderr)
	}
	return msg
}

// Unwrap returns ErrCompileFailed so callers can use errors.Is for detection.
func (e *CompileError) Unwrap() error { return ErrCompileFailed }

// Error implements the error interface.
func (e *OutputMissingError) Error() string {
	return fmt.Sprintf("luastatic reported success but produced no output at %s", e.Path)
}

// Unwrap returns ErrOutputMissing so callers can use errors.Is for detection.
func (e *OutputMissingError) Unwrap() error { return ErrOutputMissing }

// Compile turns a resolved manifest into a standalone executable by invoking
// luastatic in the output directory. It returns the path of the produced
// artifact.
func Compile(ctx context.Context, env Env, req CompileRequest) (string, error) {
	if len(req.Manifest) == 0 {
		return "", fmt.Errorf("empty manifest")
	}
	if err := Verify(env); err != nil {
		return "", err
	}

	workDir, produced, artifact, err := outputLayout(req.Manifest[0], req.Output)
	if err != nil {
		return "", err
	}

	args := append([]string(nil), req.Manifest...)
	cmd := exec.CommandContext(ctx, env.luastaticBin(), args...)
	cmd.Dir = workDir
	// luastatic picks the compiler up from CC.
	cmd.Env = append(os.Environ(), "CC="+env.compilerBin())

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if req.Stdout != nil {
		cmd.Stdout = req.Stdout
	}

	if err := cmd.Run(); err != nil {
		exitCode := 1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		return "", &CompileError{
			Command:  env.luastaticBin() + " " + strings.Join(args, " "),
			ExitCode: exitCode,
			Stderr:   stderr.String(),
		}
	}

	if !fileExists(produced) {
		return "", &OutputMissingError{Path: produced}
	}
	if artifact != produced {
		if err := os.Rename(produced, artifact); err != nil {
			return "", fmt.Errorf("moving artifact to %s: %w", artifact, err)
		}
	}
	return artifact, nil
}

// outputLayout determines where luastatic runs, where it drops its artifact
// (always the entry script's stem in the working directory), and where the
// caller wants the final executable.
func outputLayout(entry, output string) (workDir, produced, artifact string, err error) {
	if output != "" {
		abs, err := filepath.Abs(output)
		if err != nil {
			return "", "", "", fmt.Errorf("resolving output path: %w", err)
		}
		workDir = filepath.Dir(abs)
		artifact = abs
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			return "", "", "", fmt.Errorf("resolving working directory: %w", err)
		}
		workDir = cwd
	}

	name := strings.TrimSuffix(filepath.Base(entry), filepath.Ext(entry))
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	produced = filepath.Join(workDir, name)
	if artifact == "" {
		artifact = produced
	}
	return workDir, produced, artifact, nil
}

// fileExists checks if a path exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
