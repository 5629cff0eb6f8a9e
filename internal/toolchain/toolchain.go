// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"errors"
	"fmt"
	"os/exec"
)

var (
	// ErrToolNotFound is the sentinel error wrapped by ToolNotFoundError.
	ErrToolNotFound = errors.New("tool not found")
	// ErrCompileFailed is the sentinel error wrapped by CompileError.
	ErrCompileFailed = errors.New("compilation failed")
	// ErrOutputMissing is the sentinel error wrapped by OutputMissingError.
	ErrOutputMissing = errors.New("output file missing")
)

type (
	// Env selects the toolchain binaries. Zero values fall back to the
	// standard names resolved via PATH.
	Env struct {
		// Luastatic overrides the path of the luastatic binary.
		Luastatic string
		// Compiler overrides the path of the C compiler luastatic uses.
		Compiler string
	}

	// ToolNotFoundError is returned when a required toolchain binary is not
	// available.
	ToolNotFoundError struct {
		// Tool is the binary that was looked up.
		Tool string
		// Hint suggests how to install it.
		Hint string
	}

	// ToolStatus reports the availability of one toolchain binary.
	ToolStatus struct {
		// Name is the binary name that was probed.
		Name string
		// Path is the resolved location; empty when not found.
		Path string
		// Found reports whether the lookup succeeded.
		Found bool
	}

	// Status is the full environment report used by `luapack status`.
	Status struct {
		Luastatic ToolStatus
		Compiler  ToolStatus
		Lua       ToolStatus
	}
)

const (
	defaultLuastatic = "luastatic"
	defaultCompiler  = "gcc"
)

// Error implements the error interface.
func (e *ToolNotFoundError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s not found in PATH (%s)", e.Tool, e.Hint)
	}
	return fmt.Sprintf("%s not found in PATH", e.Tool)
}

// Unwrap returns ErrToolNotFound so callers can use errors.Is for detection.
func (e *ToolNotFoundError) Unwrap() error { return ErrToolNotFound }

// luastaticBin returns the luastatic binary to invoke.
func (e Env) luastaticBin() string {
	if e.Luastatic != "" {
		return e.Luastatic
	}
	return defaultLuastatic
}

// compilerBin returns the C compiler binary luastatic depends on.
func (e Env) compilerBin() string {
	if e.Compiler != "" {
		return e.Compiler
	}
	return defaultCompiler
}

// Verify checks that the binaries required for compilation are available.
func Verify(env Env) error {
	if _, err := exec.LookPath(env.luastaticBin()); err != nil {
		return &ToolNotFoundError{Tool: env.luastaticBin(), Hint: "install with: luarocks install luastatic"}
	}
	if _, err := exec.LookPath(env.compilerBin()); err != nil {
		return &ToolNotFoundError{Tool: env.compilerBin(), Hint: "install a C compiler toolchain"}
	}
	return nil
}

// Check probes every toolchain binary and returns the availability report.
// Unlike Verify it never fails; missing tools are reported, not errors.
func Check(env Env) Status {
	return Status{
		Luastatic: probe(env.luastaticBin()),
		Compiler:  probe(env.compilerBin()),
		Lua:       probe("lua"),
	}
}

// Ready reports whether the binaries required for compilation are present.
// The lua interpreter is informational only.
func (s Status) Ready() bool {
	return s.Luastatic.Found && s.Compiler.Found
}

func probe(name string) ToolStatus {
	path, err := exec.LookPath(name)
	if err != nil {
		return ToolStatus{Name: name}
	}
	return ToolStatus{Name: name, Path: path, Found: true}
}
