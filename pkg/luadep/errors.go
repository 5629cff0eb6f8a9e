// SPDX-License-Identifier: MPL-2.0

package luadep

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEntryNotFound is the sentinel error wrapped by EntryNotFoundError.
	ErrEntryNotFound = errors.New("entry script not found")
	// ErrUnsupportedRequire is the sentinel error wrapped by UnsupportedRequireError.
	ErrUnsupportedRequire = errors.New("unsupported require form")
	// ErrUnresolvedDependency is the sentinel error wrapped by UnresolvedDependencyError.
	ErrUnresolvedDependency = errors.New("unresolved dependency")
	// ErrBudgetExceeded is the sentinel error wrapped by BudgetExceededError.
	ErrBudgetExceeded = errors.New("dependency budget exceeded")
	// ErrCModule is the sentinel error wrapped by CModuleError.
	ErrCModule = errors.New("C module not supported")
)

type (
	// EntryNotFoundError is returned when the entry script does not exist or
	// does not carry the expected source extension.
	EntryNotFoundError struct {
		// Path is the entry path as supplied by the caller.
		Path string
		// Reason distinguishes a missing file from a wrong extension.
		Reason string
	}

	// UnsupportedRequireError is returned when a require statement cannot be
	// resolved by lexical analysis alone (computed names, concatenation,
	// unterminated literals). It is a hard stop for the whole resolution run:
	// a partially analyzed dependency set is worse than none.
	UnsupportedRequireError struct {
		// Path is the file containing the offending statement.
		Path string
		// Line and Col locate the start of the require keyword (1-based).
		Line, Col int
		// Statement is the offending source text, trimmed to the line.
		Statement string
	}

	// UnresolvedDependencyError is returned when a module name cannot be
	// located under any search root, or a manual extra does not exist.
	UnresolvedDependencyError struct {
		// Module is the unresolved module name (or manual file path).
		Module string
		// From is the file whose scan produced the reference; empty for
		// manual extras.
		From string
		// Searched lists the roots that were probed, in order.
		Searched []string
	}

	// BudgetExceededError is returned when the number of discovered
	// dependencies (entry script excluded) would exceed the configured
	// ceiling. It names the module that triggered the overflow.
	BudgetExceededError struct {
		// Module is the module whose discovery pushed the graph over budget.
		Module string
		// From is the file that referenced it.
		From string
		// Limit is the configured maximum dependency count.
		Limit int
	}

	// CModuleError is returned when a require resolves to a native library
	// (.so, .dll, .dylib). Native modules need their own link step and cannot
	// be folded into the script manifest.
	CModuleError struct {
		// Module is the required module name.
		Module string
		// Path is the native library that was found.
		Path string
	}
)

// Error implements the error interface.
func (e *EntryNotFoundError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("entry script not found: %s (%s)", e.Path, e.Reason)
	}
	return fmt.Sprintf("entry script not found: %s", e.Path)
}

// Unwrap returns ErrEntryNotFound so callers can use errors.Is for detection.
func (e *EntryNotFoundError) Unwrap() error { return ErrEntryNotFound }

// Error implements the error interface.
func (e *UnsupportedRequireError) Error() string {
	return fmt.Sprintf("%s:%d:%d: unsupported require form: %s (only literal require statements can be analyzed)",
		e.Path, e.Line, e.Col, e.Statement)
}

// Unwrap returns ErrUnsupportedRequire so callers can use errors.Is for detection.
func (e *UnsupportedRequireError) Unwrap() error { return ErrUnsupportedRequire }

// Error implements the error interface.
func (e *UnresolvedDependencyError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cannot resolve module %q", e.Module)
	if e.From != "" {
		fmt.Fprintf(&b, " (required by %s)", e.From)
	}
	if len(e.Searched) > 0 {
		fmt.Fprintf(&b, "; searched: %s", strings.Join(e.Searched, ", "))
	}
	return b.String()
}

// Unwrap returns ErrUnresolvedDependency so callers can use errors.Is for detection.
func (e *UnresolvedDependencyError) Unwrap() error { return ErrUnresolvedDependency }

// Error implements the error interface.
func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("dependency budget exceeded: module %q (required by %s) would exceed the limit of %d dependencies",
		e.Module, e.From, e.Limit)
}

// Unwrap returns ErrBudgetExceeded so callers can use errors.Is for detection.
func (e *BudgetExceededError) Unwrap() error { return ErrBudgetExceeded }

// Error implements the error interface.
func (e *CModuleError) Error() string {
	return fmt.Sprintf("module %q resolves to native library %s; C modules cannot be packaged from source", e.Module, e.Path)
}

// Unwrap returns ErrCModule so callers can use errors.Is for detection.
func (e *CModuleError) Unwrap() error { return ErrCModule }
