// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"luapack-cli/internal/issue"
	"luapack-cli/internal/toolchain"
	"luapack-cli/pkg/luadep"
)

// ServiceError is an error that carries optional rendering information for
// the CLI layer. When the CLI layer receives a ServiceError, it renders the
// styled error message (if present) before formatting the underlying error.
// Always create via newServiceError to enforce the Err-must-be-non-nil invariant.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
	// StyledMessage is the optional pre-rendered styled error text.
	StyledMessage string
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
// All construction sites must use this instead of struct literals.
func newServiceError(err error, issueID issue.Id, styledMessage string) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{
		Err:           err,
		IssueID:       issueID,
		StyledMessage: styledMessage,
	}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// renderServiceError renders a ServiceError in the CLI layer.
// It prints any styled message first, then the optional issue help section.
func renderServiceError(stderr io.Writer, svcErr *ServiceError) {
	if svcErr == nil {
		return
	}

	if svcErr.StyledMessage != "" {
		fmt.Fprint(stderr, svcErr.StyledMessage)
	}

	if svcErr.IssueID == 0 {
		return
	}

	if catalogEntry := issue.Get(svcErr.IssueID); catalogEntry != nil {
		rendered, renderErr := catalogEntry.Render("dark")
		if renderErr != nil {
			logger.Warn("failed to render issue catalog entry", "issueID", svcErr.IssueID, "error", renderErr)
		} else {
			fmt.Fprint(stderr, rendered)
		}
	}
}

// issueIdForError maps engine and toolchain failures to their issue catalog
// entries. Returns 0 for errors with no catalog guidance.
func issueIdForError(err error) issue.Id {
	switch {
	case errors.Is(err, luadep.ErrEntryNotFound):
		return issue.EntryNotFoundId
	case errors.Is(err, luadep.ErrUnsupportedRequire):
		return issue.DynamicRequireId
	case errors.Is(err, luadep.ErrCModule):
		return issue.CModuleId
	case errors.Is(err, luadep.ErrUnresolvedDependency):
		return issue.ModuleNotFoundId
	case errors.Is(err, luadep.ErrBudgetExceeded):
		return issue.DependencyBudgetId
	case errors.Is(err, toolchain.ErrToolNotFound):
		return issue.ToolchainMissingId
	case errors.Is(err, toolchain.ErrCompileFailed), errors.Is(err, toolchain.ErrOutputMissing):
		return issue.CompileFailedId
	default:
		return 0
	}
}

// actionableResolveError wraps a resolution failure with operation context and
// targeted suggestions for the user.
func actionableResolveError(err error, entry string) error {
	builder := issue.NewErrorContext().
		WithOperation("resolve dependencies").
		WithResource(entry).
		Wrap(err)

	var unresolved *luadep.UnresolvedDependencyError
	var unsupported *luadep.UnsupportedRequireError
	var budget *luadep.BudgetExceededError
	switch {
	case errors.As(err, &unresolved):
		builder.
			WithSuggestion(fmt.Sprintf("Add the directory containing %q with --search-path", unresolved.Module)).
			WithSuggestion(fmt.Sprintf("Install it with 'luarocks install %s'", unresolved.Module))
	case errors.As(err, &unsupported):
		builder.
			WithSuggestion("Replace the dynamic require with a literal module name").
			WithSuggestion("Declare the module explicitly with --dep")
	case errors.As(err, &budget):
		builder.
			WithSuggestion(fmt.Sprintf("Raise the limit with --max-deps (currently %d)", budget.Limit)).
			WithSuggestion("Inspect the dependency tree with 'luapack analyze --tree'")
	}

	return builder.BuildError()
}
