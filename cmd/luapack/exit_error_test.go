// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"testing"
)

func TestExitError_Error(t *testing.T) {
	t.Parallel()

	t.Run("with underlying error", func(t *testing.T) {
		t.Parallel()

		underlying := errors.New("compile failed")
		exitErr := &ExitError{Code: 1, Err: underlying}

		if exitErr.Error() != "compile failed" {
			t.Errorf("Error() = %q, want %q", exitErr.Error(), "compile failed")
		}
	})

	t.Run("without underlying error", func(t *testing.T) {
		t.Parallel()

		exitErr := &ExitError{Code: 3}

		if exitErr.Error() != "exit status 3" {
			t.Errorf("Error() = %q, want %q", exitErr.Error(), "exit status 3")
		}
	})
}

func TestExitError_Unwrap(t *testing.T) {
	t.Parallel()

	underlying := errors.New("underlying")
	wrapped := fmt.Errorf("wrapped: %w", underlying)
	exitErr := &ExitError{Code: 1, Err: wrapped}

	if !errors.Is(exitErr, underlying) {
		t.Error("errors.Is should find underlying error through ExitError")
	}

	var target *ExitError
	if !errors.As(fmt.Errorf("outer: %w", exitErr), &target) {
		t.Error("errors.As should find ExitError through wrapping")
	}
	if target.Code != 1 {
		t.Errorf("Code = %d, want 1", target.Code)
	}
}
