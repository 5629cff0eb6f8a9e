// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"os"

	"luapack-cli/internal/issue"
	"luapack-cli/pkg/cueutil"
)

// ValidateFile parses a config file and validates it against the #Config
// schema, without merging defaults or environment overrides. It is the
// backing for `luapack config validate`: the file is checked exactly as
// written, so a file that validates here loads cleanly everywhere.
//
// Unlike Load, this decodes straight to Config through the schema unification
// so CUE reports constraint violations with their JSON paths.
func ValidateFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithSuggestion("Verify the file path is correct").
			WithSuggestion("Check that the file exists and is readable").
			Wrap(fmt.Errorf("failed to read config file: %w", err)).
			BuildError()
	}

	// Concrete(false): config fields are optional, a partial file is valid.
	result, err := cueutil.ParseAndDecodeString[Config](
		configSchema,
		data,
		"#Config",
		cueutil.WithFilename(path),
		cueutil.WithConcrete(false),
	)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithSuggestion("Check that the file contains valid CUE syntax").
			WithSuggestion("Verify the configuration values match the expected schema").
			Wrap(err).
			BuildError()
	}

	// Uniqueness of literal search paths is the one rule CUE cannot express.
	if err := validateSearchPaths(result.Value.SearchPaths); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithSuggestion("Remove the duplicated search_paths entry").
			Wrap(err).
			BuildError()
	}

	return result.Value, nil
}
