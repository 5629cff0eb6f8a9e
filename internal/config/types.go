// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultMaxDependencies bounds how many modules a single resolution may discover.
	DefaultMaxDependencies = 36
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidSearchPath is the sentinel error wrapped by InvalidSearchPathError.
	ErrInvalidSearchPath = errors.New("invalid search path")
	// ErrInvalidMaxDependencies is returned when max_dependencies is not positive.
	ErrInvalidMaxDependencies = errors.New("invalid max dependencies")
	// ErrInvalidToolPath is returned when a ToolPath value is whitespace-only.
	ErrInvalidToolPath = errors.New("invalid tool path")
	// ErrInvalidToolchainConfig is the sentinel error wrapped by InvalidToolchainConfigError.
	ErrInvalidToolchainConfig = errors.New("invalid toolchain config")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// SearchPath represents a module search root. It may be a literal directory
	// path or a doublestar glob pattern expanded at load time. A valid value
	// must be non-empty and not whitespace-only.
	SearchPath string

	// InvalidSearchPathError is returned when a SearchPath value is empty or
	// whitespace-only. It wraps ErrInvalidSearchPath for errors.Is().
	InvalidSearchPathError struct {
		Value SearchPath
	}

	// InvalidMaxDependenciesError is returned when max_dependencies is zero or
	// negative. It wraps ErrInvalidMaxDependencies for errors.Is().
	InvalidMaxDependenciesError struct {
		Value int
	}

	// ToolPath represents a filesystem path or bare command name for a
	// toolchain binary. The zero value ("") is valid and means "use the
	// default binary from PATH". Non-zero values must not be whitespace-only.
	ToolPath string

	// InvalidToolPathError is returned when a ToolPath value is non-empty
	// but whitespace-only.
	InvalidToolPathError struct {
		Value ToolPath
	}

	// InvalidToolchainConfigError is returned when a ToolchainConfig has invalid fields.
	// It wraps ErrInvalidToolchainConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidToolchainConfigError struct {
		FieldErrors []error
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	// It wraps ErrInvalidUIConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// SearchPaths lists module search roots, probed in order. Entries may
		// be doublestar glob patterns expanded at load time.
		SearchPaths []SearchPath `json:"search_paths" mapstructure:"search_paths"`
		// MaxDependencies bounds how many modules one resolution may discover.
		MaxDependencies int `json:"max_dependencies" mapstructure:"max_dependencies"`
		// UseLuaRocks appends the local LuaRocks trees to the search roots.
		UseLuaRocks bool `json:"use_luarocks" mapstructure:"use_luarocks"`
		// Toolchain configures the external compile toolchain
		Toolchain ToolchainConfig `json:"toolchain" mapstructure:"toolchain"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// ToolchainConfig overrides the binaries used to compile the packed script.
	ToolchainConfig struct {
		// Luastatic overrides the luastatic binary (default: "luastatic" from PATH)
		Luastatic ToolPath `json:"luastatic" mapstructure:"luastatic"`
		// CC overrides the C compiler handed to luastatic (default: "gcc")
		CC ToolPath `json:"cc" mapstructure:"cc"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// String returns the string representation of the SearchPath.
func (p SearchPath) String() string { return string(p) }

// IsGlob reports whether the search path contains glob metacharacters and
// therefore needs expansion before use.
func (p SearchPath) IsGlob() bool {
	return strings.ContainsAny(string(p), "*?[{")
}

// IsValid returns whether the SearchPath is valid.
// A valid path must be non-empty and not whitespace-only.
func (p SearchPath) IsValid() (bool, []error) {
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidSearchPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidSearchPathError.
func (e *InvalidSearchPathError) Error() string {
	return fmt.Sprintf("invalid search path %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidSearchPath for errors.Is() compatibility.
func (e *InvalidSearchPathError) Unwrap() error { return ErrInvalidSearchPath }

// Error implements the error interface for InvalidMaxDependenciesError.
func (e *InvalidMaxDependenciesError) Error() string {
	return fmt.Sprintf("invalid max dependencies %d: must be positive", e.Value)
}

// Unwrap returns ErrInvalidMaxDependencies for errors.Is() compatibility.
func (e *InvalidMaxDependenciesError) Unwrap() error { return ErrInvalidMaxDependencies }

// String returns the string representation of the ToolPath.
func (p ToolPath) String() string { return string(p) }

// IsValid returns whether the ToolPath is valid.
// The zero value ("") is valid (means "use the default binary from PATH").
// Non-zero values must not be whitespace-only.
func (p ToolPath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidToolPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidToolPathError.
func (e *InvalidToolPathError) Error() string {
	return fmt.Sprintf("invalid tool path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidToolPath for errors.Is() compatibility.
func (e *InvalidToolPathError) Unwrap() error { return ErrInvalidToolPath }

// IsValid returns whether the ToolchainConfig has valid fields.
// It delegates to Luastatic.IsValid() and CC.IsValid().
func (c ToolchainConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Luastatic.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.CC.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidToolchainConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidToolchainConfigError.
func (e *InvalidToolchainConfigError) Error() string {
	return fmt.Sprintf("invalid toolchain config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidToolchainConfig for errors.Is() compatibility.
func (e *InvalidToolchainConfigError) Unwrap() error { return ErrInvalidToolchainConfig }

// IsValid returns whether the UIConfig has valid fields.
// It delegates to ColorScheme.IsValid(); bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid returns whether the Config has valid fields.
// It delegates to each SearchPaths entry's IsValid(), checks MaxDependencies
// is positive, and descends into Toolchain.IsValid() and UI.IsValid().
// UseLuaRocks is a bool and needs no validation.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	for _, p := range c.SearchPaths {
		if valid, fieldErrs := p.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if c.MaxDependencies <= 0 {
		errs = append(errs, &InvalidMaxDependenciesError{Value: c.MaxDependencies})
	}
	if valid, fieldErrs := c.Toolchain.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		SearchPaths:     []SearchPath{},
		MaxDependencies: DefaultMaxDependencies,
		UseLuaRocks:     true,
		Toolchain: ToolchainConfig{
			Luastatic: "", // Will use "luastatic" from PATH if empty
			CC:        "", // Will use "gcc" if empty
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}
