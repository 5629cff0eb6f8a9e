// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for luapack.
//
// This package implements the Cobra command hierarchy for the luapack CLI,
// including the root command, the build and analyze commands backed by the
// dependency resolution engine, the status report for the external
// toolchain, and configuration management.
package cmd
