// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform compatibility utilities.
//
// This package contains utilities for handling platform-specific concerns,
// such as Windows reserved filenames that cannot be used as output executable
// names, and detection of application sandboxes (Flatpak, Snap) that hide
// host toolchains from PATH lookups.
package platform
