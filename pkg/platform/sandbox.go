// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"os"
	"sync"
)

// SandboxType identifies the application sandbox a process runs in, if any.
// Inside a sandbox the host's luastatic and C compiler are usually not
// visible on PATH, so callers use this to explain why tool lookups fail.
type SandboxType string

const (
	SandboxNone    SandboxType = ""
	SandboxFlatpak SandboxType = "flatpak"
	SandboxSnap    SandboxType = "snap"
)

// detectOnce caches detection for the process lifetime; the sandbox cannot
// change while we run.
//
// INVARIANT: detectSandboxFrom MUST NOT panic. sync.OnceValue replays a
// panic on every subsequent call, unlike sync.Once which swallows it.
var detectOnce = sync.OnceValue(func() SandboxType {
	return detectSandboxFrom(os.Getenv, statFile)
})

// DetectSandbox reports the sandbox the current process runs in.
// Flatpak is recognized by /.flatpak-info, Snap by the SNAP_NAME
// environment variable.
func DetectSandbox() SandboxType {
	return detectOnce()
}

// SpawnCommandFor returns the helper binary that escapes the given sandbox
// to run host commands, or "" when no sandbox is involved. Pure function,
// independent of the cached detection state.
func SpawnCommandFor(st SandboxType) string {
	switch st {
	case SandboxFlatpak:
		return "flatpak-spawn"
	case SandboxSnap:
		return "snap"
	default:
		return ""
	}
}

// detectSandboxFrom takes the environment and stat lookups as parameters so
// tests can inject behavior without touching process-wide state.
func detectSandboxFrom(lookupEnv func(string) string, statFile func(string) error) SandboxType {
	// Flatpak takes precedence; /.flatpak-info always exists in its sandbox.
	if err := statFile("/.flatpak-info"); err == nil {
		return SandboxFlatpak
	}

	if lookupEnv("SNAP_NAME") != "" {
		return SandboxSnap
	}

	return SandboxNone
}

func statFile(path string) error {
	_, err := os.Stat(path)
	return err
}
