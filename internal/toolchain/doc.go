// SPDX-License-Identifier: MPL-2.0

// Package toolchain drives the external native build toolchain: it verifies
// that luastatic and a C compiler are available, invokes luastatic over a
// resolved manifest to produce a standalone executable, and probes optional
// LuaRocks module trees. It owns every process execution in luapack; the
// resolution engine itself never spawns processes.
package toolchain
