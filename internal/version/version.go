/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package version provides version information.
package version

// Version is the current version of Bragi Schedule.
// This is set at build time via ldflags:
//
//	-X github.com/friendsincode/bragi_schedule/internal/version.Version=X.Y.Z
var Version = "0.1.0"
