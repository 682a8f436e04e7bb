// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers for the litechat application.
//
// The package contains:
//   - AtomicWriteFile: crash-safe file persistence (write temp, fsync, rename)
//   - Rune-safe string truncation and display-width padding for the TUI
package util
