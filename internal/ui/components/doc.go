// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the
// litechat TUI: the status bar, the chat sidebar with usage analytics,
// and the syntax-highlighted code block renderer.
package components
