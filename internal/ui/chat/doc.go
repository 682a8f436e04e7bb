// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the litechat TUI: a sidebar
// of chats, a scrollback viewport, an input line and a status bar,
// driven by the shared store and the streaming orchestrator.
//
// Streaming updates arrive as orchestrator events forwarded into the
// Bubble Tea loop. Deltas are rate-limited through a render throttle so
// fast streams redraw at a capped frame rate instead of once per token.
package chat
