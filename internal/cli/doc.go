// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements litechat's non-TUI command surface: one-shot
// questions, a plain readline chat loop, the first-run setup wizard,
// chat export, and message search. The TUI itself lives under
// internal/ui; main routes between them based on the parsed command.
package cli
