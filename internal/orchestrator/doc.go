// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package orchestrator coordinates a chat turn end to end: it appends
// the user message, opens a streaming completion against the gateway,
// folds deltas into the assistant placeholder, and settles token usage
// and cost into the store and ledger when the stream finishes.
//
// One stream runs at a time. The store's loading flag is the gate; a
// send while a stream is active is a silent no-op, matching the rest of
// the orchestrator's precondition handling (no active chat, no
// credential). Cancellation is cooperative: StopGeneration flips a flag
// checked before each chunk and cancels the request context, so partial
// output written so far is kept.
package orchestrator
