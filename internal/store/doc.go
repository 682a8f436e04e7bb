// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store holds the in-memory conversation state: the chat list,
// the active chat pointer, and the global loading/error flags.
//
// The store is pure state — it performs no I/O. Mutations come from two
// places: direct user-intent handlers (new chat, delete chat, switch
// chat) and the orchestrator's streaming goroutine. A RWMutex guards the
// state; the loading flag serializes sends, so message mutation is
// effectively single-writer while a stream is in flight.
package store
