// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chats and messages.
//
// This package defines the core domain types used throughout the
// application:
//
//   - Chat: a conversation thread with append-only message history
//   - Message: a single message with role, content, timestamp and
//     optional token/cost statistics
//   - Role: message role enumeration (user, assistant, system)
//
// It also carries the catalog of models exposed by the gateway for each
// endpoint family (chat, embedding, image, audio).
package model
