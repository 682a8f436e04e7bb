// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists chats to disk as a single JSON document
// under the litechat data directory (~/.litechat by default). Saves are
// atomic full-list writes; loads are best-effort, so a missing or
// corrupt file starts the app with an empty chat list instead of
// failing.
package storage
