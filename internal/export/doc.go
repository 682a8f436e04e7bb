// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export renders chats for use outside the app. JSON export
// uses the same document shape the storage layer persists, so an
// exported file can be re-imported by dropping it into the data
// directory. Markdown export is for humans.
package export
