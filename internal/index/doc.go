// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package index maintains a SQLite full-list search index over chat
// messages. The index is derived data: it is rebuilt wholesale from the
// chat list and can always be recreated, so a corrupt database file is
// deleted and rebuilt rather than repaired.
package index
