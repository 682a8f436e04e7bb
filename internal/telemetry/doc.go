// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package telemetry provides usage and cost tracking for litechat.
//
// The Ledger is an append-only log of per-request token counts with the
// derived cost, persisted to a JSON file in the data directory.
// Aggregation queries (total, today, per-model) are fresh reductions
// over the in-memory log. Cost estimation uses a static per-model rate
// table with a documented default for unknown models; rates can be
// overridden from pricing.toml without a rebuild.
package telemetry
