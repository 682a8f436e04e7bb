// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gateway implements the client for the hosted OpenAI-compatible
// LLM gateway.
//
// One streaming operation (chat completions over SSE) and three
// single-shot operations (audio transcription, image generation, text
// embedding). Every request carries the bearer credential. The client
// performs no retries and no backoff: a transport or protocol failure
// aborts the operation and surfaces to the caller.
package gateway
