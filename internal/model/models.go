// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// MODEL CATALOG
// =============================================================================

// The gateway exposes four endpoint families, each with its own model
// list. These are the identifiers the hosted gateway accepts; unknown
// identifiers are still sent through (the gateway is the authority),
// the catalog just drives the pickers and the pricing defaults.

// ChatModels are the completion models selectable for conversations.
var ChatModels = []string{
	"llama-3.1-70b-instruct",
	"llama-3.3-70b-instruct",
	"llama-3.1-nemotron-nano-8B-v1",
	"mixtral-8x7b-instruct",
	"llama-3.1-8b-instruct",
	"mistral-7b-instruct",
	"mistral-small-3.1",
	"codestral-22b",
	"granite-3.1-8b-instruct",
	"gemma-3-27b-it",
	"kokoro",
}

// EmbeddingModels are the models accepted by the embeddings endpoint.
var EmbeddingModels = []string{
	"nomic-embed-text-v1.5",
	"sfr-embedding-mistral",
	"gte-large-en-v1.5",
}

// ImageModels are the models accepted by the image generation endpoint.
var ImageModels = []string{
	"flux.1-schnell",
	"flux.1-dev",
}

// AudioModels are the models accepted by the transcription endpoint.
var AudioModels = []string{
	"whisper-large-v3",
}

// IsChatModel reports whether id is in the chat model catalog.
func IsChatModel(id string) bool {
	return contains(ChatModels, id)
}

// IsEmbeddingModel reports whether id is in the embedding catalog.
func IsEmbeddingModel(id string) bool {
	return contains(EmbeddingModels, id)
}

// IsImageModel reports whether id is in the image catalog.
func IsImageModel(id string) bool {
	return contains(ImageModels, id)
}

// IsAudioModel reports whether id is in the audio catalog.
func IsAudioModel(id string) bool {
	return contains(AudioModels, id)
}

// NextChatModel returns the catalog entry after id, wrapping around.
// Used by the model cycling key in the TUI.
func NextChatModel(id string) string {
	for i, m := range ChatModels {
		if m == id {
			return ChatModels[(i+1)%len(ChatModels)]
		}
	}
	return ChatModels[0]
}

func contains(list []string, id string) bool {
	for _, m := range list {
		if m == id {
			return true
		}
	}
	return false
}
