// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// media.go - Transcription and embedding command handlers.
//
// Both drive the gateway's single-shot endpoints with the models
// configured in Settings (audio_model, embedding_model).
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/jeranaias/litechat-tui/internal/config"
	"github.com/jeranaias/litechat-tui/internal/gateway"
)

// HandleTranscribe sends an audio file to the transcription endpoint
// and prints the text.
func HandleTranscribe(args Args) {
	if len(args.Raw) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: litechat transcribe FILE")
		os.Exit(1)
	}
	path := args.Raw[0]

	cfg, client := mediaClient(args)

	f, err := os.Open(path)
	if err != nil {
		fatal(err)
	}
	defer f.Close()

	modelID := cfg.AudioModel
	if args.Model != "" {
		modelID = args.Model
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	text, err := client.Transcribe(ctx, f, filepath.Base(path), modelID)
	if err != nil {
		fatal(err)
	}
	fmt.Println(text)
}

// HandleEmbed embeds the query text and prints the vector as JSON.
func HandleEmbed(args Args) {
	if args.Query == "" {
		fmt.Fprintln(os.Stderr, "Usage: litechat embed \"text\"")
		os.Exit(1)
	}

	cfg, client := mediaClient(args)

	modelID := cfg.EmbeddingModel
	if args.Model != "" {
		modelID = args.Model
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	vector, err := client.CreateEmbedding(ctx, args.Query, modelID)
	if err != nil {
		fatal(err)
	}

	if !args.Quiet {
		fmt.Fprintf(os.Stderr, "[%s] %d dimensions\n", modelID, len(vector))
	}
	out, err := json.Marshal(vector)
	if err != nil {
		fatal(err)
	}
	os.Stdout.Write(out)
	fmt.Println()
}

// mediaClient loads settings and builds a configured gateway client,
// exiting with a setup hint when no credential is present.
func mediaClient(args Args) (*config.Settings, *gateway.Client) {
	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}
	client := gateway.NewClient(cfg.APIKey).WithBaseURL(cfg.BaseURL).WithCache(cfg.EnableCache)
	if !client.IsConfigured() {
		fmt.Fprintln(os.Stderr, "No API key configured. Run: litechat setup")
		os.Exit(1)
	}
	return cfg, client
}
