// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single question command handler.
//
// Streams one completion to stdout. When stdout is a terminal and the
// session is not quiet, the finished response is re-rendered as
// markdown; piped output stays plain so it composes with other tools.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/jeranaias/litechat-tui/internal/config"
	"github.com/jeranaias/litechat-tui/internal/gateway"
	"github.com/jeranaias/litechat-tui/internal/model"
	"github.com/jeranaias/litechat-tui/internal/storage"
	"github.com/jeranaias/litechat-tui/internal/telemetry"
)

// HandleAsk answers a single question and exits.
func HandleAsk(args Args) {
	if args.Query == "" {
		fmt.Fprintln(os.Stderr, "Usage: litechat ask \"question\"")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}
	client := gateway.NewClient(cfg.APIKey).WithBaseURL(cfg.BaseURL).WithCache(cfg.EnableCache)
	if !client.IsConfigured() {
		fmt.Fprintln(os.Stderr, "No API key configured. Run: litechat setup")
		os.Exit(1)
	}

	modelID := cfg.Model
	if args.Model != "" {
		modelID = args.Model
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	chunks, err := client.StreamCompletion(ctx, &gateway.CompletionRequest{
		Model:       modelID,
		Messages:    []model.ChatMessage{{Role: model.RoleUser.String(), Content: args.Query}},
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	})
	if err != nil {
		fatal(err)
	}

	interactive := !args.Quiet && term.IsTerminal(int(os.Stdout.Fd()))

	var full string
	var usage *gateway.Usage
	for chunk := range chunks {
		if chunk.Err != nil {
			fatal(chunk.Err)
		}
		if chunk.Content != "" {
			full += chunk.Content
			if !interactive {
				fmt.Print(chunk.Content)
			}
		}
		if chunk.Usage != nil {
			usage = chunk.Usage
		}
	}

	if interactive {
		printMarkdown(full)
	} else {
		fmt.Println()
	}

	if usage != nil {
		cost := telemetry.EstimateCost(modelID, usage.PromptTokens, usage.CompletionTokens)
		recordUsage(modelID, usage, cost)
		if !args.Quiet {
			fmt.Fprintf(os.Stderr, "\n[%s] %d tokens, $%.4f\n", modelID, usage.TotalTokens, cost)
		}
	}
}

// printMarkdown renders text via glamour, falling back to plain output.
func printMarkdown(text string) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err == nil {
		if out, rerr := r.Render(text); rerr == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Println(text)
}

// recordUsage appends to the usage ledger, best effort.
func recordUsage(modelID string, usage *gateway.Usage, cost float64) {
	dir, err := storage.DefaultDir()
	if err != nil {
		return
	}
	ls, err := telemetry.NewLedgerStorage(dir)
	if err != nil {
		return
	}
	ledger := telemetry.NewLedger(ls)
	ledger.Record(telemetry.UsageRecord{
		Model:            modelID,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		Cost:             cost,
		Timestamp:        time.Now(),
	})
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
