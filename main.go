// litechat - a terminal client for LLM gateway chat.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/litechat-tui/internal/cli"
	"github.com/jeranaias/litechat-tui/internal/config"
	"github.com/jeranaias/litechat-tui/internal/gateway"
	"github.com/jeranaias/litechat-tui/internal/index"
	"github.com/jeranaias/litechat-tui/internal/orchestrator"
	"github.com/jeranaias/litechat-tui/internal/storage"
	"github.com/jeranaias/litechat-tui/internal/store"
	"github.com/jeranaias/litechat-tui/internal/telemetry"
	"github.com/jeranaias/litechat-tui/internal/ui/chat"
	"github.com/jeranaias/litechat-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdAsk:
		cli.HandleAsk(args)
	case cli.CmdChat:
		cli.HandleChat(args)
	case cli.CmdSetup:
		cli.HandleSetup(args)
	case cli.CmdExport:
		cli.HandleExport(args)
	case cli.CmdSearch:
		cli.HandleSearch(args)
	case cli.CmdStats:
		cli.HandleStats(args)
	case cli.CmdTranscribe:
		cli.HandleTranscribe(args)
	case cli.CmdEmbed:
		cli.HandleEmbed(args)
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.Usage()
	}
}

// runTUI wires the full application and hands it to Bubble Tea.
func runTUI(args cli.Args) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if args.Model != "" {
		cfg.Model = args.Model
	}

	dataDir, err := storage.DefaultDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// The alt screen owns stderr while the TUI runs; background errors
	// go to a log file in the data dir instead.
	if logFile, err := os.OpenFile(filepath.Join(dataDir, "litechat.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600); err == nil {
		log.SetOutput(logFile)
		defer logFile.Close()
	}

	chatStore := storage.NewChatStore(dataDir)
	chats, err := chatStore.Load()
	if err != nil {
		// A corrupt chats file starts an empty session; the broken
		// file stays on disk until the first save replaces it.
		fmt.Fprintf(os.Stderr, "Warning: could not load chats: %v\n", err)
		chats = nil
	}

	st := store.New()
	st.LoadChats(chats)

	var ledger *telemetry.Ledger
	if ls, err := telemetry.NewLedgerStorage(dataDir); err == nil {
		ledger = telemetry.NewLedger(ls)
	} else {
		fmt.Fprintf(os.Stderr, "Warning: usage ledger unavailable: %v\n", err)
		ledger = telemetry.NewLedger(nil)
	}

	if err := telemetry.LoadPricingOverrides(filepath.Join(dataDir, "pricing.toml")); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: pricing overrides ignored: %v\n", err)
	}

	client := gateway.NewClient(cfg.APIKey).WithBaseURL(cfg.BaseURL).WithCache(cfg.EnableCache)
	if !client.IsConfigured() {
		fmt.Fprintln(os.Stderr, "No API key configured. Run: litechat setup")
		fmt.Fprintln(os.Stderr, "Starting anyway; sends will be disabled.")
	}

	orch := orchestrator.New(st, client, ledger, orchestrator.Options{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	})
	orch.SetDebug(args.Debug)

	theme := styles.NewTheme()
	m := chat.New(theme, st, orch, ledger, chatStore, cfg)

	p := tea.NewProgram(m, tea.WithAltScreen())

	// Forward orchestrator events into the Bubble Tea loop.
	go func() {
		for ev := range orch.Events() {
			p.Send(chat.StreamEventMsg{Event: ev})
		}
	}()

	// Hot-reload generation settings when the config file changes.
	if path, err := config.PathTOML(); err == nil {
		if w, werr := config.Watch(path, func(s *config.Settings) {
			orch.SetOptions(orchestrator.Options{
				Model:       s.Model,
				Temperature: s.Temperature,
				MaxTokens:   s.MaxTokens,
			})
		}); werr == nil {
			defer w.Close()
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Final save plus a search index refresh for the CLI.
	if err := chatStore.Save(st.Chats()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save chats: %v\n", err)
	}
	refreshIndex(dataDir, st)
}

// refreshIndex rebuilds the message search index on exit, best effort.
func refreshIndex(dataDir string, st *store.Store) {
	idx, err := index.Open(filepath.Join(dataDir, "index.db"))
	if err != nil {
		log.Printf("index: skipped: %v", err)
		return
	}
	defer idx.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := idx.Rebuild(ctx, st.Chats()); err != nil {
		log.Printf("index: rebuild failed: %v", err)
	}
}
