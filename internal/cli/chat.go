// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Plain interactive chat loop (no TUI).
//
// Useful over ssh or inside terminals the full TUI does not render
// well in. Keeps the same chat semantics: messages persist to
// chats.json, usage lands in the ledger.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/jeranaias/litechat-tui/internal/config"
	"github.com/jeranaias/litechat-tui/internal/gateway"
	"github.com/jeranaias/litechat-tui/internal/model"
	"github.com/jeranaias/litechat-tui/internal/storage"
	"github.com/jeranaias/litechat-tui/internal/telemetry"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// lineReader wraps liner with persistent input history.
type lineReader struct {
	line        *liner.State
	historyFile string
}

func newLineReader() *lineReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.Dir()
	if err != nil {
		dir = os.TempDir()
	}
	r := &lineReader{
		line:        line,
		historyFile: filepath.Join(dir, "chat_history"),
	}

	if f, err := os.Open(r.historyFile); err == nil {
		r.line.ReadHistory(f)
		f.Close()
	}
	return r
}

func (r *lineReader) read(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

func (r *lineReader) close() {
	if f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
		r.line.WriteHistory(f)
		f.Close()
	}
	r.line.Close()
}

// =============================================================================
// CHAT LOOP
// =============================================================================

// HandleChat runs the plain interactive chat loop.
func HandleChat(args Args) {
	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}
	client := gateway.NewClient(cfg.APIKey).WithBaseURL(cfg.BaseURL).WithCache(cfg.EnableCache)
	if !client.IsConfigured() {
		fmt.Fprintln(os.Stderr, "No API key configured. Run: litechat setup")
		os.Exit(1)
	}

	dir, err := storage.DefaultDir()
	if err != nil {
		fatal(err)
	}
	chatStore := storage.NewChatStore(dir)
	chats, err := chatStore.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load chats: %v\n", err)
		chats = nil
	}

	var ledger *telemetry.Ledger
	if ls, err := telemetry.NewLedgerStorage(dir); err == nil {
		ledger = telemetry.NewLedger(ls)
	} else {
		ledger = telemetry.NewLedger(nil)
	}

	modelID := cfg.Model
	if args.Model != "" {
		modelID = args.Model
	}
	chat := model.NewChat(modelID)
	chats = append([]*model.Chat{chat}, chats...)

	reader := newLineReader()
	defer reader.close()

	if !args.Quiet {
		fmt.Printf("litechat chat - model %s (/help for commands)\n\n", modelID)
	}

	for {
		input, err := reader.read("> ")
		if err != nil {
			// Ctrl-C or EOF ends the session.
			break
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if done := runCommand(input, chat, client, cfg, ledger, &modelID); done {
				break
			}
			continue
		}

		chat.Append(model.NewUserMessage(input))

		reply, usage, err := streamTurn(client, chat, cfg, modelID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		chat.Append(reply)

		if usage != nil {
			cost := telemetry.EstimateCost(modelID, usage.PromptTokens, usage.CompletionTokens)
			reply.Tokens = usage.TotalTokens
			reply.Cost = cost
			chat.TotalTokens += usage.TotalTokens
			chat.TotalCost += cost
			ledger.Record(telemetry.UsageRecord{
				Model:            modelID,
				PromptTokens:     usage.PromptTokens,
				CompletionTokens: usage.CompletionTokens,
				Cost:             cost,
				Timestamp:        time.Now(),
			})
		}

		if err := chatStore.Save(chats); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not save chats: %v\n", err)
		}
	}

	if !chat.IsEmpty() {
		if err := chatStore.Save(chats); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not save chats: %v\n", err)
		}
	}
	fmt.Println()
}

// streamTurn sends the chat history and streams the reply to stdout.
func streamTurn(client *gateway.Client, chat *model.Chat, cfg *config.Settings, modelID string) (*model.Message, *gateway.Usage, error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	chunks, err := client.StreamCompletion(ctx, &gateway.CompletionRequest{
		Model:       modelID,
		Messages:    chat.History(),
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	})
	if err != nil {
		return nil, nil, err
	}

	reply := model.NewAssistantPlaceholder()
	var usage *gateway.Usage
	for chunk := range chunks {
		if chunk.Err != nil {
			return nil, nil, chunk.Err
		}
		if chunk.Content != "" {
			reply.Content += chunk.Content
			fmt.Print(chunk.Content)
		}
		if chunk.Usage != nil {
			usage = chunk.Usage
		}
	}
	fmt.Println()
	return reply, usage, nil
}

// runCommand handles slash commands. It returns true when the session
// should end.
func runCommand(input string, chat *model.Chat, client *gateway.Client, cfg *config.Settings, ledger *telemetry.Ledger, modelID *string) bool {
	fields := strings.Fields(input)
	switch fields[0] {
	case "/exit", "/quit", "/q":
		return true
	case "/model":
		if len(fields) > 1 {
			*modelID = fields[1]
			chat.Model = fields[1]
			fmt.Printf("model: %s\n", *modelID)
		} else {
			fmt.Printf("model: %s\n", *modelID)
		}
	case "/image":
		prompt := strings.TrimSpace(strings.TrimPrefix(input, "/image"))
		if prompt == "" {
			fmt.Println("usage: /image <prompt>")
			break
		}
		url, err := client.GenerateImage(context.Background(), prompt, cfg.ImageModel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}
		fmt.Println(url)
		chat.Append(model.NewUserMessage("/image " + prompt))
		chat.Append(model.NewMessage(model.RoleAssistant, url))
	case "/stats":
		fmt.Printf("this chat: %d messages, %d tokens, $%.4f\n",
			chat.MessageCount(), chat.TotalTokens, chat.TotalCost)
		fmt.Printf("today: $%.4f   all time: $%.4f over %d requests\n",
			ledger.CostToday(), ledger.TotalCost(), ledger.Requests())
	case "/help":
		fmt.Println("commands: /model [name], /image <prompt>, /stats, /exit")
	default:
		fmt.Printf("unknown command %s (try /help)\n", fields[0])
	}
	return false
}
