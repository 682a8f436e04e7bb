// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jeranaias/litechat-tui/internal/config"
	"github.com/jeranaias/litechat-tui/internal/gateway"
	"github.com/jeranaias/litechat-tui/internal/model"
	"github.com/jeranaias/litechat-tui/internal/telemetry"
)

// /image should hit the image endpoint with the configured image model
// and record both sides of the exchange in the chat.
func TestImageCommandAppendsURL(t *testing.T) {
	var gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/images/generations" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		gotModel = req.Model
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]string{{"url": "https://cdn.example.com/img/42.png"}},
		})
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.ImageModel = "flux.1-schnell"
	client := gateway.NewClient("test-key").WithBaseURL(srv.URL)
	chat := model.NewChat(cfg.Model)
	ledger := telemetry.NewLedger(nil)
	modelID := cfg.Model

	done := runCommand("/image a lighthouse at dusk", chat, client, cfg, ledger, &modelID)
	if done {
		t.Fatal("runCommand ended the session")
	}
	if gotModel != "flux.1-schnell" {
		t.Errorf("image model = %q", gotModel)
	}
	if chat.MessageCount() != 2 {
		t.Fatalf("messages = %d, want 2", chat.MessageCount())
	}
	last := chat.Messages[len(chat.Messages)-1]
	if last.Role != model.RoleAssistant || last.Content != "https://cdn.example.com/img/42.png" {
		t.Errorf("last message = %s %q", last.Role, last.Content)
	}
}

// A bare /image prints usage and must not touch the chat.
func TestImageCommandRequiresPrompt(t *testing.T) {
	cfg := config.Default()
	chat := model.NewChat(cfg.Model)
	modelID := cfg.Model

	runCommand("/image", chat, nil, cfg, telemetry.NewLedger(nil), &modelID)
	if chat.MessageCount() != 0 {
		t.Errorf("messages = %d, want 0", chat.MessageCount())
	}
}
