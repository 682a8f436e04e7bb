// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jeranaias/litechat-tui/internal/model"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cs := NewChatStore(dir)

	chat := model.NewChat("mixtral-8x7b-instruct")
	chat.Append(model.NewUserMessage("what is the capital of France?"))
	reply := model.NewAssistantPlaceholder()
	reply.Content = "Paris."
	reply.Tokens = 42
	reply.Cost = 0.0001
	chat.Append(reply)

	if err := cs.Save([]*model.Chat{chat}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := cs.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("loaded %d chats, want 1", len(loaded))
	}

	got := loaded[0]
	if got.ID != chat.ID {
		t.Errorf("ID = %q, want %q", got.ID, chat.ID)
	}
	if got.Title != chat.Title {
		t.Errorf("Title = %q, want %q", got.Title, chat.Title)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(got.Messages))
	}
	if got.Messages[1].Content != "Paris." || got.Messages[1].Tokens != 42 {
		t.Errorf("reply round-trip mismatch: %+v", got.Messages[1])
	}
}

func TestLoadMissingFile(t *testing.T) {
	cs := NewChatStore(t.TempDir())
	chats, err := cs.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(chats) != 0 {
		t.Errorf("expected empty list, got %d chats", len(chats))
	}
}

func TestLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	cs := NewChatStore(dir)
	if err := os.WriteFile(filepath.Join(dir, "chats.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := cs.Load(); err == nil {
		t.Error("expected error for corrupt file")
	}
}

func TestSaveReplacesWholeFile(t *testing.T) {
	dir := t.TempDir()
	cs := NewChatStore(dir)

	a := model.NewChat("m")
	b := model.NewChat("m")
	if err := cs.Save([]*model.Chat{a, b}); err != nil {
		t.Fatal(err)
	}
	if err := cs.Save([]*model.Chat{b}); err != nil {
		t.Fatal(err)
	}

	loaded, err := cs.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 1 || loaded[0].ID != b.ID {
		t.Errorf("save did not replace the chat list: %d chats", len(loaded))
	}
}
