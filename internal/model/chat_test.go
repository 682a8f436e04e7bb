// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"
)

func TestNewChatDefaults(t *testing.T) {
	c := NewChat("llama-3.1-70b-instruct")

	if c.Title != "New Chat" {
		t.Errorf("Title = %q, want %q", c.Title, "New Chat")
	}
	if !strings.HasPrefix(c.ID, "chat_") {
		t.Errorf("ID = %q, want chat_ prefix", c.ID)
	}
	if !c.IsEmpty() {
		t.Error("new chat should be empty")
	}
}

func TestTitleDerivedFromFirstUserMessage(t *testing.T) {
	c := NewChat("llama-3.1-70b-instruct")
	c.Append(NewUserMessage("short question"))

	if c.Title != "short question..." {
		t.Errorf("Title = %q, want %q", c.Title, "short question...")
	}

	// Later messages never change it.
	c.Append(NewMessage(RoleAssistant, "an answer"))
	c.Append(NewUserMessage("a different question"))
	if c.Title != "short question..." {
		t.Errorf("Title changed to %q after later messages", c.Title)
	}
}

func TestTitleTruncatesAtFiftyRunes(t *testing.T) {
	long := strings.Repeat("héllo ", 20) // 120 runes, multibyte
	c := NewChat("llama-3.1-70b-instruct")
	c.Append(NewUserMessage(long))

	runes := []rune(c.Title)
	if got := len(runes); got != TitleRunes+3 {
		t.Errorf("title length = %d runes, want %d", got, TitleRunes+3)
	}
	if !strings.HasSuffix(c.Title, "...") {
		t.Errorf("Title = %q, want ... suffix", c.Title)
	}
	if string(runes[:TitleRunes]) != string([]rune(long)[:TitleRunes]) {
		t.Error("title prefix does not match the message prefix")
	}
}

func TestTitleNotDerivedFromAssistantFirst(t *testing.T) {
	c := NewChat("llama-3.1-70b-instruct")
	c.Append(NewMessage(RoleAssistant, "greeting"))

	if c.Title != "New Chat" {
		t.Errorf("Title = %q, want unchanged default", c.Title)
	}
}

func TestHistoryStripsNonWireFields(t *testing.T) {
	c := NewChat("mixtral-8x7b-instruct")
	c.Append(NewUserMessage("question"))
	asst := NewMessage(RoleAssistant, "answer")
	asst.Tokens = 12
	asst.Cost = 0.001
	c.Append(asst)

	history := c.History()
	if len(history) != 2 {
		t.Fatalf("len(history) = %d, want 2", len(history))
	}
	if history[0].Role != "user" || history[0].Content != "question" {
		t.Errorf("history[0] = %+v", history[0])
	}
	if history[1].Role != "assistant" || history[1].Content != "answer" {
		t.Errorf("history[1] = %+v", history[1])
	}
}

func TestMessageByID(t *testing.T) {
	c := NewChat("llama-3.1-70b-instruct")
	msg := NewUserMessage("find me")
	c.Append(msg)

	if got := c.MessageByID(msg.ID); got != msg {
		t.Error("MessageByID did not return the appended message")
	}
	if got := c.MessageByID("msg_missing"); got != nil {
		t.Errorf("MessageByID(missing) = %v, want nil", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	c := NewChat("llama-3.1-70b-instruct")
	c.Append(NewUserMessage("original"))
	c.TotalTokens = 99

	clone := c.Clone()
	clone.Messages[0].Content = "mutated"
	clone.Title = "mutated"
	clone.TotalTokens = 0

	if c.Messages[0].Content != "original" {
		t.Error("mutating the clone's message changed the original")
	}
	if c.TotalTokens != 99 {
		t.Error("mutating the clone changed the original's totals")
	}
	if clone.ID != c.ID || len(clone.Messages) != 1 {
		t.Error("clone did not copy identity fields")
	}
}

func TestEstimateTokens(t *testing.T) {
	m := NewUserMessage("12345678") // 8 chars -> ceil(8/4) = 2
	if got := m.EstimateTokens(); got != 2 {
		t.Errorf("EstimateTokens = %d, want 2", got)
	}

	c := NewChat("llama-3.1-70b-instruct")
	c.Append(m)
	// per-message overhead of 4
	if got := c.EstimateTokens(); got != 6 {
		t.Errorf("chat EstimateTokens = %d, want 6", got)
	}
}

func TestRoleDisplayName(t *testing.T) {
	cases := []struct {
		role Role
		want string
	}{
		{RoleUser, "You"},
		{RoleAssistant, "Assistant"},
		{RoleSystem, "System"},
		{Role("tool"), "tool"},
	}
	for _, tc := range cases {
		if got := tc.role.DisplayName(); got != tc.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tc.role, got, tc.want)
		}
	}
}

func TestNextChatModelWraps(t *testing.T) {
	last := ChatModels[len(ChatModels)-1]
	if got := NextChatModel(last); got != ChatModels[0] {
		t.Errorf("NextChatModel(last) = %q, want %q", got, ChatModels[0])
	}
	if got := NextChatModel(ChatModels[0]); got != ChatModels[1] {
		t.Errorf("NextChatModel(first) = %q, want %q", got, ChatModels[1])
	}
	if got := NextChatModel("unknown"); got != ChatModels[0] {
		t.Errorf("NextChatModel(unknown) = %q, want %q", got, ChatModels[0])
	}
}

func TestCatalogMembership(t *testing.T) {
	if !IsChatModel("mixtral-8x7b-instruct") {
		t.Error("mixtral-8x7b-instruct should be a chat model")
	}
	if IsChatModel("flux.1-schnell") {
		t.Error("flux.1-schnell is not a chat model")
	}
	if !IsImageModel("flux.1-schnell") {
		t.Error("flux.1-schnell should be an image model")
	}
	if !IsAudioModel("whisper-large-v3") {
		t.Error("whisper-large-v3 should be an audio model")
	}
	if !IsEmbeddingModel("nomic-embed-text-v1.5") {
		t.Error("nomic-embed-text-v1.5 should be an embedding model")
	}
}
