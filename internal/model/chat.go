// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// TitleRunes is how much of the first user message becomes the chat
// title. The trailing "..." is always appended, matching the behaviour
// users already rely on for scanning the sidebar.
const TitleRunes = 50

// =============================================================================
// CHAT TYPE
// =============================================================================

// Chat holds one conversation thread.
//
// Messages is append-only: the sequence is never reordered or sorted,
// and insertion order is conversation order. UpdatedAt advances with
// every append.
type Chat struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Messages []*Message `json:"messages"`

	// Running totals, updated as usage records arrive.
	TotalTokens int     `json:"total_tokens"`
	TotalCost   float64 `json:"total_cost"`
}

// NewChat creates an empty chat for the given model.
func NewChat(modelID string) *Chat {
	now := time.Now()
	return &Chat{
		ID:        "chat_" + uuid.NewString(),
		Title:     "New Chat",
		Model:     modelID,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  make([]*Message, 0),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// Append adds a message to the chat, advances UpdatedAt and derives the
// title from the first user message.
func (c *Chat) Append(msg *Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
	c.deriveTitle(msg)
}

// deriveTitle sets the title once, from the first user message. Later
// messages never change it.
func (c *Chat) deriveTitle(msg *Message) {
	if len(c.Messages) != 1 || msg.Role != RoleUser {
		return
	}
	runes := []rune(msg.Content)
	if len(runes) > TitleRunes {
		runes = runes[:TitleRunes]
	}
	c.Title = string(runes) + "..."
}

// MessageByID returns the message with the given id, or nil.
func (c *Chat) MessageByID(id string) *Message {
	for _, msg := range c.Messages {
		if msg.ID == id {
			return msg
		}
	}
	return nil
}

// LastMessage returns the most recent message, or nil for an empty chat.
func (c *Chat) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// MessageCount returns the number of messages.
func (c *Chat) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty reports whether the chat has no messages.
func (c *Chat) IsEmpty() bool {
	return len(c.Messages) == 0
}

// =============================================================================
// OUTBOUND CONVERSION
// =============================================================================

// History reduces the chat to the {role, content} pairs sent upstream.
// Timestamps, ids and statistics never leave the client.
func (c *Chat) History() []ChatMessage {
	out := make([]ChatMessage, 0, len(c.Messages))
	for _, msg := range c.Messages {
		out = append(out, ChatMessage{
			Role:    msg.Role.String(),
			Content: msg.Content,
		})
	}
	return out
}

// ChatMessage is the wire form of a message: role and content only.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// =============================================================================
// TOKEN TRACKING
// =============================================================================

// EstimateTokens estimates the chat's total token footprint, with a
// small per-message overhead for the wire structure.
func (c *Chat) EstimateTokens() int {
	total := 0
	for _, msg := range c.Messages {
		total += msg.EstimateTokens() + 4
	}
	return total
}

// Clone creates a deep copy of the chat. Used by the store to hand out
// snapshots the UI can read without holding the store lock.
func (c *Chat) Clone() *Chat {
	clone := &Chat{
		ID:          c.ID,
		Title:       c.Title,
		Model:       c.Model,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		TotalTokens: c.TotalTokens,
		TotalCost:   c.TotalCost,
		Messages:    make([]*Message, len(c.Messages)),
	}
	for i, msg := range c.Messages {
		msgCopy := *msg
		clone.Messages[i] = &msgCopy
	}
	return clone
}
