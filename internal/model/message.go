// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/litechat-tui/internal/util"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a chat.
//
// Content, Tokens and Cost are mutated in place by the orchestrator
// while this message's stream is in flight; everything else is fixed at
// construction.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`

	// Statistics, set when the terminal usage record arrives.
	Tokens int     `json:"tokens,omitempty"`
	Cost   float64 `json:"cost,omitempty"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        generateID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) *Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantPlaceholder creates the empty assistant message that is
// appended before any response bytes arrive. The orchestrator fills its
// content as deltas stream in.
func NewAssistantPlaceholder() *Message {
	return NewMessage(RoleAssistant, "")
}

// Preview returns a one-line truncated preview of the message content.
func (m *Message) Preview(maxRunes int) string {
	return util.Truncate(util.CollapseSpace(m.Content), maxRunes)
}

// IsEmpty reports whether the message has no content yet.
func (m *Message) IsEmpty() bool {
	return len(m.Content) == 0
}

// EstimateTokens gives a rough token count using the ~4 chars per token
// approximation. Used only for the context gauge in the status bar; real
// counts come from the gateway's usage record.
func (m *Message) EstimateTokens() int {
	return (len(m.Content) + 3) / 4
}

// generateID creates a unique message ID.
func generateID() string {
	return "msg_" + uuid.NewString()
}
