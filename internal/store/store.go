// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"sync"

	"github.com/jeranaias/litechat-tui/internal/model"
)

// =============================================================================
// CHAT STORE
// =============================================================================

// Store holds every chat thread plus the global UI flags.
//
// Invariants:
//   - chat ids are unique; chats are ordered most-recent-created first
//   - activeChatID, when set, references an id present in chats; when
//     the active chat is deleted the pointer falls back to the new
//     first chat (or empty when none remain)
//   - loading is true for the duration of exactly one in-flight stream
type Store struct {
	mu           sync.RWMutex
	chats        []*model.Chat
	activeChatID string
	loading      bool
	errMsg       string
}

// New creates an empty store.
func New() *Store {
	return &Store{chats: make([]*model.Chat, 0)}
}

// =============================================================================
// CHAT LIFECYCLE
// =============================================================================

// CreateChat prepends a new empty chat for the given model and makes it
// active. Returns the new chat's id.
func (s *Store) CreateChat(modelID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat := model.NewChat(modelID)
	s.chats = append([]*model.Chat{chat}, s.chats...)
	s.activeChatID = chat.ID
	return chat.ID
}

// SetActiveChat moves the active pointer. The id is not validated; the
// caller is responsible for passing an id taken from the store.
func (s *Store) SetActiveChat(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeChatID = id
}

// DeleteChat removes the chat with the given id. When the active chat is
// deleted the pointer falls back to the new first chat, or empty when no
// chats remain. Deleting a non-active chat never moves the pointer.
func (s *Store) DeleteChat(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.chats[:0]
	for _, c := range s.chats {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.chats = kept

	if s.activeChatID == id {
		if len(s.chats) > 0 {
			s.activeChatID = s.chats[0].ID
		} else {
			s.activeChatID = ""
		}
	}
}

// LoadChats replaces the chat list wholesale. Used at startup and by
// import; the active pointer moves to the first chat.
func (s *Store) LoadChats(chats []*model.Chat) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if chats == nil {
		chats = make([]*model.Chat, 0)
	}
	s.chats = chats
	if len(chats) > 0 {
		s.activeChatID = chats[0].ID
	} else {
		s.activeChatID = ""
	}
}

// SetChatModel changes the model used by an existing chat. Missing
// chats are a silent no-op like the other mutators.
func (s *Store) SetChatModel(chatID, modelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if chat := s.findLocked(chatID); chat != nil {
		chat.Model = modelID
	}
}

// =============================================================================
// MESSAGE MUTATION
// =============================================================================

// AppendMessage appends msg to the named chat. A missing chat is a
// no-op, not an error: the chat may have been deleted while a send was
// being typed, and the UI simply drops the intent.
func (s *Store) AppendMessage(chatID string, msg *model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if chat := s.findLocked(chatID); chat != nil {
		chat.Append(msg)
	}
}

// UpdateMessageContent replaces the content of the matching message and,
// when provided, its token/cost statistics.
//
// A zero tokens or cost value is treated as "absent" and leaves the
// field untouched. That makes an explicit zero indistinguishable from
// not-provided; existing chat files depend on the behaviour, so it is
// kept deliberately (see TestUpdateMessageContentZeroMeansAbsent).
func (s *Store) UpdateMessageContent(chatID, messageID, content string, tokens int, cost float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat := s.findLocked(chatID)
	if chat == nil {
		return
	}
	msg := chat.MessageByID(messageID)
	if msg == nil {
		return
	}

	msg.Content = content
	if tokens != 0 {
		msg.Tokens = tokens
		chat.TotalTokens += tokens
	}
	if cost != 0 {
		msg.Cost = cost
		chat.TotalCost += cost
	}
}

// =============================================================================
// FLAGS
// =============================================================================

// BeginStream atomically claims the single process-wide stream slot.
// Returns false when a stream is already active, in which case the
// caller must treat the send as a no-op.
func (s *Store) BeginStream() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		return false
	}
	s.loading = true
	s.errMsg = ""
	return true
}

// SetLoading sets the global loading flag.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

// SetError sets the user-visible error message; empty clears it.
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = msg
}

// =============================================================================
// READ ACCESS
// =============================================================================

// Chats returns a snapshot of the chat list in store order. The clones
// are safe to read while a stream mutates the originals.
func (s *Store) Chats() []*model.Chat {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Chat, len(s.chats))
	for i, c := range s.chats {
		out[i] = c.Clone()
	}
	return out
}

// ChatCount returns the number of chats without copying.
func (s *Store) ChatCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chats)
}

// ActiveChatID returns the id of the active chat, or "" when none.
func (s *Store) ActiveChatID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeChatID
}

// ActiveChat returns a snapshot of the active chat, or nil.
func (s *Store) ActiveChat() *model.Chat {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if chat := s.findLocked(s.activeChatID); chat != nil {
		return chat.Clone()
	}
	return nil
}

// Chat returns a snapshot of the chat with the given id, or nil.
func (s *Store) Chat(id string) *model.Chat {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if chat := s.findLocked(id); chat != nil {
		return chat.Clone()
	}
	return nil
}

// IsLoading reports whether a stream is in flight.
func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the current user-visible error message, or "".
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// findLocked returns the chat with the given id. Caller holds the lock.
func (s *Store) findLocked(id string) *model.Chat {
	for _, c := range s.chats {
		if c.ID == id {
			return c
		}
	}
	return nil
}
