// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jeranaias/litechat-tui/internal/model"
	"github.com/jeranaias/litechat-tui/internal/util"
)

const chatsFile = "chats.json"

// DefaultDir returns the litechat data directory, creating it if
// needed.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	dir := filepath.Join(home, ".litechat")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	return dir, nil
}

// ChatStore reads and writes the chat list on disk.
type ChatStore struct {
	path string
}

// NewChatStore creates a chat store rooted at dir.
func NewChatStore(dir string) *ChatStore {
	return &ChatStore{path: filepath.Join(dir, chatsFile)}
}

// Path returns the backing file path.
func (s *ChatStore) Path() string {
	return s.path
}

// Save writes the full chat list atomically. Every save replaces the
// whole file; there is no per-chat granularity.
func (s *ChatStore) Save(chats []*model.Chat) error {
	data, err := json.MarshalIndent(chats, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal chats: %w", err)
	}
	if err := util.AtomicWriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write chats: %w", err)
	}
	return nil
}

// Load reads the chat list. A missing file yields an empty list; a
// corrupt file is an error so the caller can decide whether to start
// fresh.
func (s *ChatStore) Load() ([]*model.Chat, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []*model.Chat{}, nil
		}
		return nil, fmt.Errorf("read chats: %w", err)
	}

	var chats []*model.Chat
	if err := json.Unmarshal(data, &chats); err != nil {
		return nil, fmt.Errorf("parse chats: %w", err)
	}
	if chats == nil {
		chats = []*model.Chat{}
	}
	return chats, nil
}
