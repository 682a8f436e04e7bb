// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeranaias/litechat-tui/internal/model"
	"github.com/jeranaias/litechat-tui/internal/util"
)

// Format selects an export renderer.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json", "":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown export format %q (want json or markdown)", s)
}

// ExportChat renders a single chat.
func ExportChat(chat *model.Chat, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return exportJSON([]*model.Chat{chat})
	case FormatMarkdown:
		return exportMarkdown(chat), nil
	}
	return nil, fmt.Errorf("unknown export format %q", format)
}

// ExportAll renders every chat into one document. Markdown chats are
// concatenated with a horizontal rule between them.
func ExportAll(chats []*model.Chat, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return exportJSON(chats)
	case FormatMarkdown:
		var b strings.Builder
		for i, chat := range chats {
			if i > 0 {
				b.WriteString("\n---\n\n")
			}
			b.Write(exportMarkdown(chat))
		}
		return []byte(b.String()), nil
	}
	return nil, fmt.Errorf("unknown export format %q", format)
}

// ExportToFile writes one chat to dir with a generated filename and
// returns the path.
func ExportToFile(chat *model.Chat, format Format, dir string) (string, error) {
	data, err := ExportChat(chat, format)
	if err != nil {
		return "", err
	}

	ext := "json"
	if format == FormatMarkdown {
		ext = "md"
	}
	name := fmt.Sprintf("%s-%s.%s",
		sanitizeFilename(chat.Title),
		chat.CreatedAt.Format("2006-01-02"),
		ext)

	path := filepath.Join(dir, name)
	if err := util.AtomicWriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

// exportJSON uses the storage document shape, so exports round-trip
// through the chat loader.
func exportJSON(chats []*model.Chat) ([]byte, error) {
	data, err := json.MarshalIndent(chats, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal chats: %w", err)
	}
	return data, nil
}

// sanitizeFilename reduces a chat title to a safe filename stem.
func sanitizeFilename(title string) string {
	title = strings.TrimSpace(strings.ToLower(title))
	if title == "" {
		return "chat"
	}

	var b strings.Builder
	lastDash := false
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	stem := strings.Trim(b.String(), "-")
	if stem == "" {
		return "chat"
	}
	if len(stem) > 40 {
		stem = strings.Trim(stem[:40], "-")
	}
	return stem
}

// timestampLabel formats a message timestamp for markdown output.
func timestampLabel(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}
