// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Search overlay and chat export, both reachable from the key map.
package chat

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeranaias/litechat-tui/internal/export"
	"github.com/jeranaias/litechat-tui/internal/index"
	"github.com/jeranaias/litechat-tui/internal/util"
)

const searchLimit = 25

// enterSearch switches the input line into query mode.
func (m *Model) enterSearch() {
	m.searching = true
	m.input.Reset()
	m.input.Prompt = "search> "
	m.input.Placeholder = "Search all messages..."
}

// exitSearch restores the normal input line and transcript.
func (m *Model) exitSearch() {
	m.searching = false
	m.input.Reset()
	m.input.Prompt = "> "
	m.input.Placeholder = "Type a message..."
	m.refreshViewport(true)
}

// runSearch rebuilds the message index from the store and renders the
// hits into the viewport. The transcript comes back on exitSearch.
func (m *Model) runSearch(query string) {
	dir := m.dataDir()
	if dir == "" {
		m.notice = "search needs a data directory"
		return
	}

	idx, err := index.Open(filepath.Join(dir, "index.db"))
	if err != nil {
		m.notice = fmt.Sprintf("search unavailable: %v", err)
		return
	}
	defer idx.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := idx.Rebuild(ctx, m.store.Chats()); err != nil {
		m.notice = fmt.Sprintf("search failed: %v", err)
		return
	}
	results, err := idx.Search(ctx, query, searchLimit)
	if err != nil {
		m.notice = fmt.Sprintf("search failed: %v", err)
		return
	}

	m.viewport.SetContent(m.renderSearchResults(query, results))
	m.viewport.GotoTop()
}

// renderSearchResults draws the hit list, newest first.
func (m *Model) renderSearchResults(query string, results []index.Result) string {
	var b strings.Builder
	if len(results) == 0 {
		b.WriteString(m.theme.HeaderMeta.Render(fmt.Sprintf("\n  No matches for %q.", query)))
		b.WriteString(m.theme.HeaderMeta.Render("\n  Esc returns to the chat.\n"))
		return b.String()
	}

	b.WriteString(m.theme.HeaderMeta.Render(fmt.Sprintf("  %d matches for %q (Esc to return)", len(results), query)))
	b.WriteString("\n\n")
	for _, r := range results {
		b.WriteString(m.theme.Timestamp.Render(r.Timestamp.Local().Format("2006-01-02 15:04")))
		b.WriteString("  ")
		b.WriteString(m.theme.UserLabel.Render(util.Truncate(r.ChatTitle, 36)))
		b.WriteString("  ")
		b.WriteString(m.theme.SystemLabel.Render(r.Role.DisplayName()))
		b.WriteString("\n    ")
		b.WriteString(util.Truncate(util.CollapseSpace(r.Content), m.transcriptWidth()-6))
		b.WriteString("\n\n")
	}
	return b.String()
}

// exportActiveChat writes the active chat as markdown into the data
// directory's exports folder and reports the path in the status bar.
func (m *Model) exportActiveChat() {
	chat := m.store.ActiveChat()
	if chat == nil || chat.IsEmpty() {
		m.notice = "nothing to export"
		return
	}
	dir := m.dataDir()
	if dir == "" {
		m.notice = "export needs a data directory"
		return
	}

	path, err := export.ExportToFile(chat, export.FormatMarkdown, filepath.Join(dir, "exports"))
	if err != nil {
		m.notice = fmt.Sprintf("export failed: %v", err)
		return
	}
	m.notice = "exported " + path
}
