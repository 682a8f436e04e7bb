// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Rendering of the message transcript into the viewport.
package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/litechat-tui/internal/model"
	"github.com/jeranaias/litechat-tui/internal/ui/components"
)

// renderMessages draws the active chat's transcript at the given width.
func (m *Model) renderMessages(chat *model.Chat, width int) string {
	if chat == nil || chat.IsEmpty() {
		return m.theme.HeaderMeta.Render("\n  Start typing to begin a new chat.\n")
	}

	var b strings.Builder
	for i, msg := range chat.Messages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderMessage(msg, width))
		b.WriteString("\n")
	}
	return b.String()
}

// renderMessage draws one message: label line, then the bordered body.
func (m *Model) renderMessage(msg *model.Message, width int) string {
	var label, body lipgloss.Style
	switch msg.Role {
	case model.RoleUser:
		label, body = m.theme.UserLabel, m.theme.UserBody
	case model.RoleAssistant:
		label, body = m.theme.AssistantLabel, m.theme.AssistantBody
	default:
		label, body = m.theme.SystemLabel, m.theme.AssistantBody
	}

	header := label.Render(msg.Role.DisplayName()) + " " +
		m.theme.Timestamp.Render(msg.Timestamp.Local().Format("15:04"))

	content := msg.Content
	if msg.Role == model.RoleAssistant {
		if content == "" {
			content = m.spinner.View()
		} else {
			content = components.ParseCodeBlocks(content, width-4)
		}
	}

	out := header + "\n" + body.Width(width-2).Render(content)

	if msg.Role == model.RoleAssistant && (msg.Tokens != 0 || msg.Cost != 0) {
		var stats []string
		if m.settings.ShowTokens && msg.Tokens != 0 {
			stats = append(stats, fmt.Sprintf("%d tokens", msg.Tokens))
		}
		if m.settings.ShowCost && msg.Cost != 0 {
			stats = append(stats, fmt.Sprintf("$%.4f", msg.Cost))
		}
		if len(stats) > 0 {
			out += "\n" + m.theme.MessageStats.Render(strings.Join(stats, " · "))
		}
	}
	return out
}

// refreshViewport re-renders the transcript. When follow is true the
// viewport snaps to the bottom, which is what streaming wants.
func (m *Model) refreshViewport(follow bool) {
	chat := m.store.ActiveChat()
	width := m.transcriptWidth()
	m.viewport.SetContent(m.renderMessages(chat, width))
	if follow {
		m.viewport.GotoBottom()
	}
}

// transcriptWidth is the viewport width minus the sidebar when shown.
func (m *Model) transcriptWidth() int {
	w := m.width
	if m.showSidebar {
		w -= m.sidebar.Width
	}
	if w < 20 {
		w = 20
	}
	return w
}
