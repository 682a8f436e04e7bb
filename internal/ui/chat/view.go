// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/litechat-tui/internal/ui/components"
	"github.com/jeranaias/litechat-tui/internal/util"
)

// View renders the full chat screen.
func (m Model) View() string {
	chat := m.store.ActiveChat()

	// Header: chat title and model.
	title := "New chat"
	modelName := m.settings.Model
	if chat != nil {
		if chat.Title != "" {
			title = chat.Title
		}
		if chat.Model != "" {
			modelName = chat.Model
		}
	}
	header := m.theme.Header.Width(m.width).Render(
		m.theme.HeaderTitle.Render(util.Truncate(title, 60)) + "  " +
			m.theme.HeaderMeta.Render(modelName))

	// Main row: sidebar + transcript.
	main := m.viewport.View()
	if m.showSidebar {
		side := m.sidebar.Render(m.store.Chats(), m.store.ActiveChatID())
		main = lipgloss.JoinHorizontal(lipgloss.Top, side, main)
	}

	// Input line.
	input := m.theme.InputContainer.Width(m.width - 2).Render(m.input.View())

	// Status bar.
	m.statusBar.ModelName = modelName
	m.statusBar.Spinner = m.spinner.View()
	m.statusBar.ErrMsg = m.store.Err()
	m.statusBar.Notice = m.notice
	switch m.state {
	case StateStreaming:
		m.statusBar.Status = components.StatusStreaming
	case StateError:
		m.statusBar.Status = components.StatusError
	default:
		m.statusBar.Status = components.StatusReady
	}
	if chat != nil {
		m.statusBar.Tokens = chat.TotalTokens
		m.statusBar.Cost = chat.TotalCost
	} else {
		m.statusBar.Tokens = 0
		m.statusBar.Cost = 0
	}
	m.statusBar.ShowCost = m.settings.ShowCost
	m.statusBar.ShowTokens = m.settings.ShowTokens

	return fmt.Sprintf("%s\n%s\n%s\n%s", header, main, input, m.statusBar.Render())
}
