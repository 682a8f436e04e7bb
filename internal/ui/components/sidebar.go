// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/jeranaias/litechat-tui/internal/model"
	"github.com/jeranaias/litechat-tui/internal/telemetry"
	"github.com/jeranaias/litechat-tui/internal/ui/styles"
	"github.com/jeranaias/litechat-tui/internal/util"
)

// =============================================================================
// CHAT SIDEBAR
// =============================================================================

// Sidebar lists chats and shows usage analytics from the ledger.
type Sidebar struct {
	Width  int
	Height int

	theme  *styles.Theme
	ledger *telemetry.Ledger
}

// NewSidebar creates a sidebar. The ledger may be nil; the analytics
// footer is then omitted.
func NewSidebar(theme *styles.Theme, ledger *telemetry.Ledger) *Sidebar {
	return &Sidebar{
		Width:  28,
		Height: 20,
		theme:  theme,
		ledger: ledger,
	}
}

// Render draws the chat list with the active chat highlighted.
func (s *Sidebar) Render(chats []*model.Chat, activeID string) string {
	inner := s.Width - 2
	if inner < 10 {
		inner = 10
	}

	var b strings.Builder
	b.WriteString(s.theme.SidebarTitle.Render("Chats"))
	b.WriteString("\n\n")

	// Leave room for title and the analytics footer.
	maxRows := s.Height - 8
	if maxRows < 3 {
		maxRows = 3
	}

	if len(chats) == 0 {
		b.WriteString(s.theme.SidebarMeta.Render("no chats yet"))
		b.WriteString("\n")
	}
	for i, chat := range chats {
		if i >= maxRows {
			b.WriteString(s.theme.SidebarMeta.Render(fmt.Sprintf("… %d more", len(chats)-maxRows)))
			b.WriteString("\n")
			break
		}
		title := chat.Title
		if title == "" {
			title = "New chat"
		}
		line := util.PadRight(util.Truncate(title, inner), inner)
		if chat.ID == activeID {
			b.WriteString(s.theme.SidebarSelected.Render(line))
		} else {
			b.WriteString(s.theme.SidebarItem.Render(line))
		}
		b.WriteString("\n")
	}

	if s.ledger != nil {
		b.WriteString("\n")
		b.WriteString(s.theme.SidebarTitle.Render("Usage"))
		b.WriteString("\n")
		b.WriteString(s.theme.SidebarAnalytics.Render(fmt.Sprintf("today  $%.4f", s.ledger.CostToday())))
		b.WriteString("\n")
		b.WriteString(s.theme.SidebarAnalytics.Render(fmt.Sprintf("total  $%.4f", s.ledger.TotalCost())))
		b.WriteString("\n")
		b.WriteString(s.theme.SidebarMeta.Render(fmt.Sprintf("%d requests", s.ledger.Requests())))
		b.WriteString("\n")
	}

	return s.theme.Sidebar.Width(s.Width).Height(s.Height).Render(b.String())
}
