// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/litechat-tui/internal/ui/styles"
	"github.com/jeranaias/litechat-tui/internal/util"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// Status represents the current application status.
type Status int

const (
	StatusReady Status = iota
	StatusStreaming
	StatusError
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusStreaming:
		return "Streaming..."
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// StatusBar is the bottom status bar of the chat view.
type StatusBar struct {
	ModelName  string
	Status     Status
	Spinner    string // Current spinner frame while streaming
	ErrMsg     string
	Notice     string // Transient info line, shown while Ready
	Tokens     int
	Cost       float64
	ShowCost   bool
	ShowTokens bool
	Width      int

	theme *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Status: StatusReady,
		Width:  80,
		theme:  theme,
	}
}

// Render draws the status bar at the configured width.
func (b *StatusBar) Render() string {
	var left strings.Builder

	left.WriteString(b.theme.StatusKey.Render("litechat"))
	left.WriteString("  ")
	left.WriteString(b.theme.StatusValue.Render(b.ModelName))
	left.WriteString("  ")

	switch b.Status {
	case StatusStreaming:
		left.WriteString(b.theme.StatusLoading.Render(b.Spinner + " " + b.Status.String()))
	case StatusError:
		msg := b.ErrMsg
		if msg == "" {
			msg = b.Status.String()
		}
		left.WriteString(b.theme.StatusError.Render(util.Truncate(msg, 48)))
	default:
		if b.Notice != "" {
			left.WriteString(b.theme.StatusValue.Render(util.Truncate(b.Notice, 60)))
		} else {
			left.WriteString(b.theme.StatusValue.Render(b.Status.String()))
		}
	}

	var right strings.Builder
	if b.ShowTokens {
		right.WriteString(b.theme.StatusValue.Render(fmt.Sprintf("%d tok", b.Tokens)))
	}
	if b.ShowCost {
		if right.Len() > 0 {
			right.WriteString("  ")
		}
		right.WriteString(b.theme.StatusValue.Render(fmt.Sprintf("$%.4f", b.Cost)))
	}

	leftStr := left.String()
	rightStr := right.String()

	gap := b.Width - runewidth.StringWidth(stripForWidth(leftStr)) - runewidth.StringWidth(stripForWidth(rightStr)) - 2
	if gap < 1 {
		gap = 1
	}

	return b.theme.StatusBar.Width(b.Width).Render(leftStr + strings.Repeat(" ", gap) + rightStr)
}

// stripForWidth removes ANSI escapes before measuring display width.
func stripForWidth(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
