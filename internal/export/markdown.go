// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"

	"github.com/jeranaias/litechat-tui/internal/model"
)

// exportMarkdown renders one chat as a markdown transcript.
func exportMarkdown(chat *model.Chat) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", chat.Title)
	fmt.Fprintf(&b, "- Model: %s\n", chat.Model)
	fmt.Fprintf(&b, "- Created: %s\n", timestampLabel(chat.CreatedAt))
	fmt.Fprintf(&b, "- Messages: %d\n", len(chat.Messages))
	if chat.TotalTokens > 0 {
		fmt.Fprintf(&b, "- Tokens: %d\n", chat.TotalTokens)
	}
	if chat.TotalCost > 0 {
		fmt.Fprintf(&b, "- Cost: $%.4f\n", chat.TotalCost)
	}
	b.WriteString("\n")

	for _, msg := range chat.Messages {
		fmt.Fprintf(&b, "## %s (%s)\n\n", msg.Role.DisplayName(), timestampLabel(msg.Timestamp))
		b.WriteString(strings.TrimRight(msg.Content, "\n"))
		b.WriteString("\n\n")
	}

	return []byte(b.String())
}
