// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jeranaias/litechat-tui/internal/index"
	"github.com/jeranaias/litechat-tui/internal/storage"
	"github.com/jeranaias/litechat-tui/internal/util"
)

// HandleSearch rebuilds the message index from the current chat list
// and prints matches for the query.
func HandleSearch(args Args) {
	if args.Query == "" {
		fmt.Fprintln(os.Stderr, "Usage: litechat search \"query\"")
		os.Exit(1)
	}

	dir, err := storage.DefaultDir()
	if err != nil {
		fatal(err)
	}
	chats, err := storage.NewChatStore(dir).Load()
	if err != nil {
		fatal(err)
	}

	idx, err := index.Open(filepath.Join(dir, "index.db"))
	if err != nil {
		fatal(err)
	}
	defer idx.Close()

	ctx := context.Background()
	if err := idx.Rebuild(ctx, chats); err != nil {
		fatal(err)
	}

	results, err := idx.Search(ctx, args.Query, 25)
	if err != nil {
		fatal(err)
	}
	if len(results) == 0 {
		fmt.Println("No matches.")
		return
	}

	for _, r := range results {
		fmt.Printf("%s  %s  [%s]\n    %s\n",
			r.Timestamp.Local().Format("2006-01-02 15:04"),
			util.Truncate(r.ChatTitle, 40),
			r.Role.DisplayName(),
			util.Truncate(util.CollapseSpace(r.Content), 100))
	}
}
