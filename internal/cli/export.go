// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"

	"github.com/jeranaias/litechat-tui/internal/export"
	"github.com/jeranaias/litechat-tui/internal/storage"
)

// HandleExport writes chats to stdout, or to per-chat files when an
// output directory is given.
func HandleExport(args Args) {
	format, err := export.ParseFormat(args.Format)
	if err != nil {
		fatal(err)
	}

	dir, err := storage.DefaultDir()
	if err != nil {
		fatal(err)
	}
	chats, err := storage.NewChatStore(dir).Load()
	if err != nil {
		fatal(err)
	}
	if len(chats) == 0 {
		fmt.Fprintln(os.Stderr, "No chats to export.")
		return
	}

	if args.Output == "" {
		data, err := export.ExportAll(chats, format)
		if err != nil {
			fatal(err)
		}
		os.Stdout.Write(data)
		return
	}

	if err := os.MkdirAll(args.Output, 0755); err != nil {
		fatal(err)
	}
	for _, chat := range chats {
		path, err := export.ExportToFile(chat, format, args.Output)
		if err != nil {
			fatal(err)
		}
		if !args.Quiet {
			fmt.Println(path)
		}
	}
}
