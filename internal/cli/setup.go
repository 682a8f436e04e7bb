// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// setup.go - First-run wizard.
//
// Walks through gateway URL, API key and default model, then writes
// ~/.litechat/config.toml with owner-only permissions. The API key is
// read without echo.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/jeranaias/litechat-tui/internal/config"
	"github.com/jeranaias/litechat-tui/internal/model"
)

// HandleSetup runs the interactive setup wizard.
func HandleSetup(args Args) {
	fmt.Println("litechat setup")
	fmt.Println("==============")
	fmt.Println()

	cfg, err := config.Load()
	if err != nil {
		// Start from defaults when the existing file is broken.
		fmt.Fprintf(os.Stderr, "Warning: existing config unusable (%v), starting fresh\n", err)
		cfg = config.Default()
	}

	reader := bufio.NewReader(os.Stdin)

	cfg.BaseURL = promptDefault(reader, "Gateway base URL", cfg.BaseURL)

	key, err := promptSecret("API key")
	if err != nil {
		fatal(err)
	}
	if key != "" {
		cfg.APIKey = key
	} else if cfg.APIKey != "" {
		fmt.Println("  (keeping existing key)")
	}

	fmt.Println()
	fmt.Println("Available chat models:")
	for _, m := range model.ChatModels {
		marker := "  "
		if m == cfg.Model {
			marker = "* "
		}
		fmt.Printf("  %s%s\n", marker, m)
	}
	cfg.Model = promptDefault(reader, "Default model", cfg.Model)

	if got := promptDefault(reader, "Enable gateway response cache (y/N)", ""); strings.EqualFold(got, "y") || strings.EqualFold(got, "yes") {
		cfg.EnableCache = true
	}

	if err := cfg.Validate(); err != nil {
		fatal(err)
	}
	if err := config.Save(cfg); err != nil {
		fatal(err)
	}

	path, _ := config.PathTOML()
	fmt.Println()
	fmt.Printf("Saved %s\n", path)
	if cfg.APIKey == "" {
		fmt.Println("No API key set; litechat will start unconfigured.")
	} else {
		fmt.Println("Ready. Run: litechat")
	}
}

// promptDefault asks for a value, keeping def on empty input.
func promptDefault(reader *bufio.Reader, label, def string) string {
	if def != "" {
		fmt.Printf("%s [%s]: ", label, def)
	} else {
		fmt.Printf("%s: ", label)
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		return def
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	return line
}

// promptSecret reads a value without echoing it. Falls back to a plain
// prompt when stdin is not a terminal (piped setup scripts).
func promptSecret(label string) (string, error) {
	fmt.Printf("%s (input hidden): ", label)

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}

	keyBytes, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read key: %w", err)
	}
	return strings.TrimSpace(string(keyBytes)), nil
}
