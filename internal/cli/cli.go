// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdSetup
	CmdExport
	CmdSearch
	CmdStats
	CmdTranscribe
	CmdEmbed
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet bool
	Debug bool
	Model string

	// Command-specific
	Query  string
	Format string
	Output string

	// Raw args remaining after flag parsing
	Raw []string
}

const usageText = `litechat - terminal client for LLM gateway chat

Litechat talks to an OpenAI-compatible LLM gateway and keeps your
chats, costs and settings locally under ~/.litechat.

Usage:
  litechat                     Start TUI (default)
  litechat ask "question"      Ask a single question
  litechat chat                Plain interactive chat (no TUI)
  litechat setup               First-run wizard
  litechat export [-f FORMAT] [-o DIR]
                               Export chats (json or markdown)
  litechat search "query"      Search message history
  litechat stats               Show usage and cost summary
  litechat transcribe FILE     Transcribe an audio file to text
  litechat embed "text"        Print the embedding vector for text
  litechat version             Show version
  litechat help                Show this help

Flags:
  -m, --model NAME    Use a specific model for this invocation
  -f, --format NAME   Export format: json (default) or markdown
  -o, --output DIR    Export to per-chat files in DIR
  -q, --quiet         Minimal output
  -d, --debug         Log stream timing to ~/.litechat/litechat.log

Environment:
  LITECHAT_API_KEY    Gateway API key (overrides config)
  LITECHAT_BASE_URL   Gateway base URL
  LITECHAT_MODEL      Default chat model
`

// Usage prints the top-level help text.
func Usage() {
	fmt.Print(usageText)
}

// Parse reads os.Args and returns the command plus its arguments.
func Parse() (Command, Args) {
	var args Args
	rest := os.Args[1:]

	// Pull out flags first; what remains selects the command.
	var positional []string
	for i := 0; i < len(rest); i++ {
		arg := rest[i]
		switch arg {
		case "-q", "--quiet":
			args.Quiet = true
		case "-d", "--debug":
			args.Debug = true
		case "-m", "--model":
			if i+1 < len(rest) {
				i++
				args.Model = rest[i]
			}
		case "-f", "--format":
			if i+1 < len(rest) {
				i++
				args.Format = rest[i]
			}
		case "-o", "--output":
			if i+1 < len(rest) {
				i++
				args.Output = rest[i]
			}
		case "-h", "--help":
			return CmdHelp, args
		default:
			positional = append(positional, arg)
		}
	}

	if len(positional) == 0 {
		return CmdTUI, args
	}

	cmd := positional[0]
	args.Raw = positional[1:]
	args.Query = strings.Join(args.Raw, " ")

	switch cmd {
	case "ask":
		return CmdAsk, args
	case "chat":
		return CmdChat, args
	case "setup", "init", "wizard":
		return CmdSetup, args
	case "export":
		return CmdExport, args
	case "search":
		return CmdSearch, args
	case "stats", "cost":
		return CmdStats, args
	case "transcribe":
		return CmdTranscribe, args
	case "embed":
		return CmdEmbed, args
	case "version", "-V", "--version":
		return CmdVersion, args
	case "help":
		return CmdHelp, args
	}

	// Unknown word: treat it as a question, like "litechat what is X".
	args.Query = strings.Join(positional, " ")
	args.Raw = positional
	return CmdAsk, args
}

// PrintVersion prints build information.
func PrintVersion() {
	fmt.Printf("litechat %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
}
