// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"
	"testing"
)

func parseArgs(t *testing.T, argv ...string) (Command, Args) {
	t.Helper()
	old := os.Args
	os.Args = append([]string{"litechat"}, argv...)
	defer func() { os.Args = old }()
	return Parse()
}

func TestParseCommands(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want Command
	}{
		{"no args is TUI", nil, CmdTUI},
		{"ask", []string{"ask", "hello"}, CmdAsk},
		{"chat", []string{"chat"}, CmdChat},
		{"setup", []string{"setup"}, CmdSetup},
		{"setup alias", []string{"init"}, CmdSetup},
		{"export", []string{"export"}, CmdExport},
		{"search", []string{"search", "toml"}, CmdSearch},
		{"stats", []string{"stats"}, CmdStats},
		{"transcribe", []string{"transcribe", "note.wav"}, CmdTranscribe},
		{"embed", []string{"embed", "some text"}, CmdEmbed},
		{"version", []string{"version"}, CmdVersion},
		{"help flag", []string{"--help"}, CmdHelp},
		{"bare question falls through to ask", []string{"what", "is", "go"}, CmdAsk},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, _ := parseArgs(t, tt.argv...)
			if cmd != tt.want {
				t.Errorf("Parse(%v) = %d, want %d", tt.argv, cmd, tt.want)
			}
		})
	}
}

func TestParseFlags(t *testing.T) {
	cmd, args := parseArgs(t, "ask", "-m", "mixtral-8x7b-instruct", "-q", "explain", "channels")
	if cmd != CmdAsk {
		t.Fatalf("cmd = %d", cmd)
	}
	if args.Model != "mixtral-8x7b-instruct" {
		t.Errorf("Model = %q", args.Model)
	}
	if !args.Quiet {
		t.Error("Quiet not set")
	}
	if args.Query != "explain channels" {
		t.Errorf("Query = %q", args.Query)
	}
}

func TestParseExportFlags(t *testing.T) {
	_, args := parseArgs(t, "export", "-f", "markdown", "-o", "/tmp/out")
	if args.Format != "markdown" || args.Output != "/tmp/out" {
		t.Errorf("args = %+v", args)
	}
}

func TestParseTranscribeKeepsFileArg(t *testing.T) {
	cmd, args := parseArgs(t, "transcribe", "-m", "whisper-large-v3", "meeting.ogg")
	if cmd != CmdTranscribe {
		t.Fatalf("cmd = %d", cmd)
	}
	if len(args.Raw) != 1 || args.Raw[0] != "meeting.ogg" {
		t.Errorf("Raw = %v", args.Raw)
	}
	if args.Model != "whisper-large-v3" {
		t.Errorf("Model = %q", args.Model)
	}
}

func TestParseQueryJoinsRawArgs(t *testing.T) {
	_, args := parseArgs(t, "search", "worker", "pool")
	if args.Query != "worker pool" {
		t.Errorf("Query = %q", args.Query)
	}
}
