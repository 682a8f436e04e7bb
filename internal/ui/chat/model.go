// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/litechat-tui/internal/config"
	"github.com/jeranaias/litechat-tui/internal/orchestrator"
	"github.com/jeranaias/litechat-tui/internal/storage"
	"github.com/jeranaias/litechat-tui/internal/store"
	"github.com/jeranaias/litechat-tui/internal/telemetry"
	"github.com/jeranaias/litechat-tui/internal/ui/components"
	"github.com/jeranaias/litechat-tui/internal/ui/styles"
)

// =============================================================================
// CHAT STATE
// =============================================================================

// State represents the current state of the chat view.
type State int

const (
	StateReady     State = iota // Ready for input
	StateStreaming              // Receiving streaming response
	StateError                  // Showing an error
)

// =============================================================================
// MESSAGES
// =============================================================================

// StreamEventMsg wraps an orchestrator event for the Bubble Tea loop.
type StreamEventMsg struct {
	Event orchestrator.Event
}

// renderTickMsg drives throttled redraws while a stream is active.
type renderTickMsg time.Time

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	state State
	theme *styles.Theme

	width  int
	height int

	// Shared application state
	store     *store.Store
	orch      *orchestrator.Orchestrator
	ledger    *telemetry.Ledger
	chatStore *storage.ChatStore
	settings  *config.Settings

	// Streaming render throttle
	throttle *renderThrottle

	// UI components
	viewport  viewport.Model
	input     textinput.Model
	spinner   spinner.Model
	sidebar   *components.Sidebar
	statusBar *components.StatusBar

	showSidebar bool
	searching   bool
	notice      string
	keyMap      KeyMap
}

// New creates the chat model. chatStore may be nil (in-memory session).
func New(theme *styles.Theme, st *store.Store, orch *orchestrator.Orchestrator, ledger *telemetry.Ledger, chatStore *storage.ChatStore, settings *config.Settings) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a message..."
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 20)
	vp.SetContent("")

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 30,
	}

	m := Model{
		state:       StateReady,
		theme:       theme,
		store:       st,
		orch:        orch,
		ledger:      ledger,
		chatStore:   chatStore,
		settings:    settings,
		throttle:    newRenderThrottle(),
		viewport:    vp,
		input:       ti,
		spinner:     sp,
		sidebar:     components.NewSidebar(theme, ledger),
		statusBar:   components.NewStatusBar(theme),
		showSidebar: true,
		keyMap:      DefaultKeyMap(),
	}

	if st.ChatCount() == 0 {
		st.CreateChat(settings.Model)
	}
	m.refreshViewport(true)
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// dataDir returns the directory backing the chat store, or "" for an
// in-memory session (search and export need a disk home).
func (m *Model) dataDir() string {
	if m.chatStore == nil {
		return ""
	}
	return filepath.Dir(m.chatStore.Path())
}

// persist writes the current chat list to disk, best effort.
func (m *Model) persist() {
	if m.chatStore == nil {
		return
	}
	// Save failures must not crash the UI; the store copy stays live.
	_ = m.chatStore.Save(m.store.Chats())
}
