// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/litechat-tui/internal/model"
	"github.com/jeranaias/litechat-tui/internal/orchestrator"
)

// renderInterval matches the throttle's frame budget.
const renderInterval = time.Second / 30

// renderTick schedules the next throttled redraw.
func renderTick() tea.Cmd {
	return tea.Tick(renderInterval, func(t time.Time) tea.Msg {
		return renderTickMsg(t)
	})
}

// Update handles Bubble Tea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.refreshViewport(true)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.state == StateStreaming {
			// The spinner lives inside the empty placeholder bubble.
			if chat := m.store.ActiveChat(); chat != nil {
				if last := chat.LastMessage(); last != nil && last.IsEmpty() {
					m.refreshViewport(true)
				}
			}
		}
		return m, cmd

	case StreamEventMsg:
		return m.handleStreamEvent(msg.Event)

	case renderTickMsg:
		if m.state != StateStreaming {
			return m, nil
		}
		if m.throttle.Flush() {
			m.refreshViewport(true)
		}
		return m, renderTick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleStreamEvent folds one orchestrator event into the view.
func (m Model) handleStreamEvent(ev orchestrator.Event) (tea.Model, tea.Cmd) {
	switch ev.Kind {
	case orchestrator.EventDelta:
		m.throttle.Note()
		// Big bursts render immediately; the tick catches the rest.
		if m.throttle.ShouldRender() {
			m.refreshViewport(true)
		}
		return m, nil

	case orchestrator.EventUsage:
		m.refreshViewport(true)
		return m, nil

	case orchestrator.EventDone:
		m.state = StateReady
		m.throttle.Flush()
		m.refreshViewport(true)
		m.persist()
		return m, nil

	case orchestrator.EventFailed:
		m.state = StateError
		m.refreshViewport(true)
		m.persist()
		return m, nil
	}
	return m, nil
}

// handleKey dispatches keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""

	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keyMap.Quit):
		if m.state == StateStreaming {
			m.orch.StopGeneration()
		}
		m.persist()
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Cancel):
		if m.state == StateStreaming {
			m.orch.StopGeneration()
			m.state = StateReady
			m.refreshViewport(true)
			m.persist()
		} else if m.state == StateError {
			m.state = StateReady
			m.store.SetError("")
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Submit):
		return m.submit()

	case key.Matches(msg, m.keyMap.NewChat):
		if m.state != StateStreaming {
			m.store.CreateChat(m.settings.Model)
			m.refreshViewport(true)
			m.persist()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.DeleteChat):
		if m.state != StateStreaming {
			m.store.DeleteChat(m.store.ActiveChatID())
			if m.store.ChatCount() == 0 {
				m.store.CreateChat(m.settings.Model)
			}
			m.refreshViewport(true)
			m.persist()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.NextChat):
		m.selectAdjacentChat(1)
		return m, nil

	case key.Matches(msg, m.keyMap.PrevChat):
		m.selectAdjacentChat(-1)
		return m, nil

	case key.Matches(msg, m.keyMap.CycleModel):
		if m.state != StateStreaming {
			if chat := m.store.ActiveChat(); chat != nil {
				next := model.NextChatModel(chat.Model)
				m.store.SetChatModel(chat.ID, next)
				m.settings.Model = next
				m.orch.SetOptions(m.options())
			}
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Sidebar):
		m.showSidebar = !m.showSidebar
		m.resize(m.width, m.height)
		m.refreshViewport(true)
		return m, nil

	case key.Matches(msg, m.keyMap.Search):
		if m.state != StateStreaming {
			m.enterSearch()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Export):
		if m.state != StateStreaming {
			m.exportActiveChat()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleSearchKey runs the search overlay's reduced key set: enter
// queries, esc leaves, everything else edits the query line.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		m.persist()
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Cancel), key.Matches(msg, m.keyMap.Search):
		m.exitSearch()
		return m, nil

	case key.Matches(msg, m.keyMap.Submit):
		if query := strings.TrimSpace(m.input.Value()); query != "" {
			m.runSearch(query)
		}
		return m, nil

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit sends the input line as a user message.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.state == StateStreaming {
		return m, nil
	}
	if !m.orch.SendMessage(m.input.Value()) {
		return m, nil
	}

	m.input.Reset()
	m.state = StateStreaming
	m.refreshViewport(true)
	return m, renderTick()
}

// selectAdjacentChat moves the active pointer through the chat list.
func (m *Model) selectAdjacentChat(step int) {
	if m.state == StateStreaming {
		return
	}
	chats := m.store.Chats()
	if len(chats) < 2 {
		return
	}
	active := m.store.ActiveChatID()
	for i, c := range chats {
		if c.ID == active {
			next := (i + step + len(chats)) % len(chats)
			m.store.SetActiveChat(chats[next].ID)
			m.refreshViewport(true)
			return
		}
	}
	m.store.SetActiveChat(chats[0].ID)
	m.refreshViewport(true)
}

// options builds orchestrator options from current settings.
func (m *Model) options() orchestrator.Options {
	return orchestrator.Options{
		Model:       m.settings.Model,
		Temperature: m.settings.Temperature,
		MaxTokens:   m.settings.MaxTokens,
	}
}

// resize recomputes component dimensions for the terminal size.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	// Header (1) + input (3) + status bar (1).
	vpHeight := height - 5
	if vpHeight < 3 {
		vpHeight = 3
	}
	m.viewport.Width = m.transcriptWidth()
	m.viewport.Height = vpHeight

	m.sidebar.Height = vpHeight
	m.statusBar.Width = width
	m.input.Width = width - 6
}
