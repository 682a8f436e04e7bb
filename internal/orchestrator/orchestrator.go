// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package orchestrator

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/litechat-tui/internal/gateway"
	"github.com/jeranaias/litechat-tui/internal/model"
	"github.com/jeranaias/litechat-tui/internal/store"
	"github.com/jeranaias/litechat-tui/internal/telemetry"
)

// =============================================================================
// EVENTS
// =============================================================================

// EventKind identifies what an Event reports.
type EventKind int

const (
	// EventDelta means new assistant text was written to the store.
	EventDelta EventKind = iota

	// EventUsage means token accounting arrived for the turn.
	EventUsage

	// EventDone means the stream ended, stopped, or was canceled.
	EventDone

	// EventFailed means the stream ended with an error.
	EventFailed
)

// Event is one orchestrator notification. The store is already updated
// when an event is delivered; events exist so the UI knows to re-read.
type Event struct {
	Kind      EventKind
	ChatID    string
	MessageID string
	Content   string
	Usage     *gateway.Usage
	Err       error
}

// =============================================================================
// ORCHESTRATOR
// =============================================================================

// StreamClient is the slice of the gateway client the orchestrator
// needs.
type StreamClient interface {
	StreamCompletion(ctx context.Context, req *gateway.CompletionRequest) (<-chan gateway.StreamChunk, error)
	IsConfigured() bool
}

// Options carry per-turn generation parameters.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Orchestrator drives streaming chat turns against the store.
type Orchestrator struct {
	store   *store.Store
	client  StreamClient
	ledger  *telemetry.Ledger
	cancels cancelManager
	events  chan Event

	// optsMu guards opts and debug: the config watcher and the model
	// cycle key write them while a stream goroutine is in flight.
	optsMu sync.Mutex
	opts   Options
	debug  bool
}

// New creates an orchestrator. The ledger may be nil; usage is then
// settled into the store only.
func New(st *store.Store, client StreamClient, ledger *telemetry.Ledger, opts Options) *Orchestrator {
	return &Orchestrator{
		store:  st,
		client: client,
		ledger: ledger,
		opts:   opts,
		events: make(chan Event, 256),
	}
}

// Events returns the notification channel. It is never closed.
func (o *Orchestrator) Events() <-chan Event {
	return o.events
}

// SetOptions replaces the generation parameters used for future turns.
func (o *Orchestrator) SetOptions(opts Options) {
	o.optsMu.Lock()
	o.opts = opts
	o.optsMu.Unlock()
}

// SetDebug toggles per-turn timing lines on the standard logger.
func (o *Orchestrator) SetDebug(debug bool) {
	o.optsMu.Lock()
	o.debug = debug
	o.optsMu.Unlock()
}

// snapshot returns the current options and debug flag. Each turn works
// from the snapshot taken when it starts.
func (o *Orchestrator) snapshot() (Options, bool) {
	o.optsMu.Lock()
	defer o.optsMu.Unlock()
	return o.opts, o.debug
}

// SendMessage runs one chat turn: append the user message, stream the
// assistant reply into a placeholder, settle usage. It returns false
// without side effects when a precondition fails: empty input, no
// active chat, no credential, or a stream already running.
func (o *Orchestrator) SendMessage(content string) bool {
	content = strings.TrimSpace(content)
	if content == "" {
		return false
	}
	chat := o.store.ActiveChat()
	if chat == nil {
		return false
	}
	if !o.client.IsConfigured() {
		return false
	}
	if !o.store.BeginStream() {
		return false
	}

	userMsg := model.NewUserMessage(content)
	o.store.AppendMessage(chat.ID, userMsg)

	placeholder := model.NewAssistantPlaceholder()
	o.store.AppendMessage(chat.ID, placeholder)

	// Re-read for the just-derived title and full history.
	chat = o.store.Chat(chat.ID)
	history := chat.History()
	// The empty placeholder is not part of the prompt.
	history = history[:len(history)-1]

	opts, debug := o.snapshot()
	modelID := chat.Model
	if modelID == "" {
		modelID = opts.Model
	}

	ctx := o.cancels.begin(context.Background())
	go o.runStream(ctx, chat.ID, placeholder.ID, modelID, history, opts, debug)
	return true
}

// StopGeneration cancels the in-flight stream, keeping partial output.
func (o *Orchestrator) StopGeneration() {
	o.cancels.stop()
	o.store.SetLoading(false)
}

// runStream consumes gateway chunks and folds them into the store.
func (o *Orchestrator) runStream(ctx context.Context, chatID, messageID, modelID string, history []model.ChatMessage, opts Options, debug bool) {
	defer o.store.SetLoading(false)
	defer o.cancels.release()

	chunks, err := o.client.StreamCompletion(ctx, &gateway.CompletionRequest{
		Model:       modelID,
		Messages:    history,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		o.store.SetError(err.Error())
		o.emit(Event{Kind: EventFailed, ChatID: chatID, MessageID: messageID, Err: err})
		return
	}

	start := time.Now()
	firstToken := true

	var buf strings.Builder
	for chunk := range chunks {
		if o.cancels.stopped() {
			break
		}
		if chunk.Err != nil {
			o.store.SetError(chunk.Err.Error())
			o.emit(Event{Kind: EventFailed, ChatID: chatID, MessageID: messageID, Err: chunk.Err})
			return
		}
		if chunk.Content != "" {
			if firstToken {
				firstToken = false
				if debug {
					log.Printf("stream: first token from %s after %s", modelID, time.Since(start).Round(time.Millisecond))
				}
			}
			buf.WriteString(chunk.Content)
			o.store.UpdateMessageContent(chatID, messageID, buf.String(), 0, 0)
			o.emit(Event{Kind: EventDelta, ChatID: chatID, MessageID: messageID, Content: chunk.Content})
		}
		if chunk.Usage != nil {
			o.settleUsage(chatID, messageID, modelID, buf.String(), chunk.Usage)
		}
		if chunk.Done {
			break
		}
	}

	o.emit(Event{Kind: EventDone, ChatID: chatID, MessageID: messageID})
}

// settleUsage prices the turn and records it in the store and ledger.
func (o *Orchestrator) settleUsage(chatID, messageID, modelID, content string, usage *gateway.Usage) {
	cost := telemetry.EstimateCost(modelID, usage.PromptTokens, usage.CompletionTokens)
	o.store.UpdateMessageContent(chatID, messageID, content, usage.TotalTokens, cost)
	if o.ledger != nil {
		o.ledger.Record(telemetry.UsageRecord{
			Model:            modelID,
			PromptTokens:     usage.PromptTokens,
			CompletionTokens: usage.CompletionTokens,
			Cost:             cost,
			Timestamp:        time.Now(),
		})
	}
	o.emit(Event{Kind: EventUsage, ChatID: chatID, MessageID: messageID, Usage: usage})
}

// emit delivers an event to the presentation layer. Deltas are lossy:
// the store already holds the content, an event is only a redraw hint,
// and a full buffer must never stall the stream loop. Terminal events
// are guaranteed: the UI leaves streaming mode on Done/Failed, and the
// stream goroutine has nothing left to do, so blocking is safe.
func (o *Orchestrator) emit(ev Event) {
	switch ev.Kind {
	case EventDone, EventFailed:
		o.events <- ev
	default:
		select {
		case o.events <- ev:
		default:
		}
	}
}
