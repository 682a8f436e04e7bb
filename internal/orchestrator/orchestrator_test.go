// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jeranaias/litechat-tui/internal/gateway"
	"github.com/jeranaias/litechat-tui/internal/store"
	"github.com/jeranaias/litechat-tui/internal/telemetry"
)

// fakeClient scripts a chunk sequence for StreamCompletion.
type fakeClient struct {
	chunks     []gateway.StreamChunk
	configured bool
	startErr   error

	// gate, when non-nil, is closed by the test to release chunks
	// after the first one.
	gate chan struct{}
}

func (f *fakeClient) IsConfigured() bool { return f.configured }

func (f *fakeClient) StreamCompletion(ctx context.Context, req *gateway.CompletionRequest) (<-chan gateway.StreamChunk, error) {
	if f.startErr != nil {
		return nil, f.startErr
	}
	out := make(chan gateway.StreamChunk)
	go func() {
		defer close(out)
		for i, c := range f.chunks {
			if i == 1 && f.gate != nil {
				select {
				case <-f.gate:
				case <-ctx.Done():
					return
				}
			}
			select {
			case out <- c:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func waitFor(t *testing.T, events <-chan Event, kind EventKind) Event {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev.Kind == kind {
				return ev
			}
		case <-timeout:
			t.Fatalf("timed out waiting for event kind %d", kind)
		}
	}
}

func waitNotLoading(t *testing.T, st *store.Store) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if !st.IsLoading() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("store still loading")
}

func TestSendMessageStreamsAndSettles(t *testing.T) {
	st := store.New()
	st.CreateChat("mixtral-8x7b-instruct")

	client := &fakeClient{
		configured: true,
		chunks: []gateway.StreamChunk{
			{Content: "Hello"},
			{Content: ", world"},
			{Usage: &gateway.Usage{PromptTokens: 1000, CompletionTokens: 500, TotalTokens: 1500}},
			{Done: true},
		},
	}
	ledger := telemetry.NewLedger(nil)
	orch := New(st, client, ledger, Options{Model: "mixtral-8x7b-instruct", Temperature: 0.7, MaxTokens: 1000})

	if !orch.SendMessage("hi there") {
		t.Fatal("SendMessage returned false")
	}

	waitFor(t, orch.Events(), EventDone)
	waitNotLoading(t, st)

	chat := st.ActiveChat()
	if len(chat.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(chat.Messages))
	}
	reply := chat.Messages[1]
	if reply.Content != "Hello, world" {
		t.Errorf("reply content = %q", reply.Content)
	}
	if reply.Tokens != 1500 {
		t.Errorf("reply tokens = %d, want 1500", reply.Tokens)
	}

	// mixtral-8x7b-instruct prices at 0.0007 per 1K each way.
	wantCost := (1000*0.0007 + 500*0.0007) / 1000
	if diff := reply.Cost - wantCost; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("reply cost = %v, want %v", reply.Cost, wantCost)
	}
	if ledger.Requests() != 1 {
		t.Errorf("ledger requests = %d, want 1", ledger.Requests())
	}
	if chat.TotalTokens != 1500 {
		t.Errorf("chat total tokens = %d", chat.TotalTokens)
	}
}

func TestSendMessagePreconditions(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		st := store.New()
		st.CreateChat("m")
		orch := New(st, &fakeClient{configured: true}, nil, Options{})
		if orch.SendMessage("   ") {
			t.Error("expected no-op for blank input")
		}
	})

	t.Run("no active chat", func(t *testing.T) {
		st := store.New()
		orch := New(st, &fakeClient{configured: true}, nil, Options{})
		if orch.SendMessage("hi") {
			t.Error("expected no-op without an active chat")
		}
	})

	t.Run("not configured", func(t *testing.T) {
		st := store.New()
		st.CreateChat("m")
		orch := New(st, &fakeClient{configured: false}, nil, Options{})
		if orch.SendMessage("hi") {
			t.Error("expected no-op without a credential")
		}
		if len(st.ActiveChat().Messages) != 0 {
			t.Error("no-op send must not append messages")
		}
	})

	t.Run("stream already running", func(t *testing.T) {
		st := store.New()
		st.CreateChat("m")
		st.SetLoading(true)
		orch := New(st, &fakeClient{configured: true}, nil, Options{})
		if orch.SendMessage("hi") {
			t.Error("expected no-op while a stream is active")
		}
	})
}

func TestStopGenerationKeepsPartialOutput(t *testing.T) {
	st := store.New()
	st.CreateChat("mixtral-8x7b-instruct")

	gate := make(chan struct{})
	client := &fakeClient{
		configured: true,
		gate:       gate,
		chunks: []gateway.StreamChunk{
			{Content: "partial"},
			{Content: " rest"},
			{Done: true},
		},
	}
	orch := New(st, client, nil, Options{Model: "mixtral-8x7b-instruct"})

	if !orch.SendMessage("hi") {
		t.Fatal("SendMessage returned false")
	}
	waitFor(t, orch.Events(), EventDelta)

	orch.StopGeneration()
	close(gate)

	waitFor(t, orch.Events(), EventDone)
	waitNotLoading(t, st)

	reply := st.ActiveChat().Messages[1]
	if reply.Content != "partial" {
		t.Errorf("reply content = %q, want %q", reply.Content, "partial")
	}
}

func TestStreamErrorSurfacesInStore(t *testing.T) {
	st := store.New()
	st.CreateChat("mixtral-8x7b-instruct")

	client := &fakeClient{
		configured: true,
		chunks: []gateway.StreamChunk{
			{Content: "some"},
			{Err: errors.New("connection reset")},
		},
	}
	orch := New(st, client, nil, Options{Model: "mixtral-8x7b-instruct"})

	if !orch.SendMessage("hi") {
		t.Fatal("SendMessage returned false")
	}
	ev := waitFor(t, orch.Events(), EventFailed)
	if ev.Err == nil {
		t.Error("failed event missing error")
	}
	waitNotLoading(t, st)

	if st.Err() == "" {
		t.Error("store error not set")
	}
	// Partial output stays in the placeholder.
	if got := st.ActiveChat().Messages[1].Content; got != "some" {
		t.Errorf("reply content = %q, want %q", got, "some")
	}
}

func TestStartFailureReleasesLoading(t *testing.T) {
	st := store.New()
	st.CreateChat("mixtral-8x7b-instruct")

	client := &fakeClient{configured: true, startErr: errors.New("dial tcp: refused")}
	orch := New(st, client, nil, Options{Model: "mixtral-8x7b-instruct"})

	if !orch.SendMessage("hi") {
		t.Fatal("SendMessage returned false")
	}
	waitFor(t, orch.Events(), EventFailed)
	waitNotLoading(t, st)

	if st.Err() == "" {
		t.Error("store error not set")
	}
	// A second send must be possible once loading clears.
	client.startErr = nil
	client.chunks = []gateway.StreamChunk{{Content: "ok"}, {Done: true}}
	if !orch.SendMessage("again") {
		t.Error("send after failure should start a new stream")
	}
	waitFor(t, orch.Events(), EventDone)
}

func TestDoneDeliveredWhenEventBufferFull(t *testing.T) {
	st := store.New()
	st.CreateChat("mixtral-8x7b-instruct")

	// Far more deltas than the event buffer holds, with no consumer
	// draining while they stream. Deltas may drop; Done must not.
	chunks := make([]gateway.StreamChunk, 0, 401)
	for i := 0; i < 400; i++ {
		chunks = append(chunks, gateway.StreamChunk{Content: "x"})
	}
	chunks = append(chunks, gateway.StreamChunk{Done: true})

	orch := New(st, &fakeClient{configured: true, chunks: chunks}, nil, Options{Model: "mixtral-8x7b-instruct"})
	if !orch.SendMessage("hi") {
		t.Fatal("SendMessage returned false")
	}

	// Let the stream run far enough to overflow the buffer.
	time.Sleep(100 * time.Millisecond)

	waitFor(t, orch.Events(), EventDone)
	waitNotLoading(t, st)

	if got := len(st.ActiveChat().Messages[1].Content); got != 400 {
		t.Errorf("reply length = %d, want 400", got)
	}
}

func TestSetOptionsDuringStream(t *testing.T) {
	st := store.New()
	st.CreateChat("mixtral-8x7b-instruct")

	gate := make(chan struct{})
	client := &fakeClient{
		configured: true,
		gate:       gate,
		chunks: []gateway.StreamChunk{
			{Content: "a"},
			{Content: "b"},
			{Done: true},
		},
	}
	orch := New(st, client, nil, Options{Model: "mixtral-8x7b-instruct", Temperature: 0.7, MaxTokens: 1000})

	if !orch.SendMessage("hi") {
		t.Fatal("SendMessage returned false")
	}
	waitFor(t, orch.Events(), EventDelta)

	// Hammer the settings while the stream is gated mid-flight; the
	// race detector flags unsynchronized access.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			orch.SetOptions(Options{Model: "codestral-22b", Temperature: 0.2, MaxTokens: 512})
			orch.SetDebug(i%2 == 0)
		}
	}()

	close(gate)
	waitFor(t, orch.Events(), EventDone)
	waitNotLoading(t, st)
	<-done

	// The in-flight turn keeps its starting options; only later turns
	// see the new ones.
	opts, _ := orch.snapshot()
	if opts.Model != "codestral-22b" {
		t.Errorf("snapshot model = %q, want updated options", opts.Model)
	}
}
