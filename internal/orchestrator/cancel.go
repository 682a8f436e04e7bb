// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package orchestrator

import (
	"context"
	"sync"
	"sync/atomic"
)

// cancelManager holds the cancel function for the in-flight stream plus
// the cooperative stop flag the streaming loop polls between chunks.
type cancelManager struct {
	mu     sync.Mutex
	cancel context.CancelFunc

	stopRequested atomic.Bool
}

// begin derives a cancelable context for a new stream and resets the
// stop flag.
func (m *cancelManager) begin(parent context.Context) context.Context {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctx, cancel := context.WithCancel(parent)
	m.cancel = cancel
	m.stopRequested.Store(false)
	return ctx
}

// stop requests cancellation of the active stream, if any.
func (m *cancelManager) stop() {
	m.stopRequested.Store(true)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		m.cancel()
	}
}

// release clears the stored cancel func after a stream ends.
func (m *cancelManager) release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// stopped reports whether a stop was requested for the current stream.
func (m *cancelManager) stopped() bool {
	return m.stopRequested.Load()
}
