// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file implements streaming render throttling. Token deltas can
// arrive far faster than a terminal can usefully redraw; the throttle
// coalesces them so the viewport re-renders at a capped frame rate,
// with a small batch threshold to keep short bursts snappy.
package chat

import (
	"sync"
	"time"
)

// renderThrottle decides when accumulated deltas justify a redraw.
// Thread-safe: deltas are noted from the event forwarding goroutine
// while ShouldRender is called from the Bubble Tea loop.
type renderThrottle struct {
	mu         sync.Mutex
	pending    int
	lastRender time.Time

	batchSize   int
	minInterval time.Duration
}

// newRenderThrottle returns a throttle tuned for ~30fps with a
// 15-delta batch threshold.
func newRenderThrottle() *renderThrottle {
	const (
		defaultBatchSize = 15
		defaultMaxFPS    = 30
	)
	return &renderThrottle{
		batchSize:   defaultBatchSize,
		minInterval: time.Second / defaultMaxFPS,
		lastRender:  time.Now(),
	}
}

// Note records that a delta arrived without triggering a render.
func (t *renderThrottle) Note() {
	t.mu.Lock()
	t.pending++
	t.mu.Unlock()
}

// ShouldRender reports whether a redraw is due: there is pending
// content AND either the batch threshold or the frame interval has been
// reached. When it returns true the pending count resets.
func (t *renderThrottle) ShouldRender() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.pending == 0 {
		return false
	}
	if t.pending < t.batchSize && time.Since(t.lastRender) < t.minInterval {
		return false
	}

	t.pending = 0
	t.lastRender = time.Now()
	return true
}

// Flush forces the next ShouldRender decision by clearing state and
// reporting whether anything was pending. Used at stream end so the
// final partial batch always lands on screen.
func (t *renderThrottle) Flush() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	had := t.pending > 0
	t.pending = 0
	t.lastRender = time.Now()
	return had
}

// Pending returns the number of deltas awaiting a render.
func (t *renderThrottle) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}
