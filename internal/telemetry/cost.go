// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"log"
	"sync"
	"time"
)

// =============================================================================
// USAGE RECORD
// =============================================================================

// UsageRecord is one completed request's token counts and derived cost.
// Records are append-only: never mutated, never removed.
type UsageRecord struct {
	Model            string    `json:"model"`
	PromptTokens     int       `json:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens"`
	Cost             float64   `json:"cost"`
	Timestamp        time.Time `json:"timestamp"`
}

// =============================================================================
// LEDGER
// =============================================================================

// Ledger is the append-only usage/cost log.
//
// Record persists synchronously but fails soft: a storage error is
// logged and the in-memory record kept, so cost queries keep working
// even when the disk does not.
type Ledger struct {
	mu      sync.RWMutex
	records []UsageRecord
	storage *LedgerStorage
}

// NewLedger creates a ledger backed by the given storage. Previously
// persisted records are loaded best-effort: a missing or unreadable file
// starts the ledger empty.
func NewLedger(storage *LedgerStorage) *Ledger {
	l := &Ledger{
		records: make([]UsageRecord, 0),
		storage: storage,
	}

	if storage != nil {
		records, err := storage.Load()
		if err != nil {
			log.Printf("telemetry: could not load usage ledger: %v", err)
		} else {
			l.records = records
		}
	}
	return l
}

// Record appends a usage record and persists the log.
func (l *Ledger) Record(rec UsageRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append(l.records, rec)

	if l.storage != nil {
		if err := l.storage.Save(l.records); err != nil {
			log.Printf("telemetry: could not persist usage ledger: %v", err)
		}
	}
}

// =============================================================================
// AGGREGATION QUERIES
// =============================================================================

// TotalCost sums the cost of every record.
func (l *Ledger) TotalCost() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	total := 0.0
	for _, r := range l.records {
		total += r.Cost
	}
	return total
}

// CostToday sums the cost of records whose local calendar date equals
// today's. An entry stamped exactly at the previous midnight boundary
// belongs to yesterday and is excluded.
func (l *Ledger) CostToday() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	y, m, d := time.Now().Date()
	total := 0.0
	for _, r := range l.records {
		ry, rm, rd := r.Timestamp.Local().Date()
		if ry == y && rm == m && rd == d {
			total += r.Cost
		}
	}
	return total
}

// CostByModel sums the cost of records for one model.
func (l *Ledger) CostByModel(modelID string) float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	total := 0.0
	for _, r := range l.records {
		if r.Model == modelID {
			total += r.Cost
		}
	}
	return total
}

// ByModel returns per-model cost totals, for the analytics sidebar.
func (l *Ledger) ByModel() map[string]float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(map[string]float64)
	for _, r := range l.records {
		out[r.Model] += r.Cost
	}
	return out
}

// Requests returns the number of recorded requests.
func (l *Ledger) Requests() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// TotalTokens sums prompt and completion tokens across all records.
func (l *Ledger) TotalTokens() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	total := 0
	for _, r := range l.records {
		total += r.PromptTokens + r.CompletionTokens
	}
	return total
}

// Records returns a copy of the log, oldest first.
func (l *Ledger) Records() []UsageRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]UsageRecord, len(l.records))
	copy(out, l.records)
	return out
}
