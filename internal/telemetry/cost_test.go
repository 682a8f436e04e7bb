// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEstimateCostKnownModel(t *testing.T) {
	// llama-3.1-70b-instruct is 0.0008 per 1K each way:
	// (1000*0.0008 + 500*0.0008) / 1000 = 0.0012
	got := EstimateCost("llama-3.1-70b-instruct", 1000, 500)
	require.InDelta(t, 0.0012, got, 1e-12)
}

func TestEstimateCostUnknownModelUsesDefault(t *testing.T) {
	got := EstimateCost("some-unlisted-model", 1000, 1000)
	want := (1000*DefaultRate.Input + 1000*DefaultRate.Output) / 1000
	require.InDelta(t, want, got, 1e-12)
}

func TestEstimateCostZeroTokens(t *testing.T) {
	require.Equal(t, 0.0, EstimateCost("mixtral-8x7b-instruct", 0, 0))
}

func TestRateForFallsBack(t *testing.T) {
	require.Equal(t, Rate{Input: 0.0007, Output: 0.0007}, RateFor("mixtral-8x7b-instruct"))
	require.Equal(t, DefaultRate, RateFor("nope"))
}

func TestLoadPricingOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pricing.toml")
	doc := `
[models."mistral-7b-instruct"]
input = 0.0005
output = 0.0006

[models."brand-new-model"]
input = 0.01
output = 0.02
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
	require.NoError(t, LoadPricingOverrides(path))

	t.Cleanup(func() {
		ratesMu.Lock()
		rates["mistral-7b-instruct"] = Rate{Input: 0.0002, Output: 0.0002}
		delete(rates, "brand-new-model")
		ratesMu.Unlock()
	})

	require.Equal(t, Rate{Input: 0.0005, Output: 0.0006}, RateFor("mistral-7b-instruct"))
	require.Equal(t, Rate{Input: 0.01, Output: 0.02}, RateFor("brand-new-model"))

	// Untouched entries survive the merge.
	require.Equal(t, Rate{Input: 0.0007, Output: 0.0007}, RateFor("mixtral-8x7b-instruct"))
}

func TestLoadPricingOverridesMissingFile(t *testing.T) {
	require.NoError(t, LoadPricingOverrides(filepath.Join(t.TempDir(), "absent.toml")))
}

func TestLoadPricingOverridesMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricing.toml")
	require.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0644))
	require.Error(t, LoadPricingOverrides(path))
}

func TestLedgerAggregation(t *testing.T) {
	l := NewLedger(nil)
	now := time.Now()

	l.Record(UsageRecord{Model: "llama-3.1-70b-instruct", PromptTokens: 100, CompletionTokens: 50, Cost: 0.12, Timestamp: now})
	l.Record(UsageRecord{Model: "llama-3.1-70b-instruct", PromptTokens: 10, CompletionTokens: 5, Cost: 0.01, Timestamp: now})
	l.Record(UsageRecord{Model: "mixtral-8x7b-instruct", PromptTokens: 200, CompletionTokens: 100, Cost: 0.30, Timestamp: now})

	require.InDelta(t, 0.43, l.TotalCost(), 1e-12)
	require.Equal(t, 465, l.TotalTokens())
	require.Equal(t, 3, l.Requests())
	require.InDelta(t, 0.13, l.CostByModel("llama-3.1-70b-instruct"), 1e-12)

	byModel := l.ByModel()
	require.Len(t, byModel, 2)
	require.InDelta(t, 0.30, byModel["mixtral-8x7b-instruct"], 1e-12)
}

func TestCostTodayCalendarBoundary(t *testing.T) {
	l := NewLedger(nil)

	y, m, d := time.Now().Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.Local)

	// Stamped exactly at the previous midnight: belongs to yesterday.
	l.Record(UsageRecord{Model: "m", Cost: 1.0, Timestamp: midnight.Add(-time.Nanosecond)})
	// First instant of today counts.
	l.Record(UsageRecord{Model: "m", Cost: 0.25, Timestamp: midnight})
	l.Record(UsageRecord{Model: "m", Cost: 0.50, Timestamp: midnight.Add(time.Hour)})
	// Clearly yesterday.
	l.Record(UsageRecord{Model: "m", Cost: 2.0, Timestamp: midnight.Add(-6 * time.Hour)})

	require.InDelta(t, 0.75, l.CostToday(), 1e-12)
}

func TestLedgerPersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewLedgerStorage(dir)
	require.NoError(t, err)

	l := NewLedger(storage)
	rec := UsageRecord{
		Model:            "codestral-22b",
		PromptTokens:     321,
		CompletionTokens: 123,
		Cost:             0.0001776,
		Timestamp:        time.Now().Truncate(time.Second),
	}
	l.Record(rec)

	reloaded := NewLedger(mustStorage(t, dir))
	require.Equal(t, 1, reloaded.Requests())
	got := reloaded.Records()[0]
	require.Equal(t, rec.Model, got.Model)
	require.Equal(t, rec.PromptTokens, got.PromptTokens)
	require.Equal(t, rec.CompletionTokens, got.CompletionTokens)
	require.True(t, math.Abs(rec.Cost-got.Cost) < 1e-12)
	require.True(t, rec.Timestamp.Equal(got.Timestamp))
}

func TestLedgerStorageMissingFileStartsEmpty(t *testing.T) {
	l := NewLedger(mustStorage(t, t.TempDir()))
	require.Equal(t, 0, l.Requests())
	require.Equal(t, 0.0, l.TotalCost())
}

func TestRecordKeepsMemoryWhenSaveFails(t *testing.T) {
	dir := t.TempDir()
	storage := mustStorage(t, dir)

	// A directory at the ledger path makes every save fail.
	require.NoError(t, os.Mkdir(storage.Path(), 0755))

	l := NewLedger(storage)
	l.Record(UsageRecord{Model: "m", Cost: 0.5, Timestamp: time.Now()})

	require.Equal(t, 1, l.Requests())
	require.InDelta(t, 0.5, l.TotalCost(), 1e-12)
}

func TestLedgerStorageCorruptFile(t *testing.T) {
	dir := t.TempDir()
	storage := mustStorage(t, dir)
	require.NoError(t, os.WriteFile(storage.Path(), []byte("{corrupt"), 0644))

	_, err := storage.Load()
	require.Error(t, err)

	// The ledger itself fails soft and starts empty.
	l := NewLedger(storage)
	require.Equal(t, 0, l.Requests())
}

func mustStorage(t *testing.T, dir string) *LedgerStorage {
	t.Helper()
	storage, err := NewLedgerStorage(dir)
	require.NoError(t, err)
	return storage
}
