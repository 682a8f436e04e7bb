// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"os"
	"sync"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// PRICING TABLE
// =============================================================================

// Rate holds per-1000-token prices in dollars.
type Rate struct {
	Input  float64 `toml:"input"`
	Output float64 `toml:"output"`
}

// DefaultRate is applied to models missing from the table.
var DefaultRate = Rate{Input: 0.001, Output: 0.001}

// rates maps model identifiers to their per-1K-token prices. Hosted
// gateway pricing, not provider list pricing.
var (
	ratesMu sync.RWMutex
	rates   = map[string]Rate{
		"llama-3.1-70b-instruct":        {Input: 0.0008, Output: 0.0008},
		"llama-3.3-70b-instruct":        {Input: 0.0008, Output: 0.0008},
		"llama-3.1-nemotron-nano-8B-v1": {Input: 0.0002, Output: 0.0002},
		"mixtral-8x7b-instruct":         {Input: 0.0007, Output: 0.0007},
		"llama-3.1-8b-instruct":         {Input: 0.0002, Output: 0.0002},
		"mistral-7b-instruct":           {Input: 0.0002, Output: 0.0002},
		"mistral-small-3.1":             {Input: 0.0003, Output: 0.0003},
		"codestral-22b":                 {Input: 0.0004, Output: 0.0004},
		"granite-3.1-8b-instruct":       {Input: 0.0002, Output: 0.0002},
		"gemma-3-27b-it":                {Input: 0.0004, Output: 0.0004},
	}
)

// RateFor returns the rate for a model, falling back to DefaultRate for
// unknown identifiers.
func RateFor(modelID string) Rate {
	ratesMu.RLock()
	defer ratesMu.RUnlock()

	if r, ok := rates[modelID]; ok {
		return r
	}
	return DefaultRate
}

// EstimateCost computes the dollar cost of a request:
//
//	(promptTokens*input + completionTokens*output) / 1000
func EstimateCost(modelID string, promptTokens, completionTokens int) float64 {
	r := RateFor(modelID)
	return (float64(promptTokens)*r.Input + float64(completionTokens)*r.Output) / 1000
}

// =============================================================================
// RATE OVERRIDES
// =============================================================================

// pricingFile is the TOML shape of a pricing override file:
//
//	[models."llama-3.1-70b-instruct"]
//	input = 0.0009
//	output = 0.0009
type pricingFile struct {
	Default *Rate           `toml:"default"`
	Models  map[string]Rate `toml:"models"`
}

// LoadPricingOverrides merges rates from a pricing.toml into the table.
// A missing file is not an error; rates ship with usable defaults.
func LoadPricingOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var pf pricingFile
	if err := toml.Unmarshal(data, &pf); err != nil {
		return err
	}

	ratesMu.Lock()
	defer ratesMu.Unlock()

	if pf.Default != nil {
		DefaultRate = *pf.Default
	}
	for id, r := range pf.Models {
		rates[id] = r
	}
	return nil
}
