// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/jeranaias/litechat-tui/internal/util"
)

// =============================================================================
// LEDGER STORAGE
// =============================================================================

// LedgerStorage persists the usage log as one JSON document.
type LedgerStorage struct {
	path string
}

// NewLedgerStorage creates storage rooted at dir; the log lives in
// dir/usage.json.
func NewLedgerStorage(dir string) (*LedgerStorage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &LedgerStorage{path: filepath.Join(dir, "usage.json")}, nil
}

// Path returns the backing file path.
func (s *LedgerStorage) Path() string {
	return s.path
}

// Save writes the full record list atomically.
func (s *LedgerStorage) Save(records []UsageRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(s.path, data, 0644)
}

// Load reads the record list. A missing file yields an empty log.
func (s *LedgerStorage) Load() ([]UsageRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []UsageRecord{}, nil
		}
		return nil, err
	}

	var records []UsageRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}
