// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"sort"

	"github.com/jeranaias/litechat-tui/internal/storage"
	"github.com/jeranaias/litechat-tui/internal/telemetry"
)

// HandleStats prints the usage and cost summary from the ledger.
func HandleStats(args Args) {
	dir, err := storage.DefaultDir()
	if err != nil {
		fatal(err)
	}
	ls, err := telemetry.NewLedgerStorage(dir)
	if err != nil {
		fatal(err)
	}
	ledger := telemetry.NewLedger(ls)

	fmt.Printf("Requests:     %d\n", ledger.Requests())
	fmt.Printf("Total tokens: %d\n", ledger.TotalTokens())
	fmt.Printf("Cost today:   $%.4f\n", ledger.CostToday())
	fmt.Printf("Cost total:   $%.4f\n", ledger.TotalCost())

	byModel := ledger.ByModel()
	if len(byModel) == 0 {
		return
	}

	models := make([]string, 0, len(byModel))
	for m := range byModel {
		models = append(models, m)
	}
	sort.Strings(models)

	fmt.Println("\nBy model:")
	for _, m := range models {
		fmt.Printf("  %-32s $%.4f\n", m, byModel[m])
	}
}
