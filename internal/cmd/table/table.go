// Package table provides common table formatting utilities for CLI commands.
package table

import (
	"fmt"
	"time"

	"github.com/SophieMSL/hubspot-monday-sync/pkg/journal"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/policy"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/reconciler"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/records"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// PolicyToTableData converts a field ownership policy to table format,
// one row per logical field in canonical field order.
func PolicyToTableData(p policy.Policy) Data {
	headers := []string{"FIELD", "OWNER"}

	rows := make([][]string, 0, len(records.Fields()))
	for _, field := range records.Fields() {
		owner, ok := p.Get(field)
		if !ok {
			continue
		}
		rows = append(rows, []string{field.String(), owner.String()})
	}

	return Data{
		Headers: headers,
		Rows:    rows,
	}
}

// ResultsToTableData converts pass results to table format, one row per
// direction in the order the directions ran.
func ResultsToTableData(results []*reconciler.Result) Data {
	headers := []string{"DIRECTION", "CREATED", "UPDATED", "SKIPPED", "FAILED", "DURATION"}

	rows := make([][]string, 0, len(results))
	for _, result := range results {
		if result == nil {
			continue
		}
		rows = append(rows, []string{
			result.Direction.String(),
			fmt.Sprintf("%d", result.Created),
			fmt.Sprintf("%d", result.Updated),
			fmt.Sprintf("%d", result.Skipped),
			fmt.Sprintf("%d", result.Failed),
			result.Metadata.Duration.Round(time.Millisecond).String(),
		})
	}

	return Data{
		Headers: headers,
		Rows:    rows,
		ColumnAlignment: []Align{
			AlignDefault, // DIRECTION
			AlignCenter,  // CREATED
			AlignCenter,  // UPDATED
			AlignCenter,  // SKIPPED
			AlignCenter,  // FAILED
			AlignRight,   // DURATION
		},
	}
}

// EntriesToTableData converts journal entries to table format, preserving
// the journal's most-recent-first order.
func EntriesToTableData(entries []journal.Entry) Data {
	headers := []string{"TIME", "SEVERITY", "MESSAGE"}

	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			entry.Timestamp.Format(time.RFC3339),
			entry.Severity.String(),
			entry.Message,
		})
	}

	return Data{
		Headers: headers,
		Rows:    rows,
	}
}
