// Package output provides common output formatting utilities for CLI commands.
package output

import (
	"os"

	"github.com/SophieMSL/hubspot-monday-sync/internal/cmd/constants"
	"github.com/SophieMSL/hubspot-monday-sync/internal/cmd/globals"
	"github.com/SophieMSL/hubspot-monday-sync/internal/cmd/table"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/journal"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/policy"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/reconciler"
)

// Result is the serialization shape for one direction pass in json and
// yaml output. Table output goes through table.ResultsToTableData instead.
type Result struct {
	Direction  string `json:"direction" yaml:"direction"`
	Created    int    `json:"created" yaml:"created"`
	Updated    int    `json:"updated" yaml:"updated"`
	Skipped    int    `json:"skipped" yaml:"skipped"`
	Failed     int    `json:"failed" yaml:"failed"`
	DurationMS int64  `json:"duration_ms" yaml:"duration_ms"`
	DryRun     bool   `json:"dry_run" yaml:"dry_run"`
}

// FormatPolicy handles the common pattern of formatting the field ownership
// policy for output.
func FormatPolicy(p policy.Policy, globalFlags *globals.Flags) error {
	formatter := NewFormatter(Format(globalFlags.Output))

	// Transform to output format
	var outputData any
	switch globalFlags.Output {
	case constants.FormatTable, constants.FormatWide, "":
		outputData = table.PolicyToTableData(p)
	default:
		outputData = p
	}

	return formatter.Format(os.Stdout, outputData)
}

// FormatResults handles the common pattern of formatting pass results for
// output.
func FormatResults(results []*reconciler.Result, globalFlags *globals.Flags) error {
	formatter := NewFormatter(Format(globalFlags.Output))

	// Transform to output format
	var outputData any
	switch globalFlags.Output {
	case constants.FormatTable, constants.FormatWide, "":
		outputData = table.ResultsToTableData(results)
	default:
		rows := make([]Result, 0, len(results))
		for _, result := range results {
			if result == nil {
				continue
			}
			rows = append(rows, Result{
				Direction:  result.Direction.String(),
				Created:    result.Created,
				Updated:    result.Updated,
				Skipped:    result.Skipped,
				Failed:     result.Failed,
				DurationMS: result.Metadata.Duration.Milliseconds(),
				DryRun:     result.Metadata.DryRun,
			})
		}
		outputData = rows
	}

	return formatter.Format(os.Stdout, outputData)
}

// FormatEntries handles the common pattern of formatting journal entries for
// output, most recent first.
func FormatEntries(entries []journal.Entry, globalFlags *globals.Flags) error {
	formatter := NewFormatter(Format(globalFlags.Output))

	// Transform to output format
	var outputData any
	switch globalFlags.Output {
	case constants.FormatTable, constants.FormatWide, "":
		outputData = table.EntriesToTableData(entries)
	default:
		outputData = entries
	}

	return formatter.Format(os.Stdout, outputData)
}

// FormatAny handles the common pattern of formatting any data type for output.
// This is useful for commands with custom data structures.
func FormatAny(data any, globalFlags *globals.Flags) error {
	formatter := NewFormatter(Format(globalFlags.Output))
	return formatter.Format(os.Stdout, data)
}
