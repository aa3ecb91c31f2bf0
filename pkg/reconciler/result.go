package reconciler

import (
	"fmt"
	"time"

	"github.com/SophieMSL/hubspot-monday-sync/pkg/records"
)

// Result represents the outcome of one one-direction pass.
type Result struct {
	// Direction this pass pushed
	Direction records.Direction

	// Plan holds every decision made, in source order
	Plan *Plan

	// Applied holds the actions that reached the remote successfully,
	// in application order
	Applied []Action

	// Counts
	Created int
	Updated int
	Skipped int
	Failed  int

	// Errors collects per-record apply failures; a fetch failure is
	// returned from Pass instead and never appears here
	Errors []error

	// Metadata
	Metadata ResultMetadata
}

// ResultMetadata contains metadata about the pass.
type ResultMetadata struct {
	// StartTime when the pass started
	StartTime time.Time

	// EndTime when the pass completed
	EndTime time.Time

	// Duration of the pass
	Duration time.Duration

	// SourceCount is the number of records fetched from the source side
	SourceCount int

	// TargetCount is the number of records fetched from the target side
	TargetCount int

	// DryRun indicates the plan was computed but not applied
	DryRun bool
}

// NewResult creates a new result with defaults.
func NewResult(direction records.Direction) *Result {
	return &Result{
		Direction: direction,
		Applied:   []Action{},
		Errors:    []error{},
		Metadata: ResultMetadata{
			StartTime: time.Now(),
		},
	}
}

// IsSuccess returns true if every applied action succeeded.
func (r *Result) IsSuccess() bool {
	return len(r.Errors) == 0
}

// Summary returns a human-readable summary of the pass.
func (r *Result) Summary() string {
	if r.Metadata.DryRun {
		return fmt.Sprintf("%s dry run: %d to create, %d to update, %d skipped",
			r.Direction, r.Plan.Creates(), r.Plan.Updates(), r.Plan.Skips())
	}
	return fmt.Sprintf("%s pass: %d created, %d updated, %d skipped, %d failed",
		r.Direction, r.Created, r.Updated, r.Skipped, r.Failed)
}

// Finalize calculates duration and marks completion.
func (r *Result) Finalize() {
	r.Metadata.EndTime = time.Now()
	r.Metadata.Duration = r.Metadata.EndTime.Sub(r.Metadata.StartTime)
}
