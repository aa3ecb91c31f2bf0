// Package reconciler implements the bidirectional reconciliation engine: it
// matches records across the two platforms by identity key, consults the
// field policy for what the driving side may push, and computes then applies
// the create/update plan for one direction at a time.
//
// A pass is strictly sequential: snapshot source, snapshot target, index,
// plan, apply record by record. Per-record apply failures are isolated and
// journaled; only a snapshot fetch failure aborts the pass.
package reconciler

import (
	"context"

	"github.com/SophieMSL/hubspot-monday-sync/pkg/errors"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/logging"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/records"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/state"
)

// Platform is the collaborator contract for one remote store. Both the
// HubSpot and Monday clients satisfy it; tests use fakes.
type Platform interface {
	// Name returns which platform this client talks to
	Name() records.Platform

	// List fetches the full ordered snapshot of records
	List(ctx context.Context) ([]records.Record, error)

	// Create makes a new record seeded with the given fields and returns
	// its remote ID
	Create(ctx context.Context, fields records.FieldSet) (string, error)

	// Update pushes a partial field set to an existing record; fields
	// absent from the set are left untouched on the remote
	Update(ctx context.Context, remoteID string, fields records.FieldSet) error
}

// Reconciler runs one-direction passes.
type Reconciler interface {
	// Pass reconciles one direction to completion
	Pass(ctx context.Context, direction records.Direction) (*Result, error)
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	hubspot Platform
	monday  Platform
	state   *state.State
	dryRun  bool
}

// New creates a new Reconciler with options. Both platform collaborators
// are required; the state defaults to a fresh one.
func New(opts ...Option) (Reconciler, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	if options.hubspot == nil {
		return nil, &errors.ValidationError{
			Field:   "hubspot",
			Message: "collaborator is required",
		}
	}
	if options.monday == nil {
		return nil, &errors.ValidationError{
			Field:   "monday",
			Message: "collaborator is required",
		}
	}
	if options.state == nil {
		options.state = state.New()
	}

	return &reconciler{
		hubspot: options.hubspot,
		monday:  options.monday,
		state:   options.state,
		dryRun:  options.dryRun,
	}, nil
}

// Pass performs one-direction reconciliation with clean step-by-step flow.
func (r *reconciler) Pass(ctx context.Context, direction records.Direction) (*Result, error) {
	logger := logging.FromContext(ctx)
	jrnl := r.state.Journal()

	if !direction.IsValid() {
		return nil, &errors.ValidationError{
			Field:   "direction",
			Value:   direction.String(),
			Message: "unknown direction",
		}
	}

	result := NewResult(direction)
	source, target := r.endpoints(direction)

	// Step 1: snapshot the source side
	srcRecords, err := source.List(ctx)
	if err != nil {
		jrnl.Errorf("failed to fetch %s snapshot for %s pass: %v", source.Name(), direction, err)
		logger.Error().
			Err(err).
			Str("direction", direction.String()).
			Str("platform", source.Name().String()).
			Msg("Snapshot fetch failed, pass aborted")
		return nil, errors.WrapSync(direction.String(), "fetch_source", err)
	}

	// Step 2: snapshot the target side
	tgtRecords, err := target.List(ctx)
	if err != nil {
		jrnl.Errorf("failed to fetch %s snapshot for %s pass: %v", target.Name(), direction, err)
		logger.Error().
			Err(err).
			Str("direction", direction.String()).
			Str("platform", target.Name().String()).
			Msg("Snapshot fetch failed, pass aborted")
		return nil, errors.WrapSync(direction.String(), "fetch_target", err)
	}
	result.Metadata.SourceCount = len(srcRecords)
	result.Metadata.TargetCount = len(tgtRecords)

	// Step 3: index the target by identity key, last write wins
	index := BuildIndex(tgtRecords)

	// Step 4: compute the plan from the current policy
	plan := ComputePlan(direction, srcRecords, index, r.state.Policy())
	result.Plan = plan
	logger.Debug().
		Str("direction", direction.String()).
		Int("creates", plan.Creates()).
		Int("updates", plan.Updates()).
		Int("skips", plan.Skips()).
		Msg("Computed reconciliation plan")

	// Step 5: apply each action, isolating per-record failures
	r.apply(ctx, target, result)

	// Step 6: finalize and record the summary
	result.Finalize()
	jrnl.Infof("%s", result.Summary())
	logger.Info().
		Str("direction", direction.String()).
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Dur("duration", result.Metadata.Duration).
		Bool("dry_run", result.Metadata.DryRun).
		Msg("Pass completed")

	return result, nil
}

// endpoints resolves the source and target collaborators for a direction.
func (r *reconciler) endpoints(direction records.Direction) (source, target Platform) {
	if direction.Source() == records.Hubspot {
		return r.hubspot, r.monday
	}
	return r.monday, r.hubspot
}

// apply walks the plan in order and pushes each action to the target. A
// failed action is journaled and counted, and the walk continues with the
// next record. In dry-run mode nothing reaches the remote; counts reflect
// the plan.
func (r *reconciler) apply(ctx context.Context, target Platform, result *Result) {
	logger := logging.FromContext(ctx)
	jrnl := r.state.Journal()
	direction := result.Direction

	if r.dryRun {
		result.Metadata.DryRun = true
		result.Created = result.Plan.Creates()
		result.Updated = result.Plan.Updates()
		result.Skipped = result.Plan.Skips()
		return
	}

	for _, action := range result.Plan.Actions {
		switch action.Type {
		case ActionSkip:
			result.Skipped++

		case ActionCreate:
			remoteID, err := target.Create(ctx, action.Fields)
			if err != nil {
				applyErr := errors.NewApplyError(direction.String(), "create", action.Key, err)
				result.Failed++
				result.Errors = append(result.Errors, applyErr)
				jrnl.Errorf("failed to create %q on %s: %v", action.Key, target.Name(), err)
				logger.Error().
					Err(err).
					Str("key", action.Key).
					Str("platform", target.Name().String()).
					Msg("Create failed, continuing pass")
				continue
			}
			action.RemoteID = remoteID
			result.Created++
			result.Applied = append(result.Applied, action)
			jrnl.Infof("created %q on %s", action.Key, target.Name())

		case ActionUpdate:
			if err := target.Update(ctx, action.RemoteID, action.Fields); err != nil {
				applyErr := errors.NewApplyError(direction.String(), "update", action.Key, err)
				result.Failed++
				result.Errors = append(result.Errors, applyErr)
				jrnl.Errorf("failed to update %q on %s: %v", action.Key, target.Name(), err)
				logger.Error().
					Err(err).
					Str("key", action.Key).
					Str("platform", target.Name().String()).
					Msg("Update failed, continuing pass")
				continue
			}
			result.Updated++
			result.Applied = append(result.Applied, action)
			jrnl.Infof("updated %q on %s (fields: %v)", action.Key, target.Name(), action.Fields.Names())
		}
	}
}
