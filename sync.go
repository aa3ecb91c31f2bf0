package bridge

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/SophieMSL/hubspot-monday-sync/pkg/constants"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/errors"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/logging"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/reconciler"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/records"
)

// Compile-time interface check to ensure proper implementation.
var _ Syncer = (*bridge)(nil)

// Syncer runs reconciliation passes.
type Syncer interface {
	// Sync runs one full pass, both directions in canonical order
	Sync(ctx context.Context) (Results, error)

	// SyncDirection runs a single one-direction pass
	SyncDirection(ctx context.Context, direction records.Direction) (*reconciler.Result, error)

	// TriggerWebhook schedules a debounced full pass for a platform change
	// notification
	TriggerWebhook(platform records.Platform) error
}

// Results holds the per-direction outcomes of one full pass, in the order
// the directions ran.
type Results []*reconciler.Result

// Created sums the records created across directions.
func (rs Results) Created() int {
	total := 0
	for _, r := range rs {
		total += r.Created
	}
	return total
}

// Updated sums the records updated across directions.
func (rs Results) Updated() int {
	total := 0
	for _, r := range rs {
		total += r.Updated
	}
	return total
}

// Failed sums the isolated per-record failures across directions.
func (rs Results) Failed() int {
	total := 0
	for _, r := range rs {
		total += r.Failed
	}
	return total
}

// Summary returns a one-line account of the full pass.
func (rs Results) Summary() string {
	parts := make([]string, 0, len(rs))
	for _, r := range rs {
		parts = append(parts, r.Summary())
	}
	return strings.Join(parts, "; ")
}

// Sync runs one full reconciliation pass: both directions sequentially, in
// canonical order. If a pass is already running the request is folded into
// at most one follow-up pass and errors.ErrPassInProgress is returned;
// while sync is disabled it returns errors.ErrSyncDisabled.
func (b *bridge) Sync(ctx context.Context) (Results, error) {
	// Step 0: set context
	if ctx == nil {
		ctx = context.Background()
	}

	// Step 1: honor the global switch before touching either remote
	if !b.state.Enabled() {
		return nil, errors.ErrSyncDisabled
	}

	// Step 2: claim the single pass slot, coalescing when busy
	if !b.acquire(true) {
		return nil, errors.ErrPassInProgress
	}

	// Step 3: run both directions
	results, err := b.fullPass(ctx)

	// Step 4: release the slot and run at most one coalesced follow-up
	b.finish()

	return results, err
}

// SyncDirection runs a single one-direction pass. Unlike Sync it never
// queues a follow-up: a busy engine returns errors.ErrPassInProgress and
// the caller decides whether to retry.
func (b *bridge) SyncDirection(ctx context.Context, direction records.Direction) (*reconciler.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if !direction.IsValid() {
		return nil, &errors.ValidationError{
			Field:   "direction",
			Value:   direction.String(),
			Message: "unknown direction",
		}
	}
	if !b.state.Enabled() {
		return nil, errors.ErrSyncDisabled
	}
	if !b.acquire(false) {
		return nil, errors.ErrPassInProgress
	}

	result, err := b.engine.Pass(ctx, direction)
	if err != nil {
		b.hooks.triggerError(err)
	} else {
		b.hooks.triggerPassComplete(result)
	}

	b.finish()
	return result, err
}

// TriggerWebhook schedules a debounced full pass in response to a change
// notification from a platform. Bursts of notifications within the debounce
// window collapse into a single pass per platform.
func (b *bridge) TriggerWebhook(platform records.Platform) error {
	if !platform.IsValid() {
		return &errors.ValidationError{
			Field:   "platform",
			Value:   platform.String(),
			Message: "unknown platform",
		}
	}

	logging.Debug().
		Str("platform", platform.String()).
		Dur("delay", b.debouncer.Delay()).
		Msg("Webhook received, pass scheduled")

	b.debouncer.Trigger(platform.String(), func() {
		b.trigger("webhook:" + platform.String())
	})
	return nil
}

// fullPass runs both directions in canonical order. A direction that aborts
// on a fetch error is recorded and the other direction still runs; the
// last-pass timestamp advances only when every direction completed.
func (b *bridge) fullPass(ctx context.Context) (Results, error) {
	logger := logging.FromContext(ctx)

	results := make(Results, 0, len(records.Directions()))
	var errs []error

	for _, direction := range records.Directions() {
		result, err := b.engine.Pass(ctx, direction)
		if err != nil {
			b.hooks.triggerError(err)
			errs = append(errs, err)
			continue
		}
		results = append(results, result)
		b.hooks.triggerPassComplete(result)
	}

	if len(errs) > 0 {
		return results, stderrors.Join(errs...)
	}

	b.state.MarkPassComplete()
	logger.Info().
		Int("created", results.Created()).
		Int("updated", results.Updated()).
		Int("failed", results.Failed()).
		Msg("Full pass completed")

	return results, nil
}

// acquire claims the single pass slot. When the slot is busy and coalesce
// is set, the request is remembered as the one pending follow-up pass.
func (b *bridge) acquire(coalesce bool) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.running {
		if coalesce {
			b.pending = true
		}
		return false
	}
	b.running = true
	return true
}

// finish releases the pass slot and launches the coalesced follow-up pass
// if one was requested while running.
func (b *bridge) finish() {
	b.mu.Lock()
	rerun := b.pending
	b.pending = false
	b.running = false
	b.mu.Unlock()

	if rerun {
		go b.trigger("follow-up")
	}
}

// trigger runs a full pass on behalf of a background entry point (ticker
// tick, debounced webhook, coalesced follow-up). Disabled sync and a busy
// engine are routine outcomes, logged at debug level only.
func (b *bridge) trigger(source string) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.PassContextTimeout)
	defer cancel()

	_, err := b.Sync(ctx)
	switch {
	case err == nil:
	case stderrors.Is(err, errors.ErrSyncDisabled):
		logging.Debug().Str("trigger", source).Msg("Sync disabled, pass skipped")
	case stderrors.Is(err, errors.ErrPassInProgress):
		logging.Debug().Str("trigger", source).Msg("Pass already running, follow-up queued")
	default:
		logging.Error().Err(err).Str("trigger", source).Msg("Triggered pass failed")
	}
}
