// Package bridge provides the main entry point for the HubSpot / Monday.com
// ticket sync engine. It wires the two platform clients into a bidirectional
// reconciler, schedules recurring passes, debounces webhook notifications,
// and exposes the administrative surface the CLI and HTTP server are built
// on.
//
// A bridge owns a single shared state object (policy, enabled flag, journal,
// last-pass timestamp) and guarantees that at most one reconciliation pass
// runs at a time: triggers arriving mid-pass are coalesced into at most one
// follow-up pass.
//
// Example usage:
//
//	// Create a bridge from the two platform clients
//	b, err := bridge.New(
//	    bridge.WithHubspot(hubspot.NewClient(hubspotToken)),
//	    bridge.WithMonday(monday.NewClient(mondayToken, boardID)),
//	    bridge.WithAutoSync(true),
//	    bridge.WithAutoSyncInterval(5*time.Minute),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer b.Close()
//
//	// Register event hooks
//	b.OnRecordCreated(func(d records.Direction, key, remoteID string) {
//	    log.Printf("created %q on %s", key, d.Target())
//	})
//
//	// Trigger a full pass manually
//	results, err := b.Sync(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(results.Summary())
package bridge

import (
	"context"
	stderrors "errors"
	"os"
	"sync"
	"time"

	"github.com/agentstation/utc"

	"github.com/SophieMSL/hubspot-monday-sync/internal/scheduler"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/journal"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/policy"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/reconciler"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/state"
)

// Compile-time interface check to ensure proper implementation.
var _ Bridge = (*bridge)(nil)

// Bridge manages bidirectional ticket sync with scheduled passes and event
// hooks.
type Bridge interface {

	// Syncer runs reconciliation passes
	Syncer

	// AutoSyncer provides access to the recurring pass schedule
	AutoSyncer

	// Admin exposes the runtime controls consumed by the CLI and server
	Admin

	// Hooks provides access to event callback registration
	Hooks

	// Close stops the schedule and cancels pending webhook triggers
	Close() error
}

// Admin exposes runtime state and controls.
type Admin interface {
	// Policy returns a copy of the current field ownership policy
	Policy() policy.Policy

	// SetPolicy validates and replaces the whole policy
	SetPolicy(policy.Policy) error

	// SetPolicyField assigns a single field's owner
	SetPolicyField(field, owner string) error

	// Enabled reports whether sync is globally enabled
	Enabled() bool

	// SetEnabled switches sync on or off
	SetEnabled(bool)

	// LastPass returns the completion time of the most recent successful
	// full pass and whether one has happened
	LastPass() (utc.Time, bool)

	// Journal returns the activity journal
	Journal() *journal.Journal
}

// bridge is the internal implementation of the Bridge interface.
type bridge struct {

	// options are the configured options for the bridge
	options *options

	// engine runs one-direction passes against the shared state
	engine reconciler.Reconciler
	state  *state.State

	// pass serialization: a trigger landing mid-pass sets pending instead
	// of starting a second pass
	mu      sync.Mutex
	running bool
	pending bool

	// auto sync state
	syncTicker *time.Ticker         // ticker to trigger scheduled passes
	stopCh     chan struct{}        // stop channel to stop scheduled passes
	syncCancel context.CancelFunc   // cancel function for the schedule goroutine
	debouncer  *scheduler.Debouncer // per-platform webhook debouncing

	// event hooks for pass results
	hooks *hooks
}

// New creates a new Bridge instance with the given options.
func New(opts ...Option) (Bridge, error) {

	// apply options over defaults
	o, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}

	// create the bridge instance
	b := &bridge{
		options: o,
		state:   o.state,
		stopCh:  make(chan struct{}),
		hooks:   newHooks(),
	}
	if b.state == nil {
		b.state = state.New()
	}

	// seed the policy: an explicit option wins over the snapshot file
	if o.policy != nil {
		if err := b.state.SetPolicy(o.policy); err != nil {
			return nil, err
		}
	} else if o.policyPath != "" {
		if err := b.loadPolicySnapshot(); err != nil {
			return nil, err
		}
	}

	// use the provided engine or build one from the two platform clients
	if o.engine != nil {
		b.engine = o.engine
	} else {
		engine, err := reconciler.New(
			reconciler.WithHubspot(o.hubspot),
			reconciler.WithMonday(o.monday),
			reconciler.WithState(b.state),
			reconciler.WithDryRun(o.dryRun),
		)
		if err != nil {
			return nil, err
		}
		b.engine = engine
	}

	b.debouncer = scheduler.NewDebouncer(o.debounceDelay)

	// start scheduled passes if enabled
	if o.autoSyncEnabled {
		if err := b.AutoSyncOn(); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// loadPolicySnapshot seeds the state from the snapshot file when one exists.
func (b *bridge) loadPolicySnapshot() error {
	p, err := policy.Load(b.options.policyPath)
	if err != nil {
		// No snapshot yet; defaults apply until the first save
		if stderrors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return b.state.SetPolicy(p)
}

// savePolicySnapshot persists the current policy when a path is configured.
func (b *bridge) savePolicySnapshot() error {
	if b.options.policyPath == "" {
		return nil
	}
	return b.state.Policy().Save(b.options.policyPath)
}

// Policy returns a copy of the current field ownership policy.
func (b *bridge) Policy() policy.Policy {
	return b.state.Policy()
}

// SetPolicy validates and replaces the whole policy, persisting the snapshot
// when a policy path is configured.
func (b *bridge) SetPolicy(p policy.Policy) error {
	if err := b.state.SetPolicy(p); err != nil {
		return err
	}
	return b.savePolicySnapshot()
}

// SetPolicyField assigns a single field's owner, persisting the snapshot
// when a policy path is configured.
func (b *bridge) SetPolicyField(field, owner string) error {
	if err := b.state.SetPolicyField(field, owner); err != nil {
		return err
	}
	return b.savePolicySnapshot()
}

// Enabled reports whether sync is globally enabled.
func (b *bridge) Enabled() bool {
	return b.state.Enabled()
}

// SetEnabled switches sync on or off. While off, every pass entry point is
// a no-op.
func (b *bridge) SetEnabled(enabled bool) {
	b.state.SetEnabled(enabled)
}

// LastPass returns the completion time of the most recent successful full
// pass and whether one has happened.
func (b *bridge) LastPass() (utc.Time, bool) {
	return b.state.LastPass()
}

// Journal returns the activity journal.
func (b *bridge) Journal() *journal.Journal {
	return b.state.Journal()
}

// OnPassComplete registers a callback for completed direction passes.
func (b *bridge) OnPassComplete(fn PassCompleteHook) {
	b.hooks.OnPassComplete(fn)
}

// OnRecordCreated registers a callback for records created during a pass.
func (b *bridge) OnRecordCreated(fn RecordCreatedHook) {
	b.hooks.OnRecordCreated(fn)
}

// OnRecordUpdated registers a callback for records updated during a pass.
func (b *bridge) OnRecordUpdated(fn RecordUpdatedHook) {
	b.hooks.OnRecordUpdated(fn)
}

// OnError registers a callback for pass aborts and per-record failures.
func (b *bridge) OnError(fn ErrorHook) {
	b.hooks.OnError(fn)
}

// Close stops scheduled passes and cancels pending webhook triggers. A pass
// already in flight finishes on its own.
func (b *bridge) Close() error {
	if err := b.AutoSyncOff(); err != nil {
		return err
	}
	b.debouncer.Stop()
	return nil
}
