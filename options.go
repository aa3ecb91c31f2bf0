package bridge

import (
	"time"

	"github.com/SophieMSL/hubspot-monday-sync/pkg/constants"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/errors"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/policy"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/reconciler"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/state"
)

// options are the configured options for a Bridge.
type options struct {
	// platform collaborators
	hubspot reconciler.Platform
	monday  reconciler.Platform

	// engine overrides the reconciler built from the platform clients
	engine reconciler.Reconciler

	// shared state and policy seeding
	state      *state.State
	policy     policy.Policy
	policyPath string

	// schedule and trigger tuning
	autoSyncEnabled  bool
	autoSyncInterval time.Duration
	debounceDelay    time.Duration

	// dryRun computes plans without touching either remote
	dryRun bool
}

// defaults returns bridge options with default values.
func defaults() *options {
	return &options{
		autoSyncInterval: constants.DefaultSyncInterval,
		debounceDelay:    constants.DefaultDebounceDelay,
	}
}

// apply applies the given options in order, stopping at the first error.
func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// Option is a function that configures a Bridge instance.
type Option func(*options) error

// WithHubspot sets the HubSpot platform client.
func WithHubspot(p reconciler.Platform) Option {
	return func(o *options) error {
		if p == nil {
			return &errors.ValidationError{
				Field:   "hubspot",
				Message: "cannot be nil",
			}
		}
		o.hubspot = p
		return nil
	}
}

// WithMonday sets the Monday platform client.
func WithMonday(p reconciler.Platform) Option {
	return func(o *options) error {
		if p == nil {
			return &errors.ValidationError{
				Field:   "monday",
				Message: "cannot be nil",
			}
		}
		o.monday = p
		return nil
	}
}

// WithState sets the shared state object. The default is a fresh state with
// sync enabled and the default policy.
func WithState(s *state.State) Option {
	return func(o *options) error {
		if s == nil {
			return &errors.ValidationError{
				Field:   "state",
				Message: "cannot be nil",
			}
		}
		o.state = s
		return nil
	}
}

// WithReconciler sets a custom reconciliation engine, bypassing the one
// normally built from the two platform clients.
func WithReconciler(r reconciler.Reconciler) Option {
	return func(o *options) error {
		if r == nil {
			return &errors.ValidationError{
				Field:   "reconciler",
				Message: "cannot be nil",
			}
		}
		o.engine = r
		return nil
	}
}

// WithPolicy seeds the field ownership policy. It takes precedence over a
// snapshot loaded from WithPolicyPath.
func WithPolicy(p policy.Policy) Option {
	return func(o *options) error {
		if err := p.Validate(); err != nil {
			return err
		}
		o.policy = p.Clone()
		return nil
	}
}

// WithPolicyPath sets the YAML snapshot file the policy is loaded from at
// startup and saved to on every policy change. An absent file is not an
// error; the defaults apply until the first save.
func WithPolicyPath(path string) Option {
	return func(o *options) error {
		o.policyPath = path
		return nil
	}
}

// WithAutoSync configures whether scheduled passes start automatically.
func WithAutoSync(enabled bool) Option {
	return func(o *options) error {
		o.autoSyncEnabled = enabled
		return nil
	}
}

// WithAutoSyncInterval configures how often a scheduled full pass runs.
func WithAutoSyncInterval(interval time.Duration) Option {
	return func(o *options) error {
		o.autoSyncInterval = interval
		return nil
	}
}

// WithDebounceDelay configures the quiet window applied to webhook triggers.
func WithDebounceDelay(delay time.Duration) Option {
	return func(o *options) error {
		o.debounceDelay = delay
		return nil
	}
}

// WithDryRun configures passes to compute plans without applying them.
func WithDryRun(enabled bool) Option {
	return func(o *options) error {
		o.dryRun = enabled
		return nil
	}
}
