package reconciler

import (
	"github.com/SophieMSL/hubspot-monday-sync/pkg/errors"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/state"
)

// options configures a reconciler.
type options struct {
	hubspot Platform
	monday  Platform
	state   *state.State
	dryRun  bool
}

func defaultOptions() *options {
	return &options{}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (options *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

// newOptions returns reconciler options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithHubspot sets the HubSpot collaborator.
func WithHubspot(p Platform) Option {
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

// WithMonday sets the Monday collaborator.
func WithMonday(p Platform) Option {
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

// WithState sets the shared state the reconciler reads policy from and
// journals into.
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

// WithDryRun computes plans without touching either remote.
func WithDryRun(enabled bool) Option {
	return func(o *options) error {
		o.dryRun = enabled
		return nil
	}
}
