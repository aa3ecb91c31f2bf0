// Package state holds the mutable configuration shared by the reconciler,
// the orchestrator, and the admin surface: the field policy, the global
// enabled flag, the activity journal, and the last-successful-pass
// timestamp. It is an explicit object constructed once and passed by
// reference; there are no package-level globals, so tests can fabricate
// isolated states freely.
package state

import (
	"sync"

	"github.com/agentstation/utc"

	"github.com/SophieMSL/hubspot-monday-sync/pkg/journal"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/policy"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/records"
)

// State is the shared mutable state of the sync engine. All access is
// serialized through its mutex; the journal carries its own lock.
type State struct {
	mu       sync.RWMutex
	policy   policy.Policy
	enabled  bool
	lastPass utc.Time
	hasPass  bool

	journal *journal.Journal
}

// New creates a State with the default policy, sync enabled, and an empty
// journal.
func New() *State {
	return &State{
		policy:  policy.Default(),
		enabled: true,
		journal: journal.New(),
	}
}

// Policy returns a copy of the current policy. Callers may mutate the copy
// without affecting the shared state.
func (s *State) Policy() policy.Policy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy.Clone()
}

// SetPolicy validates and replaces the whole policy.
func (s *State) SetPolicy(p policy.Policy) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.policy = p.Clone()
	return nil
}

// SetPolicyField assigns a single field's owner.
func (s *State) SetPolicyField(field, owner string) error {
	o, err := policy.ParseOwner(owner)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	updated := s.policy.Clone()
	if err := updated.Set(records.Field(field), o); err != nil {
		return err
	}
	s.policy = updated
	return nil
}

// Enabled reports whether sync is globally enabled.
func (s *State) Enabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enabled
}

// SetEnabled switches sync on or off. While off, every pass entry point is
// a no-op.
func (s *State) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled
}

// LastPass returns the completion time of the most recent successful full
// pass and whether one has happened.
func (s *State) LastPass() (utc.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastPass, s.hasPass
}

// MarkPassComplete records now as the last successful full pass.
func (s *State) MarkPassComplete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastPass = utc.Now()
	s.hasPass = true
}

// Journal returns the activity journal. The journal is safe for concurrent
// use on its own.
func (s *State) Journal() *journal.Journal {
	return s.journal
}
