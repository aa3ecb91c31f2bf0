package bridge

import (
	"sync"

	"github.com/SophieMSL/hubspot-monday-sync/pkg/reconciler"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/records"
)

// Hook function types for sync events
type (
	// PassCompleteHook is called after a direction pass finishes applying
	PassCompleteHook func(result *reconciler.Result)

	// RecordCreatedHook is called for each record created on the target
	// platform during a pass
	RecordCreatedHook func(direction records.Direction, key, remoteID string)

	// RecordUpdatedHook is called for each record updated on the target
	// platform during a pass
	RecordUpdatedHook func(direction records.Direction, key string, fields records.FieldSet)

	// ErrorHook is called when a direction pass aborts or a single record
	// fails to apply
	ErrorHook func(err error)
)

// Hooks provides access to event callback registration.
type Hooks interface {
	// OnPassComplete registers a callback for completed direction passes
	OnPassComplete(PassCompleteHook)

	// OnRecordCreated registers a callback for records created during a pass
	OnRecordCreated(RecordCreatedHook)

	// OnRecordUpdated registers a callback for records updated during a pass
	OnRecordUpdated(RecordUpdatedHook)

	// OnError registers a callback for pass aborts and per-record failures
	OnError(ErrorHook)
}

// hooks manages event callbacks for sync events
type hooks struct {
	mu              sync.RWMutex
	onPassComplete  []PassCompleteHook
	onRecordCreated []RecordCreatedHook
	onRecordUpdated []RecordUpdatedHook
	onError         []ErrorHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnPassComplete registers a callback for completed direction passes
func (h *hooks) OnPassComplete(fn PassCompleteHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onPassComplete = append(h.onPassComplete, fn)
}

// OnRecordCreated registers a callback for records created during a pass
func (h *hooks) OnRecordCreated(fn RecordCreatedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onRecordCreated = append(h.onRecordCreated, fn)
}

// OnRecordUpdated registers a callback for records updated during a pass
func (h *hooks) OnRecordUpdated(fn RecordUpdatedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onRecordUpdated = append(h.onRecordUpdated, fn)
}

// OnError registers a callback for pass aborts and per-record failures
func (h *hooks) OnError(fn ErrorHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onError = append(h.onError, fn)
}

// triggerPassComplete walks a finished pass result and fires the record
// callbacks in application order, then the error callbacks for any isolated
// per-record failures, then the pass callbacks.
func (h *hooks) triggerPassComplete(result *reconciler.Result) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, action := range result.Applied {
		switch action.Type {
		case reconciler.ActionCreate:
			for _, hook := range h.onRecordCreated {
				hook(result.Direction, action.Key, action.RemoteID)
			}
		case reconciler.ActionUpdate:
			for _, hook := range h.onRecordUpdated {
				hook(result.Direction, action.Key, action.Fields)
			}
		}
	}

	for _, err := range result.Errors {
		for _, hook := range h.onError {
			hook(err)
		}
	}

	for _, hook := range h.onPassComplete {
		hook(result)
	}
}

// triggerError fires the error callbacks for a pass-level failure.
func (h *hooks) triggerError(err error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, hook := range h.onError {
		hook(err)
	}
}
