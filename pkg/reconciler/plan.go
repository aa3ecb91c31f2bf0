package reconciler

import (
	"github.com/SophieMSL/hubspot-monday-sync/pkg/policy"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/records"
)

// ActionType classifies a planned mutation.
type ActionType string

// String returns the string representation of an action type.
func (t ActionType) String() string {
	return string(t)
}

// The action types. Skip actions are recorded in the plan for the pass
// summary but never sent to the remote.
const (
	ActionCreate ActionType = "create"
	ActionUpdate ActionType = "update"
	ActionSkip   ActionType = "skip"
)

// Action is one planned mutation against the target platform.
type Action struct {
	Type     ActionType       `json:"type"`
	Key      string           `json:"key"`
	RemoteID string           `json:"remote_id,omitempty"` // target record, set for updates
	Fields   records.FieldSet `json:"fields,omitempty"`
}

// Plan is the full set of decisions for one direction, computed before any
// remote mutation occurs. Actions appear in source snapshot order.
type Plan struct {
	Direction records.Direction `json:"direction"`
	Actions   []Action          `json:"actions"`
}

// ComputePlan decides, for every source record, whether the target needs a
// create, an update, or nothing. The decision rules:
//
//   - No record with the same identity key on the target: Create, carrying
//     all four logical fields. Ownership governs updates only, so a new
//     record is fully seeded.
//   - A match exists: Update with exactly the fields the policy lets this
//     direction push. Values are not diffed against the target; pushing an
//     unchanged value is a remote no-op, which keeps the pass idempotent
//     without comparisons.
//   - The allowed field set is empty: Skip, silently.
func ComputePlan(direction records.Direction, source []records.Record, index Index, pol policy.Policy) *Plan {
	plan := &Plan{
		Direction: direction,
		Actions:   make([]Action, 0, len(source)),
	}

	for _, rec := range source {
		key := rec.Key()

		target, ok := index.Lookup(key)
		if !ok {
			plan.Actions = append(plan.Actions, Action{
				Type:   ActionCreate,
				Key:    key,
				Fields: rec.AllFields(),
			})
			continue
		}

		fields := make(records.FieldSet)
		for _, f := range records.Fields() {
			if pol.ShouldPull(f, direction) {
				fields[f] = rec.Value(f)
			}
		}

		if len(fields) == 0 {
			plan.Actions = append(plan.Actions, Action{
				Type: ActionSkip,
				Key:  key,
			})
			continue
		}

		plan.Actions = append(plan.Actions, Action{
			Type:     ActionUpdate,
			Key:      key,
			RemoteID: target.RemoteID,
			Fields:   fields,
		})
	}

	return plan
}

// Creates returns the number of planned create actions.
func (p *Plan) Creates() int { return p.count(ActionCreate) }

// Updates returns the number of planned update actions.
func (p *Plan) Updates() int { return p.count(ActionUpdate) }

// Skips returns the number of skip decisions.
func (p *Plan) Skips() int { return p.count(ActionSkip) }

func (p *Plan) count(t ActionType) int {
	n := 0
	for _, a := range p.Actions {
		if a.Type == t {
			n++
		}
	}
	return n
}
