// Package policy holds the per-field ownership configuration that decides
// which platform's value wins during reconciliation. Each of the four logical
// fields is owned by HubSpot, by Monday, or by both; ownership governs
// updates to existing records only. Brand-new records are always seeded with
// every field regardless of ownership.
package policy

import (
	"slices"

	"github.com/SophieMSL/hubspot-monday-sync/pkg/errors"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/records"
)

// Owner designates which platform is authoritative for a field.
type Owner string

// String returns the string representation of an owner.
func (o Owner) String() string {
	return string(o)
}

// The ownership values. OwnerBoth means either platform may push the field;
// in a full pass the direction that runs last wins for diverging values.
const (
	OwnerHubspot Owner = "hubspot"
	OwnerMonday  Owner = "monday"
	OwnerBoth    Owner = "both"
)

// Owners returns all ownership values.
func Owners() []Owner {
	return []Owner{OwnerHubspot, OwnerMonday, OwnerBoth}
}

// IsValid returns true if the owner is one of the defined constants.
func (o Owner) IsValid() bool {
	return slices.Contains(Owners(), o)
}

// ParseOwner parses a string into an Owner.
func ParseOwner(s string) (Owner, error) {
	o := Owner(s)
	if !o.IsValid() {
		return "", errors.NewValidationError("owner", s, "must be hubspot, monday, or both")
	}
	return o, nil
}

// Policy maps each logical field to its owner. Every field has exactly one
// owner at all times; a policy missing a field is rejected by Validate.
type Policy map[records.Field]Owner

// Default returns the starting policy: every field owned by both platforms.
func Default() Policy {
	return Policy{
		records.FieldTitle:       OwnerBoth,
		records.FieldDescription: OwnerBoth,
		records.FieldStatus:      OwnerBoth,
		records.FieldPriority:    OwnerBoth,
	}
}

// ShouldPull reports whether a field's value is pushed from the direction's
// source platform to its target. True iff the field's owner is Both or is
// the source platform. Pure; placement in updates only (creates carry all
// fields unconditionally).
func (p Policy) ShouldPull(field records.Field, direction records.Direction) bool {
	owner, ok := p[field]
	if !ok {
		return false
	}
	if owner == OwnerBoth {
		return true
	}
	return owner == Owner(direction.Source())
}

// Set assigns an owner to a field, validating both.
func (p Policy) Set(field records.Field, owner Owner) error {
	if !field.IsValid() {
		return errors.NewValidationError("field", field.String(), "unknown logical field")
	}
	if !owner.IsValid() {
		return errors.NewValidationError("owner", owner.String(), "must be hubspot, monday, or both")
	}
	p[field] = owner
	return nil
}

// Get returns the owner for a field and whether the field is present.
func (p Policy) Get(field records.Field) (Owner, bool) {
	owner, ok := p[field]
	return owner, ok
}

// Clone returns an independent copy of the policy.
func (p Policy) Clone() Policy {
	out := make(Policy, len(p))
	for f, o := range p {
		out[f] = o
	}
	return out
}

// Validate checks that the policy covers exactly the four logical fields
// with valid owners.
func (p Policy) Validate() error {
	for _, f := range records.Fields() {
		owner, ok := p[f]
		if !ok {
			return errors.NewValidationError(f.String(), nil, "field has no owner")
		}
		if !owner.IsValid() {
			return errors.NewValidationError(f.String(), owner.String(), "unknown owner")
		}
	}
	for f := range p {
		if !f.IsValid() {
			return errors.NewValidationError(f.String(), nil, "unknown logical field")
		}
	}
	return nil
}
