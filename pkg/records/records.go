// Package records defines the neutral record shape shared by the two
// platform clients and the reconciler. A HubSpot ticket and a Monday board
// item are both projected onto the same four logical fields so the engine
// never needs to know which side a snapshot came from.
//
// Records are matched across platforms by identity key: the ticket subject
// on HubSpot and the item name on Monday. Matching is exact byte equality,
// case- and whitespace-sensitive. No fuzzy or ID-based matching is attempted;
// this is a deliberate, documented limitation of the design.
package records

import "slices"

// Record is a read-only, per-pass projection of one remote record.
// RemoteID is the platform's own identifier, opaque to the engine.
type Record struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	RemoteID    string `json:"remote_id,omitempty"`
}

// Key returns the record's identity key used for cross-platform matching.
func (r Record) Key() string {
	return r.Title
}

// Value returns the record's value for a logical field.
func (r Record) Value(f Field) string {
	switch f {
	case FieldTitle:
		return r.Title
	case FieldDescription:
		return r.Description
	case FieldStatus:
		return r.Status
	case FieldPriority:
		return r.Priority
	}
	return ""
}

// AllFields returns every logical field of the record as a FieldSet.
// Used when seeding a brand-new record on the other platform.
func (r Record) AllFields() FieldSet {
	return FieldSet{
		FieldTitle:       r.Title,
		FieldDescription: r.Description,
		FieldStatus:      r.Status,
		FieldPriority:    r.Priority,
	}
}

// Field identifies one of the four logical fields carried by every record.
type Field string

// String returns the string representation of a field.
func (f Field) String() string {
	return string(f)
}

// The logical fields.
const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldStatus      Field = "status"
	FieldPriority    Field = "priority"
)

// Fields returns all logical fields in their canonical order.
func Fields() []Field {
	return []Field{
		FieldTitle,
		FieldDescription,
		FieldStatus,
		FieldPriority,
	}
}

// IsValid returns true if the field is one of the defined constants.
func (f Field) IsValid() bool {
	return slices.Contains(Fields(), f)
}

// FieldSet is the partial payload of an update: the fields to push and the
// values to push for them. Fields absent from the set must not be touched on
// the remote.
type FieldSet map[Field]string

// Fields returns the set's fields in canonical order, for deterministic
// logging and assertions.
func (fs FieldSet) Fields() []Field {
	out := make([]Field, 0, len(fs))
	for _, f := range Fields() {
		if _, ok := fs[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// Names returns the set's field names in canonical order.
func (fs FieldSet) Names() []string {
	fields := fs.Fields()
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.String()
	}
	return out
}
