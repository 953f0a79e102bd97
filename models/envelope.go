package models

import (
	"sort"
	"time"
)

// EntityRef points at another entity that must exist before the referencing
// one may be applied.
type EntityRef struct {
	EntityType string `json:"entity_type"`
	Key        string `json:"key"`
}

// EntityRecord is one row of business data in transfer form: a natural
// identifier plus a flat field map. The engine never interprets the fields
// beyond comparing them; schema knowledge stays in configuration.
type EntityRecord struct {
	// EntityType names the logical table ("product", "employee", ...).
	EntityType string `json:"entity_type"`

	// Key is the record's natural identifier. Applying the same key twice
	// is an upsert, which is what makes at-least-once delivery safe.
	Key string `json:"key"`

	// Seq is the record's position in the per-type change sequence.
	// Strictly increasing within one entity type.
	Seq int64 `json:"seq"`

	Fields map[string]string `json:"fields"`

	// Parent, when set, names an entity that must already exist on the
	// destination. Missing parents surface as apply errors rather than
	// silently creating orphans.
	Parent *EntityRef `json:"parent,omitempty"`

	Deleted   bool      `json:"deleted"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FieldNames returns the record's field names in sorted order.
func (r EntityRecord) FieldNames() []string {
	names := make([]string, 0, len(r.Fields))
	for name := range r.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TransferEnvelope is the unit moved by the incremental transfer strategy:
// a single entity record tagged with its type and the record's change
// sequence. Seq ascends within one entity type, so the receiver can order
// a delivery window and the session's per-type cursors name an exact
// resume point.
type TransferEnvelope struct {
	EntityType string       `json:"entity_type"`
	Seq        int64        `json:"seq"`
	Record     EntityRecord `json:"record"`
}
