package models

// DifferenceRule declares a class of divergence between source and target
// that is a natural consequence of syncing rather than a defect. Rules come
// from configuration; the reconciliation engine never invents them.
//
// Specificity: a rule naming both an entity type and a field list is
// narrower than a rule naming only a type, which is narrower than the
// wildcard rule (empty EntityType). When several rules could classify the
// same record, the narrowest one wins.
type DifferenceRule struct {
	// EntityType the rule applies to. Empty matches every type.
	EntityType string `json:"entity_type,omitempty"`

	// Fields is the allowlist of field names that may diverge under this
	// rule (e.g. "updated_at"). Empty means the rule is a type-level
	// default covering presence differences only.
	Fields []string `json:"fields,omitempty"`

	// AllowSourceOnly accepts records present only on the source side
	// (the normal state right after a push).
	AllowSourceOnly bool `json:"allow_source_only,omitempty"`

	// AllowTargetOnly accepts records present only on the target side
	// (the normal state right after a pull).
	AllowTargetOnly bool `json:"allow_target_only,omitempty"`

	// Reason is the code stamped on findings classified by this rule.
	Reason string `json:"reason"`
}

// Covers reports whether every name in diff is in the rule's field
// allowlist.
func (r DifferenceRule) Covers(diff []string) bool {
	if len(r.Fields) == 0 {
		return false
	}

	allowed := make(map[string]struct{}, len(r.Fields))
	for _, f := range r.Fields {
		allowed[f] = struct{}{}
	}
	for _, d := range diff {
		if _, ok := allowed[d]; !ok {
			return false
		}
	}
	return true
}
