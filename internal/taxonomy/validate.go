package taxonomy

import (
	"fmt"
	"slices"
)

// Validation is the outcome of checking one relation against the taxonomy.
type Validation struct {
	Valid bool `json:"isValid"`
	// Allowed is matrix[from], in table order.
	Allowed []RelationType `json:"allowedTypes"`
	// Suggested echoes the input when valid, otherwise it is the default
	// relation for the category pair.
	Suggested RelationType `json:"suggestedType"`
	Message   string       `json:"errorMessage,omitempty"`
}

// Validate decides whether from may point at to with relation type rt.
//
// Three gates run in order and the first failure supplies the message:
// the matrix row of from, the mentors rule (Relationships only) and the
// threatens rule (Risks only).
func Validate(from, to Category, rt RelationType) Validation {
	allowed := AllowedRelations(from)
	v := Validation{Allowed: allowed, Suggested: DefaultRelation(from, to)}

	switch {
	case !slices.Contains(allowed, rt):
		v.Message = fmt.Sprintf("Relationship type '%s' is not valid for category '%s'. Allowed types: %s",
			rt, from, joinTypes(allowed))
	case rt == Mentors && from != Relationships:
		v.Message = fmt.Sprintf("Relationship type 'mentors' should only be used by people (Relationships category), not '%s'", from)
	case rt == Threatens && from != Risks:
		v.Message = fmt.Sprintf("Relationship type 'threatens' should only be used by risks (Risks category), not '%s'", from)
	default:
		v.Valid = true
		v.Suggested = rt
	}
	return v
}

// DefaultRelation returns the preferred relation type for an ordered
// category pair. It never fails: unlisted pairs get Supports.
func DefaultRelation(from, to Category) RelationType {
	if rt, ok := defaults[pair{from, to}]; ok {
		return rt
	}
	return fallbackRelation
}

// SuggestedRelations returns the default relation for the pair followed by
// the rest of matrix[from] in table order.
func SuggestedRelations(from, to Category) []RelationType {
	def := DefaultRelation(from, to)
	out := []RelationType{def}
	for _, rt := range AllowedRelations(from) {
		if rt != def {
			out = append(out, rt)
		}
	}
	return out
}

// AllowedRelations returns a copy of matrix[c]. Unknown categories have no
// allowed relations.
func AllowedRelations(c Category) []RelationType {
	if !c.Valid() {
		return nil
	}
	return slices.Clone(matrix[c])
}

// IsAllowed reports whether the matrix row of c contains rt. The mentors
// and threatens rules are not applied; use Validate for the full check.
func IsAllowed(c Category, rt RelationType) bool {
	return c.Valid() && slices.Contains(matrix[c], rt)
}
