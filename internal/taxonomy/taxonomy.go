// Package taxonomy holds the TELOS relationship taxonomy: the fixed set of
// life-domain categories, the relation types entities may use to point at
// each other, and the rules that tie the two together.
//
// The package is pure data plus pure functions. It has no I/O and no state:
// - taxonomy.go: enums and their string forms
// - table.go: the category x relation-type matrix, defaults and keywords
// - classify.go: category detection from free text
// - validate.go: relationship validation and suggestions
package taxonomy

import (
	"errors"
	"fmt"
	"strings"
)

// --- Category enum ---

// Category is one of the 12 TELOS life-domain categories.
type Category uint8

const (
	Identity Category = iota
	Memory
	Resources
	Context
	Conventions
	Objectives
	Projects
	Habits
	Risks
	DecisionJournal
	Relationships
	Retros

	categoryCount = int(Retros) + 1
)

// DefaultCategory is used when an entity carries no category or detection
// finds no keyword at all.
const DefaultCategory = Context

var categoryNames = [categoryCount]string{
	Identity:        "Identity",
	Memory:          "Memory",
	Resources:       "Resources",
	Context:         "Context",
	Conventions:     "Conventions",
	Objectives:      "Objectives",
	Projects:        "Projects",
	Habits:          "Habits",
	Risks:           "Risks",
	DecisionJournal: "DecisionJournal",
	Relationships:   "Relationships",
	Retros:          "Retros",
}

// ErrUnknownCategory is returned when a string names no TELOS category.
var ErrUnknownCategory = errors.New("unknown TELOS category")

// Categories returns all categories in table order.
func Categories() []Category {
	out := make([]Category, categoryCount)
	for i := range out {
		out[i] = Category(i)
	}
	return out
}

// String returns the canonical name, e.g. "DecisionJournal".
func (c Category) String() string {
	if int(c) < categoryCount {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", uint8(c))
}

// Valid reports whether c is one of the 12 declared categories.
func (c Category) Valid() bool {
	return int(c) < categoryCount
}

// ParseCategory maps a category name to its enum value. Matching is
// case-insensitive so "habits" and "Habits" are the same category.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for i, name := range categoryNames {
		if strings.EqualFold(name, s) {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("%w %q: must be one of: %s", ErrUnknownCategory, s, strings.Join(categoryNames[:], ", "))
}

// CategoryOr parses s and falls back to def when s is empty or unknown.
func CategoryOr(s string, def Category) Category {
	if c, err := ParseCategory(s); err == nil {
		return c
	}
	return def
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, uint8(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// --- Relation type enum ---

// RelationType is one of the 7 edge semantics of the taxonomy.
type RelationType uint8

const (
	Supports RelationType = iota
	Enables
	Constrains
	Mentors
	Informs
	ReflectsOn
	Threatens

	relationTypeCount = int(Threatens) + 1
)

var relationTypeNames = [relationTypeCount]string{
	Supports:   "supports",
	Enables:    "enables",
	Constrains: "constrains",
	Mentors:    "mentors",
	Informs:    "informs",
	ReflectsOn: "reflects_on",
	Threatens:  "threatens",
}

var relationTypeDescriptions = [relationTypeCount]string{
	Supports:   "Forward progress toward goals",
	Enables:    "Provides capability, resources, or tools",
	Constrains: "Limitations, boundaries, or restrictions",
	Mentors:    "Human relationships and guidance",
	Informs:    "Knowledge, context, or information sharing",
	ReflectsOn: "Retrospective analysis and learning",
	Threatens:  "Risk relationships and potential negative impacts",
}

// ErrUnknownRelationType is returned when a string names no relation type.
var ErrUnknownRelationType = errors.New("unknown relationship type")

// RelationTypes returns all relation types in table order.
func RelationTypes() []RelationType {
	out := make([]RelationType, relationTypeCount)
	for i := range out {
		out[i] = RelationType(i)
	}
	return out
}

// String returns the wire form, e.g. "reflects_on".
func (r RelationType) String() string {
	if int(r) < relationTypeCount {
		return relationTypeNames[r]
	}
	return fmt.Sprintf("RelationType(%d)", uint8(r))
}

// Valid reports whether r is one of the 7 declared relation types.
func (r RelationType) Valid() bool {
	return int(r) < relationTypeCount
}

// Description returns a one-line human description of the relation type.
func (r RelationType) Description() string {
	if !r.Valid() {
		return "Unknown relationship type"
	}
	return relationTypeDescriptions[r]
}

// ParseRelationType maps the wire form to its enum value. Unlike
// categories, relation types are matched exactly: "Supports" is not a
// relation type.
func ParseRelationType(s string) (RelationType, error) {
	for i, name := range relationTypeNames {
		if name == s {
			return RelationType(i), nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownRelationType, s)
}

// MarshalText implements encoding.TextMarshaler.
func (r RelationType) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRelationType, uint8(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *RelationType) UnmarshalText(b []byte) error {
	parsed, err := ParseRelationType(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func joinTypes(types []RelationType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}
