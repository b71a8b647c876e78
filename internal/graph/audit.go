package graph

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/HendryAvila/telosgraph/internal/taxonomy"
)

// AuditReport describes how well a stored graph follows the taxonomy.
type AuditReport struct {
	Valid bool `json:"valid"`

	TotalEntities        int            `json:"totalEntities"`
	ValidEntities        int            `json:"validEntities"`
	InvalidEntities      int            `json:"invalidEntities"`
	EntityIssues         []string       `json:"entityIssues"`
	CategoryDistribution map[string]int `json:"categoryDistribution"`

	TotalRelations    int            `json:"totalRelations"`
	ValidRelations    int            `json:"validRelations"`
	InvalidRelations  int            `json:"invalidRelations"`
	RelationIssues    []string       `json:"relationIssues"`
	OrphanedRelations []string       `json:"orphanedRelations"`
	TypeDistribution  map[string]int `json:"typeDistribution"`

	MissingCategories    []string `json:"missingCategories"`
	MissingRelationTypes []string `json:"missingRelationTypes"`
}

// Audit checks every entity and relation of g.
//
// Entities need a name, a type and a known category. Relations need both
// endpoints, a known relation type, and a type the source category may use
// under the full validator rules.
func Audit(g *KnowledgeGraph) *AuditReport {
	r := &AuditReport{
		TotalEntities:        len(g.Entities),
		TotalRelations:       len(g.Relations),
		EntityIssues:         []string{},
		RelationIssues:       []string{},
		OrphanedRelations:    []string{},
		CategoryDistribution: map[string]int{},
		TypeDistribution:     map[string]int{},
	}

	categories := make(map[string]taxonomy.Category, len(g.Entities))
	known := make(map[string]bool, len(g.Entities))

	for _, e := range g.Entities {
		ok := true
		known[e.Name] = true

		if e.Name == "" || e.EntityType == "" {
			r.EntityIssues = append(r.EntityIssues, fmt.Sprintf("Entity missing required fields: name=%q entityType=%q", e.Name, e.EntityType))
			ok = false
		}

		switch c, err := taxonomy.ParseCategory(e.TelosCategory); {
		case e.TelosCategory == "":
			r.EntityIssues = append(r.EntityIssues, fmt.Sprintf("Entity '%s' missing TELOS category", e.Name))
			ok = false
		case err != nil:
			r.EntityIssues = append(r.EntityIssues, fmt.Sprintf("Invalid TELOS category '%s' for entity '%s'", e.TelosCategory, e.Name))
			ok = false
		default:
			categories[e.Name] = c
			r.CategoryDistribution[c.String()]++
		}

		if ok {
			r.ValidEntities++
		} else {
			r.InvalidEntities++
		}
	}

	for _, rel := range g.Relations {
		ok := true
		edge := fmt.Sprintf("%s -> %s", rel.From, rel.To)

		if rel.From == "" || rel.To == "" || rel.RelationType == "" {
			r.RelationIssues = append(r.RelationIssues, fmt.Sprintf("Relation missing required fields: %s (%q)", edge, rel.RelationType))
			r.InvalidRelations++
			continue
		}

		for _, end := range []string{rel.From, rel.To} {
			if !known[end] {
				r.OrphanedRelations = append(r.OrphanedRelations, fmt.Sprintf("Relation references non-existent entity: %s", end))
				ok = false
			}
		}

		rt, err := taxonomy.ParseRelationType(rel.RelationType)
		if err != nil {
			r.RelationIssues = append(r.RelationIssues, fmt.Sprintf("Invalid relationship type '%s' in relation %s", rel.RelationType, edge))
			ok = false
		} else {
			r.TypeDistribution[rt.String()]++

			fromCat, fromOK := categories[rel.From]
			toCat, toOK := categories[rel.To]
			if fromOK && toOK {
				if v := taxonomy.Validate(fromCat, toCat, rt); !v.Valid {
					r.RelationIssues = append(r.RelationIssues, fmt.Sprintf("%s (%s)", v.Message, edge))
					ok = false
				}
			}
		}

		if ok {
			r.ValidRelations++
		} else {
			r.InvalidRelations++
		}
	}

	for _, c := range taxonomy.Categories() {
		if r.CategoryDistribution[c.String()] == 0 {
			r.MissingCategories = append(r.MissingCategories, c.String())
		}
	}
	for _, rt := range taxonomy.RelationTypes() {
		if r.TypeDistribution[rt.String()] == 0 {
			r.MissingRelationTypes = append(r.MissingRelationTypes, rt.String())
		}
	}

	r.Valid = r.InvalidEntities == 0 && r.InvalidRelations == 0
	return r
}

// Markdown renders the report for humans.
func (r *AuditReport) Markdown() string {
	var b strings.Builder

	status := "PASS"
	if !r.Valid {
		status = "ISSUES FOUND"
	}
	fmt.Fprintf(&b, "## TELOS Taxonomy Validation: %s\n\n", status)
	fmt.Fprintf(&b, "- **Entities**: %d (%d valid, %d invalid)\n", r.TotalEntities, r.ValidEntities, r.InvalidEntities)
	fmt.Fprintf(&b, "- **Relations**: %d (%d valid, %d invalid)\n", r.TotalRelations, r.ValidRelations, r.InvalidRelations)

	writeList(&b, "Entity issues", r.EntityIssues)
	writeList(&b, "Relation issues", r.RelationIssues)
	writeList(&b, "Orphaned relations", r.OrphanedRelations)
	writeCounts(&b, "Category distribution", r.CategoryDistribution)
	writeCounts(&b, "Relation type distribution", r.TypeDistribution)

	b.WriteString("\n### Coverage\n\n")
	if len(r.MissingCategories) == 0 {
		b.WriteString("- All TELOS categories are represented\n")
	} else {
		fmt.Fprintf(&b, "- Missing categories (%d): %s\n", len(r.MissingCategories), strings.Join(r.MissingCategories, ", "))
	}
	if len(r.MissingRelationTypes) == 0 {
		b.WriteString("- All relationship types are represented\n")
	} else {
		fmt.Fprintf(&b, "- Missing relationship types (%d): %s\n", len(r.MissingRelationTypes), strings.Join(r.MissingRelationTypes, ", "))
	}
	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n### %s\n\n", title)
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
}

// writeCounts lists counts highest first, ties by name.
func writeCounts(b *strings.Builder, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	names := make([]string, 0, len(counts))
	for n := range counts {
		names = append(names, n)
	}
	slices.SortFunc(names, func(x, y string) int {
		if c := cmp.Compare(counts[y], counts[x]); c != 0 {
			return c
		}
		return cmp.Compare(x, y)
	})

	fmt.Fprintf(b, "\n### %s\n\n", title)
	for _, n := range names {
		fmt.Fprintf(b, "- %s: %d\n", n, counts[n])
	}
}
