package graph

import (
	"context"
	"os"
	"slices"
	"strings"
	"testing"
)

func TestAudit_CleanGraph(t *testing.T) {
	g := &KnowledgeGraph{
		Entities: []Entity{
			{Name: "H", EntityType: "habit", TelosCategory: "Habits", Observations: []string{}},
			{Name: "P", EntityType: "project", TelosCategory: "Projects", Observations: []string{}},
		},
		Relations: []Relation{rel("H", "P", "supports")},
	}

	r := Audit(g)
	if !r.Valid {
		t.Fatalf("expected a valid report, got %+v", r)
	}
	if r.ValidEntities != 2 || r.ValidRelations != 1 {
		t.Errorf("valid counts = %d/%d", r.ValidEntities, r.ValidRelations)
	}
	if r.CategoryDistribution["Habits"] != 1 || r.TypeDistribution["supports"] != 1 {
		t.Errorf("distributions = %v / %v", r.CategoryDistribution, r.TypeDistribution)
	}
	if len(r.MissingCategories) != 10 {
		t.Errorf("MissingCategories = %v, want 10 entries", r.MissingCategories)
	}
	if slices.Contains(r.MissingRelationTypes, "supports") {
		t.Errorf("supports should not be missing: %v", r.MissingRelationTypes)
	}
}

func TestAudit_FlagsProblems(t *testing.T) {
	g := &KnowledgeGraph{
		Entities: []Entity{
			{Name: "M", EntityType: "memory", TelosCategory: "Memory"},
			{Name: "P", EntityType: "project", TelosCategory: "Projects"},
			{Name: "U", EntityType: "thing"},
			{Name: "W", EntityType: "thing", TelosCategory: "Wishes"},
		},
		Relations: []Relation{
			rel("M", "P", "threatens"),
			rel("M", "ghost", "informs"),
			rel("P", "M", "powers"),
			rel("P", "M", "informs"),
		},
	}

	r := Audit(g)
	if r.Valid {
		t.Fatal("expected an invalid report")
	}
	if r.InvalidEntities != 2 || r.ValidEntities != 2 {
		t.Errorf("entity counts = %d valid, %d invalid", r.ValidEntities, r.InvalidEntities)
	}
	if r.InvalidRelations != 3 || r.ValidRelations != 1 {
		t.Errorf("relation counts = %d valid, %d invalid", r.ValidRelations, r.InvalidRelations)
	}

	joined := strings.Join(r.EntityIssues, "\n")
	for _, want := range []string{"Entity 'U' missing TELOS category", "Invalid TELOS category 'Wishes' for entity 'W'"} {
		if !strings.Contains(joined, want) {
			t.Errorf("entity issues missing %q:\n%s", want, joined)
		}
	}

	joined = strings.Join(r.RelationIssues, "\n")
	for _, want := range []string{"'threatens'", "Invalid relationship type 'powers'"} {
		if !strings.Contains(joined, want) {
			t.Errorf("relation issues missing %q:\n%s", want, joined)
		}
	}
	if !slices.Equal(r.OrphanedRelations, []string{"Relation references non-existent entity: ghost"}) {
		t.Errorf("OrphanedRelations = %v", r.OrphanedRelations)
	}
}

func TestAuditReport_Markdown(t *testing.T) {
	clean := Audit(&KnowledgeGraph{
		Entities: []Entity{{Name: "A", EntityType: "t", TelosCategory: "Identity"}},
	}).Markdown()
	if !strings.Contains(clean, "Validation: PASS") {
		t.Errorf("clean report:\n%s", clean)
	}

	dirty := Audit(&KnowledgeGraph{
		Entities: []Entity{{Name: "A", EntityType: "t"}},
	}).Markdown()
	for _, want := range []string{"ISSUES FOUND", "### Entity issues", "Missing categories (12)"} {
		if !strings.Contains(dirty, want) {
			t.Errorf("report missing %q:\n%s", want, dirty)
		}
	}
}

func TestValidateTaxonomy_ReadsStoredGraph(t *testing.T) {
	s := newTestStore(t)
	// Written by hand: CreateRelations would have corrected this edge.
	content := `{"type":"entity","name":"H","entityType":"t","telosCategory":"Habits","observations":[]}` + "\n" +
		`{"type":"entity","name":"P","entityType":"t","telosCategory":"Projects","observations":[]}` + "\n" +
		`{"type":"relation","from":"H","to":"P","relationType":"threatens"}` + "\n"
	if err := os.WriteFile(s.Path(), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	r, err := s.ValidateTaxonomy(context.Background())
	if err != nil {
		t.Fatalf("ValidateTaxonomy failed: %v", err)
	}
	if r.Valid || r.InvalidRelations != 1 {
		t.Errorf("report = %+v", r)
	}
}
