package taxonomy

import (
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"testing"
)

// --- Enums ---

func TestCategories_Count(t *testing.T) {
	want := []string{
		"Identity", "Memory", "Resources", "Context", "Conventions",
		"Objectives", "Projects", "Habits", "Risks", "DecisionJournal",
		"Relationships", "Retros",
	}
	got := Categories()
	if len(got) != 12 {
		t.Fatalf("len(Categories()) = %d, want 12", len(got))
	}
	for i, c := range got {
		if c.String() != want[i] {
			t.Errorf("Categories()[%d] = %s, want %s", i, c, want[i])
		}
	}
}

func TestRelationTypes_Count(t *testing.T) {
	want := []string{"supports", "enables", "constrains", "mentors", "informs", "reflects_on", "threatens"}
	got := RelationTypes()
	if len(got) != 7 {
		t.Fatalf("len(RelationTypes()) = %d, want 7", len(got))
	}
	for i, rt := range got {
		if rt.String() != want[i] {
			t.Errorf("RelationTypes()[%d] = %s, want %s", i, rt, want[i])
		}
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{"Identity", Identity, false},
		{"Projects", Projects, false},
		{"decisionjournal", DecisionJournal, false},
		{"  Risks ", Risks, false},
		{"Invalid", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseCategory(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownCategory) {
				t.Errorf("ParseCategory(%q) error = %v, want ErrUnknownCategory", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseCategory(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCategory(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseRelationType(t *testing.T) {
	for _, s := range []string{"supports", "enables", "reflects_on", "threatens"} {
		if _, err := ParseRelationType(s); err != nil {
			t.Errorf("ParseRelationType(%q) error: %v", s, err)
		}
	}
	for _, s := range []string{"invalid", "", "Supports"} {
		if _, err := ParseRelationType(s); !errors.Is(err, ErrUnknownRelationType) {
			t.Errorf("ParseRelationType(%q) error = %v, want ErrUnknownRelationType", s, err)
		}
	}
}

func TestCategoryOr(t *testing.T) {
	if got := CategoryOr("", Context); got != Context {
		t.Errorf("CategoryOr(\"\") = %s, want Context", got)
	}
	if got := CategoryOr("Habits", Context); got != Habits {
		t.Errorf("CategoryOr(Habits) = %s, want Habits", got)
	}
	if got := CategoryOr("nope", Memory); got != Memory {
		t.Errorf("CategoryOr(nope) = %s, want Memory", got)
	}
}

func TestEnums_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		C  Category     `json:"c"`
		RT RelationType `json:"rt"`
	}{DecisionJournal, ReflectsOn})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `{"c":"DecisionJournal","rt":"reflects_on"}` {
		t.Errorf("Marshal = %s", data)
	}

	var c Category
	if err := json.Unmarshal([]byte(`"Bogus"`), &c); err == nil {
		t.Error("Unmarshal of unknown category should fail")
	}
}

func TestDescription(t *testing.T) {
	for _, rt := range RelationTypes() {
		d := rt.Description()
		if d == "" || d == "Unknown relationship type" {
			t.Errorf("Description(%s) = %q", rt, d)
		}
	}
	if got := RelationType(99).Description(); got != "Unknown relationship type" {
		t.Errorf("Description(99) = %q", got)
	}
}

// --- Table ---

func TestMatrix_RowsNonEmptySubset(t *testing.T) {
	for _, c := range Categories() {
		row := AllowedRelations(c)
		if len(row) == 0 {
			t.Errorf("matrix[%s] is empty", c)
		}
		seen := map[RelationType]bool{}
		for _, rt := range row {
			if !rt.Valid() {
				t.Errorf("matrix[%s] contains invalid type %d", c, rt)
			}
			if seen[rt] {
				t.Errorf("matrix[%s] repeats %s", c, rt)
			}
			seen[rt] = true
		}
	}
}

func TestDefaults_AllowedBySourceRow(t *testing.T) {
	for _, d := range Defaults() {
		if !IsAllowed(d.From, d.Type) {
			t.Errorf("default %s -> %s = %s is not in matrix[%s]", d.From, d.To, d.Type, d.From)
		}
	}
}

func TestKeywords_Lowercase(t *testing.T) {
	for _, c := range Categories() {
		for _, k := range Keywords(c) {
			if k != strings.ToLower(k) {
				t.Errorf("keyword %q for %s is not lowercase", k, c)
			}
		}
	}
}

// --- Classifier ---

func TestDetectCategory(t *testing.T) {
	tests := []struct {
		name string
		obs  []string
		want Category
	}{
		{"daily_standup", []string{"routine meeting", "daily practice"}, Habits},
		{"product_launch_goal", []string{"target Q4 2024", "achieve 10k users"}, Objectives},
		{"budget_shortage", []string{"threat to project", "risk of delays"}, Risks},
		{"development_tools", []string{"infrastructure", "capability enhancement"}, Resources},
		{"ambiguous_entity", []string{"unclear content"}, Context},
		{"x", []string{"no matching words"}, Context},
		{"x", nil, Context},
	}
	for _, tt := range tests {
		if got := DetectCategory(tt.name, tt.obs); got != tt.want {
			t.Errorf("DetectCategory(%q, %v) = %s, want %s", tt.name, tt.obs, got, tt.want)
		}
	}
}

func TestDetectCategory_PresenceNotFrequency(t *testing.T) {
	// "risk" repeated five times still scores 1; Habits scores 2.
	got := DetectCategory("risk risk risk risk risk", []string{"daily routine"})
	if got != Habits {
		t.Errorf("DetectCategory = %s, want Habits", got)
	}
}

func TestDetectCategory_TieKeepsEarlierCategory(t *testing.T) {
	// "mission" -> Identity, "budget" -> Resources; Identity comes first.
	if got := DetectCategory("mission budget", nil); got != Identity {
		t.Errorf("DetectCategory = %s, want Identity", got)
	}
}

func TestDetectCategory_CaseInsensitive(t *testing.T) {
	if got := DetectCategory("QUARTERLY GOAL", []string{"Target Outcome"}); got != Objectives {
		t.Errorf("DetectCategory = %s, want Objectives", got)
	}
}

// --- Validator ---

func TestValidate_Valid(t *testing.T) {
	v := Validate(Habits, Projects, Supports)
	if !v.Valid {
		t.Fatalf("Habits -> Projects supports should be valid: %s", v.Message)
	}
	if v.Suggested != Supports {
		t.Errorf("Suggested = %s, want supports", v.Suggested)
	}
	if v.Message != "" {
		t.Errorf("Message = %q, want empty", v.Message)
	}
}

func TestValidate_NotInMatrix(t *testing.T) {
	v := Validate(Memory, Projects, Threatens)
	if v.Valid {
		t.Fatal("Memory threatens should be invalid")
	}
	if !strings.Contains(v.Message, "not valid for category") {
		t.Errorf("Message = %q", v.Message)
	}
	if !strings.Contains(v.Message, "'threatens'") || !strings.Contains(v.Message, "'Memory'") {
		t.Errorf("Message should name type and category: %q", v.Message)
	}
	if !strings.Contains(v.Message, "supports, enables, constrains, informs") {
		t.Errorf("Message should list allowed types: %q", v.Message)
	}
	if v.Suggested != Informs {
		t.Errorf("Suggested = %s, want informs", v.Suggested)
	}
}

func TestValidate_MentorsOutsideRelationships(t *testing.T) {
	v := Validate(Projects, Objectives, Mentors)
	if v.Valid {
		t.Fatal("Projects mentors should be invalid")
	}
	if !strings.Contains(v.Message, "should only be used by people") {
		t.Errorf("Message = %q", v.Message)
	}
}

func TestValidate_ThreatensOutsideRisks(t *testing.T) {
	v := Validate(Projects, Objectives, Threatens)
	if v.Valid {
		t.Fatal("Projects threatens should be invalid")
	}
	// Projects has no threatens in its row, so the matrix gate fires first.
	if !strings.Contains(v.Message, "not valid for category 'Projects'") {
		t.Errorf("Message = %q", v.Message)
	}
}

func TestValidate_ExclusiveTypes(t *testing.T) {
	for _, c := range Categories() {
		for _, to := range Categories() {
			th := Validate(c, to, Threatens)
			if th.Valid != (c == Risks) {
				t.Errorf("Validate(%s, %s, threatens).Valid = %v", c, to, th.Valid)
			}
			me := Validate(c, to, Mentors)
			if me.Valid != (c == Relationships) {
				t.Errorf("Validate(%s, %s, mentors).Valid = %v", c, to, me.Valid)
			}
		}
	}
}

func TestValidate_AllowedIsRow(t *testing.T) {
	v := Validate(Risks, Projects, Supports)
	if !slices.Equal(v.Allowed, []RelationType{Mentors, Informs, ReflectsOn, Threatens}) {
		t.Errorf("Allowed = %v", v.Allowed)
	}
	if v.Suggested != Threatens {
		t.Errorf("Suggested = %s, want threatens", v.Suggested)
	}
}

func TestDefaultRelation(t *testing.T) {
	tests := []struct {
		from, to Category
		want     RelationType
	}{
		{Habits, Projects, Supports},
		{Resources, Projects, Enables},
		{Context, Projects, Constrains},
		{Risks, Projects, Threatens},
		{Memory, DecisionJournal, Informs},
		{Memory, Projects, Informs},
		{Memory, Objectives, Supports},
		{Retros, Habits, ReflectsOn},
		{Identity, Memory, Supports},
	}
	for _, tt := range tests {
		if got := DefaultRelation(tt.from, tt.to); got != tt.want {
			t.Errorf("DefaultRelation(%s, %s) = %s, want %s", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestDefaultRelation_Total(t *testing.T) {
	for _, from := range Categories() {
		for _, to := range Categories() {
			if rt := DefaultRelation(from, to); !rt.Valid() {
				t.Errorf("DefaultRelation(%s, %s) = %d, not a relation type", from, to, rt)
			}
		}
	}
}

func TestSuggestedRelations(t *testing.T) {
	for _, from := range Categories() {
		for _, to := range Categories() {
			got := SuggestedRelations(from, to)
			if got[0] != DefaultRelation(from, to) {
				t.Errorf("SuggestedRelations(%s, %s)[0] = %s, want default", from, to, got[0])
			}
			if len(got) != len(AllowedRelations(from)) {
				t.Errorf("len(SuggestedRelations(%s, %s)) = %d, want %d", from, to, len(got), len(AllowedRelations(from)))
			}
			seen := map[RelationType]bool{}
			for _, rt := range got {
				if seen[rt] {
					t.Errorf("SuggestedRelations(%s, %s) repeats %s", from, to, rt)
				}
				seen[rt] = true
			}
		}
	}
}

func TestSuggestedRelations_Order(t *testing.T) {
	got := SuggestedRelations(Context, Projects)
	want := []RelationType{Constrains, Supports, Enables, Informs}
	if !slices.Equal(got, want) {
		t.Errorf("SuggestedRelations(Context, Projects) = %v, want %v", got, want)
	}

	memory := SuggestedRelations(Memory, Projects)
	if slices.Contains(memory, Threatens) || slices.Contains(memory, Mentors) {
		t.Errorf("Memory suggestions should not include threatens/mentors: %v", memory)
	}
}
