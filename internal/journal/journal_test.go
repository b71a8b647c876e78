package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/HendryAvila/telosgraph/internal/graph"
)

func newTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(Config{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("failed to open journal: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func diag(kind graph.DiagnosticKind, subject string) graph.Diagnostic {
	return graph.Diagnostic{
		OpID:    "op-1",
		Op:      "create_relations",
		Kind:    kind,
		Subject: subject,
		Message: "message for " + subject,
	}
}

func TestOpen_CreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")
	j, err := Open(Config{DataDir: dir})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer j.Close()

	var mode string
	if err := j.db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestOpen_DatabaseError(t *testing.T) {
	orig := openDB
	defer func() { openDB = orig }()
	openDB = func(driver, dsn string) (*sql.DB, error) {
		return nil, errors.New("boom")
	}

	_, err := Open(Config{DataDir: t.TempDir()})
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("error = %v, want wrapped boom", err)
	}
}

func TestOpen_Reopen(t *testing.T) {
	dir := t.TempDir()
	j, err := Open(Config{DataDir: dir})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := j.Record(context.Background(), []graph.Diagnostic{diag(graph.KindMissingEndpoint, "A -> B")}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	j.Close()

	j2, err := Open(Config{DataDir: dir})
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer j2.Close()

	got, err := j2.Recent(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("entries after reopen = %d, want 1", len(got))
	}
}

func TestRecord_StoresFields(t *testing.T) {
	j := newTestJournal(t)
	j.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("x", 3600)) }

	d := diag(graph.KindValidationWarning, "M -[threatens]-> P")
	if err := j.Record(context.Background(), []graph.Diagnostic{d}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	got, err := j.Recent(context.Background(), "", 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("entries = %d, want 1", len(got))
	}
	e := got[0]
	if e.OpID != d.OpID || e.Op != d.Op || e.Kind != string(d.Kind) || e.Subject != d.Subject || e.Message != d.Message {
		t.Errorf("entry = %+v, want fields of %+v", e, d)
	}
	if e.CreatedAt != "2026-03-01T11:00:00Z" {
		t.Errorf("CreatedAt = %q, want UTC RFC3339", e.CreatedAt)
	}
}

func TestRecord_Empty(t *testing.T) {
	j := newTestJournal(t)
	if err := j.Record(context.Background(), nil); err != nil {
		t.Fatalf("Record(nil) failed: %v", err)
	}
}

func TestRecent_NewestFirst(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := j.Record(ctx, []graph.Diagnostic{diag(graph.KindMissingEndpoint, fmt.Sprintf("s%d", i))}); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	got, err := j.Recent(ctx, "", 0)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	want := []string{"s2", "s1", "s0"}
	if len(got) != len(want) {
		t.Fatalf("entries = %d, want %d", len(got), len(want))
	}
	for i, e := range got {
		if e.Subject != want[i] {
			t.Errorf("entry %d subject = %s, want %s", i, e.Subject, want[i])
		}
	}
}

func TestRecent_FilterAndLimit(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	var batch []graph.Diagnostic
	for i := 0; i < 120; i++ {
		batch = append(batch, diag(graph.KindMalformedRecord, fmt.Sprintf("memory.jsonl:%d", i)))
	}
	batch = append(batch, diag(graph.KindValidationWarning, "A -[mentors]-> B"))
	if err := j.Record(ctx, batch); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	tests := []struct {
		name  string
		kind  graph.DiagnosticKind
		limit int
		want  int
	}{
		{"default limit", "", 0, DefaultLimit},
		{"negative limit", "", -5, DefaultLimit},
		{"capped", "", 1000, MaxLimit},
		{"explicit", "", 7, 7},
		{"by kind", graph.KindValidationWarning, 50, 1},
		{"kind without entries", graph.KindMissingEndpoint, 50, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := j.Recent(ctx, tt.kind, tt.limit)
			if err != nil {
				t.Fatalf("Recent failed: %v", err)
			}
			if got == nil {
				t.Fatal("Recent returned nil")
			}
			if len(got) != tt.want {
				t.Errorf("entries = %d, want %d", len(got), tt.want)
			}
			for _, e := range got {
				if tt.kind != "" && e.Kind != string(tt.kind) {
					t.Errorf("entry kind = %s, want %s", e.Kind, tt.kind)
				}
			}
		})
	}
}

func TestJournal_AsStoreSink(t *testing.T) {
	j := newTestJournal(t)
	s := graph.New(filepath.Join(t.TempDir(), "memory.jsonl"), graph.WithDiagnosticSink(j))
	ctx := context.Background()

	if _, err := s.CreateEntities(ctx, []graph.Entity{{Name: "A", EntityType: "t"}}); err != nil {
		t.Fatalf("CreateEntities failed: %v", err)
	}
	if _, err := s.CreateRelations(ctx, []graph.Relation{{From: "A", To: "ghost", RelationType: "supports"}}); err != nil {
		t.Fatalf("CreateRelations failed: %v", err)
	}

	got, err := j.Recent(ctx, graph.KindMissingEndpoint, 0)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 1 || got[0].Op != "create_relations" || got[0].OpID == "" {
		t.Errorf("entries = %+v", got)
	}
}
