package server

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/HendryAvila/telosgraph/internal/config"
)

func testConfig(t *testing.T, journal bool) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		MemoryPath:     filepath.Join(dir, "memory.jsonl"),
		DataDir:        filepath.Join(dir, "state"),
		JournalEnabled: journal,
	}
}

// listTools sends initialize and tools/list and returns the raw response.
func listTools(t *testing.T, cfg *config.Config) string {
	t.Helper()
	s, cleanup, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer cleanup()

	ctx := context.Background()
	s.HandleMessage(ctx, json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"0"}}}`))
	resp := s.HandleMessage(ctx, json.RawMessage(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`))

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	return string(data)
}

func TestNew_RegistersTools(t *testing.T) {
	out := listTools(t, testConfig(t, true))
	for _, name := range []string{
		"create_entities", "create_relations", "add_observations",
		"delete_entities", "delete_observations", "delete_relations",
		"read_graph", "search_nodes", "open_nodes",
		"query_relationships_by_type", "find_relationship_paths",
		"get_relationship_suggestions", "validate_taxonomy", "get_diagnostics",
	} {
		if !strings.Contains(out, `"`+name+`"`) {
			t.Errorf("tool %s not registered", name)
		}
	}
}

func TestNew_WithoutJournal(t *testing.T) {
	out := listTools(t, testConfig(t, false))
	if strings.Contains(out, `"get_diagnostics"`) {
		t.Error("get_diagnostics should not be offered without a journal")
	}
	if !strings.Contains(out, `"create_entities"`) {
		t.Error("graph tools should still be registered")
	}
}

func TestNew_NilConfig(t *testing.T) {
	_, cleanup, err := New(nil, nil)
	if err == nil {
		t.Fatal("expected an error for a nil config")
	}
	cleanup()
}
