// Package graphtools exposes the knowledge graph as MCP tools.
//
// Each tool handler follows the same pattern:
//   - A struct with its dependencies (graph.Store, journal) injected via constructor
//   - Definition() returns the mcp.Tool schema
//   - Handle() decodes the arguments, calls the store and renders the result
//
// Data results are indented JSON text. Store failures come back as tool
// errors, never as Go errors, so the client can show them to the model.
package graphtools

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/telosgraph/internal/taxonomy"
)

// ─── Argument schemas ────────────────────────────────────────────────────────

var stringItem = map[string]any{"type": "string"}

func categoryEnum() []string {
	out := make([]string, 0, len(taxonomy.Categories()))
	for _, c := range taxonomy.Categories() {
		out = append(out, c.String())
	}
	return out
}

func relationTypeNames() []string {
	out := make([]string, 0, len(taxonomy.RelationTypes()))
	for _, rt := range taxonomy.RelationTypes() {
		out = append(out, rt.String())
	}
	return out
}

func entitySchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":       map[string]any{"type": "string", "description": "The name of the entity"},
			"entityType": map[string]any{"type": "string", "description": "The type of the entity"},
			"telosCategory": map[string]any{
				"type": "string",
				"description": "Optional TELOS category (" + strings.Join(categoryEnum(), ", ") +
					"). Detected from the name and observations when omitted.",
				"enum": categoryEnum(),
			},
			"observations": map[string]any{
				"type":        "array",
				"items":       stringItem,
				"description": "Observation contents associated with the entity",
			},
		},
		"required": []string{"name", "entityType", "observations"},
	}
}

func relationSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"from":         map[string]any{"type": "string", "description": "The name of the entity where the relation starts"},
			"to":           map[string]any{"type": "string", "description": "The name of the entity where the relation ends"},
			"relationType": map[string]any{"type": "string", "description": "The type of the relation (" + strings.Join(relationTypeNames(), ", ") + ")"},
		},
		"required": []string{"from", "to", "relationType"},
	}
}

func observationSchema(listKey, listDesc string) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"entityName": map[string]any{"type": "string", "description": "The name of the entity"},
			listKey: map[string]any{
				"type":        "array",
				"items":       stringItem,
				"description": listDesc,
			},
		},
		"required": []string{"entityName", listKey},
	}
}

// ─── Results ─────────────────────────────────────────────────────────────────

// jsonResult renders v as two-space indented JSON text. HTML characters are
// kept as-is so observations read naturally.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(strings.TrimSuffix(buf.String(), "\n")), nil
}

// bindArgs decodes the request arguments into dst.
func bindArgs(req mcp.CallToolRequest, dst any) *mcp.CallToolResult {
	if err := req.BindArguments(dst); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err))
	}
	return nil
}

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}
