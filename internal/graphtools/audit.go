package graphtools

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/telosgraph/internal/graph"
	"github.com/HendryAvila/telosgraph/internal/journal"
)

// ─── ValidateTaxonomyTool ────────────────────────────────────────────────────

// ValidateTaxonomyTool handles the validate_taxonomy MCP tool.
type ValidateTaxonomyTool struct {
	store *graph.Store
}

// NewValidateTaxonomyTool creates a ValidateTaxonomyTool with the given graph store.
func NewValidateTaxonomyTool(store *graph.Store) *ValidateTaxonomyTool {
	return &ValidateTaxonomyTool{store: store}
}

// Definition returns the MCP tool definition for validate_taxonomy.
func (t *ValidateTaxonomyTool) Definition() mcp.Tool {
	return mcp.NewTool("validate_taxonomy",
		mcp.WithDescription(
			"Audit the stored graph against the TELOS taxonomy: entities without a valid category, "+
				"relations using a type their source category may not use, relations pointing at missing "+
				"entities, and categories or relation types not represented at all.",
		),
		mcp.WithString("format",
			mcp.Description("Output format: markdown (default) or json"),
			mcp.Enum("markdown", "json"),
		),
	)
}

// Handle processes the validate_taxonomy tool call.
func (t *ValidateTaxonomyTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format := req.GetString("format", "markdown")
	if format != "markdown" && format != "json" {
		return mcp.NewToolResultError(fmt.Sprintf("invalid format %q: must be markdown or json", format)), nil
	}

	report, err := t.store.ValidateTaxonomy(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to validate taxonomy: %v", err)), nil
	}
	if format == "json" {
		return jsonResult(report)
	}
	return mcp.NewToolResultText(report.Markdown()), nil
}

// ─── DiagnosticsTool ─────────────────────────────────────────────────────────

// DiagnosticsReader lists recorded diagnostics, newest first.
type DiagnosticsReader interface {
	Recent(ctx context.Context, kind graph.DiagnosticKind, limit int) ([]journal.Entry, error)
}

// DiagnosticsTool handles the get_diagnostics MCP tool.
type DiagnosticsTool struct {
	reader DiagnosticsReader
}

// NewDiagnosticsTool creates a DiagnosticsTool reading from the given journal.
func NewDiagnosticsTool(reader DiagnosticsReader) *DiagnosticsTool {
	return &DiagnosticsTool{reader: reader}
}

var diagnosticKinds = []string{
	string(graph.KindValidationWarning),
	string(graph.KindMissingEndpoint),
	string(graph.KindMalformedRecord),
}

// Definition returns the MCP tool definition for get_diagnostics.
func (t *DiagnosticsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_diagnostics",
		mcp.WithDescription(
			"List recent diagnostics recorded by graph operations: relation types that were corrected, "+
				"relations skipped for missing entities, and unreadable lines in the graph file. Newest first.",
		),
		mcp.WithString("kind",
			mcp.Description("Only return diagnostics of this kind"),
			mcp.Enum(diagnosticKinds...),
		),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Maximum entries to return (default: %d, max: %d)", journal.DefaultLimit, journal.MaxLimit)),
		),
	)
}

// Handle processes the get_diagnostics tool call.
func (t *DiagnosticsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind := req.GetString("kind", "")
	if kind != "" && !slices.Contains(diagnosticKinds, kind) {
		return mcp.NewToolResultError(fmt.Sprintf("invalid kind %q: must be one of %s", kind, strings.Join(diagnosticKinds, ", "))), nil
	}

	entries, err := t.reader.Recent(ctx, graph.DiagnosticKind(kind), intArg(req, "limit", journal.DefaultLimit))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read diagnostics: %v", err)), nil
	}
	return jsonResult(entries)
}
