package graphtools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/telosgraph/internal/graph"
)

// ─── AddObservationsTool ─────────────────────────────────────────────────────

// AddObservationsTool handles the add_observations MCP tool.
type AddObservationsTool struct {
	store *graph.Store
}

// NewAddObservationsTool creates an AddObservationsTool with the given graph store.
func NewAddObservationsTool(store *graph.Store) *AddObservationsTool {
	return &AddObservationsTool{store: store}
}

// Definition returns the MCP tool definition for add_observations.
func (t *AddObservationsTool) Definition() mcp.Tool {
	return mcp.NewTool("add_observations",
		mcp.WithDescription(
			"Add new observations to existing entities in the knowledge graph. "+
				"Observations already present are skipped. If any entity does not exist, nothing is changed.",
		),
		mcp.WithArray("observations",
			mcp.Required(),
			mcp.Description("Observations to add, grouped by entity"),
			mcp.Items(observationSchema("contents", "Observation contents to add")),
		),
	)
}

// Handle processes the add_observations tool call.
func (t *AddObservationsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Observations []graph.ObservationAddition `json:"observations"`
	}
	if res := bindArgs(req, &args); res != nil {
		return res, nil
	}
	if len(args.Observations) == 0 {
		return mcp.NewToolResultError("'observations' is required"), nil
	}

	added, err := t.store.AddObservations(ctx, args.Observations)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add observations: %v", err)), nil
	}
	return jsonResult(added)
}

// ─── DeleteObservationsTool ──────────────────────────────────────────────────

// DeleteObservationsTool handles the delete_observations MCP tool.
type DeleteObservationsTool struct {
	store *graph.Store
}

// NewDeleteObservationsTool creates a DeleteObservationsTool with the given graph store.
func NewDeleteObservationsTool(store *graph.Store) *DeleteObservationsTool {
	return &DeleteObservationsTool{store: store}
}

// Definition returns the MCP tool definition for delete_observations.
func (t *DeleteObservationsTool) Definition() mcp.Tool {
	return mcp.NewTool("delete_observations",
		mcp.WithDescription("Delete specific observations from entities in the knowledge graph"),
		mcp.WithArray("deletions",
			mcp.Required(),
			mcp.Description("Observations to delete, grouped by entity"),
			mcp.Items(observationSchema("observations", "Observations to delete")),
		),
	)
}

// Handle processes the delete_observations tool call.
func (t *DeleteObservationsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Deletions []graph.ObservationDeletion `json:"deletions"`
	}
	if res := bindArgs(req, &args); res != nil {
		return res, nil
	}
	if args.Deletions == nil {
		return mcp.NewToolResultError("'deletions' is required"), nil
	}

	if err := t.store.DeleteObservations(ctx, args.Deletions); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete observations: %v", err)), nil
	}
	return mcp.NewToolResultText("Observations deleted successfully"), nil
}
