package graphtools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/telosgraph/internal/graph"
)

// ─── CreateRelationsTool ─────────────────────────────────────────────────────

// CreateRelationsTool handles the create_relations MCP tool.
type CreateRelationsTool struct {
	store *graph.Store
}

// NewCreateRelationsTool creates a CreateRelationsTool with the given graph store.
func NewCreateRelationsTool(store *graph.Store) *CreateRelationsTool {
	return &CreateRelationsTool{store: store}
}

// Definition returns the MCP tool definition for create_relations.
func (t *CreateRelationsTool) Definition() mcp.Tool {
	return mcp.NewTool("create_relations",
		mcp.WithDescription(
			"Create multiple new relations between entities in the knowledge graph. Relations should be in active voice. "+
				"A relation type the source entity's TELOS category may not use is replaced by the suggested type "+
				"and reported in 'warnings'. Relations to unknown entities are skipped with a warning.",
		),
		mcp.WithArray("relations",
			mcp.Required(),
			mcp.Description("Relations to create"),
			mcp.Items(relationSchema()),
		),
	)
}

// Handle processes the create_relations tool call.
func (t *CreateRelationsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Relations []graph.Relation `json:"relations"`
	}
	if res := bindArgs(req, &args); res != nil {
		return res, nil
	}
	if len(args.Relations) == 0 {
		return mcp.NewToolResultError("'relations' is required"), nil
	}

	res, err := t.store.CreateRelations(ctx, args.Relations)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create relations: %v", err)), nil
	}
	return jsonResult(res)
}

// ─── DeleteRelationsTool ─────────────────────────────────────────────────────

// DeleteRelationsTool handles the delete_relations MCP tool.
type DeleteRelationsTool struct {
	store *graph.Store
}

// NewDeleteRelationsTool creates a DeleteRelationsTool with the given graph store.
func NewDeleteRelationsTool(store *graph.Store) *DeleteRelationsTool {
	return &DeleteRelationsTool{store: store}
}

// Definition returns the MCP tool definition for delete_relations.
func (t *DeleteRelationsTool) Definition() mcp.Tool {
	return mcp.NewTool("delete_relations",
		mcp.WithDescription("Delete multiple relations from the knowledge graph"),
		mcp.WithArray("relations",
			mcp.Required(),
			mcp.Description("Relations to delete, matched on from, to and relationType"),
			mcp.Items(relationSchema()),
		),
	)
}

// Handle processes the delete_relations tool call.
func (t *DeleteRelationsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Relations []graph.Relation `json:"relations"`
	}
	if res := bindArgs(req, &args); res != nil {
		return res, nil
	}
	if args.Relations == nil {
		return mcp.NewToolResultError("'relations' is required"), nil
	}

	if err := t.store.DeleteRelations(ctx, args.Relations); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete relations: %v", err)), nil
	}
	return mcp.NewToolResultText("Relations deleted successfully"), nil
}
