package graphtools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/telosgraph/internal/graph"
)

// ─── CreateEntitiesTool ──────────────────────────────────────────────────────

// CreateEntitiesTool handles the create_entities MCP tool.
type CreateEntitiesTool struct {
	store *graph.Store
}

// NewCreateEntitiesTool creates a CreateEntitiesTool with the given graph store.
func NewCreateEntitiesTool(store *graph.Store) *CreateEntitiesTool {
	return &CreateEntitiesTool{store: store}
}

// Definition returns the MCP tool definition for create_entities.
func (t *CreateEntitiesTool) Definition() mcp.Tool {
	return mcp.NewTool("create_entities",
		mcp.WithDescription(
			"Create multiple new entities in the knowledge graph. "+
				"Names already taken are skipped. A missing telosCategory is detected "+
				"from the name and observations; an unknown one rejects the whole call.",
		),
		mcp.WithArray("entities",
			mcp.Required(),
			mcp.Description("Entities to create"),
			mcp.Items(entitySchema()),
		),
	)
}

// Handle processes the create_entities tool call.
func (t *CreateEntitiesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Entities []graph.Entity `json:"entities"`
	}
	if res := bindArgs(req, &args); res != nil {
		return res, nil
	}
	if len(args.Entities) == 0 {
		return mcp.NewToolResultError("'entities' is required"), nil
	}

	added, err := t.store.CreateEntities(ctx, args.Entities)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create entities: %v", err)), nil
	}
	return jsonResult(added)
}

// ─── DeleteEntitiesTool ──────────────────────────────────────────────────────

// DeleteEntitiesTool handles the delete_entities MCP tool.
type DeleteEntitiesTool struct {
	store *graph.Store
}

// NewDeleteEntitiesTool creates a DeleteEntitiesTool with the given graph store.
func NewDeleteEntitiesTool(store *graph.Store) *DeleteEntitiesTool {
	return &DeleteEntitiesTool{store: store}
}

// Definition returns the MCP tool definition for delete_entities.
func (t *DeleteEntitiesTool) Definition() mcp.Tool {
	return mcp.NewTool("delete_entities",
		mcp.WithDescription("Delete multiple entities and their associated relations from the knowledge graph"),
		mcp.WithArray("entityNames",
			mcp.Required(),
			mcp.Description("Names of the entities to delete"),
			mcp.WithStringItems(),
		),
	)
}

// Handle processes the delete_entities tool call.
func (t *DeleteEntitiesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		EntityNames []string `json:"entityNames"`
	}
	if res := bindArgs(req, &args); res != nil {
		return res, nil
	}
	if args.EntityNames == nil {
		return mcp.NewToolResultError("'entityNames' is required"), nil
	}

	if err := t.store.DeleteEntities(ctx, args.EntityNames); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete entities: %v", err)), nil
	}
	return mcp.NewToolResultText("Entities deleted successfully"), nil
}
