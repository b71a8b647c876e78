package graphtools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/telosgraph/internal/graph"
)

// ─── ReadGraphTool ───────────────────────────────────────────────────────────

// ReadGraphTool handles the read_graph MCP tool.
type ReadGraphTool struct {
	store *graph.Store
}

// NewReadGraphTool creates a ReadGraphTool with the given graph store.
func NewReadGraphTool(store *graph.Store) *ReadGraphTool {
	return &ReadGraphTool{store: store}
}

// Definition returns the MCP tool definition for read_graph.
func (t *ReadGraphTool) Definition() mcp.Tool {
	return mcp.NewTool("read_graph",
		mcp.WithDescription("Read the entire knowledge graph"),
	)
}

// Handle processes the read_graph tool call.
func (t *ReadGraphTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	g, err := t.store.ReadGraph(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read graph: %v", err)), nil
	}
	return jsonResult(g)
}

// ─── SearchNodesTool ─────────────────────────────────────────────────────────

// SearchNodesTool handles the search_nodes MCP tool.
type SearchNodesTool struct {
	store *graph.Store
}

// NewSearchNodesTool creates a SearchNodesTool with the given graph store.
func NewSearchNodesTool(store *graph.Store) *SearchNodesTool {
	return &SearchNodesTool{store: store}
}

// Definition returns the MCP tool definition for search_nodes.
func (t *SearchNodesTool) Definition() mcp.Tool {
	return mcp.NewTool("search_nodes",
		mcp.WithDescription("Search for nodes in the knowledge graph based on a query"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The search query to match against entity names, types, and observation content (case-insensitive)"),
		),
	)
}

// Handle processes the search_nodes tool call.
func (t *SearchNodesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// An empty query matches every entity.
	query, ok := req.GetArguments()["query"].(string)
	if !ok {
		return mcp.NewToolResultError("'query' is required"), nil
	}

	g, err := t.store.SearchNodes(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to search nodes: %v", err)), nil
	}
	return jsonResult(g)
}

// ─── OpenNodesTool ───────────────────────────────────────────────────────────

// OpenNodesTool handles the open_nodes MCP tool.
type OpenNodesTool struct {
	store *graph.Store
}

// NewOpenNodesTool creates an OpenNodesTool with the given graph store.
func NewOpenNodesTool(store *graph.Store) *OpenNodesTool {
	return &OpenNodesTool{store: store}
}

// Definition returns the MCP tool definition for open_nodes.
func (t *OpenNodesTool) Definition() mcp.Tool {
	return mcp.NewTool("open_nodes",
		mcp.WithDescription("Open specific nodes in the knowledge graph by their names, with the relations between them"),
		mcp.WithArray("names",
			mcp.Required(),
			mcp.Description("Entity names to retrieve"),
			mcp.WithStringItems(),
		),
	)
}

// Handle processes the open_nodes tool call.
func (t *OpenNodesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Names []string `json:"names"`
	}
	if res := bindArgs(req, &args); res != nil {
		return res, nil
	}
	if args.Names == nil {
		return mcp.NewToolResultError("'names' is required"), nil
	}

	g, err := t.store.OpenNodes(ctx, args.Names)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to open nodes: %v", err)), nil
	}
	return jsonResult(g)
}

// ─── QueryRelationshipsByTypeTool ────────────────────────────────────────────

// QueryRelationshipsByTypeTool handles the query_relationships_by_type MCP tool.
type QueryRelationshipsByTypeTool struct {
	store *graph.Store
}

// NewQueryRelationshipsByTypeTool creates a QueryRelationshipsByTypeTool with the given graph store.
func NewQueryRelationshipsByTypeTool(store *graph.Store) *QueryRelationshipsByTypeTool {
	return &QueryRelationshipsByTypeTool{store: store}
}

// Definition returns the MCP tool definition for query_relationships_by_type.
func (t *QueryRelationshipsByTypeTool) Definition() mcp.Tool {
	return mcp.NewTool("query_relationships_by_type",
		mcp.WithDescription("Query relationships by their type (supports, enables, constrains, etc.)"),
		mcp.WithString("relationshipType",
			mcp.Required(),
			mcp.Description("The relationship type to filter by ("+strings.Join(relationTypeNames(), ", ")+")"),
		),
	)
}

// Handle processes the query_relationships_by_type tool call.
func (t *QueryRelationshipsByTypeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	relType := req.GetString("relationshipType", "")
	if relType == "" {
		return mcp.NewToolResultError("'relationshipType' is required"), nil
	}

	rels, err := t.store.QueryRelationshipsByType(ctx, relType)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to query relationships: %v", err)), nil
	}
	return jsonResult(rels)
}

// ─── FindRelationshipPathsTool ───────────────────────────────────────────────

// FindRelationshipPathsTool handles the find_relationship_paths MCP tool.
type FindRelationshipPathsTool struct {
	store *graph.Store
}

// NewFindRelationshipPathsTool creates a FindRelationshipPathsTool with the given graph store.
func NewFindRelationshipPathsTool(store *graph.Store) *FindRelationshipPathsTool {
	return &FindRelationshipPathsTool{store: store}
}

// Definition returns the MCP tool definition for find_relationship_paths.
func (t *FindRelationshipPathsTool) Definition() mcp.Tool {
	return mcp.NewTool("find_relationship_paths",
		mcp.WithDescription("Find directed relationship paths between two entities up to a maximum depth"),
		mcp.WithString("fromEntity",
			mcp.Required(),
			mcp.Description("The name of the starting entity"),
		),
		mcp.WithString("toEntity",
			mcp.Required(),
			mcp.Description("The name of the target entity"),
		),
		mcp.WithNumber("maxDepth",
			mcp.Description(fmt.Sprintf("Maximum number of relations in a path (default: %d)", graph.DefaultMaxDepth)),
			mcp.DefaultNumber(graph.DefaultMaxDepth),
		),
	)
}

// Handle processes the find_relationship_paths tool call.
func (t *FindRelationshipPathsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from := req.GetString("fromEntity", "")
	to := req.GetString("toEntity", "")
	if from == "" || to == "" {
		return mcp.NewToolResultError("'fromEntity' and 'toEntity' are required"), nil
	}

	maxDepth := intArg(req, "maxDepth", graph.DefaultMaxDepth)
	paths, err := t.store.FindRelationshipPaths(ctx, from, to, maxDepth)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to find paths: %v", err)), nil
	}
	return jsonResult(paths)
}

// ─── RelationshipSuggestionsTool ─────────────────────────────────────────────

// RelationshipSuggestionsTool handles the get_relationship_suggestions MCP tool.
type RelationshipSuggestionsTool struct {
	store *graph.Store
}

// NewRelationshipSuggestionsTool creates a RelationshipSuggestionsTool with the given graph store.
func NewRelationshipSuggestionsTool(store *graph.Store) *RelationshipSuggestionsTool {
	return &RelationshipSuggestionsTool{store: store}
}

// Definition returns the MCP tool definition for get_relationship_suggestions.
func (t *RelationshipSuggestionsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_relationship_suggestions",
		mcp.WithDescription(
			"Get suggested relationship types between two entities based on their TELOS categories. "+
				"The first suggestion is the preferred type for the pair.",
		),
		mcp.WithString("fromEntity",
			mcp.Required(),
			mcp.Description("The name of the source entity"),
		),
		mcp.WithString("toEntity",
			mcp.Required(),
			mcp.Description("The name of the target entity"),
		),
	)
}

// Handle processes the get_relationship_suggestions tool call.
func (t *RelationshipSuggestionsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from := req.GetString("fromEntity", "")
	to := req.GetString("toEntity", "")
	if from == "" || to == "" {
		return mcp.NewToolResultError("'fromEntity' and 'toEntity' are required"), nil
	}

	s, err := t.store.RelationshipSuggestions(ctx, from, to)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get suggestions: %v", err)), nil
	}
	return jsonResult(s)
}
