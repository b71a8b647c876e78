// Package resources implements MCP resource handlers for the TELOS graph.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (telos://...) following MCP conventions.
package resources

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/telosgraph/internal/graph"
	"github.com/HendryAvila/telosgraph/internal/taxonomy"
)

const (
	TaxonomyURI = "telos://taxonomy"
	GraphURI    = "telos://graph"
)

// Handler manages TELOS resource endpoints.
type Handler struct {
	store *graph.Store
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(store *graph.Store) *Handler {
	return &Handler{store: store}
}

// ─── Taxonomy ────────────────────────────────────────────────────────────────

// TaxonomyDoc is the published form of the taxonomy tables.
type TaxonomyDoc struct {
	Categories    []CategoryDoc           `json:"categories"`
	RelationTypes []RelationTypeDoc       `json:"relationTypes"`
	Defaults      []taxonomy.DefaultEntry `json:"defaults"`
	Fallback      taxonomy.RelationType   `json:"fallback"`
	Rules         []string                `json:"rules"`
}

// CategoryDoc describes one category: what it may relate with and the
// keywords used to detect it.
type CategoryDoc struct {
	Name     taxonomy.Category       `json:"name"`
	Allowed  []taxonomy.RelationType `json:"allowedRelationTypes"`
	Keywords []string                `json:"keywords"`
}

// RelationTypeDoc describes one relation type.
type RelationTypeDoc struct {
	Name        taxonomy.RelationType `json:"name"`
	Description string                `json:"description"`
}

// BuildTaxonomyDoc assembles the taxonomy tables.
func BuildTaxonomyDoc() TaxonomyDoc {
	doc := TaxonomyDoc{
		Defaults: taxonomy.Defaults(),
		Fallback: taxonomy.Supports,
		Rules: []string{
			fmt.Sprintf("'%s' may only be used from the %s category", taxonomy.Mentors, taxonomy.Relationships),
			fmt.Sprintf("'%s' may only be used from the %s category", taxonomy.Threatens, taxonomy.Risks),
			"Relation types not allowed for the source category are replaced by the default for the pair",
		},
	}
	for _, c := range taxonomy.Categories() {
		doc.Categories = append(doc.Categories, CategoryDoc{
			Name:     c,
			Allowed:  taxonomy.AllowedRelations(c),
			Keywords: taxonomy.Keywords(c),
		})
	}
	for _, rt := range taxonomy.RelationTypes() {
		doc.RelationTypes = append(doc.RelationTypes, RelationTypeDoc{Name: rt, Description: rt.Description()})
	}
	return doc
}

// TaxonomyResource returns the MCP resource definition for the taxonomy.
func (h *Handler) TaxonomyResource() mcp.Resource {
	return mcp.NewResource(
		TaxonomyURI,
		"TELOS Taxonomy",
		mcp.WithResourceDescription("TELOS categories, relationship types, the allowed-type matrix and default relation table"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleTaxonomy returns the taxonomy as JSON.
func (h *Handler) HandleTaxonomy(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonContents(req.Params.URI, BuildTaxonomyDoc())
}

// ─── Graph ───────────────────────────────────────────────────────────────────

// GraphResource returns the MCP resource definition for the stored graph.
func (h *Handler) GraphResource() mcp.Resource {
	return mcp.NewResource(
		GraphURI,
		"TELOS Knowledge Graph",
		mcp.WithResourceDescription("All entities and relations currently stored in the graph file"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleGraph returns the current graph as JSON.
func (h *Handler) HandleGraph(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	g, err := h.store.ReadGraph(ctx)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	return jsonContents(req.Params.URI, g)
}
