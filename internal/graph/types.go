// Package graph implements the TELOS knowledge graph store.
//
// The whole graph lives in one JSON-lines file. Every operation loads the
// file, works on the in-memory copy and, for mutations, rewrites the file
// in full. Relation creation is gated by the taxonomy validator and entity
// creation fills missing categories with the taxonomy classifier.
//
// - types.go: records and results
// - file.go: JSONL codec, load and atomic save
// - store.go: Store, locking and the operation envelope
// - ops.go: mutations and queries
// - paths.go: bounded path search
// - audit.go: taxonomy audit of a stored graph
package graph

import (
	"context"
	"errors"

	"github.com/HendryAvila/telosgraph/internal/taxonomy"
)

// ─── Errors ──────────────────────────────────────────────────────────────────

// ErrNotFound is returned when an operation needs an entity that does not
// exist. Wrapped errors list the missing names.
var ErrNotFound = errors.New("entity not found")

// ─── Records ─────────────────────────────────────────────────────────────────

// Entity is a named node. TelosCategory holds the category name as stored;
// it may be empty for records written by other tools.
type Entity struct {
	Name          string   `json:"name"`
	EntityType    string   `json:"entityType"`
	TelosCategory string   `json:"telosCategory,omitempty"`
	Observations  []string `json:"observations"`
}

// Category resolves the stored category, falling back to the taxonomy
// default when it is empty or unknown.
func (e Entity) Category() taxonomy.Category {
	return taxonomy.CategoryOr(e.TelosCategory, taxonomy.DefaultCategory)
}

// Relation is a directed, typed edge. FromCategory and ToCategory are the
// endpoint categories captured when the relation was created.
type Relation struct {
	From         string `json:"from"`
	To           string `json:"to"`
	RelationType string `json:"relationType"`
	FromCategory string `json:"fromCategory,omitempty"`
	ToCategory   string `json:"toCategory,omitempty"`
}

// key is the identity of a relation.
type key struct {
	from, to, relationType string
}

func (r Relation) key() key {
	return key{r.From, r.To, r.RelationType}
}

// KnowledgeGraph is the full set of entities and relations.
type KnowledgeGraph struct {
	Entities  []Entity   `json:"entities"`
	Relations []Relation `json:"relations"`
}

func emptyGraph() *KnowledgeGraph {
	return &KnowledgeGraph{Entities: []Entity{}, Relations: []Relation{}}
}

// ─── Operation params and results ────────────────────────────────────────────

// ObservationAddition asks to append contents to one entity.
type ObservationAddition struct {
	EntityName string   `json:"entityName"`
	Contents   []string `json:"contents"`
}

// AddedObservations reports which contents were actually appended.
type AddedObservations struct {
	EntityName        string   `json:"entityName"`
	AddedObservations []string `json:"addedObservations"`
}

// ObservationDeletion asks to remove observations from one entity.
type ObservationDeletion struct {
	EntityName   string   `json:"entityName"`
	Observations []string `json:"observations"`
}

// CreateRelationsResult holds the relations that were stored, with any
// auto-correction or skip reported in Warnings.
type CreateRelationsResult struct {
	Added    []Relation `json:"relations"`
	Warnings []string   `json:"warnings,omitempty"`
}

// Suggestions is the ranked list of relation types for an entity pair.
type Suggestions struct {
	Suggestions  []taxonomy.RelationType `json:"suggestions"`
	FromCategory taxonomy.Category       `json:"fromCategory"`
	ToCategory   taxonomy.Category       `json:"toCategory"`
}

// ─── Diagnostics ─────────────────────────────────────────────────────────────

// DiagnosticKind classifies a non-fatal condition met during an operation.
type DiagnosticKind string

const (
	KindValidationWarning DiagnosticKind = "validation_warning"
	KindMissingEndpoint   DiagnosticKind = "missing_endpoint"
	KindMalformedRecord   DiagnosticKind = "malformed_record"
)

// Diagnostic is a warning produced by one store operation.
type Diagnostic struct {
	OpID    string         `json:"op_id"`
	Op      string         `json:"op"`
	Kind    DiagnosticKind `json:"kind"`
	Subject string         `json:"subject"`
	Message string         `json:"message"`
}

// DiagnosticSink receives the diagnostics of each operation. Sink errors
// are logged and never fail the operation.
type DiagnosticSink interface {
	Record(ctx context.Context, diags []Diagnostic) error
}
