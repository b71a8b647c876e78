// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations and
// injects them into the tools, prompts and resources that depend on them.
// No business logic lives here, only wiring.
package server

import (
	"errors"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/HendryAvila/telosgraph/internal/config"
	"github.com/HendryAvila/telosgraph/internal/graph"
	"github.com/HendryAvila/telosgraph/internal/graphtools"
	"github.com/HendryAvila/telosgraph/internal/journal"
	"github.com/HendryAvila/telosgraph/internal/prompts"
	"github.com/HendryAvila/telosgraph/internal/resources"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Name is the MCP server name.
const Name = "telosgraph"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function closes the diagnostics journal and must be
// called on shutdown (typically via defer). It is always non-nil and safe
// to call even if the journal failed to open.
func New(cfg *config.Config, log *zap.Logger) (*server.MCPServer, func(), error) {
	if cfg == nil {
		return nil, noop, errors.New("server: nil config")
	}
	if log == nil {
		log = zap.NewNop()
	}

	// --- Diagnostics journal ---
	//
	// The journal is optional: if it cannot be opened the graph keeps
	// working, diagnostics are only logged and get_diagnostics is not
	// offered.

	cleanup := noop
	var jrnl *journal.Journal
	if cfg.JournalEnabled {
		j, err := journal.Open(journal.Config{DataDir: cfg.DataDir})
		if err != nil {
			log.Warn("diagnostics journal disabled", zap.Error(err))
		} else {
			jrnl = j
			cleanup = func() {
				if err := j.Close(); err != nil {
					log.Warn("closing diagnostics journal", zap.Error(err))
				}
			}
		}
	}

	store := NewStore(cfg, log, jrnl)

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		Name,
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	registerGraphTools(s, store)
	if jrnl != nil {
		diagTool := graphtools.NewDiagnosticsTool(jrnl)
		s.AddTool(diagTool.Definition(), diagTool.Handle)
	}

	// --- Register prompts ---

	reviewPrompt := prompts.NewReviewPrompt()
	s.AddPrompt(reviewPrompt.Definition(), reviewPrompt.Handle)

	capturePrompt := prompts.NewCapturePrompt()
	s.AddPrompt(capturePrompt.Definition(), capturePrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(store)
	s.AddResource(resourceHandler.TaxonomyResource(), resourceHandler.HandleTaxonomy)
	s.AddResource(resourceHandler.GraphResource(), resourceHandler.HandleGraph)

	log.Info("server ready",
		zap.String("version", Version),
		zap.String("memory_path", cfg.MemoryPath),
		zap.Bool("journal", jrnl != nil),
	)
	return s, cleanup, nil
}

// NewStore builds the graph store for cfg. A nil journal leaves
// diagnostics in the log only.
func NewStore(cfg *config.Config, log *zap.Logger, jrnl *journal.Journal) *graph.Store {
	if log == nil {
		log = zap.NewNop()
	}
	opts := []graph.Option{graph.WithLogger(log.Named("graph"))}
	if jrnl != nil {
		opts = append(opts, graph.WithDiagnosticSink(jrnl))
	}
	return graph.New(cfg.MemoryPath, opts...)
}

func noop() {}

func registerGraphTools(s *server.MCPServer, store *graph.Store) {
	createEntities := graphtools.NewCreateEntitiesTool(store)
	s.AddTool(createEntities.Definition(), createEntities.Handle)

	createRelations := graphtools.NewCreateRelationsTool(store)
	s.AddTool(createRelations.Definition(), createRelations.Handle)

	addObservations := graphtools.NewAddObservationsTool(store)
	s.AddTool(addObservations.Definition(), addObservations.Handle)

	deleteEntities := graphtools.NewDeleteEntitiesTool(store)
	s.AddTool(deleteEntities.Definition(), deleteEntities.Handle)

	deleteObservations := graphtools.NewDeleteObservationsTool(store)
	s.AddTool(deleteObservations.Definition(), deleteObservations.Handle)

	deleteRelations := graphtools.NewDeleteRelationsTool(store)
	s.AddTool(deleteRelations.Definition(), deleteRelations.Handle)

	readGraph := graphtools.NewReadGraphTool(store)
	s.AddTool(readGraph.Definition(), readGraph.Handle)

	searchNodes := graphtools.NewSearchNodesTool(store)
	s.AddTool(searchNodes.Definition(), searchNodes.Handle)

	openNodes := graphtools.NewOpenNodesTool(store)
	s.AddTool(openNodes.Definition(), openNodes.Handle)

	queryByType := graphtools.NewQueryRelationshipsByTypeTool(store)
	s.AddTool(queryByType.Definition(), queryByType.Handle)

	findPaths := graphtools.NewFindRelationshipPathsTool(store)
	s.AddTool(findPaths.Definition(), findPaths.Handle)

	suggestions := graphtools.NewRelationshipSuggestionsTool(store)
	s.AddTool(suggestions.Definition(), suggestions.Handle)

	validate := graphtools.NewValidateTaxonomyTool(store)
	s.AddTool(validate.Definition(), validate.Handle)
}

func serverInstructions() string {
	return `You have access to telosgraph, a knowledge graph organized by the TELOS taxonomy.

## CATEGORIES

Every entity belongs to one of twelve categories: Identity, Memory,
Resources, Context, Conventions, Objectives, Projects, Habits, Risks,
DecisionJournal, Relationships, Retros. Pass telosCategory when you know
it; otherwise it is detected from the entity name and observations.

## RELATIONS

Relation types: supports, enables, constrains, mentors, informs,
reflects_on, threatens. Each category may only use some of them:
- "mentors" only from Relationships entities (people)
- "threatens" only from Risks entities
- Memory, Resources, Context and Conventions cannot mentor or reflect

When a type is not allowed, create_relations stores the suggested type
instead and returns a warning. Call get_relationship_suggestions first
when unsure, and tell the user about any warnings.

## GOOD HABITS

- search_nodes before create_entities to avoid near-duplicate names
- Keep observations atomic: one fact per observation
- Run validate_taxonomy (or the telos-review prompt) after large imports
- The telos://taxonomy resource has the full tables`
}
