package graph

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/HendryAvila/telosgraph/internal/taxonomy"
	"go.uber.org/zap"
)

// ─── Entities ────────────────────────────────────────────────────────────────

// CreateEntities adds entities whose names are not taken yet and returns
// the ones actually added. The first entity to claim a name wins; later
// ones are skipped without error. A missing category is detected from the
// name and observations. An explicit but unknown category fails the whole
// call before anything is written.
func (s *Store) CreateEntities(ctx context.Context, entities []Entity) ([]Entity, error) {
	var bad []string
	for _, e := range entities {
		if e.Name == "" {
			return nil, errors.New("entity name is required")
		}
		if e.TelosCategory != "" {
			if _, err := taxonomy.ParseCategory(e.TelosCategory); err != nil {
				bad = append(bad, fmt.Sprintf("%s (%s)", e.Name, e.TelosCategory))
			}
		}
	}
	if len(bad) > 0 {
		return nil, fmt.Errorf("%w for entities: %s", taxonomy.ErrUnknownCategory, strings.Join(bad, ", "))
	}

	added := []Entity{}
	err := s.update(ctx, "create_entities", func(o *op, g *KnowledgeGraph) error {
		taken := make(map[string]bool, len(g.Entities))
		for _, e := range g.Entities {
			taken[e.Name] = true
		}

		for _, e := range entities {
			if taken[e.Name] {
				o.log.Debug("entity exists, skipping", zap.String("entity", e.Name))
				continue
			}
			taken[e.Name] = true

			obs := dedupe(e.Observations)
			var category taxonomy.Category
			if e.TelosCategory != "" {
				category, _ = taxonomy.ParseCategory(e.TelosCategory)
			} else {
				category = taxonomy.DetectCategory(e.Name, obs)
			}

			ne := Entity{
				Name:          e.Name,
				EntityType:    e.EntityType,
				TelosCategory: category.String(),
				Observations:  obs,
			}
			g.Entities = append(g.Entities, ne)
			added = append(added, ne)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// DeleteEntities removes the named entities and every relation touching
// them. Unknown names are ignored.
func (s *Store) DeleteEntities(ctx context.Context, names []string) error {
	doomed := toSet(names)
	return s.update(ctx, "delete_entities", func(o *op, g *KnowledgeGraph) error {
		g.Entities = slices.DeleteFunc(g.Entities, func(e Entity) bool {
			return doomed[e.Name]
		})
		g.Relations = slices.DeleteFunc(g.Relations, func(r Relation) bool {
			return doomed[r.From] || doomed[r.To]
		})
		return nil
	})
}

// ─── Observations ────────────────────────────────────────────────────────────

// AddObservations appends the contents not already present on each entity.
//
// All entity names are checked before anything changes: if any is missing
// the call fails with ErrNotFound and the file is left untouched.
func (s *Store) AddObservations(ctx context.Context, additions []ObservationAddition) ([]AddedObservations, error) {
	var results []AddedObservations
	err := s.update(ctx, "add_observations", func(o *op, g *KnowledgeGraph) error {
		idx := indexEntities(g)

		var missing []string
		for _, a := range additions {
			if _, ok := idx[a.EntityName]; !ok {
				missing = append(missing, a.EntityName)
			}
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, strings.Join(missing, ", "))
		}

		results = make([]AddedObservations, 0, len(additions))
		for _, a := range additions {
			e := &g.Entities[idx[a.EntityName]]
			present := toSet(e.Observations)

			fresh := []string{}
			for _, c := range a.Contents {
				if present[c] {
					continue
				}
				present[c] = true
				fresh = append(fresh, c)
			}
			e.Observations = append(e.Observations, fresh...)
			results = append(results, AddedObservations{EntityName: a.EntityName, AddedObservations: fresh})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// DeleteObservations removes exact-match observations. Unknown entities
// are ignored.
func (s *Store) DeleteObservations(ctx context.Context, deletions []ObservationDeletion) error {
	return s.update(ctx, "delete_observations", func(o *op, g *KnowledgeGraph) error {
		idx := indexEntities(g)
		for _, d := range deletions {
			i, ok := idx[d.EntityName]
			if !ok {
				continue
			}
			doomed := toSet(d.Observations)
			g.Entities[i].Observations = slices.DeleteFunc(g.Entities[i].Observations, func(obs string) bool {
				return doomed[obs]
			})
		}
		return nil
	})
}

// ─── Relations ───────────────────────────────────────────────────────────────

// CreateRelations validates and stores relations.
//
// A triple that already exists is skipped. A relation whose endpoint is
// missing is skipped with a warning. A relation type the source category
// may not use is replaced by the suggested type and still stored; the
// original attempt is reported as a warning. Warnings never fail the call.
func (s *Store) CreateRelations(ctx context.Context, relations []Relation) (*CreateRelationsResult, error) {
	res := &CreateRelationsResult{Added: []Relation{}}
	err := s.update(ctx, "create_relations", func(o *op, g *KnowledgeGraph) error {
		idx := indexEntities(g)
		existing := make(map[key]bool, len(g.Relations))
		for _, r := range g.Relations {
			existing[r.key()] = true
		}

		for _, r := range relations {
			if existing[r.key()] {
				continue
			}

			fi, okFrom := idx[r.From]
			ti, okTo := idx[r.To]
			if !okFrom || !okTo {
				o.warn(KindMissingEndpoint, r.From+" -> "+r.To,
					fmt.Sprintf("Entities not found for relation: %s -> %s", r.From, r.To))
				continue
			}

			fromCat := g.Entities[fi].Category()
			toCat := g.Entities[ti].Category()
			subject := fmt.Sprintf("%s -[%s]-> %s", r.From, r.RelationType, r.To)

			rt, err := taxonomy.ParseRelationType(r.RelationType)
			if err != nil {
				rt = taxonomy.DefaultRelation(fromCat, toCat)
				o.warn(KindValidationWarning, subject,
					fmt.Sprintf("Unknown relationship type '%s'. Using suggested: '%s'", r.RelationType, rt))
			} else if v := taxonomy.Validate(fromCat, toCat, rt); !v.Valid {
				rt = v.Suggested
				o.warn(KindValidationWarning, subject,
					fmt.Sprintf("%s. Suggested: '%s'", v.Message, v.Suggested))
			}

			stored := Relation{
				From:         r.From,
				To:           r.To,
				RelationType: rt.String(),
				FromCategory: fromCat.String(),
				ToCategory:   toCat.String(),
			}
			if existing[stored.key()] {
				o.log.Debug("corrected relation exists, skipping", zap.String("relation", subject))
				continue
			}
			existing[r.key()] = true
			existing[stored.key()] = true

			g.Relations = append(g.Relations, stored)
			res.Added = append(res.Added, stored)
		}

		res.Warnings = o.warnings()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// DeleteRelations removes every stored relation matching one of the given
// (from, to, relationType) triples. Categories are ignored.
func (s *Store) DeleteRelations(ctx context.Context, relations []Relation) error {
	doomed := make(map[key]bool, len(relations))
	for _, r := range relations {
		doomed[r.key()] = true
	}
	return s.update(ctx, "delete_relations", func(o *op, g *KnowledgeGraph) error {
		g.Relations = slices.DeleteFunc(g.Relations, func(r Relation) bool {
			return doomed[r.key()]
		})
		return nil
	})
}

// ─── Queries ─────────────────────────────────────────────────────────────────

// ReadGraph returns the whole graph.
func (s *Store) ReadGraph(ctx context.Context) (*KnowledgeGraph, error) {
	var out *KnowledgeGraph
	err := s.view(ctx, "read_graph", func(o *op, g *KnowledgeGraph) error {
		out = g
		return nil
	})
	return out, err
}

// SearchNodes returns entities whose name, type or any observation contains
// query (case-insensitive), plus the relations between them.
func (s *Store) SearchNodes(ctx context.Context, query string) (*KnowledgeGraph, error) {
	q := strings.ToLower(query)
	var out *KnowledgeGraph
	err := s.view(ctx, "search_nodes", func(o *op, g *KnowledgeGraph) error {
		out = subgraph(g, func(e Entity) bool {
			if strings.Contains(strings.ToLower(e.Name), q) || strings.Contains(strings.ToLower(e.EntityType), q) {
				return true
			}
			return slices.ContainsFunc(e.Observations, func(obs string) bool {
				return strings.Contains(strings.ToLower(obs), q)
			})
		})
		return nil
	})
	return out, err
}

// OpenNodes returns the named entities and the relations between them.
func (s *Store) OpenNodes(ctx context.Context, names []string) (*KnowledgeGraph, error) {
	wanted := toSet(names)
	var out *KnowledgeGraph
	err := s.view(ctx, "open_nodes", func(o *op, g *KnowledgeGraph) error {
		out = subgraph(g, func(e Entity) bool { return wanted[e.Name] })
		return nil
	})
	return out, err
}

// QueryRelationshipsByType returns relations whose type equals relationType
// exactly.
func (s *Store) QueryRelationshipsByType(ctx context.Context, relationType string) ([]Relation, error) {
	out := []Relation{}
	err := s.view(ctx, "query_relationships_by_type", func(o *op, g *KnowledgeGraph) error {
		for _, r := range g.Relations {
			if r.RelationType == relationType {
				out = append(out, r)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FindRelationshipPaths returns every simple directed path from one entity
// to another with at most maxDepth edges.
func (s *Store) FindRelationshipPaths(ctx context.Context, from, to string, maxDepth int) ([]Path, error) {
	var out []Path
	err := s.view(ctx, "find_relationship_paths", func(o *op, g *KnowledgeGraph) error {
		out = FindPaths(g.Relations, from, to, maxDepth)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RelationshipSuggestions ranks the relation types the first entity may
// use towards the second, based on their categories.
func (s *Store) RelationshipSuggestions(ctx context.Context, from, to string) (*Suggestions, error) {
	var out *Suggestions
	err := s.view(ctx, "get_relationship_suggestions", func(o *op, g *KnowledgeGraph) error {
		idx := indexEntities(g)
		fi, okFrom := idx[from]
		ti, okTo := idx[to]

		var missing []string
		if !okFrom {
			missing = append(missing, from)
		}
		if !okTo {
			missing = append(missing, to)
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, strings.Join(missing, ", "))
		}

		fromCat := g.Entities[fi].Category()
		toCat := g.Entities[ti].Category()
		out = &Suggestions{
			Suggestions:  taxonomy.SuggestedRelations(fromCat, toCat),
			FromCategory: fromCat,
			ToCategory:   toCat,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ValidateTaxonomy audits the stored graph against the taxonomy.
func (s *Store) ValidateTaxonomy(ctx context.Context) (*AuditReport, error) {
	var out *AuditReport
	err := s.view(ctx, "validate_taxonomy", func(o *op, g *KnowledgeGraph) error {
		out = Audit(g)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// subgraph keeps the entities matching keep and the relations whose both
// endpoints were kept.
func subgraph(g *KnowledgeGraph, keep func(Entity) bool) *KnowledgeGraph {
	out := emptyGraph()
	names := make(map[string]bool)
	for _, e := range g.Entities {
		if keep(e) {
			out.Entities = append(out.Entities, e)
			names[e.Name] = true
		}
	}
	for _, r := range g.Relations {
		if names[r.From] && names[r.To] {
			out.Relations = append(out.Relations, r)
		}
	}
	return out
}

// indexEntities maps entity names to their position in g.Entities.
func indexEntities(g *KnowledgeGraph) map[string]int {
	idx := make(map[string]int, len(g.Entities))
	for i, e := range g.Entities {
		if _, dup := idx[e.Name]; !dup {
			idx[e.Name] = i
		}
	}
	return idx
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, s := range items {
		set[s] = true
	}
	return set
}

// dedupe returns items without repeats, keeping first occurrences. The
// result is never nil.
func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, s := range items {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
