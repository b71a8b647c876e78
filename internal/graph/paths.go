package graph

import "slices"

// DefaultMaxDepth bounds path searches when the caller gives no depth.
const DefaultMaxDepth = 3

// Path is one route between two entities and the relation types along it.
type Path struct {
	Path              []string `json:"path"`
	RelationshipTypes []string `json:"relationshipTypes"`
}

// FindPaths collects every directed path from one entity to another using
// at most maxDepth edges.
//
// A path is reported when it reaches the target with at least one edge, so
// from == to only yields cycles. A node already on the current path is not
// entered again, which keeps every path simple but also hides routes that
// would revisit it. Results come in depth-first order following the order
// of relations.
func FindPaths(relations []Relation, from, to string, maxDepth int) []Path {
	out := []Path{}

	outgoing := make(map[string][]Relation)
	for _, r := range relations {
		outgoing[r.From] = append(outgoing[r.From], r)
	}

	// Each frame owns its path and types slices; children get fresh copies.
	type frame struct {
		node  string
		path  []string
		types []string
	}
	stack := []frame{{node: from, path: []string{from}, types: []string{}}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if len(f.path)-1 > maxDepth {
			continue
		}
		if f.node == to && len(f.path) > 1 {
			out = append(out, Path{Path: f.path, RelationshipTypes: f.types})
			continue
		}
		if slices.Contains(f.path[:len(f.path)-1], f.node) {
			continue
		}

		// Push in reverse so the first relation is explored first.
		edges := outgoing[f.node]
		for i := len(edges) - 1; i >= 0; i-- {
			r := edges[i]
			stack = append(stack, frame{
				node:  r.To,
				path:  appendCopy(f.path, r.To),
				types: appendCopy(f.types, r.RelationType),
			})
		}
	}
	return out
}

func appendCopy(s []string, v string) []string {
	out := make([]string, len(s)+1)
	copy(out, s)
	out[len(s)] = v
	return out
}
