package graph

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/HendryAvila/telosgraph/internal/taxonomy"
)

var categoryColors = map[taxonomy.Category]string{
	taxonomy.Identity:        "red",
	taxonomy.Memory:          "blue",
	taxonomy.Resources:       "green",
	taxonomy.Context:         "orange",
	taxonomy.Conventions:     "purple",
	taxonomy.Objectives:      "darkorange",
	taxonomy.Projects:        "teal",
	taxonomy.Habits:          "darkslategray",
	taxonomy.Risks:           "darkred",
	taxonomy.DecisionJournal: "indigo",
	taxonomy.Relationships:   "darkcyan",
	taxonomy.Retros:          "darkgreen",
}

type edgeStyle struct {
	color, style, arrowhead string
}

var relationStyles = map[string]edgeStyle{
	taxonomy.Supports.String():   {"green", "solid", "normal"},
	taxonomy.Enables.String():    {"blue", "solid", "normal"},
	taxonomy.Constrains.String(): {"red", "dashed", "normal"},
	taxonomy.Mentors.String():    {"purple", "solid", "diamond"},
	taxonomy.Informs.String():    {"orange", "dotted", "normal"},
	taxonomy.ReflectsOn.String(): {"teal", "solid", "vee"},
	taxonomy.Threatens.String():  {"darkred", "bold", "tee"},
}

var defaultEdgeStyle = edgeStyle{"black", "solid", "normal"}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

func dotQuote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}

// WriteDOT renders g as a Graphviz digraph. Entities are clustered by
// category in taxonomy order and edges are styled by relation type.
func WriteDOT(w io.Writer, g *KnowledgeGraph) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "digraph telos {")
	fmt.Fprintln(bw, "\trankdir=TB;")
	fmt.Fprintln(bw, `	node [fontname="Arial", fontsize=10, style=filled, fontcolor=white];`)
	fmt.Fprintln(bw, `	edge [fontname="Arial", fontsize=8];`)

	byCategory := make(map[taxonomy.Category][]Entity)
	for _, e := range g.Entities {
		c := e.Category()
		byCategory[c] = append(byCategory[c], e)
	}

	for _, c := range taxonomy.Categories() {
		entities := byCategory[c]
		if len(entities) == 0 {
			continue
		}
		color := categoryColors[c]
		fmt.Fprintf(bw, "\n\tsubgraph cluster_%s {\n", c)
		fmt.Fprintf(bw, "\t\tlabel=%s;\n\t\tstyle=rounded;\n\t\tcolor=%s;\n", dotQuote(c.String()), dotQuote(color))
		for _, e := range entities {
			tooltip := fmt.Sprintf("%s\nType: %s\nCategory: %s", e.Name, e.EntityType, c)
			fmt.Fprintf(bw, "\t\t%s [fillcolor=%s, tooltip=%s];\n", dotQuote(e.Name), dotQuote(color), dotQuote(tooltip))
		}
		fmt.Fprintln(bw, "\t}")
	}

	if len(g.Relations) > 0 {
		fmt.Fprintln(bw)
	}
	for _, r := range g.Relations {
		st, ok := relationStyles[r.RelationType]
		if !ok {
			st = defaultEdgeStyle
		}
		fmt.Fprintf(bw, "\t%s -> %s [label=%s, color=%s, style=%s, arrowhead=%s];\n",
			dotQuote(r.From), dotQuote(r.To), dotQuote(r.RelationType),
			dotQuote(st.color), dotQuote(st.style), dotQuote(st.arrowhead))
	}

	fmt.Fprintln(bw, "}")
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing dot: %w", err)
	}
	return nil
}
