// telosgraph: TELOS knowledge graph MCP server
//
// Stores entities and typed relations in a JSONL file and enforces the
// TELOS taxonomy on every write. Any MCP-capable host can drive it over
// stdio.
//
// Usage:
//
//	telosgraph serve      # Start MCP server (stdio transport)
//	telosgraph validate   # Audit the graph file against the taxonomy
//	telosgraph export     # Write the graph as Graphviz DOT or JSON
//	telosgraph version    # Print the version
package main

import (
	"errors"
	"fmt"
	"os"
)

// errIssuesFound makes validate exit non-zero without printing an error.
var errIssuesFound = errors.New("taxonomy issues found")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errIssuesFound) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
