package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/HendryAvila/telosgraph/internal/graph"
	"github.com/HendryAvila/telosgraph/internal/server"
)

func newExportCmd(v *viper.Viper) *cobra.Command {
	var (
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the graph as Graphviz DOT or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "dot" && format != "json" {
				return fmt.Errorf("unknown export format %q (want dot or json)", format)
			}
			cfg, log, err := setup(v)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			g, err := server.NewStore(cfg, log, nil).ReadGraph(cmd.Context())
			if err != nil {
				return fmt.Errorf("reading graph: %w", err)
			}

			if output == "" {
				return writeExport(cmd.OutOrStdout(), format, g)
			}
			return exportFile(output, format, g)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format (dot or json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	return cmd
}

// exportFile writes g to path. A failed close is reported like a failed
// write.
func exportFile(path, format string, g *graph.KnowledgeGraph) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := writeExport(f, format, g); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

func writeExport(w io.Writer, format string, g *graph.KnowledgeGraph) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(g)
	}
	return graph.WriteDOT(w, g)
}
