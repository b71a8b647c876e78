package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HendryAvila/telosgraph/internal/graph"
)

type auditor interface {
	ValidateTaxonomy(ctx context.Context) (*graph.AuditReport, error)
}

// runValidate prints the audit report and returns errIssuesFound when the
// graph does not pass.
func runValidate(ctx context.Context, cmd *cobra.Command, a auditor) error {
	report, err := a.ValidateTaxonomy(ctx)
	if err != nil {
		return fmt.Errorf("validating graph: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), report.Markdown())
	if !report.Valid {
		return errIssuesFound
	}
	return nil
}
