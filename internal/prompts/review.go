// Package prompts implements MCP prompt handlers for the TELOS graph.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// ReviewPrompt handles the telos-review MCP prompt.
// It asks the AI to audit the graph and propose corrections.
type ReviewPrompt struct{}

// NewReviewPrompt creates a ReviewPrompt.
func NewReviewPrompt() *ReviewPrompt {
	return &ReviewPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *ReviewPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("telos-review",
		mcp.WithPromptDescription(
			"Review the TELOS knowledge graph for taxonomy problems "+
				"and get concrete corrections for each one.",
		),
	)
}

// Handle processes the telos-review prompt request.
func (p *ReviewPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "TELOS Graph Review",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please run `validate_taxonomy` on my TELOS knowledge graph.\n\n" +
						"Then:\n" +
						"1. Summarize the result and the category coverage\n" +
						"2. For every entity without a valid category, propose one and explain why\n" +
						"3. For every invalid relation, call `get_relationship_suggestions` for its endpoints and propose a replacement\n" +
						"4. Check `get_diagnostics` for recent corrections I may not have noticed\n" +
						"5. Ask me before applying any change with the graph tools",
				),
			},
		},
	}, nil
}
