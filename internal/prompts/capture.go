package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/telosgraph/internal/taxonomy"
)

// CapturePrompt handles the telos-capture MCP prompt.
// It guides the AI to turn what the user says about a topic into
// categorized entities and relations.
type CapturePrompt struct{}

// NewCapturePrompt creates a CapturePrompt.
func NewCapturePrompt() *CapturePrompt {
	return &CapturePrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *CapturePrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("telos-capture",
		mcp.WithPromptDescription(
			"Capture goals, habits, projects, risks and other TELOS context "+
				"about a topic into the knowledge graph.",
		),
		mcp.WithArgument("topic",
			mcp.ArgumentDescription("What to capture, e.g. 'my running training' (default: ask me)"),
		),
	)
}

// Handle processes the telos-capture prompt request.
func (p *CapturePrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	topic := ""
	if args := req.Params.Arguments; args != nil {
		topic = strings.TrimSpace(args["topic"])
	}

	opening := "Ask me what area of my life or work I want to capture."
	description := "Capture TELOS context"
	if topic != "" {
		opening = fmt.Sprintf("I want to capture my TELOS context about: %s.", topic)
		description = fmt.Sprintf("Capture TELOS context: %s", topic)
	}

	categories := make([]string, 0, len(taxonomy.Categories()))
	for _, c := range taxonomy.Categories() {
		categories = append(categories, c.String())
	}

	return &mcp.GetPromptResult{
		Description: description,
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"%s\n\n"+
						"Please:\n"+
						"1. Run `search_nodes` first so you don't duplicate entities I already have\n"+
						"2. Interview me briefly, then propose entities with a telosCategory from: %s\n"+
						"3. Create them with `create_entities` once I confirm\n"+
						"4. For each connection, call `get_relationship_suggestions` and create it with `create_relations`\n"+
						"5. Report any warnings returned by `create_relations`",
					opening, strings.Join(categories, ", "),
				)),
			},
		},
	}, nil
}
