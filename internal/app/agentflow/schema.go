package agentflow

import "github.com/PabloGalante/planbuddy/internal/domain"

// Payload fields read from structured replies.
const (
	fieldReport = "report"
	fieldTools  = "tools"
)

func str(desc string) *domain.Schema {
	return &domain.Schema{Type: domain.SchemaString, Description: desc}
}

// PlanChatSchema is the reply shape of the plan drafting chat: a reply for the
// user and the plan fields to merge into the live plan.
func PlanChatSchema() *domain.Schema {
	return &domain.Schema{
		Type: domain.SchemaObject,
		Properties: map[string]*domain.Schema{
			"reply": str("Conversational answer shown to the user"),
			fieldReport: {
				Type:        domain.SchemaObject,
				Description: "Content to add to the live project plan",
				Properties: map[string]*domain.Schema{
					"reason":       str("Background and motivation of the project"),
					"goal":         str("Goal of the project"),
					"detailedPlan": str("Detailed plan"),
					"resources":    str("Required resources"),
				},
				Required: []string{"reason", "goal", "detailedPlan", "resources"},
			},
		},
		Required: []string{"reply"},
	}
}

func toolItem(withCategory bool) *domain.Schema {
	item := &domain.Schema{
		Type: domain.SchemaObject,
		Properties: map[string]*domain.Schema{
			"tool_name":   str("Tool name"),
			"description": str("One or two sentences about the tool"),
			"url":         str("Official website URL only, empty string when unknown"),
		},
		Required: []string{"tool_name", "description"},
	}
	if withCategory {
		item.Properties["category"] = str("Tool category, e.g. project management, design, development, collaboration")
		item.Required = append(item.Required, "category")
	}
	return item
}

// ToolSearchSchema is the reply shape of the tool search chat.
func ToolSearchSchema() *domain.Schema {
	return &domain.Schema{
		Type: domain.SchemaObject,
		Properties: map[string]*domain.Schema{
			"reply": str("Conversational answer shown to the user"),
			fieldTools: {
				Type:        domain.SchemaArray,
				Description: "Recommended tools, optional, several allowed",
				Items:       toolItem(false),
			},
		},
		Required: []string{"reply"},
	}
}

// CustomToolsSchema is the reply shape of project-wide tool recommendations.
func CustomToolsSchema() *domain.Schema {
	return &domain.Schema{
		Type: domain.SchemaObject,
		Properties: map[string]*domain.Schema{
			fieldTools: {
				Type:        domain.SchemaArray,
				Description: "Tools the project needs",
				Items:       toolItem(true),
			},
		},
		Required: []string{fieldTools},
	}
}
