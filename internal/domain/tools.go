package domain

// RecommendedTool is a tool collected from the tool search chat.
// The list is append-only and unique by case-insensitive name.
type RecommendedTool struct {
	ID          ToolID `json:"id"`
	Name        string `json:"tool_name"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// CustomTool is a tool recommended for the whole project, with a category.
type CustomTool struct {
	ID          ToolID `json:"id"`
	Name        string `json:"tool_name"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Category    string `json:"category"`
}

// ToolSuggestion is the shape a model uses to suggest a tool.
type ToolSuggestion struct {
	Name        string `json:"tool_name"`
	Description string `json:"description"`
	URL         string `json:"url,omitempty"`
	Category    string `json:"category,omitempty"`
}
