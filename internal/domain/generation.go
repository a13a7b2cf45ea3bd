package domain

// GenerationMode tells how a model reply must be read.
type GenerationMode string

const (
	// ModeFreeform: plain text, optionally followed by ReportDelimiter and a JSON payload.
	ModeFreeform GenerationMode = "freeform"
	// ModeStructured: the provider constrains the reply to JSON matching Schema.
	ModeStructured GenerationMode = "structured"
)

// SchemaType is the JSON type of a schema node.
type SchemaType string

const (
	SchemaString SchemaType = "string"
	SchemaArray  SchemaType = "array"
	SchemaObject SchemaType = "object"
)

// Schema is a provider-independent description of the expected JSON reply.
type Schema struct {
	Type        SchemaType         `json:"type" yaml:"type"`
	Description string             `json:"description,omitempty" yaml:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty" yaml:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty" yaml:"items,omitempty"`
	Required    []string           `json:"required,omitempty" yaml:"required,omitempty"`
}

// HistoryTurn is a turn in the provider vocabulary: role "user" or "model".
type HistoryTurn struct {
	Role string
	Text string
}

const (
	HistoryRoleUser  = "user"
	HistoryRoleModel = "model"
)

// GenerationRequest is the single outbound payload of one model invocation.
type GenerationRequest struct {
	Model             string // empty selects the client default
	SystemInstruction string
	Schema            *Schema // nil in freeform mode
	History           []HistoryTurn
	Message           string
}

// Mode derives the generation mode from the presence of a schema.
func (r GenerationRequest) Mode() GenerationMode {
	if r.Schema != nil {
		return ModeStructured
	}
	return ModeFreeform
}

// ResponseKind tags a ModelResponse.
type ResponseKind string

const (
	ResponseText ResponseKind = "text"
	ResponseJSON ResponseKind = "json"
)

// ModelResponse is the raw provider output tagged by the mode it was requested in.
// A json response is still only text until a parser has narrowed it.
type ModelResponse struct {
	Kind ResponseKind
	Text string
}
