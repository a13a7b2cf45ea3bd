package agentflow

import "github.com/PabloGalante/planbuddy/internal/domain"

// Compose builds the outbound payload of one invocation. A nil schema selects
// freeform mode; a schema selects structured mode.
func Compose(model, systemInstruction string, schema *domain.Schema, n Normalized) domain.GenerationRequest {
	return domain.GenerationRequest{
		Model:             model,
		SystemInstruction: systemInstruction,
		Schema:            schema,
		History:           n.History,
		Message:           n.Message,
	}
}

// ComposeSingle builds a request without history, for one-shot prompts.
func ComposeSingle(model, systemInstruction string, schema *domain.Schema, message string) domain.GenerationRequest {
	return Compose(model, systemInstruction, schema, Normalized{Message: message})
}
