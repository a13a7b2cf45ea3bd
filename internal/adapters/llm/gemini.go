package llm

import (
	"context"
	"fmt"
	"iter"

	"google.golang.org/genai"

	"github.com/PabloGalante/planbuddy/internal/domain"
)

// GeminiConfig selects the backend: an API key uses the Gemini API, otherwise
// Project and Location select Vertex AI.
type GeminiConfig struct {
	APIKey          string
	Project         string
	Location        string
	Model           string
	Temperature     float32
	MaxOutputTokens int32
}

type GeminiClient struct {
	client    *genai.Client
	modelName string
	temp      float32
	maxTokens int32
}

// NewGeminiClient creates an LLMClient based on Gemini.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.APIKey == "" {
		if cfg.Project == "" || cfg.Location == "" {
			return nil, fmt.Errorf("gemini: an API key or a GCP project and location are required")
		}
		cc = &genai.ClientConfig{
			Project:  cfg.Project,
			Location: cfg.Location,
			Backend:  genai.BackendVertexAI,
		}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}
	maxTokens := cfg.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = 8192
	}

	return &GeminiClient{
		client:    client,
		modelName: modelName,
		temp:      cfg.Temperature,
		maxTokens: maxTokens,
	}, nil
}

func (g *GeminiClient) model(req domain.GenerationRequest) string {
	if req.Model != "" {
		return req.Model
	}
	return g.modelName
}

// contents maps the history and the new message to genai contents.
func contents(req domain.GenerationRequest) []*genai.Content {
	out := make([]*genai.Content, 0, len(req.History)+1)
	for _, h := range req.History {
		var role genai.Role = genai.RoleUser
		if h.Role == domain.HistoryRoleModel {
			role = genai.RoleModel
		}
		out = append(out, genai.NewContentFromText(h.Text, role))
	}
	return append(out, genai.NewContentFromText(req.Message, genai.RoleUser))
}

func (g *GeminiClient) config(req domain.GenerationRequest) *genai.GenerateContentConfig {
	temp := g.temp
	topP := float32(0.9)

	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		TopP:            &topP,
		MaxOutputTokens: g.maxTokens,
	}
	if req.SystemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if req.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = ToGenaiSchema(req.Schema)
	}
	return cfg
}

// Generate implements domain.LLMClient.
func (g *GeminiClient) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	res, err := g.client.Models.GenerateContent(ctx, g.model(req), contents(req), g.config(req))
	if err != nil {
		return "", fmt.Errorf("%w: gemini generate content: %v", domain.ErrGenerationFailed, err)
	}

	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("%w: gemini returned empty text", domain.ErrGenerationFailed)
	}
	return text, nil
}

// GenerateStream implements domain.StreamingLLMClient.
func (g *GeminiClient) GenerateStream(ctx context.Context, req domain.GenerationRequest) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for res, err := range g.client.Models.GenerateContentStream(ctx, g.model(req), contents(req), g.config(req)) {
			if err != nil {
				yield("", fmt.Errorf("%w: gemini stream: %v", domain.ErrGenerationFailed, err))
				return
			}
			text := res.Text()
			if text == "" {
				continue
			}
			if !yield(text, nil) {
				return
			}
		}
	}
}
