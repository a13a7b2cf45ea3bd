package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"sort"
	"strings"
	"sync"

	"github.com/PabloGalante/planbuddy/internal/domain"
)

// MockLLM answers deterministically without network access. Structured
// requests get a JSON document shaped after the schema.
type MockLLM struct {
	mu   sync.Mutex
	last domain.GenerationRequest
}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

// LastRequest returns the most recent request, for tests and debugging.
func (m *MockLLM) LastRequest() domain.GenerationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

func (m *MockLLM) Generate(_ context.Context, req domain.GenerationRequest) (string, error) {
	m.mu.Lock()
	m.last = req
	m.mu.Unlock()

	reply := fmt.Sprintf("I hear you. You said %q. Tell me a bit more about it.", req.Message)
	if req.Schema == nil {
		return reply, nil
	}

	doc := mockValue(req.Schema, "", req.Message)
	if obj, ok := doc.(map[string]any); ok {
		if _, has := obj["reply"]; has {
			obj["reply"] = reply
		}
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("%w: mock encode: %v", domain.ErrGenerationFailed, err)
	}
	return string(raw), nil
}

// GenerateStream yields the freeform reply word by word.
func (m *MockLLM) GenerateStream(ctx context.Context, req domain.GenerationRequest) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		text, err := m.Generate(ctx, req)
		if err != nil {
			yield("", err)
			return
		}
		words := strings.SplitAfter(text, " ")
		for _, w := range words {
			if ctx.Err() != nil {
				yield("", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, ctx.Err()))
				return
			}
			if !yield(w, nil) {
				return
			}
		}
	}
}

// mockValue fills a schema node: strings echo the message, arrays get one item.
func mockValue(s *domain.Schema, name, message string) any {
	switch s.Type {
	case domain.SchemaObject:
		obj := make(map[string]any, len(s.Properties))
		names := make([]string, 0, len(s.Properties))
		for n := range s.Properties {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			obj[n] = mockValue(s.Properties[n], n, message)
		}
		return obj
	case domain.SchemaArray:
		if s.Items == nil {
			return []any{}
		}
		return []any{mockValue(s.Items, name, message)}
	default:
		switch name {
		case "tool_name":
			return "Mock Tool"
		case "url":
			return ""
		default:
			return fmt.Sprintf("%s: %s", name, message)
		}
	}
}
