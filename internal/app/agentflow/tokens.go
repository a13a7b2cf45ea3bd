package agentflow

import (
	"sync"

	"github.com/tiktoken-go/tokenizer"

	"github.com/PabloGalante/planbuddy/internal/domain"
)

var (
	codec     tokenizer.Codec
	codecOnce sync.Once
	codecErr  error
)

func getCodec() (tokenizer.Codec, error) {
	codecOnce.Do(func() {
		codec, codecErr = tokenizer.Get(tokenizer.Cl100kBase)
	})
	return codec, codecErr
}

// EstimateTokens approximates the token count of text with cl100k_base.
// Gemini uses its own tokenizer, so the number is only good for logs and budgets.
func EstimateTokens(text string) (int, error) {
	c, err := getCodec()
	if err != nil {
		return 0, err
	}
	ids, _, err := c.Encode(text)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// EstimateRequestTokens sums the estimate over every text of a request, 0 on error.
func EstimateRequestTokens(req domain.GenerationRequest) int {
	total := 0
	add := func(s string) {
		if s == "" {
			return
		}
		n, err := EstimateTokens(s)
		if err != nil {
			return
		}
		total += n
	}
	add(req.SystemInstruction)
	for _, h := range req.History {
		add(h.Text)
	}
	add(req.Message)
	return total
}
