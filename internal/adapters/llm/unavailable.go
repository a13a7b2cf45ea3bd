package llm

import (
	"context"
	"fmt"

	"github.com/PabloGalante/planbuddy/internal/domain"
)

// Unavailable fails every request. It stands in when credentials are missing
// so the service still starts and reports a generation failure per request.
type Unavailable struct {
	Reason string
}

func (u Unavailable) Generate(context.Context, domain.GenerationRequest) (string, error) {
	return "", fmt.Errorf("%w: %s", domain.ErrGenerationFailed, u.Reason)
}
