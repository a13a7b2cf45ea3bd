package agentflow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PabloGalante/planbuddy/internal/domain"
)

// ReportDelimiter separates the reply from a trailing JSON payload in freeform replies.
const ReportDelimiter = "---PLAN-JSON---"

// FallbackReply is used when a structured reply carries no usable "reply" field.
const FallbackReply = "I could not put together an answer this time."

// Parsed is the reply for the user plus the optional structured fragment.
// DecodeErr is set when a payload was present but could not be decoded; it is
// informational and never a reason to fail the turn.
type Parsed[F any] struct {
	Reply     string
	Fragment  *F
	DecodeErr error
}

// Parse dispatches on the response kind. field names the payload member of a
// structured reply ("report", "tools"); fallback replaces a missing reply.
func Parse[F any](resp domain.ModelResponse, field, fallback string) Parsed[F] {
	if resp.Kind == domain.ResponseJSON {
		return ParseStructured[F](resp.Text, field, fallback)
	}
	return ParseFreeform[F](resp.Text, fallback)
}

// ParseStructured decodes a whole reply as a JSON object. When the text is not
// a JSON object the raw text becomes the reply and there is no fragment.
func ParseStructured[F any](raw, field, fallback string) Parsed[F] {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &obj); err != nil || obj == nil {
		if err == nil {
			err = fmt.Errorf("reply is JSON null")
		}
		return Parsed[F]{Reply: raw, DecodeErr: err}
	}

	out := Parsed[F]{Reply: fallback}
	if rawReply, ok := obj["reply"]; ok {
		var reply string
		if err := json.Unmarshal(rawReply, &reply); err == nil && strings.TrimSpace(reply) != "" {
			out.Reply = reply
		}
	}

	if field == "" {
		return out
	}
	payload, ok := obj[field]
	if !ok || isNull(payload) {
		return out
	}
	var frag F
	if err := json.Unmarshal(payload, &frag); err != nil {
		out.DecodeErr = fmt.Errorf("decoding %q: %w", field, err)
		return out
	}
	out.Fragment = &frag
	return out
}

// ParseFreeform splits on the first ReportDelimiter. The trimmed text before it
// is the reply, or fallback when that text is blank; the text after it is
// decoded as the fragment itself.
func ParseFreeform[F any](raw, fallback string) Parsed[F] {
	before, after, found := strings.Cut(raw, ReportDelimiter)
	out := Parsed[F]{Reply: strings.TrimSpace(before)}
	if out.Reply == "" {
		out.Reply = fallback
	}
	if !found {
		return out
	}

	payload := stripCodeFence(after)
	if payload == "" {
		return out
	}
	var frag F
	if err := json.Unmarshal([]byte(payload), &frag); err != nil {
		out.DecodeErr = fmt.Errorf("decoding trailing payload: %w", err)
		return out
	}
	out.Fragment = &frag
	return out
}

// stripCodeFence removes a ```json ... ``` wrapper some models add around JSON.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
