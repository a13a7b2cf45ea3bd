package agentflow

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/planbuddy/internal/domain"
	"github.com/PabloGalante/planbuddy/internal/observability"
)

// Flow names, used as log fields and metric labels.
const (
	FlowPlanChat         = "plan_chat"
	FlowToolSearch       = "tool_search"
	FlowToolReport       = "tool_report"
	FlowGeneral          = "general"
	FlowWorkReport       = "work_report"
	FlowCustomTools      = "custom_tools"
	FlowCompletionReport = "completion_report"
)

type Options struct {
	Model        string
	Instructions Instructions
	// PlanChatMode selects structured (schema) or freeform (delimiter) plan drafting.
	PlanChatMode domain.GenerationMode
	Metrics      *observability.Metrics
	// NewToolID is used for merged tools; defaults to random UUIDs.
	NewToolID func() domain.ToolID
}

// Orchestrator runs every model-backed flow: it composes the request, invokes
// the model once and parses the reply. It holds no conversation state.
type Orchestrator struct {
	llm       domain.LLMClient
	model     string
	instr     Instructions
	planMode  domain.GenerationMode
	metrics   *observability.Metrics
	newToolID func() domain.ToolID
}

func NewOrchestrator(llm domain.LLMClient, opts Options) *Orchestrator {
	o := &Orchestrator{
		llm:       llm,
		model:     opts.Model,
		instr:     opts.Instructions.WithDefaults(),
		planMode:  opts.PlanChatMode,
		metrics:   opts.Metrics,
		newToolID: opts.NewToolID,
	}
	if o.planMode == "" {
		o.planMode = domain.ModeStructured
	}
	if o.newToolID == nil {
		o.newToolID = func() domain.ToolID { return domain.ToolID(uuid.NewString()) }
	}
	return o
}

// NewToolID returns an ID for a newly merged tool.
func (o *Orchestrator) NewToolID() domain.ToolID {
	return o.newToolID()
}

// Invoke performs one model round trip and tags the text with the request mode.
// Every failure, including a blank reply, wraps domain.ErrGenerationFailed.
func (o *Orchestrator) Invoke(ctx context.Context, flow string, req domain.GenerationRequest) (domain.ModelResponse, error) {
	log := observability.LoggerFromContext(ctx).With("flow", flow)
	log.Debug("generation start",
		"mode", req.Mode(),
		"history_len", len(req.History),
		"prompt_tokens_est", EstimateRequestTokens(req))

	start := time.Now()
	text, err := o.llm.Generate(ctx, req)
	elapsed := time.Since(start)

	if err == nil && strings.TrimSpace(text) == "" {
		err = errors.New("model returned an empty reply")
	}
	if err != nil {
		o.metrics.RecordGeneration(flow, "error", elapsed)
		log.Error("generation failed", "error", err, "elapsed_ms", elapsed.Milliseconds())
		return domain.ModelResponse{}, wrapGenerationErr(flow, err)
	}

	o.metrics.RecordGeneration(flow, "ok", elapsed)
	log.Info("generation end", "elapsed_ms", elapsed.Milliseconds(), "reply_len", len(text))

	kind := domain.ResponseText
	if req.Mode() == domain.ModeStructured {
		kind = domain.ResponseJSON
	}
	return domain.ModelResponse{Kind: kind, Text: text}, nil
}

// Stream yields reply chunks. Clients without streaming support produce the
// whole reply as a single chunk.
func (o *Orchestrator) Stream(ctx context.Context, flow string, req domain.GenerationRequest) iter.Seq2[string, error] {
	sc, ok := o.llm.(domain.StreamingLLMClient)
	if !ok {
		return func(yield func(string, error) bool) {
			resp, err := o.Invoke(ctx, flow, req)
			if err != nil {
				yield("", err)
				return
			}
			yield(resp.Text, nil)
		}
	}

	return func(yield func(string, error) bool) {
		log := observability.LoggerFromContext(ctx).With("flow", flow)
		start := time.Now()
		outcome := "ok"
		defer func() {
			o.metrics.RecordGeneration(flow, outcome, time.Since(start))
		}()

		for chunk, err := range sc.GenerateStream(ctx, req) {
			if err != nil {
				outcome = "error"
				log.Error("stream failed", "error", err)
				yield("", wrapGenerationErr(flow, err))
				return
			}
			if !yield(chunk, nil) {
				outcome = "cancelled"
				return
			}
		}
	}
}

func wrapGenerationErr(flow string, err error) error {
	if errors.Is(err, domain.ErrGenerationFailed) {
		return fmt.Errorf("%s: %w", flow, err)
	}
	return fmt.Errorf("%s: %w: %v", flow, domain.ErrGenerationFailed, err)
}

// noteParse logs and counts a payload that was present but undecodable.
func (o *Orchestrator) noteParse(ctx context.Context, flow string, decodeErr error) {
	if decodeErr == nil {
		return
	}
	o.metrics.RecordParseFallback(flow)
	observability.LoggerFromContext(ctx).Warn("structured payload ignored",
		"flow", flow,
		"error", decodeErr)
}
