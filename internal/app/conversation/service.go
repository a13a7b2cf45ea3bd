package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/planbuddy/internal/app/agentflow"
	"github.com/PabloGalante/planbuddy/internal/domain"
	"github.com/PabloGalante/planbuddy/internal/observability"
	"github.com/PabloGalante/planbuddy/internal/repo"
)

// Service runs the conversation surfaces of a project: it appends turns,
// invokes the model once per send and merges structured fragments.
type Service struct {
	repo    *repo.Repository
	orch    *agentflow.Orchestrator
	metrics *observability.Metrics
	guard   *busyGuard
	now     func() time.Time
}

func NewService(r *repo.Repository, orch *agentflow.Orchestrator, metrics *observability.Metrics) *Service {
	return &Service{
		repo:    r,
		orch:    orch,
		metrics: metrics,
		guard:   newBusyGuard(),
		now:     time.Now,
	}
}

type SendMessageInput struct {
	ProjectID domain.ProjectID
	Surface   domain.Surface
	Text      string
}

type SendMessageOutput struct {
	UserTurn      domain.Turn `json:"userTurn"`
	AssistantTurn domain.Turn `json:"assistantTurn"`
	// Plan is the merged plan after an initiation turn.
	Plan *domain.PlanReport `json:"plan,omitempty"`
	// Tools is the full recommended tool list after a tool search turn.
	Tools      []domain.RecommendedTool `json:"tools,omitempty"`
	AddedTools int                      `json:"addedTools,omitempty"`
}

// SendMessage appends the user turn, asks the model and appends its reply.
//
// When the model fails, a placeholder assistant turn is stored, the output is
// still returned, and the error wraps domain.ErrGenerationFailed. Plan and tool
// state is only written after a successful generation.
func (s *Service) SendMessage(ctx context.Context, in SendMessageInput) (*SendMessageOutput, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, fmt.Errorf("%w: message text is required", domain.ErrInvalidInput)
	}

	release, transcript, err := s.begin(ctx, in.ProjectID, in.Surface)
	if err != nil {
		return nil, err
	}
	defer release()

	log := observability.LoggerFromContext(ctx).With(
		"project_id", in.ProjectID,
		"surface", in.Surface,
	)
	log.Info("sending message", "history_len", len(transcript))

	userTurn := s.newTurn(domain.RoleUser, in.Text)
	transcript = append(transcript, userTurn)

	out := &SendMessageOutput{UserTurn: userTurn}
	reply, genErr := s.generate(ctx, in, transcript, out)
	if genErr != nil {
		log.Error("generation failed", "error", genErr)
		reply = domain.GenerationFailedReply
	}

	out.AssistantTurn = s.newTurn(domain.RoleAssistant, reply)
	transcript = append(transcript, out.AssistantTurn)
	if err := s.repo.SaveConversation(ctx, in.ProjectID, in.Surface, transcript); err != nil {
		log.Error("failed to save transcript", "error", err)
		return nil, err
	}

	if genErr != nil {
		return out, genErr
	}
	log.Info("send message completed")
	return out, nil
}

// generate invokes the surface's flow and persists merged state.
func (s *Service) generate(ctx context.Context, in SendMessageInput, transcript []domain.Turn, out *SendMessageOutput) (string, error) {
	switch in.Surface {
	case domain.SurfaceInitiation:
		res, err := s.orch.PlanChat(ctx, transcript)
		if err != nil {
			return "", err
		}
		plan, err := s.repo.Plan(ctx, in.ProjectID)
		if err != nil {
			return "", err
		}
		if res.Fragment != nil {
			plan = agentflow.MergePlan(plan, *res.Fragment)
			if err := s.repo.SavePlan(ctx, in.ProjectID, plan); err != nil {
				return "", err
			}
		}
		out.Plan = &plan
		return res.Reply, nil

	case domain.SurfaceToolSearch:
		res, err := s.orch.ToolSearch(ctx, transcript)
		if err != nil {
			return "", err
		}
		existing, err := s.repo.Tools(ctx, in.ProjectID)
		if err != nil {
			return "", err
		}
		merged := agentflow.MergeTools(existing, res.Tools, s.orch.NewToolID)
		if len(merged) > len(existing) {
			if err := s.repo.SaveTools(ctx, in.ProjectID, merged); err != nil {
				return "", err
			}
		}
		out.Tools = merged
		out.AddedTools = len(merged) - len(existing)
		return res.Reply, nil

	case domain.SurfaceToolReport:
		return s.orch.ToolReport(ctx, transcript)

	case domain.SurfaceGeneral:
		return s.orch.General(ctx, transcript)
	}
	return "", fmt.Errorf("%w: unknown surface %q", domain.ErrInvalidInput, in.Surface)
}

// StreamMessage is SendMessage for the general surface with the reply
// delivered through onChunk. An error from onChunk stops the stream; what was
// received so far is stored as the reply.
func (s *Service) StreamMessage(ctx context.Context, in SendMessageInput, onChunk func(string) error) (*SendMessageOutput, error) {
	if in.Surface != domain.SurfaceGeneral {
		return nil, fmt.Errorf("%w: streaming is only available on the %s surface", domain.ErrInvalidInput, domain.SurfaceGeneral)
	}
	if strings.TrimSpace(in.Text) == "" {
		return nil, fmt.Errorf("%w: message text is required", domain.ErrInvalidInput)
	}

	release, transcript, err := s.begin(ctx, in.ProjectID, in.Surface)
	if err != nil {
		return nil, err
	}
	defer release()

	log := observability.LoggerFromContext(ctx).With(
		"project_id", in.ProjectID,
		"surface", in.Surface,
	)

	userTurn := s.newTurn(domain.RoleUser, in.Text)
	transcript = append(transcript, userTurn)

	var (
		b      strings.Builder
		genErr error
	)
	for chunk, err := range s.orch.GeneralStream(ctx, transcript) {
		if err != nil {
			genErr = err
			break
		}
		b.WriteString(chunk)
		if err := onChunk(chunk); err != nil {
			log.Info("stream stopped by client", "error", err)
			break
		}
	}

	reply := strings.TrimSpace(b.String())
	if genErr != nil || reply == "" {
		if genErr == nil {
			genErr = fmt.Errorf("%w: empty stream", domain.ErrGenerationFailed)
		}
		log.Error("stream failed", "error", genErr)
		reply = domain.GenerationFailedReply
	}

	out := &SendMessageOutput{UserTurn: userTurn, AssistantTurn: s.newTurn(domain.RoleAssistant, reply)}
	transcript = append(transcript, out.AssistantTurn)
	// the request context may already be cancelled by a disconnect
	if err := s.repo.SaveConversation(context.WithoutCancel(ctx), in.ProjectID, in.Surface, transcript); err != nil {
		return nil, err
	}
	if genErr != nil {
		return out, genErr
	}
	return out, nil
}

// Transcript returns the stored turns of a surface.
func (s *Service) Transcript(ctx context.Context, id domain.ProjectID, surface domain.Surface) ([]domain.Turn, error) {
	if _, err := s.repo.Project(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.Conversation(ctx, id, surface)
}

// begin validates the target, takes the busy guard and loads the transcript.
func (s *Service) begin(ctx context.Context, id domain.ProjectID, surface domain.Surface) (func(), []domain.Turn, error) {
	if _, ok := domain.ParseSurface(string(surface)); !ok {
		return nil, nil, fmt.Errorf("%w: unknown surface %q", domain.ErrInvalidInput, surface)
	}
	if _, err := s.repo.Project(ctx, id); err != nil {
		return nil, nil, err
	}

	release, ok := s.guard.tryAcquire(id, surface)
	if !ok {
		s.metrics.RecordBusy(string(surface))
		return nil, nil, fmt.Errorf("%w: %s already has a request in flight", domain.ErrBusy, surface)
	}

	transcript, err := s.repo.Conversation(ctx, id, surface)
	if err != nil {
		release()
		return nil, nil, err
	}
	return release, transcript, nil
}

func (s *Service) newTurn(role domain.Role, text string) domain.Turn {
	return domain.Turn{
		ID:        domain.TurnID(uuid.NewString()),
		Role:      role,
		Text:      text,
		CreatedAt: s.now().UTC(),
	}
}
