package agentflow

import (
	"strings"

	"github.com/PabloGalante/planbuddy/internal/domain"
)

// MergePlan folds a fragment into the plan. It is pure and idempotent:
// merging the same fragment twice leaves the plan as after the first merge.
//
// For each non-blank fragment field: an existing value that already contains
// it is kept, a blank existing value is replaced, anything else gets the new
// value appended after a blank line.
func MergePlan(prev domain.PlanReport, frag domain.PlanFragment) domain.PlanReport {
	return domain.PlanReport{
		Reason:       appendField(prev.Reason, frag.Reason),
		Goal:         appendField(prev.Goal, frag.Goal),
		DetailedPlan: appendField(prev.DetailedPlan, frag.DetailedPlan),
		Resources:    appendField(prev.Resources, frag.Resources),
	}
}

func appendField(existing, addition string) string {
	if strings.TrimSpace(addition) == "" {
		return existing
	}
	if strings.TrimSpace(existing) == "" {
		return addition
	}
	if strings.Contains(existing, addition) {
		return existing
	}
	return existing + "\n\n" + addition
}

// MergeTools appends suggestions whose names are not yet in the list,
// comparing names case-insensitively. Suggestions without a name are skipped.
// existing is not modified.
func MergeTools(existing []domain.RecommendedTool, incoming []domain.ToolSuggestion, newID func() domain.ToolID) []domain.RecommendedTool {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	out := make([]domain.RecommendedTool, 0, len(existing)+len(incoming))
	for _, t := range existing {
		seen[toolKey(t.Name)] = struct{}{}
		out = append(out, t)
	}

	for _, s := range incoming {
		key := toolKey(s.Name)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, domain.RecommendedTool{
			ID:          newID(),
			Name:        strings.TrimSpace(s.Name),
			Description: s.Description,
			URL:         strings.TrimSpace(s.URL),
		})
	}
	return out
}

// ToCustomTools converts project-wide suggestions, dropping unnamed and duplicate tools.
func ToCustomTools(incoming []domain.ToolSuggestion, newID func() domain.ToolID) []domain.CustomTool {
	seen := make(map[string]struct{}, len(incoming))
	out := make([]domain.CustomTool, 0, len(incoming))
	for _, s := range incoming {
		key := toolKey(s.Name)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, domain.CustomTool{
			ID:          newID(),
			Name:        strings.TrimSpace(s.Name),
			Description: s.Description,
			URL:         strings.TrimSpace(s.URL),
			Category:    s.Category,
		})
	}
	return out
}

func toolKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
