package agentflow

import (
	"fmt"
	"strings"

	"github.com/PabloGalante/planbuddy/internal/domain"
)

const planChatPrompt = `
You are "PlanBuddy", a planning partner that helps the user turn an idea into a project plan.

Your role:
- Ask about the background, the goal, the concrete steps and the resources the project needs.
- Ask one or two focused questions at a time, never a long questionnaire.
- Answer in the SAME LANGUAGE as the user.

Output:
- "reply": what you say to the user.
- "report": only what this turn adds to the plan. Leave a field as an empty string when this turn adds nothing to it.
  Never repeat text that is already part of the plan.
`

const planChatFreeformPrompt = `
You are "PlanBuddy", a planning partner that helps the user turn an idea into a project plan.

Answer the user in plain text, in the SAME LANGUAGE as the user, asking at most two questions.

When this turn adds something to the plan, end your answer with a line containing exactly
` + ReportDelimiter + `
followed by a JSON object with any of the string fields "reason", "goal", "detailedPlan", "resources".
Include only fields this turn adds to. Do not write anything after the JSON object.
`

const toolSearchPrompt = `
You help the user find software tools for their work.

Rules:
- Understand what the user is trying to do before recommending.
- Recommend well known, currently available tools. Several tools per turn are fine.
- "url" is the official website only, or an empty string if you are not sure.

Output:
- "reply": what you say to the user.
- "tools": the tools you recommend in this turn, or an empty list.
`

const customToolsPrompt = `
You recommend tools for a whole project. Given the plan, the schedule and the to-do list,
pick 5 to 10 tools that fit this project and explain in one or two sentences why each one helps.

For every tool give "tool_name", "description", "url" (official site or empty string) and a
"category" such as project management, design, development or collaboration.
`

const toolReportPrompt = `
You are an advisor that explains how AI and productivity tools could be used in the user's
project. Keep answers practical: name the tool, what to use it for and a first concrete step.
Answer in the SAME LANGUAGE as the user.
`

const generalPrompt = `
You are "PlanBuddy", a friendly assistant for project work. Answer briefly and concretely,
in the SAME LANGUAGE as the user.
`

const workReportPrompt = `
You write work definition documents in Markdown.

Structure:
# <project title>
## Background
## Goal
## Scope and plan
## Resources
## Risks and open questions

Use only information from the conversation and the plan. Write "(undecided)" where the
information is missing instead of inventing it.
`

const completionReportPrompt = `
You write the closing report of a finished project in Markdown.

For a successful project write a success report: what was achieved, what worked, what to reuse.
For a failed project write a lessons learned report: what happened, root causes, what to change next time.
Be honest and specific; use only the information given.
`

// Instructions are the system instructions of every flow.
type Instructions struct {
	PlanChat         string
	PlanChatFreeform string
	ToolSearch       string
	CustomTools      string
	ToolReport       string
	General          string
	WorkReport       string
	CompletionReport string
}

func DefaultInstructions() Instructions {
	return Instructions{
		PlanChat:         strings.TrimSpace(planChatPrompt),
		PlanChatFreeform: strings.TrimSpace(planChatFreeformPrompt),
		ToolSearch:       strings.TrimSpace(toolSearchPrompt),
		CustomTools:      strings.TrimSpace(customToolsPrompt),
		ToolReport:       strings.TrimSpace(toolReportPrompt),
		General:          strings.TrimSpace(generalPrompt),
		WorkReport:       strings.TrimSpace(workReportPrompt),
		CompletionReport: strings.TrimSpace(completionReportPrompt),
	}
}

// WithDefaults fills every blank instruction with the built-in one.
func (in Instructions) WithDefaults() Instructions {
	def := DefaultInstructions()
	pick := func(v, d string) string {
		if strings.TrimSpace(v) == "" {
			return d
		}
		return v
	}
	return Instructions{
		PlanChat:         pick(in.PlanChat, def.PlanChat),
		PlanChatFreeform: pick(in.PlanChatFreeform, def.PlanChatFreeform),
		ToolSearch:       pick(in.ToolSearch, def.ToolSearch),
		CustomTools:      pick(in.CustomTools, def.CustomTools),
		ToolReport:       pick(in.ToolReport, def.ToolReport),
		General:          pick(in.General, def.General),
		WorkReport:       pick(in.WorkReport, def.WorkReport),
		CompletionReport: pick(in.CompletionReport, def.CompletionReport),
	}
}

const undecided = "(undecided)"

// maxContextItems caps the gantt items and tasks quoted in the custom tools prompt.
const maxContextItems = 10

func orUndecided(s string) string {
	if strings.TrimSpace(s) == "" {
		return undecided
	}
	return s
}

// BuildWorkReportPrompt renders the transcript and the current plan.
func BuildWorkReportPrompt(turns []domain.Turn, plan domain.PlanReport) string {
	var b strings.Builder
	b.WriteString("Write the work definition document from the following information.\n\n")
	b.WriteString("## Conversation\n")
	for i, t := range turns {
		if i > 0 {
			b.WriteString("\n\n")
		}
		who := "AI"
		if t.Role == domain.RoleUser {
			who = "User"
		}
		fmt.Fprintf(&b, "**%s**: %s", who, t.Text)
	}
	b.WriteString("\n\n## Current plan\n")
	writePlan(&b, plan, true)
	b.WriteString("\nCombine everything into a complete Markdown document.")
	return b.String()
}

// BuildCustomToolsPrompt renders the plan, the first gantt items and the first tasks.
func BuildCustomToolsPrompt(plan domain.PlanReport, gantt []domain.GanttItem, tasks []domain.Task) string {
	var b strings.Builder
	b.WriteString("Project information:\n\n")
	if !plan.IsEmpty() {
		b.WriteString("## Plan\n")
		writePlan(&b, plan, false)
	}
	if len(gantt) > 0 {
		fmt.Fprintf(&b, "\n## Schedule\n%d work items are scheduled:\n", len(gantt))
		for _, g := range gantt[:min(len(gantt), maxContextItems)] {
			fmt.Fprintf(&b, "- %s (%s ~ %s)\n", g.Title, g.StartDate, g.EndDate)
		}
	}
	if len(tasks) > 0 {
		b.WriteString("\n## To-do\n")
		for _, t := range tasks[:min(len(tasks), maxContextItems)] {
			if t.Completed {
				fmt.Fprintf(&b, "- %s (done)\n", t.Title)
				continue
			}
			fmt.Fprintf(&b, "- %s\n", t.Title)
		}
	}
	b.WriteString("\nRecommend 5 to 10 tools this project needs and explain why each one fits.")
	return b.String()
}

// BuildCompletionPrompt renders the project, its result, the plan and the task progress.
func BuildCompletionPrompt(p domain.Project, result domain.ProjectResult, plan domain.PlanReport, tasks []domain.Task, notes string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Project: %s\nResult: %s\n\n## Plan\n", p.Name, result)
	writePlan(&b, plan, true)

	done := 0
	for _, t := range tasks {
		if t.Completed {
			done++
		}
	}
	fmt.Fprintf(&b, "\n## Tasks (%d of %d done)\n", done, len(tasks))
	for _, t := range tasks {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		fmt.Fprintf(&b, "- [%s] %s\n", mark, t.Title)
	}
	if strings.TrimSpace(notes) != "" {
		fmt.Fprintf(&b, "\n## Notes from the team\n%s\n", notes)
	}
	return b.String()
}

func writePlan(b *strings.Builder, plan domain.PlanReport, fill bool) {
	field := func(label, v string) {
		if fill {
			v = orUndecided(v)
		} else if strings.TrimSpace(v) == "" {
			return
		}
		fmt.Fprintf(b, "- **%s**: %s\n", label, v)
	}
	field("Background", plan.Reason)
	field("Goal", plan.Goal)
	field("Detailed plan", plan.DetailedPlan)
	field("Resources", plan.Resources)
}
