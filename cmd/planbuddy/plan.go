package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/PabloGalante/planbuddy/internal/bootstrap"
	"github.com/PabloGalante/planbuddy/internal/domain"
)

func (c *cli) planCmd() *cobra.Command {
	plan := &cobra.Command{Use: "plan", Short: "Show or edit the project plan"}
	plan.AddCommand(c.planShowCmd(), c.planSetCmd())
	return plan
}

func planMarkdown(p domain.PlanReport) string {
	var b strings.Builder
	section := func(title, body string) {
		if strings.TrimSpace(body) == "" {
			body = "_(undecided)_"
		}
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", title, body)
	}
	section("Reason", p.Reason)
	section("Goal", p.Goal)
	section("Detailed plan", p.DetailedPlan)
	section("Resources", p.Resources)
	return b.String()
}

func (c *cli) planShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
				id, err := c.projectID(ctx, app)
				if err != nil {
					return err
				}
				p, err := app.Projects.Plan(ctx, id)
				if err != nil {
					return err
				}
				return c.printMarkdown(planMarkdown(p), p)
			})
		},
	}
}

// planSetCmd overwrites only the fields given as flags.
func (c *cli) planSetCmd() *cobra.Command {
	var reason, goal, detailed, resources string
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Overwrite plan fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
				id, err := c.projectID(ctx, app)
				if err != nil {
					return err
				}
				p, err := app.Projects.Plan(ctx, id)
				if err != nil {
					return err
				}
				flags := cmd.Flags()
				if flags.Changed("reason") {
					p.Reason = reason
				}
				if flags.Changed("goal") {
					p.Goal = goal
				}
				if flags.Changed("detailed-plan") {
					p.DetailedPlan = detailed
				}
				if flags.Changed("resources") {
					p.Resources = resources
				}
				p, err = app.Projects.SetPlan(ctx, id, p)
				if err != nil {
					return err
				}
				return c.printMarkdown(planMarkdown(p), p)
			})
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "why the project exists")
	cmd.Flags().StringVar(&goal, "goal", "", "what done looks like")
	cmd.Flags().StringVar(&detailed, "detailed-plan", "", "steps of the plan")
	cmd.Flags().StringVar(&resources, "resources", "", "people, budget and tools")
	return cmd
}

func (c *cli) taskCmd() *cobra.Command {
	task := &cobra.Command{Use: "task", Short: "Manage project tasks"}
	task.AddCommand(c.taskListCmd(), c.taskAddCmd(), c.taskToggleCmd(), c.taskDeleteCmd())
	return task
}

func (c *cli) printTasks(ts []domain.Task) error {
	if c.jsonOutput() {
		return c.printJSON(ts)
	}
	rows := make([]table.Row, 0, len(ts))
	for _, t := range ts {
		done := "[ ]"
		if t.Completed {
			done = "[x]"
		}
		tool := ""
		if t.RecommendedTool != nil {
			tool = t.RecommendedTool.Name
		}
		rows = append(rows, table.Row{done, t.ID, shorten(t.Title, 60), tool})
	}
	c.printTable(table.Row{"", "ID", "Title", "Tool"}, rows)
	return nil
}

func (c *cli) taskListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
				id, err := c.projectID(ctx, app)
				if err != nil {
					return err
				}
				ts, err := app.Projects.Tasks(ctx, id)
				if err != nil {
					return err
				}
				return c.printTasks(ts)
			})
		},
	}
}

func (c *cli) taskAddCmd() *cobra.Command {
	var toolName, toolURL string
	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
				id, err := c.projectID(ctx, app)
				if err != nil {
					return err
				}
				var tool *domain.ToolRef
				if toolName != "" {
					tool = &domain.ToolRef{Name: toolName, URL: toolURL}
				}
				t, err := app.Projects.AddTask(ctx, id, strings.Join(args, " "), tool)
				if err != nil {
					return err
				}
				return c.printTasks([]domain.Task{t})
			})
		},
	}
	cmd.Flags().StringVar(&toolName, "tool", "", "recommended tool name")
	cmd.Flags().StringVar(&toolURL, "tool-url", "", "recommended tool URL")
	return cmd
}

func (c *cli) taskToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle TASK_ID",
		Short: "Flip a task between done and not done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
				id, err := c.projectID(ctx, app)
				if err != nil {
					return err
				}
				t, err := app.Projects.ToggleTask(ctx, id, domain.TaskID(args[0]))
				if err != nil {
					return err
				}
				return c.printTasks([]domain.Task{t})
			})
		},
	}
}

func (c *cli) taskDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete TASK_ID",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
				id, err := c.projectID(ctx, app)
				if err != nil {
					return err
				}
				if err := app.Projects.DeleteTask(ctx, id, domain.TaskID(args[0])); err != nil {
					return err
				}
				c.printf("deleted task %s\n", args[0])
				return nil
			})
		},
	}
}

func (c *cli) ganttCmd() *cobra.Command {
	gantt := &cobra.Command{Use: "gantt", Short: "Manage the project timeline"}
	gantt.AddCommand(c.ganttListCmd(), c.ganttAddCmd(), c.ganttDeleteCmd())
	return gantt
}

func (c *cli) printGantt(items []domain.GanttItem) error {
	if c.jsonOutput() {
		return c.printJSON(items)
	}
	rows := make([]table.Row, 0, len(items))
	for _, g := range items {
		rows = append(rows, table.Row{g.ID, shorten(g.Title, 50), g.StartDate, g.EndDate, g.Color})
	}
	c.printTable(table.Row{"ID", "Title", "Start", "End", "Color"}, rows)
	return nil
}

func (c *cli) ganttListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List gantt items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
				id, err := c.projectID(ctx, app)
				if err != nil {
					return err
				}
				items, err := app.Projects.Gantt(ctx, id)
				if err != nil {
					return err
				}
				return c.printGantt(items)
			})
		},
	}
}

func (c *cli) ganttAddCmd() *cobra.Command {
	var start, end, color string
	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Schedule a work item",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
				id, err := c.projectID(ctx, app)
				if err != nil {
					return err
				}
				item, err := app.Projects.AddGanttItem(ctx, id, domain.GanttItem{
					Title:     strings.Join(args, " "),
					StartDate: start,
					EndDate:   end,
					Color:     color,
				})
				if err != nil {
					return err
				}
				return c.printGantt([]domain.GanttItem{item})
			})
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "start date, YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "end date, YYYY-MM-DD")
	cmd.Flags().StringVar(&color, "color", "", "display color class")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func (c *cli) ganttDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ITEM_ID",
		Short: "Delete a gantt item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
				id, err := c.projectID(ctx, app)
				if err != nil {
					return err
				}
				if err := app.Projects.DeleteGanttItem(ctx, id, domain.GanttItemID(args[0])); err != nil {
					return err
				}
				c.printf("deleted gantt item %s\n", args[0])
				return nil
			})
		},
	}
}
