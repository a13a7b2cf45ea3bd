package main

import (
	"context"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/PabloGalante/planbuddy/internal/bootstrap"
	"github.com/PabloGalante/planbuddy/internal/domain"
)

func (c *cli) toolsCmd() *cobra.Command {
	tools := &cobra.Command{Use: "tools", Short: "Show recommended tools"}
	tools.AddCommand(c.toolsListCmd(), c.toolsRecommendCmd())
	return tools
}

func (c *cli) printCustomTools(ts []domain.CustomTool) error {
	if c.jsonOutput() {
		return c.printJSON(ts)
	}
	rows := make([]table.Row, 0, len(ts))
	for _, t := range ts {
		rows = append(rows, table.Row{t.Category, t.Name, shorten(t.Description, 60), t.URL})
	}
	c.printTable(table.Row{"Category", "Tool", "Description", "URL"}, rows)
	return nil
}

func (c *cli) toolsListCmd() *cobra.Command {
	var custom bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tools found in the tool search chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
				id, err := c.projectID(ctx, app)
				if err != nil {
					return err
				}
				if custom {
					ts, err := app.Tools.Custom(ctx, id)
					if err != nil {
						return err
					}
					return c.printCustomTools(ts)
				}
				ts, err := app.Tools.Recommended(ctx, id)
				if err != nil {
					return err
				}
				if c.jsonOutput() {
					return c.printJSON(ts)
				}
				rows := make([]table.Row, 0, len(ts))
				for _, t := range ts {
					rows = append(rows, table.Row{t.Name, shorten(t.Description, 70), t.URL})
				}
				c.printTable(table.Row{"Tool", "Description", "URL"}, rows)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&custom, "custom", false, "list the project-wide recommendations instead")
	return cmd
}

func (c *cli) toolsRecommendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recommend",
		Short: "Ask for tools fitting the plan, timeline and tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
				id, err := c.projectID(ctx, app)
				if err != nil {
					return err
				}
				ts, err := app.Tools.RecommendCustom(ctx, id)
				if err != nil {
					return err
				}
				return c.printCustomTools(ts)
			})
		},
	}
}
