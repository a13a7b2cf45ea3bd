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

func (c *cli) projectCmd() *cobra.Command {
	prj := &cobra.Command{Use: "project", Short: "Manage projects"}
	prj.AddCommand(
		c.projectListCmd(),
		c.projectCreateCmd(),
		c.projectUseCmd(),
		c.projectRenameCmd(),
		c.projectDeleteCmd(),
		c.projectStatusCmd(),
	)
	return prj
}

func (c *cli) projectListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
				ps, err := app.Projects.List(ctx)
				if err != nil {
					return err
				}
				if c.jsonOutput() {
					return c.printJSON(ps)
				}
				cur, err := app.Projects.Current(ctx)
				if err != nil {
					return err
				}
				rows := make([]table.Row, 0, len(ps))
				for _, p := range ps {
					mark := ""
					if p.ID == cur.ID {
						mark = "*"
					}
					result := ""
					if p.Result != nil {
						result = string(*p.Result)
					}
					rows = append(rows, table.Row{mark, p.ID, p.Name, p.Status, result, p.UpdatedAt.Format("2006-01-02 15:04")})
				}
				c.printTable(table.Row{"", "ID", "Name", "Status", "Result", "Updated"}, rows)
				return nil
			})
		},
	}
}

func (c *cli) projectCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create NAME",
		Short: "Create a project and make it current",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
				p, err := app.Projects.Create(ctx, strings.Join(args, " "))
				if err != nil {
					return err
				}
				return c.printProject(p, "created")
			})
		},
	}
}

func (c *cli) projectUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use ID",
		Short: "Set the current project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
				p, err := app.Projects.Use(ctx, domain.ProjectID(args[0]))
				if err != nil {
					return err
				}
				return c.printProject(p, "now using")
			})
		},
	}
}

func (c *cli) projectRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename ID NAME",
		Short: "Rename a project",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
				p, err := app.Projects.Rename(ctx, domain.ProjectID(args[0]), strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				return c.printProject(p, "renamed")
			})
		},
	}
}

func (c *cli) projectDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a project and all its data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
				if err := app.Projects.Delete(ctx, domain.ProjectID(args[0])); err != nil {
					return err
				}
				c.printf("deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func (c *cli) projectStatusCmd() *cobra.Command {
	var result string
	cmd := &cobra.Command{
		Use:   "status STATUS",
		Short: "Move the project to initiation, progress, completion or archived",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
				id, err := c.projectID(ctx, app)
				if err != nil {
					return err
				}
				var res *domain.ProjectResult
				if result != "" {
					r := domain.ProjectResult(result)
					res = &r
				}
				p, err := app.Projects.Transition(ctx, id, domain.ProjectStatus(args[0]), res)
				if err != nil {
					return err
				}
				return c.printProject(p, "status updated")
			})
		},
	}
	cmd.Flags().StringVar(&result, "result", "", "success or failure (required when archiving)")
	return cmd
}

func (c *cli) printProject(p domain.Project, verb string) error {
	if c.jsonOutput() {
		return c.printJSON(p)
	}
	c.printf("%s %s (%s) [%s]\n", verb, p.Name, p.ID, p.Status)
	return nil
}

// shorten keeps table cells on one line.
func shorten(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len([]rune(s)) <= n {
		return s
	}
	return fmt.Sprintf("%s...", string([]rune(s)[:n-3]))
}
