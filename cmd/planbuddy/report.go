package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PabloGalante/planbuddy/internal/bootstrap"
	"github.com/PabloGalante/planbuddy/internal/domain"
)

func (c *cli) reportCmd() *cobra.Command {
	rep := &cobra.Command{Use: "report", Short: "Generate and read project reports"}
	rep.AddCommand(c.reportWorkCmd(), c.reportCompletionCmd(), c.reportHistoryCmd())
	return rep
}

func (c *cli) reportWorkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "work",
		Short: "Summarize the initiation chat and the plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
				id, err := c.projectID(ctx, app)
				if err != nil {
					return err
				}
				rep, err := app.Reports.WorkReport(ctx, id)
				if err != nil {
					return err
				}
				return c.printMarkdown(rep.Markdown, rep)
			})
		},
	}
}

func (c *cli) reportCompletionCmd() *cobra.Command {
	var result, notes string
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Write the closing report for a finished project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
				id, err := c.projectID(ctx, app)
				if err != nil {
					return err
				}
				rep, err := app.Reports.CompletionReport(ctx, id, domain.ProjectResult(result), notes)
				if err != nil {
					return err
				}
				return c.printMarkdown(rep.Markdown, rep)
			})
		},
	}
	cmd.Flags().StringVar(&result, "result", "", "success or failure")
	cmd.Flags().StringVar(&notes, "notes", "", "what happened, in your words")
	_ = cmd.MarkFlagRequired("result")
	return cmd
}

func (c *cli) reportHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print past reports, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
				id, err := c.projectID(ctx, app)
				if err != nil {
					return err
				}
				reps, err := app.Reports.History(ctx, id, limit)
				if err != nil {
					return err
				}
				var b strings.Builder
				for _, r := range reps {
					fmt.Fprintf(&b, "# %s report, %s\n\n%s\n\n---\n\n", r.Kind, r.CreatedAt.Format("2006-01-02 15:04"), r.Markdown)
				}
				if len(reps) == 0 {
					b.WriteString("_No reports yet._\n")
				}
				return c.printMarkdown(b.String(), reps)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "number of reports (default 20)")
	return cmd
}

func (c *cli) seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo projects (existing ones are left alone)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
				n, err := app.Projects.Seed(ctx)
				if err != nil {
					return err
				}
				if c.jsonOutput() {
					return c.printJSON(map[string]int{"seeded": n})
				}
				c.printf("seeded %d project(s)\n", n)
				return nil
			})
		},
	}
}

func (c *cli) debugCmd() *cobra.Command {
	dbg := &cobra.Command{Use: "debug", Short: "Inspect the raw store", Hidden: true}
	dbg.AddCommand(&cobra.Command{
		Use:   "keys [PREFIX]",
		Short: "List stored keys",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}
			return c.withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
				keys, err := app.Repo.Keys(ctx, prefix)
				if err != nil {
					return err
				}
				if c.jsonOutput() {
					return c.printJSON(keys)
				}
				for _, k := range keys {
					c.printf("%s\n", k)
				}
				return nil
			})
		},
	})
	return dbg
}
