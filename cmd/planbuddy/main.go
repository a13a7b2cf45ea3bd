package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/PabloGalante/planbuddy/internal/bootstrap"
	"github.com/PabloGalante/planbuddy/internal/config"
	"github.com/PabloGalante/planbuddy/internal/domain"
	"github.com/PabloGalante/planbuddy/internal/observability"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// cli carries the flag values and the output writer shared by all commands.
type cli struct {
	v   *viper.Viper
	out io.Writer
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New(), out: os.Stdout}

	root := &cobra.Command{
		Use:   "planbuddy",
		Short: "PlanBuddy CLI",
		Long: `PlanBuddy turns conversations with an LLM into a project plan.
- Project: the unit everything else belongs to; one project is "current".
- Chat surfaces: initiation drafts the plan, tool-search collects tools,
  tool-report and general are free conversations.
- Plan: reason, goal, detailed plan and resources, merged from the initiation chat.
- Progress: tasks and gantt items you add yourself.
- Reports: Markdown work and completion reports kept per project.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			c.out = cmd.OutOrStdout()
		},
	}

	c.v.SetEnvPrefix(config.EnvPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	flags := root.PersistentFlags()
	flags.StringP("workspace", "w", ".", "workspace directory (holds .planbuddy/planbuddy.db)")
	flags.String("storage", config.StorageSQLite, "storage backend: sqlite, memory or firestore")
	flags.StringP("project", "p", "", "project id (defaults to the current project)")
	flags.Bool("json", false, "output JSON")
	flags.BoolP("verbose", "v", false, "log at the configured level instead of warn")
	for _, name := range []string{"workspace", "storage", "project", "json", "verbose"} {
		_ = c.v.BindPFlag(name, flags.Lookup(name))
	}

	root.AddCommand(
		c.projectCmd(),
		c.chatCmd(),
		c.planCmd(),
		c.taskCmd(),
		c.ganttCmd(),
		c.toolsCmd(),
		c.reportCmd(),
		c.seedCmd(),
		c.debugCmd(),
	)
	return root
}

// withApp loads the environment config, applies the CLI flags and runs fn
// against a fully wired application.
func (c *cli) withApp(ctx context.Context, fn func(context.Context, *bootstrap.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.Workspace = c.v.GetString("workspace")
	cfg.StorageBackend = strings.ToLower(c.v.GetString("storage"))
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := "warn"
	if c.v.GetBool("verbose") {
		level = cfg.LogLevel
	}
	observability.Configure(os.Stderr, level)

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(ctx, app)
}

// projectID returns --project or the current project.
func (c *cli) projectID(ctx context.Context, app *bootstrap.App) (domain.ProjectID, error) {
	if id := c.v.GetString("project"); id != "" {
		return domain.ProjectID(id), nil
	}
	p, err := app.Projects.Current(ctx)
	if err != nil {
		return "", err
	}
	return p.ID, nil
}

func (c *cli) jsonOutput() bool {
	return c.v.GetBool("json")
}

func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *cli) printTable(header table.Row, rows []table.Row) {
	tw := table.NewWriter()
	tw.SetOutputMirror(c.out)
	tw.AppendHeader(header)
	tw.AppendRows(rows)
	tw.SetStyle(table.StyleLight)
	tw.Render()
}

// printMarkdown renders md for the terminal, or prints v as JSON with --json.
func (c *cli) printMarkdown(md string, v any) error {
	if c.jsonOutput() {
		return c.printJSON(v)
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return err
	}
	out, err := r.Render(md)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(c.out, out)
	return err
}

func (c *cli) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
