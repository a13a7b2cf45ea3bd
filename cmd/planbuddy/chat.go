package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/PabloGalante/planbuddy/internal/app/conversation"
	"github.com/PabloGalante/planbuddy/internal/bootstrap"
	"github.com/PabloGalante/planbuddy/internal/domain"
)

func (c *cli) chatCmd() *cobra.Command {
	chat := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the assistant on one of the project surfaces",
		Long:  "Surfaces: initiation, tool-search, tool-report, general.",
	}
	chat.AddCommand(c.chatSendCmd(), c.chatShowCmd())
	return chat
}

func parseSurface(s string) (domain.Surface, error) {
	sf, ok := domain.ParseSurface(s)
	if !ok {
		return "", fmt.Errorf("%w: unknown surface %q", domain.ErrInvalidInput, s)
	}
	return sf, nil
}

func (c *cli) chatSendCmd() *cobra.Command {
	var stream bool
	cmd := &cobra.Command{
		Use:   "send SURFACE MESSAGE",
		Short: "Send a message and print the reply",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			surface, err := parseSurface(args[0])
			if err != nil {
				return err
			}
			return c.withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
				id, err := c.projectID(ctx, app)
				if err != nil {
					return err
				}
				in := conversation.SendMessageInput{
					ProjectID: id,
					Surface:   surface,
					Text:      strings.Join(args[1:], " "),
				}

				if stream && !c.jsonOutput() {
					_, err := app.Conversations.StreamMessage(ctx, in, func(chunk string) error {
						c.printf("%s", chunk)
						return nil
					})
					c.printf("\n")
					return err
				}

				out, sendErr := app.Conversations.SendMessage(ctx, in)
				if out == nil {
					return sendErr
				}
				if c.jsonOutput() {
					if err := c.printJSON(out); err != nil {
						return err
					}
					return sendErr
				}
				c.printf("%s\n", out.AssistantTurn.Text)
				if out.Plan != nil {
					c.printf("\n(plan updated, see `planbuddy plan show`)\n")
				}
				if out.AddedTools > 0 {
					c.printf("\n(%d tool(s) added, see `planbuddy tools list`)\n", out.AddedTools)
				}
				return sendErr
			})
		},
	}
	cmd.Flags().BoolVar(&stream, "stream", false, "print the reply as it arrives (general surface only)")
	return cmd
}

func (c *cli) chatShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show SURFACE",
		Short: "Print the transcript of a surface",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			surface, err := parseSurface(args[0])
			if err != nil {
				return err
			}
			return c.withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
				id, err := c.projectID(ctx, app)
				if err != nil {
					return err
				}
				turns, err := app.Conversations.Transcript(ctx, id, surface)
				if err != nil {
					return err
				}
				if c.jsonOutput() {
					return c.printJSON(turns)
				}
				rows := make([]table.Row, 0, len(turns))
				for _, t := range turns {
					rows = append(rows, table.Row{t.CreatedAt.Format("15:04"), t.Role, shorten(t.Text, 90)})
				}
				c.printTable(table.Row{"Time", "Role", "Text"}, rows)
				return nil
			})
		},
	}
}
