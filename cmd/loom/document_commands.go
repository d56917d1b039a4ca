package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"loom/internal/client"
)

func newDialogueCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "dialogue <id>",
		Short: "Show a project's cleaned transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(c *client.Client) error {
				raw, err := c.Dialogue(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd, raw)
			})
		},
	}
}

func newBlueprintCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "blueprint <id>",
		Short: "Show a project's latest narrative blueprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(c *client.Client) error {
				raw, err := c.Blueprint(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd, raw)
			})
		},
	}
}

func newArticleCommand(ctx *commandContext) *cobra.Command {
	var markdown bool

	cmd := &cobra.Command{
		Use:   "article <id>",
		Short: "Show a project's latest article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(c *client.Client) error {
				if markdown {
					body, err := c.ArticleMarkdown(cmd.Context(), args[0])
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), body)
					return nil
				}
				article, err := c.Article(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				encoded, err := json.Marshal(article)
				if err != nil {
					return fmt.Errorf("encode article: %w", err)
				}
				return printJSON(cmd, encoded)
			})
		},
	}

	cmd.Flags().BoolVarP(&markdown, "markdown", "m", false, "Print the raw markdown body only")
	return cmd
}

func printJSON(cmd *cobra.Command, raw []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("format response: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), buf.String())
	return nil
}
