package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"loom/internal/client"
)

func newHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the daemon health endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(c *client.Client) error {
				health, err := c.Health(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Status: %s (%d projects)\n", health.Status, health.Projects)
				return nil
			})
		},
	}
}
