package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"loom/internal/client"
	"loom/internal/lifecycle"
)

var triggerSummaries = map[lifecycle.Trigger]string{
	lifecycle.TriggerTranscribe: "Dispatch the audio processing agent for a project",
	lifecycle.TriggerPlan:       "Dispatch the planning agent for a project",
	lifecycle.TriggerWrite:      "Dispatch the writing agent for a project",
}

func newTriggerCommands(ctx *commandContext) []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(lifecycle.AllTriggers()))
	for _, trigger := range lifecycle.AllTriggers() {
		trigger := trigger
		cmds = append(cmds, &cobra.Command{
			Use:   fmt.Sprintf("%s <id>", trigger),
			Short: triggerSummaries[trigger],
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return ctx.withClient(func(c *client.Client) error {
					resp, err := c.Trigger(cmd.Context(), args[0], string(trigger))
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s (status: %s)\n", resp.Message, statusLabel(resp.Status))
					return nil
				})
			},
		})
	}
	return cmds
}
