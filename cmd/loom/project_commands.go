package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"loom/internal/client"
)

func newProjectCommand(ctx *commandContext) *cobra.Command {
	projectCmd := &cobra.Command{
		Use:   "project",
		Short: "Manage interview projects",
		Long:  "Manage interview projects. Projects move through the statuses " + statusFlow() + ".",
	}

	projectCmd.AddCommand(newProjectListCommand(ctx))
	projectCmd.AddCommand(newProjectCreateCommand(ctx))
	projectCmd.AddCommand(newProjectShowCommand(ctx))
	projectCmd.AddCommand(newProjectDeleteCommand(ctx))
	projectCmd.AddCommand(newProjectUploadCommand(ctx))
	projectCmd.AddCommand(newProjectAudioCommand(ctx))

	return projectCmd
}

func newProjectListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(c *client.Client) error {
				projects, err := c.ListProjects(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(projects) == 0 {
					fmt.Fprintln(out, "No projects yet")
					return nil
				}
				rows := make([][]string, 0, len(projects))
				for _, p := range projects {
					rows = append(rows, []string{p.ID, p.Name, statusLabel(p.Status), agentLabel(p.CurrentAgent), p.CreatedAt})
				}
				fmt.Fprintln(out, renderTable([]string{"ID", "Name", "Status", "Agent", "Created"}, rows))
				return nil
			})
		},
	}
}

func newProjectCreateCommand(ctx *commandContext) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(c *client.Client) error {
				project, err := c.CreateProject(cmd.Context(), args[0], description)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created project %s (%s)\n", project.Name, project.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Project description")
	return cmd
}

func newProjectShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(c *client.Client) error {
				project, err := c.GetProject(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID:          %s\n", project.ID)
				fmt.Fprintf(out, "Name:        %s\n", project.Name)
				if project.Description != "" {
					fmt.Fprintf(out, "Description: %s\n", project.Description)
				}
				fmt.Fprintf(out, "Status:      %s\n", statusLabel(project.Status))
				fmt.Fprintf(out, "Agent:       %s\n", agentLabel(project.CurrentAgent))
				fmt.Fprintf(out, "Created:     %s\n", project.CreatedAt)
				fmt.Fprintf(out, "Updated:     %s\n", project.UpdatedAt)
				return nil
			})
		},
	}
}

func newProjectDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project and its stored data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(c *client.Client) error {
				if err := c.DeleteProject(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s\n", args[0])
				return nil
			})
		},
	}
}

func newProjectUploadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <id> <file>",
		Short: "Upload an interview recording to a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(c *client.Client) error {
				resp, err := c.UploadAudio(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s\n", resp.Filename)
				return nil
			})
		},
	}
}

func newProjectAudioCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "audio <id>",
		Short: "List a project's uploaded recordings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(c *client.Client) error {
				files, err := c.ListAudio(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(files) == 0 {
					fmt.Fprintln(out, "No recordings uploaded")
					return nil
				}
				rows := make([][]string, 0, len(files))
				for _, f := range files {
					duration := "-"
					if f.Duration != nil {
						duration = strconv.FormatFloat(*f.Duration, 'f', 1, 64) + "s"
					}
					rows = append(rows, []string{f.ID, f.Filename, duration})
				}
				fmt.Fprintln(out, renderTable([]string{"ID", "Filename", "Duration"}, rows, 3))
				return nil
			})
		},
	}
}
