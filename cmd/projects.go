/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mytherion/client/internal/validation"
	"github.com/mytherion/client/types"
	"github.com/spf13/cobra"
)

func newProjectsCmd(a *app) *cobra.Command {
	projectsCmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "Manage worldbuilding projects",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			return a.requireSession(cmd.Context())
		},
	}

	projectsCmd.AddCommand(
		newProjectsListCmd(a),
		newProjectsGetCmd(a),
		newProjectsCreateCmd(a),
		newProjectsUpdateCmd(a),
		newProjectsDeleteCmd(a),
		newProjectsStatsCmd(a),
	)
	return projectsCmd
}

func newProjectsListCmd(a *app) *cobra.Command {
	var page, size int

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List your projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.store.Projects.FetchProjects(cmd.Context(), page, size); err != nil {
				return err
			}
			state := a.store.Projects.State()
			renderProjects(a.out, state.Projects, state.Pagination)
			return nil
		},
	}

	listCmd.Flags().IntVar(&page, "page", types.DefaultPage, "zero-based page")
	listCmd.Flags().IntVar(&size, "size", types.DefaultPageSize, "page size")
	return listCmd
}

func newProjectsGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("project", args[0])
			if err != nil {
				return err
			}
			project, err := a.store.Projects.FetchProject(cmd.Context(), id)
			if err != nil {
				return err
			}
			renderProject(a.out, project)
			return nil
		},
	}
}

func newProjectsCreateCmd(a *app) *cobra.Command {
	var form validation.ProjectForm

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := form.Validate().Err(); err != nil {
				return err
			}
			project, err := a.store.Projects.CreateProject(cmd.Context(), form.CreateRequest())
			if err != nil {
				return err
			}
			a.printf("Created project %d %q.\n", project.ID, project.Name)
			return nil
		},
	}

	createCmd.Flags().StringVar(&form.Name, "name", "", "project name")
	createCmd.Flags().StringVar(&form.Description, "description", "", "optional synopsis")
	return createCmd
}

// newProjectsUpdateCmd edits a project the way the edit form does: the
// form is prefilled from the stored project and only changed fields are sent.
func newProjectsUpdateCmd(a *app) *cobra.Command {
	var name, description string

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("project", args[0])
			if err != nil {
				return err
			}
			current, err := a.store.Projects.FetchProject(cmd.Context(), id)
			if err != nil {
				return err
			}

			form := validation.ProjectFormOf(current)
			if cmd.Flags().Changed("name") {
				form.Name = name
			}
			if cmd.Flags().Changed("description") {
				form.Description = description
			}
			if err := form.Validate().Err(); err != nil {
				return err
			}

			req := form.UpdateRequest(current)
			if len(req.Fields()) == 0 {
				a.printf("Nothing to update.\n")
				return nil
			}
			project, err := a.store.Projects.UpdateProject(cmd.Context(), id, req)
			if err != nil {
				return err
			}
			a.printf("Updated project %d (%s).\n", project.ID, strings.Join(req.Fields(), ", "))
			return nil
		},
	}

	updateCmd.Flags().StringVar(&name, "name", "", "new name")
	updateCmd.Flags().StringVar(&description, "description", "", "new synopsis")
	return updateCmd
}

func newProjectsDeleteCmd(a *app) *cobra.Command {
	var yes bool

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project and all of its entities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("project", args[0])
			if err != nil {
				return err
			}
			if !yes && !a.confirm("Are you sure you want to delete this project? This will also delete all entities.") {
				a.printf("Aborted.\n")
				return nil
			}
			if err := a.store.Projects.DeleteProject(cmd.Context(), id); err != nil {
				return err
			}
			a.printf("Deleted project %d.\n", id)
			return nil
		},
	}

	deleteCmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation")
	return deleteCmd
}

func newProjectsStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <id>",
		Short: "Count a project's entities by type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("project", args[0])
			if err != nil {
				return err
			}
			stats, err := a.store.Projects.FetchProjectStats(cmd.Context(), id)
			if err != nil {
				return err
			}
			renderStats(a.out, stats)
			return nil
		},
	}
}

func parseID(kind, raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s id %q", kind, raw)
	}
	return id, nil
}
