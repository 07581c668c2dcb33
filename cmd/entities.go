/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"strings"

	"github.com/mytherion/client/internal/validation"
	"github.com/mytherion/client/types"
	"github.com/spf13/cobra"
)

func newEntitiesCmd(a *app) *cobra.Command {
	entitiesCmd := &cobra.Command{
		Use:     "entities",
		Aliases: []string{"entity"},
		Short:   "Manage the entities of a project",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			return a.requireSession(cmd.Context())
		},
	}

	entitiesCmd.AddCommand(
		newEntitiesListCmd(a),
		newEntitiesGetCmd(a),
		newEntitiesCreateCmd(a),
		newEntitiesUpdateCmd(a),
		newEntitiesDeleteCmd(a),
	)
	return entitiesCmd
}

func newEntitiesListCmd(a *app) *cobra.Command {
	var (
		page, size int
		entityType string
		tags       []string
		search     string
	)

	listCmd := &cobra.Command{
		Use:   "list <project-id>",
		Short: "List a project's entities",
		Long: `List a project's entities. Filters combine; an entity has to carry every
requested tag. Inside the shell the filters stick until "--clear".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID("project", args[0])
			if err != nil {
				return err
			}

			entities := a.store.Entities
			if reset, _ := cmd.Flags().GetBool("clear"); reset {
				entities.ClearFilters()
			}
			if cmd.Flags().Changed("type") || cmd.Flags().Changed("tag") || cmd.Flags().Changed("search") {
				filters := entities.State().Filters
				if cmd.Flags().Changed("type") {
					filters.Type = ""
					if strings.TrimSpace(entityType) != "" {
						if filters.Type, err = types.ParseEntityType(entityType); err != nil {
							return err
						}
					}
				}
				if cmd.Flags().Changed("tag") {
					filters.Tags = tags
				}
				if cmd.Flags().Changed("search") {
					filters.Search = search
				}
				entities.SetFilters(filters)
			}

			state := entities.State()
			if _, err := entities.FetchEntities(cmd.Context(), state.Query(projectID, page, size)); err != nil {
				return err
			}
			state = entities.State()
			renderEntities(a.out, state.Entities, state.Pagination, !state.Filters.Empty())
			return nil
		},
	}

	listCmd.Flags().IntVar(&page, "page", types.DefaultPage, "zero-based page")
	listCmd.Flags().IntVar(&size, "size", types.DefaultPageSize, "page size")
	listCmd.Flags().StringVar(&entityType, "type", "", "only this type (CHARACTER, LOCATION, ORGANIZATION, SPECIES, CULTURE, ITEM)")
	listCmd.Flags().StringSliceVar(&tags, "tag", nil, "only entities carrying this tag (repeatable)")
	listCmd.Flags().StringVar(&search, "search", "", "match name, summary or description")
	listCmd.Flags().Bool("clear", false, "drop the filters kept from earlier listings")
	return listCmd
}

func newEntitiesGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("entity", args[0])
			if err != nil {
				return err
			}
			entity, err := a.store.Entities.FetchEntity(cmd.Context(), id)
			if err != nil {
				return err
			}
			renderEntity(a.out, entity)
			return nil
		},
	}
}

// entityFlags binds the editable entity fields. Tags go through a TagSet
// so duplicates and over-long tags are reported the way the tag input does.
type entityFlags struct {
	entityType  string
	name        string
	summary     string
	description string
	tags        []string
	metadata    string
}

func (f *entityFlags) bind(cmd *cobra.Command, withType bool) {
	if withType {
		cmd.Flags().StringVar(&f.entityType, "type", "", "entity type (CHARACTER, LOCATION, ORGANIZATION, SPECIES, CULTURE, ITEM)")
	}
	cmd.Flags().StringVar(&f.name, "name", "", "entity name")
	cmd.Flags().StringVar(&f.summary, "summary", "", "short summary (up to 1000 characters)")
	cmd.Flags().StringVar(&f.description, "description", "", "long-form description")
	cmd.Flags().StringArrayVar(&f.tags, "tag", nil, "tag (repeatable)")
	cmd.Flags().StringVar(&f.metadata, "metadata", "", "opaque JSON metadata")
}

func (f *entityFlags) tagSet() (*validation.TagSet, error) {
	set := validation.NewTagSet(validation.DefaultMaxTagLength)
	for _, tag := range f.tags {
		if err := set.Add(tag); err != nil {
			return nil, validation.Errors{"tags": err.Error()}
		}
	}
	return set, nil
}

func newEntitiesCreateCmd(a *app) *cobra.Command {
	var flags entityFlags

	createCmd := &cobra.Command{
		Use:   "create <project-id>",
		Short: "Create an entity in a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID("project", args[0])
			if err != nil {
				return err
			}
			tags, err := flags.tagSet()
			if err != nil {
				return err
			}

			form := validation.EntityForm{
				Type:        types.EntityType(strings.ToUpper(strings.TrimSpace(flags.entityType))),
				Name:        flags.name,
				Summary:     flags.summary,
				Description: flags.description,
				Tags:        tags.Tags(),
				Metadata:    flags.metadata,
			}
			if err := form.Validate().Err(); err != nil {
				return err
			}

			entity, err := a.store.Entities.CreateEntity(cmd.Context(), projectID, form.CreateRequest())
			if err != nil {
				return err
			}
			a.printf("Created %s %d %q.\n", strings.ToLower(string(entity.Type)), entity.ID, entity.Name)
			return nil
		},
	}

	flags.bind(createCmd, true)
	return createCmd
}

// newEntitiesUpdateCmd prefills the form from the stored entity and sends
// only the changed fields. The type cannot be changed.
func newEntitiesUpdateCmd(a *app) *cobra.Command {
	var flags entityFlags

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit an entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("entity", args[0])
			if err != nil {
				return err
			}
			current, err := a.store.Entities.FetchEntity(cmd.Context(), id)
			if err != nil {
				return err
			}

			form := validation.EntityFormOf(current)
			changed := cmd.Flags().Changed
			if changed("name") {
				form.Name = flags.name
			}
			if changed("summary") {
				form.Summary = flags.summary
			}
			if changed("description") {
				form.Description = flags.description
			}
			if changed("metadata") {
				form.Metadata = flags.metadata
			}
			if changed("tag") {
				tags, err := flags.tagSet()
				if err != nil {
					return err
				}
				form.Tags = tags.Tags()
			}
			if err := form.Validate().Err(); err != nil {
				return err
			}

			req := form.UpdateRequest(current)
			if len(req.Fields()) == 0 {
				a.printf("Nothing to update.\n")
				return nil
			}
			entity, err := a.store.Entities.UpdateEntity(cmd.Context(), id, req)
			if err != nil {
				return err
			}
			a.printf("Updated entity %d (%s).\n", entity.ID, strings.Join(req.Fields(), ", "))
			return nil
		},
	}

	flags.bind(updateCmd, false)
	return updateCmd
}

func newEntitiesDeleteCmd(a *app) *cobra.Command {
	var yes bool

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("entity", args[0])
			if err != nil {
				return err
			}
			if !yes && !a.confirm("Are you sure you want to delete this entity?") {
				a.printf("Aborted.\n")
				return nil
			}
			if err := a.store.Entities.DeleteEntity(cmd.Context(), id); err != nil {
				return err
			}
			a.printf("Deleted entity %d.\n", id)
			return nil
		},
	}

	deleteCmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation")
	return deleteCmd
}
