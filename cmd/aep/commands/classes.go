package commands

import (
	"context"
	"fmt"

	"github.com/aepio/aep-client/pkg/aep"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewClassesCommand creates the classes command group
func NewClassesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "classes",
		Aliases: []string{"class"},
		Short:   "Manage XDM classes",
		Long:    "List, create, and manage XDM classes in the schema registry",
	}

	cmd.AddCommand(newClassesListCommand())
	cmd.AddCommand(newClassesGetCommand())
	cmd.AddCommand(newClassesCreateCommand())
	cmd.AddCommand(newClassesDeleteCommand())

	return cmd
}

func newClassesListCommand() *cobra.Command {
	var (
		title      string
		orderBy    string
		limit      int
		globalOnly bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List classes",
		Long:  "List classes in the tenant and global containers",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			collection := client.Classes()
			if globalOnly {
				collection = client.GlobalClasses()
			}

			classes, err := collection.List(context.Background(), buildListParams(title, orderBy, limit))
			if err != nil {
				return fmt.Errorf("failed to list classes: %w", err)
			}

			output := viper.GetString("output")
			if output == OutputFormatJSON || output == OutputFormatYAML {
				return renderEncoded(classes, output)
			}

			resources := make([]*aep.Resource, 0, len(classes))
			for _, class := range classes {
				resources = append(resources, &class.Resource)
			}

			return renderResourceTable(resources)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "filter by exact title")
	cmd.Flags().StringVar(&orderBy, "order-by", "", "sort by a field, prefix with - for descending")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum results per page")
	cmd.Flags().BoolVar(&globalOnly, "global", false, "list only platform-defined classes")

	return cmd
}

func newClassesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get REF",
		Short: "Get a class",
		Long:  "Get a class by its $id URI or meta:altId",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			class, err := client.Classes().Get(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get class: %w", err)
			}

			output := viper.GetString("output")
			if output == OutputFormatJSON || output == OutputFormatYAML {
				return renderEncoded(class, output)
			}

			return renderResourceDetail(&class.Resource)
		},
	}
}

func newClassesCreateCommand() *cobra.Command {
	var (
		title       string
		description string
		behavior    string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a class",
		Long:  "Create a tenant class built on one of the platform behaviors",
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" {
				return ErrTitleRequired
			}

			if behavior == "" {
				return ErrBehaviorRequired
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			behaviorRef, err := resolveBehaviorRef(client, behavior)
			if err != nil {
				return err
			}

			class, err := client.Classes().Create(context.Background(), &aep.ClassCreateRequest{
				Title:       title,
				Description: description,
				Behavior:    behaviorRef,
			})
			if err != nil {
				return fmt.Errorf("failed to create class: %w", err)
			}

			fmt.Printf("Successfully created class '%s' (%s)\n", class.Title, class.ID)

			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "class title")
	cmd.Flags().StringVar(&description, "description", "", "class description")
	cmd.Flags().StringVar(&behavior, "behavior", "", "data behavior (adhoc, record, time-series) or a behavior $id")

	return cmd
}

// resolveBehaviorRef accepts either a behavior short name or a full $id URI.
func resolveBehaviorRef(client aep.Client, behavior string) (string, error) {
	switch behavior {
	case "adhoc":
		return client.Behaviors().Adhoc().URI, nil
	case "record":
		return client.Behaviors().Record().URI, nil
	case "time-series":
		return client.Behaviors().TimeSeries().URI, nil
	}

	if _, err := aep.ParseRef(behavior); err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownBehavior, behavior)
	}

	return behavior, nil
}

func newClassesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete REF",
		Short: "Delete a class",
		Long:  "Delete a tenant class from the registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			if err := client.Classes().Delete(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to delete class: %w", err)
			}

			fmt.Printf("Successfully deleted class '%s'\n", args[0])

			return nil
		},
	}
}
