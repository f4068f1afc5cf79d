package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/aepio/aep-client/pkg/aep"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewSchemasCommand creates the schemas command group
func NewSchemasCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "schemas",
		Aliases: []string{"schema"},
		Short:   "Manage XDM schemas",
		Long:    "List, create, and manage XDM schemas in the schema registry",
	}

	cmd.AddCommand(newSchemasListCommand())
	cmd.AddCommand(newSchemasGetCommand())
	cmd.AddCommand(newSchemasCreateCommand())
	cmd.AddCommand(newSchemasAddFieldGroupCommand())
	cmd.AddCommand(newSchemasFieldsCommand())
	cmd.AddCommand(newSchemasDeleteCommand())

	return cmd
}

func newSchemasListCommand() *cobra.Command {
	var (
		title      string
		orderBy    string
		limit      int
		globalOnly bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List schemas",
		Long:  "List schemas in the tenant and global containers",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := context.Background()
			params := buildListParams(title, orderBy, limit)

			collection := client.Schemas()
			if globalOnly {
				collection = client.GlobalSchemas()
			}

			schemas, err := collection.List(ctx, params)
			if err != nil {
				return fmt.Errorf("failed to list schemas: %w", err)
			}

			output := viper.GetString("output")
			if output == OutputFormatJSON || output == OutputFormatYAML {
				return renderEncoded(schemas, output)
			}

			resources := make([]*aep.Resource, 0, len(schemas))
			for _, schema := range schemas {
				resources = append(resources, &schema.Resource)
			}

			return renderResourceTable(resources)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "filter by exact title")
	cmd.Flags().StringVar(&orderBy, "order-by", "", "sort by a field, prefix with - for descending")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum results per page")
	cmd.Flags().BoolVar(&globalOnly, "global", false, "list only platform-defined schemas")

	return cmd
}

func newSchemasGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get REF",
		Short: "Get a schema",
		Long:  "Get a schema by its $id URI or meta:altId",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			schema, err := client.Schemas().Get(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get schema: %w", err)
			}

			output := viper.GetString("output")
			if output == OutputFormatJSON || output == OutputFormatYAML {
				return renderEncoded(schema, output)
			}

			return renderResourceDetail(&schema.Resource)
		},
	}
}

func newSchemasCreateCommand() *cobra.Command {
	var (
		title       string
		description string
		parent      string
		fieldGroups []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a schema",
		Long:  "Create a tenant schema composed from a parent class and field groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" {
				return ErrTitleRequired
			}

			if parent == "" {
				return ErrParentRequired
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			schema, err := client.Schemas().Create(context.Background(), &aep.SchemaCreateRequest{
				Title:       title,
				Description: description,
				Parent:      parent,
				FieldGroups: fieldGroups,
			})
			if err != nil {
				return fmt.Errorf("failed to create schema: %w", err)
			}

			fmt.Printf("Successfully created schema '%s' (%s)\n", schema.Title, schema.ID)

			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "schema title")
	cmd.Flags().StringVar(&description, "description", "", "schema description")
	cmd.Flags().StringVar(&parent, "parent", "", "parent class $id or meta:altId")
	cmd.Flags().StringSliceVar(&fieldGroups, "field-group", nil, "field group to compose, repeatable")

	return cmd
}

func newSchemasAddFieldGroupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add-field-group SCHEMA_REF FIELD_GROUP_REF",
		Short: "Add a field group to a schema",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			schema, err := client.Schemas().AddFieldGroup(context.Background(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to add field group: %w", err)
			}

			fmt.Printf("Successfully updated schema '%s'\n", schema.Title)

			return nil
		},
	}
}

func newSchemasFieldsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fields SCHEMA_REF",
		Short: "List the resolved fields of a schema",
		Long:  "List the flattened field map of a schema with composition resolved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			fields, err := client.Schemas().Fields(args[0]).List(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list schema fields: %w", err)
			}

			output := viper.GetString("output")
			if output == OutputFormatJSON || output == OutputFormatYAML {
				return renderEncoded(fields, output)
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Field", "Type", "Title")

			for name, property := range fields {
				_ = table.Append(name, string(property.Type), orNA(property.Title))
			}

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}

func newSchemasDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete REF",
		Short: "Delete a schema",
		Long:  "Delete a tenant schema from the registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			if err := client.Schemas().Delete(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to delete schema: %w", err)
			}

			fmt.Printf("Successfully deleted schema '%s'\n", args[0])

			return nil
		},
	}
}
