package commands

import (
	"context"
	"fmt"

	"github.com/aepio/aep-client/pkg/aep"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewDataTypesCommand creates the data-types command group
func NewDataTypesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "data-types",
		Aliases: []string{"data-type", "datatypes"},
		Short:   "Manage XDM data types",
		Long:    "List, create, and manage XDM data types in the schema registry",
	}

	cmd.AddCommand(newDataTypesListCommand())
	cmd.AddCommand(newDataTypesGetCommand())
	cmd.AddCommand(newDataTypesCreateCommand())
	cmd.AddCommand(newDataTypesDeleteCommand())

	return cmd
}

func newDataTypesListCommand() *cobra.Command {
	var (
		title      string
		orderBy    string
		limit      int
		globalOnly bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List data types",
		Long:  "List data types in the tenant and global containers",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			collection := client.DataTypes()
			if globalOnly {
				collection = client.GlobalDataTypes()
			}

			dataTypes, err := collection.List(context.Background(), buildListParams(title, orderBy, limit))
			if err != nil {
				return fmt.Errorf("failed to list data types: %w", err)
			}

			output := viper.GetString("output")
			if output == OutputFormatJSON || output == OutputFormatYAML {
				return renderEncoded(dataTypes, output)
			}

			resources := make([]*aep.Resource, 0, len(dataTypes))
			for _, dataType := range dataTypes {
				resources = append(resources, &dataType.Resource)
			}

			return renderResourceTable(resources)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "filter by exact title")
	cmd.Flags().StringVar(&orderBy, "order-by", "", "sort by a field, prefix with - for descending")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum results per page")
	cmd.Flags().BoolVar(&globalOnly, "global", false, "list only platform-defined data types")

	return cmd
}

func newDataTypesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get REF",
		Short: "Get a data type",
		Long:  "Get a data type by its $id URI or meta:altId",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			dataType, err := client.DataTypes().Get(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get data type: %w", err)
			}

			output := viper.GetString("output")
			if output == OutputFormatJSON || output == OutputFormatYAML {
				return renderEncoded(dataType, output)
			}

			return renderResourceDetail(&dataType.Resource)
		},
	}
}

func newDataTypesCreateCommand() *cobra.Command {
	var (
		title          string
		description    string
		propertiesFile string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a data type",
		Long:  "Create a tenant data type from a JSON property definition file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" {
				return ErrTitleRequired
			}

			properties, err := loadProperties(propertiesFile)
			if err != nil {
				return err
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			dataType, err := client.DataTypes().Create(context.Background(), &aep.DataTypeCreateRequest{
				Title:       title,
				Description: description,
				Properties:  properties,
			})
			if err != nil {
				return fmt.Errorf("failed to create data type: %w", err)
			}

			fmt.Printf("Successfully created data type '%s' (%s)\n", dataType.Title, dataType.ID)

			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "data type title")
	cmd.Flags().StringVar(&description, "description", "", "data type description")
	cmd.Flags().StringVar(&propertiesFile, "properties-file", "", "JSON file with the property definitions")

	return cmd
}

func newDataTypesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete REF",
		Short: "Delete a data type",
		Long:  "Delete a tenant data type from the registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			if err := client.DataTypes().Delete(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to delete data type: %w", err)
			}

			fmt.Printf("Successfully deleted data type '%s'\n", args[0])

			return nil
		},
	}
}
