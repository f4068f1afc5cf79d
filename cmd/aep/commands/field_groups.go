package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/aepio/aep-client/pkg/aep"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewFieldGroupsCommand creates the field-groups command group
func NewFieldGroupsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "field-groups",
		Aliases: []string{"field-group", "fieldgroups"},
		Short:   "Manage XDM field groups",
		Long:    "List, create, and manage XDM field groups in the schema registry",
	}

	cmd.AddCommand(newFieldGroupsListCommand())
	cmd.AddCommand(newFieldGroupsGetCommand())
	cmd.AddCommand(newFieldGroupsCreateCommand())
	cmd.AddCommand(newFieldGroupsDeleteCommand())

	return cmd
}

func newFieldGroupsListCommand() *cobra.Command {
	var (
		title      string
		orderBy    string
		limit      int
		globalOnly bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List field groups",
		Long:  "List field groups in the tenant and global containers",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			collection := client.FieldGroups()
			if globalOnly {
				collection = client.GlobalFieldGroups()
			}

			fieldGroups, err := collection.List(context.Background(), buildListParams(title, orderBy, limit))
			if err != nil {
				return fmt.Errorf("failed to list field groups: %w", err)
			}

			output := viper.GetString("output")
			if output == OutputFormatJSON || output == OutputFormatYAML {
				return renderEncoded(fieldGroups, output)
			}

			resources := make([]*aep.Resource, 0, len(fieldGroups))
			for _, fieldGroup := range fieldGroups {
				resources = append(resources, &fieldGroup.Resource)
			}

			return renderResourceTable(resources)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "filter by exact title")
	cmd.Flags().StringVar(&orderBy, "order-by", "", "sort by a field, prefix with - for descending")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum results per page")
	cmd.Flags().BoolVar(&globalOnly, "global", false, "list only platform-defined field groups")

	return cmd
}

func newFieldGroupsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get REF",
		Short: "Get a field group",
		Long:  "Get a field group by its $id URI or meta:altId",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			fieldGroup, err := client.FieldGroups().Get(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get field group: %w", err)
			}

			output := viper.GetString("output")
			if output == OutputFormatJSON || output == OutputFormatYAML {
				return renderEncoded(fieldGroup, output)
			}

			return renderResourceDetail(&fieldGroup.Resource)
		},
	}
}

func newFieldGroupsCreateCommand() *cobra.Command {
	var (
		title          string
		description    string
		extends        []string
		propertiesFile string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a field group",
		Long:  "Create a tenant field group from a JSON property definition file",
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

			fieldGroup, err := client.FieldGroups().Create(context.Background(), &aep.FieldGroupCreateRequest{
				Title:            title,
				Description:      description,
				Properties:       properties,
				IntendedToExtend: extends,
			})
			if err != nil {
				return fmt.Errorf("failed to create field group: %w", err)
			}

			fmt.Printf("Successfully created field group '%s' (%s)\n", fieldGroup.Title, fieldGroup.ID)

			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "field group title")
	cmd.Flags().StringVar(&description, "description", "", "field group description")
	cmd.Flags().StringSliceVar(&extends, "extends", nil, "class $id the field group is intended to extend, repeatable")
	cmd.Flags().StringVar(&propertiesFile, "properties-file", "", "JSON file with the property definitions")

	return cmd
}

// loadProperties reads a JSON file containing a property map, the same shape
// the registry returns under "properties".
func loadProperties(path string) (map[string]aep.Property, error) {
	if path == "" {
		return nil, ErrPropertiesRequired
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read properties file: %w", err)
	}

	var properties map[string]aep.Property
	if err := json.Unmarshal(data, &properties); err != nil {
		return nil, fmt.Errorf("failed to parse properties file: %w", err)
	}

	return properties, nil
}

func newFieldGroupsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete REF",
		Short: "Delete a field group",
		Long:  "Delete a tenant field group from the registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			if err := client.FieldGroups().Delete(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to delete field group: %w", err)
			}

			fmt.Printf("Successfully deleted field group '%s'\n", args[0])

			return nil
		},
	}
}
