package commands

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/aepio/aep-client/pkg/aep"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRegistryCommand creates the registry command group
func NewRegistryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Registry-wide operations",
		Long:  "Operations spanning every resource type in the schema registry",
	}

	cmd.AddCommand(newRegistryStatsCommand())
	cmd.AddCommand(newRegistryGetCommand())
	cmd.AddCommand(newRegistryFindCommand())
	cmd.AddCommand(newRegistryExportGlobalsCommand())

	return cmd
}

func newRegistryStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Display registry statistics",
		Long:  "Display per-type resource counts for the organization",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			stats, err := client.GetStats(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get registry stats: %w", err)
			}

			output := viper.GetString("output")
			if output == OutputFormatJSON || output == OutputFormatYAML {
				return renderEncoded(stats, output)
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Property", "Value")
			_ = table.Append("Organization", stats.IMSOrg)
			_ = table.Append("Tenant", stats.TenantID)

			for kind, count := range stats.Counts {
				_ = table.Append(kind, fmt.Sprintf("%d", count))
			}

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}

func newRegistryGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get REF",
		Short: "Get any registry resource",
		Long:  "Get a resource of any type by its $id URI or meta:altId",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			resource, err := client.Ref(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get resource: %w", err)
			}

			output := viper.GetString("output")
			if output == OutputFormatJSON || output == OutputFormatYAML {
				return renderEncoded(resource, output)
			}

			return renderResourceDetail(resource)
		},
	}
}

func newRegistryFindCommand() *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "find",
		Short: "Find a resource by title",
		Long:  "Find exactly one resource of any type matching the given title",
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" {
				return ErrTitleRequired
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			resource, err := client.Registry().Find(context.Background(), aep.NewQueryParams().WithTitle(title))
			if err != nil {
				return fmt.Errorf("failed to find resource: %w", err)
			}

			output := viper.GetString("output")
			if output == OutputFormatJSON || output == OutputFormatYAML {
				return renderEncoded(resource, output)
			}

			return renderResourceDetail(resource)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "exact title to match")

	return cmd
}

func newRegistryExportGlobalsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export-globals",
		Short: "Export the global registry identifiers",
		Long:  "List the live global container for every resource type and print a uuid-to-reference table",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			globals, err := exportGlobals(context.Background(), client)
			if err != nil {
				return err
			}

			output := viper.GetString("output")
			if output == OutputFormatJSON || output == OutputFormatYAML {
				return renderEncoded(globals, output)
			}

			keys := make([]string, 0, len(globals))
			for key := range globals {
				keys = append(keys, key)
			}

			sort.Strings(keys)

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("UUID", "Reference")

			for _, key := range keys {
				_ = table.Append(key, globals[key])
			}

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}

// exportGlobals lists the global container for every resource type and
// returns the uuid-to-reference table in the same shape the library's
// embedded globals table uses.
func exportGlobals(ctx context.Context, client aep.Client) (map[string]string, error) {
	params := aep.NewQueryParams().WithFormat(aep.FormatID)
	globals := map[string]string{}

	add := func(typeName string, resource *aep.Resource) {
		uuid := strings.TrimPrefix(resource.ID, "_")
		if uuid == "" || resource.URI == "" {
			return
		}

		globals[uuid] = typeName + " " + resource.URI
	}

	schemas, err := client.GlobalSchemas().List(ctx, params.Clone())
	if err != nil {
		return nil, fmt.Errorf("failed to list global schemas: %w", err)
	}

	for _, schema := range schemas {
		add("schemas", &schema.Resource)
	}

	classes, err := client.GlobalClasses().List(ctx, params.Clone())
	if err != nil {
		return nil, fmt.Errorf("failed to list global classes: %w", err)
	}

	for _, class := range classes {
		add("classes", &class.Resource)
	}

	fieldGroups, err := client.GlobalFieldGroups().List(ctx, params.Clone())
	if err != nil {
		return nil, fmt.Errorf("failed to list global field groups: %w", err)
	}

	for _, fieldGroup := range fieldGroups {
		add("mixins", &fieldGroup.Resource)
	}

	dataTypes, err := client.GlobalDataTypes().List(ctx, params.Clone())
	if err != nil {
		return nil, fmt.Errorf("failed to list global data types: %w", err)
	}

	for _, dataType := range dataTypes {
		add("datatypes", &dataType.Resource)
	}

	behaviors, err := client.Behaviors().List(ctx, params.Clone())
	if err != nil {
		return nil, fmt.Errorf("failed to list behaviors: %w", err)
	}

	for _, behavior := range behaviors {
		add("behaviors", &behavior.Resource)
	}

	return globals, nil
}
