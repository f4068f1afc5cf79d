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

// NewDatasetsCommand creates the datasets command group
func NewDatasetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "datasets",
		Aliases: []string{"dataset"},
		Short:   "Manage catalog datasets",
		Long:    "List, create, and manage catalog datasets",
	}

	cmd.AddCommand(newDatasetsListCommand())
	cmd.AddCommand(newDatasetsGetCommand())
	cmd.AddCommand(newDatasetsCreateCommand())
	cmd.AddCommand(newDatasetsUpdateCommand())
	cmd.AddCommand(newDatasetsDeleteCommand())

	return cmd
}

func newDatasetsListCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List datasets",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			filters := map[string]string{}
			if name != "" {
				filters["name"] = name
			}

			datasets, err := client.Datasets().List(context.Background(), filters)
			if err != nil {
				return fmt.Errorf("failed to list datasets: %w", err)
			}

			output := viper.GetString("output")
			if output == OutputFormatJSON || output == OutputFormatYAML {
				return renderEncoded(datasets, output)
			}

			if len(datasets) == 0 {
				fmt.Println("No datasets found")

				return nil
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Name", "ID", "State", "Schema", "Created")

			for _, dataset := range datasets {
				schemaRef := NotAvailable
				if dataset.SchemaRef != nil {
					schemaRef = dataset.SchemaRef.ID
				}

				_ = table.Append(dataset.Name, dataset.ID, orNA(dataset.State), schemaRef, formatEpochMillis(dataset.Created))
			}

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "filter by exact name")

	return cmd
}

func newDatasetsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get DATASET_ID",
		Short: "Get a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			dataset, err := client.Datasets().Get(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get dataset: %w", err)
			}

			output := viper.GetString("output")
			if output == OutputFormatJSON || output == OutputFormatYAML {
				return renderEncoded(dataset, output)
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Property", "Value")
			_ = table.Append("Name", dataset.Name)
			_ = table.Append("ID", dataset.ID)
			_ = table.Append("State", orNA(dataset.State))
			_ = table.Append("Created", formatEpochMillis(dataset.Created))
			_ = table.Append("Updated", formatEpochMillis(dataset.Updated))

			if dataset.SchemaRef != nil {
				_ = table.Append("Schema", dataset.SchemaRef.ID)
			}

			if dataset.Description != "" {
				_ = table.Append("Description", dataset.Description)
			}

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}

func newDatasetsCreateCommand() *cobra.Command {
	var (
		name        string
		description string
		schemaRef   string
		format      string
	)

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a dataset",
		Long:  "Create a catalog dataset bound to an XDM schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name = args[0]
			if schemaRef == "" {
				return ErrSchemaRequired
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			dataset, err := client.Datasets().Create(context.Background(), &aep.DatasetCreateRequest{
				Name:        name,
				Description: description,
				SchemaRef:   schemaRef,
				Format:      format,
			})
			if err != nil {
				return fmt.Errorf("failed to create dataset: %w", err)
			}

			fmt.Printf("Successfully created dataset '%s' (%s)\n", dataset.Name, dataset.ID)

			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "dataset description")
	cmd.Flags().StringVar(&schemaRef, "schema", "", "$id of the schema records conform to")
	cmd.Flags().StringVar(&format, "format", "", "file format for ingested data (parquet, json)")

	return cmd
}

func newDatasetsUpdateCommand() *cobra.Command {
	var (
		name        string
		description string
	)

	cmd := &cobra.Command{
		Use:   "update DATASET_ID",
		Short: "Update a dataset",
		Long:  "Update the name or description of a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changes := map[string]interface{}{}
			if name != "" {
				changes["name"] = name
			}

			if description != "" {
				changes["description"] = description
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			dataset, err := client.Datasets().Update(context.Background(), args[0], changes)
			if err != nil {
				return fmt.Errorf("failed to update dataset: %w", err)
			}

			fmt.Printf("Successfully updated dataset '%s'\n", dataset.Name)

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new dataset name")
	cmd.Flags().StringVar(&description, "description", "", "new dataset description")

	return cmd
}

func newDatasetsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete DATASET_ID",
		Short: "Delete a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			if err := client.Datasets().Delete(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to delete dataset: %w", err)
			}

			fmt.Printf("Successfully deleted dataset '%s'\n", args[0])

			return nil
		},
	}
}
