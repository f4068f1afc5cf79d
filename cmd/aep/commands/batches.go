package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewBatchesCommand creates the batches command group
func NewBatchesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "batches",
		Aliases: []string{"batch"},
		Short:   "Manage import batches",
		Long:    "Create, upload to, and promote batch imports into datasets",
	}

	cmd.AddCommand(newBatchesListCommand())
	cmd.AddCommand(newBatchesGetCommand())
	cmd.AddCommand(newBatchesCreateCommand())
	cmd.AddCommand(newBatchesUploadCommand())
	cmd.AddCommand(newBatchesCompleteCommand())
	cmd.AddCommand(newBatchesAbortCommand())
	cmd.AddCommand(newBatchesRevertCommand())

	return cmd
}

func newBatchesListCommand() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List batches",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			filters := map[string]string{}
			if status != "" {
				filters["status"] = status
			}

			batches, err := client.Batches().List(context.Background(), filters)
			if err != nil {
				return fmt.Errorf("failed to list batches: %w", err)
			}

			output := viper.GetString("output")
			if output == OutputFormatJSON || output == OutputFormatYAML {
				return renderEncoded(batches, output)
			}

			if len(batches) == 0 {
				fmt.Println("No batches found")

				return nil
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("ID", "Status", "Created", "Updated")

			for _, batch := range batches {
				_ = table.Append(batch.ID, orNA(batch.Status), formatEpochMillis(batch.Created), formatEpochMillis(batch.Updated))
			}

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by batch status")

	return cmd
}

func newBatchesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get BATCH_ID",
		Short: "Get a batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			batch, err := client.Batches().Get(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get batch: %w", err)
			}

			output := viper.GetString("output")
			if output == OutputFormatJSON || output == OutputFormatYAML {
				return renderEncoded(batch, output)
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Property", "Value")
			_ = table.Append("ID", batch.ID)
			_ = table.Append("Status", orNA(batch.Status))
			_ = table.Append("Created", formatEpochMillis(batch.Created))
			_ = table.Append("Updated", formatEpochMillis(batch.Updated))

			for _, related := range batch.RelatedObjects {
				_ = table.Append("Related "+related.Type, related.ID)
			}

			for _, batchErr := range batch.Errors {
				_ = table.Append("Error "+batchErr.Code, batchErr.Description)
			}

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}

func newBatchesCreateCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "create DATASET_ID",
		Short: "Open a new import batch",
		Long:  "Open a new import batch targeting a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			batch, err := client.Batches().Create(context.Background(), args[0], format)
			if err != nil {
				return fmt.Errorf("failed to create batch: %w", err)
			}

			fmt.Printf("Successfully created batch '%s'\n", batch.ID)

			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "input file format (json, parquet)")

	return cmd
}

func newBatchesUploadCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "upload BATCH_ID DATASET_ID FILE",
		Short: "Upload a file into a batch",
		Long:  "Stream a local file into an open import batch",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			batchID, datasetID, path := args[0], args[1], args[2]

			file, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open file: %w", err)
			}
			defer func() { _ = file.Close() }()

			if name == "" {
				name = filepath.Base(path)
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			err = client.Batches().Upload(context.Background(), batchID, datasetID, name, file)
			if err != nil {
				return fmt.Errorf("failed to upload file: %w", err)
			}

			fmt.Printf("Successfully uploaded '%s' to batch '%s'\n", name, batchID)

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "remote file name (defaults to the local file name)")

	return cmd
}

func newBatchesCompleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "complete BATCH_ID",
		Short: "Complete a batch",
		Long:  "Signal that a batch is fully uploaded and ready for promotion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			if err := client.Batches().Complete(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to complete batch: %w", err)
			}

			fmt.Printf("Successfully completed batch '%s'\n", args[0])

			return nil
		},
	}
}

func newBatchesAbortCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "abort BATCH_ID",
		Short: "Abort a batch",
		Long:  "Cancel an in-progress import batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			if err := client.Batches().Abort(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to abort batch: %w", err)
			}

			fmt.Printf("Successfully aborted batch '%s'\n", args[0])

			return nil
		},
	}
}

func newBatchesRevertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "revert BATCH_ID",
		Short: "Revert a batch",
		Long:  "Remove a promoted batch from its dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			if err := client.Batches().Revert(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to revert batch: %w", err)
			}

			fmt.Printf("Successfully reverted batch '%s'\n", args[0])

			return nil
		},
	}
}
