package commands

import (
	"context"
	"fmt"

	"github.com/aepio/aep-client/pkg/aep"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewBehaviorsCommand creates the behaviors command group
func NewBehaviorsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "behaviors",
		Aliases: []string{"behavior"},
		Short:   "Inspect data behaviors",
		Long:    "List and inspect the platform-defined data behaviors",
	}

	cmd.AddCommand(newBehaviorsListCommand())
	cmd.AddCommand(newBehaviorsGetCommand())

	return cmd
}

func newBehaviorsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List data behaviors",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			behaviors, err := client.Behaviors().List(context.Background(), aep.NewQueryParams())
			if err != nil {
				return fmt.Errorf("failed to list behaviors: %w", err)
			}

			output := viper.GetString("output")
			if output == OutputFormatJSON || output == OutputFormatYAML {
				return renderEncoded(behaviors, output)
			}

			resources := make([]*aep.Resource, 0, len(behaviors))
			for _, behavior := range behaviors {
				resources = append(resources, &behavior.Resource)
			}

			return renderResourceTable(resources)
		},
	}
}

func newBehaviorsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get REF",
		Short: "Get a data behavior",
		Long:  "Get a data behavior by its $id URI or meta:altId",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			behavior, err := client.Behaviors().Get(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get behavior: %w", err)
			}

			output := viper.GetString("output")
			if output == OutputFormatJSON || output == OutputFormatYAML {
				return renderEncoded(behavior, output)
			}

			return renderResourceDetail(&behavior.Resource)
		},
	}
}
