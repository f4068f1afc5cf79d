package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/aepio/aep-client/internal/constants"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk CLI configuration, stored at ~/.aep/config.yml.
type Config struct {
	Endpoint        string   `yaml:"endpoint,omitempty"`
	Sandbox         string   `yaml:"sandbox,omitempty"`
	Output          string   `yaml:"output,omitempty"`
	ClientID        string   `yaml:"client_id,omitempty"`
	ClientSecret    string   `yaml:"client_secret,omitempty"`
	OrgID           string   `yaml:"org_id,omitempty"`
	Scopes          []string `yaml:"scopes,omitempty"`
	AccessToken     string   `yaml:"access_token,omitempty"`
	CredentialsFile string   `yaml:"credentials_file,omitempty"`
}

// NewConfigCommand creates the config command group
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "View and modify the AEP CLI configuration",
	}

	cmd.AddCommand(newConfigViewCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigSetCredentialsCommand())
	cmd.AddCommand(newConfigPathCommand())

	return cmd
}

func newConfigViewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Display current configuration",
		Long:  "Display the active configuration with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			masked := *config
			if masked.ClientSecret != "" {
				masked.ClientSecret = Masked
			}

			if masked.AccessToken != "" {
				masked.AccessToken = Masked
			}

			output := viper.GetString("output")
			if output == OutputFormatJSON || output == OutputFormatYAML {
				return renderEncoded(masked, output)
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Key", "Value")
			_ = table.Append("endpoint", orNA(masked.Endpoint))
			_ = table.Append("sandbox", orNA(masked.Sandbox))
			_ = table.Append("output", orNA(masked.Output))
			_ = table.Append("client_id", orNA(masked.ClientID))
			_ = table.Append("client_secret", orNA(masked.ClientSecret))
			_ = table.Append("org_id", orNA(masked.OrgID))
			_ = table.Append("scopes", orNA(strings.Join(masked.Scopes, ",")))
			_ = table.Append("access_token", orNA(masked.AccessToken))
			_ = table.Append("credentials_file", orNA(masked.CredentialsFile))

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value and persist it to the config file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			key, value := args[0], args[1]
			switch key {
			case "endpoint":
				config.Endpoint = value
			case "sandbox":
				config.Sandbox = value
			case "output":
				config.Output = value
			case "client_id":
				config.ClientID = value
			case "org_id":
				config.OrgID = value
			case "scopes":
				config.Scopes = strings.Split(value, ",")
			case "credentials_file":
				config.CredentialsFile = value
			default:
				return fmt.Errorf("%w: %s (use 'aep config set-credentials' for secrets)", ErrUnknownConfigKey, key)
			}

			if err := saveConfig(config); err != nil {
				return err
			}

			fmt.Printf("Set %s\n", key)

			return nil
		},
	}
}

func newConfigSetCredentialsCommand() *cobra.Command {
	var (
		clientID string
		orgID    string
		scopes   []string
	)

	cmd := &cobra.Command{
		Use:   "set-credentials",
		Short: "Store OAuth client credentials",
		Long:  "Store the OAuth client ID, organization ID, and client secret. The secret is prompted for and never echoed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			if clientID != "" {
				config.ClientID = clientID
			}

			if orgID != "" {
				config.OrgID = orgID
			}

			if len(scopes) > 0 {
				config.Scopes = scopes
			}

			fmt.Print("Client secret: ")

			secret, err := term.ReadPassword(int(syscall.Stdin))

			fmt.Println()

			if err != nil {
				return fmt.Errorf("failed to read client secret: %w", err)
			}

			config.ClientSecret = string(secret)

			if err := saveConfig(config); err != nil {
				return err
			}

			fmt.Println("Credentials saved")

			return nil
		},
	}

	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth client ID")
	cmd.Flags().StringVar(&orgID, "org-id", "", "IMS organization ID")
	cmd.Flags().StringSliceVar(&scopes, "scopes", nil, "OAuth scopes")

	return cmd
}

func newConfigPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configFilePath()
			if err != nil {
				return err
			}

			fmt.Println(path)

			return nil
		},
	}
}

func configFilePath() (string, error) {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		return cfgFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}

	return filepath.Join(home, ".aep", "config.yml"), nil
}

// loadConfig reads the config file, returning an empty config when none
// exists yet.
func loadConfig() *Config {
	config := &Config{}

	path, err := configFilePath()
	if err != nil {
		return config
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return config
	}

	_ = yaml.Unmarshal(data, config)

	return config
}

func saveConfig(config *Config) error {
	path, err := configFilePath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, constants.ConfigFilePerm); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
