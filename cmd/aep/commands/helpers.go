package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aepio/aep-client/internal/auth"
	"github.com/aepio/aep-client/pkg/aep"
	"github.com/aepio/aep-client/pkg/aepclient"
	json "github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Common string constants used throughout the commands package.
const (
	NotAvailable = "N/A"

	// Output formats.
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"

	Masked = "***"
)

// Common static errors used throughout the commands package.
var (
	ErrNotAuthenticated   = errors.New("not authenticated, run 'aep config set-credentials' or set AEP_ACCESS_TOKEN")
	ErrTitleRequired      = errors.New("title is required (--title)")
	ErrParentRequired     = errors.New("parent class is required (--parent)")
	ErrBehaviorRequired   = errors.New("behavior is required (--behavior)")
	ErrSchemaRequired     = errors.New("schema reference is required (--schema)")
	ErrPropertiesRequired = errors.New("properties are required (--properties-file)")
	ErrUnknownConfigKey   = errors.New("unknown configuration key")
	ErrUnknownBehavior    = errors.New("unknown behavior, expected adhoc, record, or time-series")
)

// CreateClient builds a platform client from the active configuration. Flags
// and AEP_* environment variables take precedence over the config file.
func CreateClient() (aep.Client, error) {
	config := &aep.Config{
		Endpoint:     viper.GetString("endpoint"),
		ClientID:     viper.GetString("client_id"),
		ClientSecret: viper.GetString("client_secret"),
		OrgID:        viper.GetString("org_id"),
		Scopes:       viper.GetStringSlice("scopes"),
		AccessToken:  viper.GetString("access_token"),
		Sandbox:      viper.GetString("sandbox"),
	}

	if config.AccessToken == "" && config.ClientID == "" {
		if path := viper.GetString("credentials_file"); path != "" {
			creds, err := auth.LoadCredentials(path)
			if err != nil {
				return nil, fmt.Errorf("failed to load credentials file: %w", err)
			}

			config.ClientID = creds.ClientID
			config.ClientSecret = creds.ClientSecret()
			config.OrgID = creds.OrgID
			config.Scopes = creds.Scopes
			config.TechnicalAccountID = creds.TechnicalAccountID
		}
	}

	if config.AccessToken == "" && config.ClientID == "" {
		return nil, ErrNotAuthenticated
	}

	client, err := aepclient.New(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("failed to create platform client: %w", err)
	}

	return client, nil
}

// renderEncoded writes v as JSON or YAML to stdout. Callers handle the table
// format themselves since columns differ per resource.
func renderEncoded(v interface{}, output string) error {
	switch output {
	case OutputFormatJSON:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}

		return nil
	case OutputFormatYAML:
		encoder := yaml.NewEncoder(os.Stdout)

		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}

		if err := encoder.Close(); err != nil {
			return fmt.Errorf("failed to close YAML encoder: %w", err)
		}

		return nil
	default:
		return nil
	}
}

// renderResourceTable prints the identifier columns shared by every registry
// resource type.
func renderResourceTable(resources []*aep.Resource) error {
	if len(resources) == 0 {
		fmt.Println("No resources found")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Title", "ID", "Version", "Kind")

	for _, resource := range resources {
		_ = table.Append(resource.Title, resource.ID, orNA(resource.Version), orNA(resource.ResourceKind))
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// renderResourceDetail prints a single registry resource as a property table.
func renderResourceDetail(resource *aep.Resource) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("Title", resource.Title)
	_ = table.Append("ID", resource.ID)
	_ = table.Append("URI", resource.URI)
	_ = table.Append("Version", orNA(resource.Version))
	_ = table.Append("Kind", orNA(resource.ResourceKind))

	if resource.Description != "" {
		_ = table.Append("Description", resource.Description)
	}

	for _, extends := range resource.Extends {
		_ = table.Append("Extends", extends)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func orNA(value string) string {
	if value == "" {
		return NotAvailable
	}

	return value
}

// formatEpochMillis renders a catalog millisecond timestamp, or N/A when the
// field was absent.
func formatEpochMillis(millis int64) string {
	if millis == 0 {
		return NotAvailable
	}

	return time.UnixMilli(millis).UTC().Format("2006-01-02 15:04:05")
}

// buildListParams assembles registry query parameters from the shared list
// flags.
func buildListParams(title, orderBy string, limit int) *aep.QueryParams {
	params := aep.NewQueryParams()
	if title != "" {
		params.WithTitle(title)
	}

	if orderBy != "" {
		params.WithOrderBy(orderBy)
	}

	if limit > 0 {
		params.WithLimit(limit)
	}

	return params
}
