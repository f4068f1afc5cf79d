// Package aepclient provides the main entry point for creating Experience
// Platform API clients.
package aepclient

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aepio/aep-client/internal/auth"
	"github.com/aepio/aep-client/internal/client"
	"github.com/aepio/aep-client/internal/constants"
	"github.com/aepio/aep-client/pkg/aep"
)

// New creates a new Experience Platform API client.
func New(ctx context.Context, config *aep.Config) (aep.Client, error) {
	if config == nil {
		return nil, aep.ErrConfigRequired
	}

	config.Endpoint = normalizeEndpoint(config.Endpoint)

	apiClient, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return apiClient, nil
}

// normalizeEndpoint applies the default platform endpoint and a scheme when
// the caller passes a bare host.
func normalizeEndpoint(endpoint string) string {
	if endpoint == "" {
		return constants.DefaultPlatformEndpoint
	}

	endpoint = strings.TrimSuffix(endpoint, "/")
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	return endpoint
}

// NewFromFile creates a new client from an Adobe Developer Console
// credentials file (the "Download JSON" export of a server-to-server
// integration). A leading "~" in the path is expanded to the home directory.
func NewFromFile(ctx context.Context, path string) (aep.Client, error) {
	expanded, err := expandHome(path)
	if err != nil {
		return nil, err
	}

	credentials, err := auth.LoadCredentials(expanded)
	if err != nil {
		return nil, fmt.Errorf("loading credentials: %w", err)
	}

	return New(ctx, &aep.Config{
		ClientID:           credentials.ClientID,
		ClientSecret:       credentials.ClientSecret(),
		OrgID:              credentials.OrgID,
		Scopes:             credentials.Scopes,
		TechnicalAccountID: credentials.TechnicalAccountID,
	})
}

// NewWithToken creates a new client with an access token obtained elsewhere,
// for example from aio CLI tooling or a short-lived workflow credential.
func NewWithToken(ctx context.Context, endpoint, token string) (aep.Client, error) {
	return New(ctx, &aep.Config{
		Endpoint:    endpoint,
		AccessToken: token,
	})
}

// NewWithClientCredentials creates a new client using OAuth2 client
// credentials against the IMS token endpoint.
func NewWithClientCredentials(ctx context.Context, endpoint, clientID, clientSecret, orgID string, scopes []string) (aep.Client, error) {
	return New(ctx, &aep.Config{
		Endpoint:     endpoint,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		OrgID:        orgID,
		Scopes:       scopes,
	})
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}

	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
