// Package client implements the aep.Client interface against the Experience
// Platform schema registry and catalog services.
package client

import (
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/aepio/aep-client/internal/auth"
	"github.com/aepio/aep-client/internal/constants"
	"github.com/aepio/aep-client/internal/http"
	"github.com/aepio/aep-client/pkg/aep"
)

// Static errors for err113 compliance.
var (
	ErrNoCredentialsConfigured = errors.New("no credentials configured: provide an access token or client credentials")
)

// Client implements the aep.Client interface.
type Client struct {
	httpClient   *http.Client
	tokenManager auth.TokenManager
	registry     *registry
	sandbox      string
	logger       aep.Logger

	// Resource clients
	registryAll       aep.RegistryClient
	schemas           aep.SchemasClient
	tenantSchemas     aep.SchemasClient
	globalSchemas     aep.SchemasClient
	classes           aep.ClassesClient
	tenantClasses     aep.ClassesClient
	globalClasses     aep.ClassesClient
	fieldGroups       aep.FieldGroupsClient
	tenantFieldGroups aep.FieldGroupsClient
	globalFieldGroups aep.FieldGroupsClient
	dataTypes         aep.DataTypesClient
	tenantDataTypes   aep.DataTypesClient
	globalDataTypes   aep.DataTypesClient
	behaviors         aep.BehaviorsClient
	datasets          aep.DatasetsClient
	batches           aep.BatchesClient
}

// New creates a platform API client from configuration.
func New(config *aep.Config) (*Client, error) {
	if config == nil {
		return nil, aep.ErrConfigRequired
	}

	tokenManager, err := createTokenManager(config)
	if err != nil {
		return nil, err
	}

	endpoint := config.Endpoint
	if endpoint == "" {
		endpoint = constants.DefaultPlatformEndpoint
	}

	sandbox := config.Sandbox
	if sandbox == "" {
		sandbox = constants.DefaultSandbox
	}

	httpClient := http.NewClient(endpoint, tokenManager, createHTTPClientOptions(config, sandbox)...)

	cacheManager, err := createCacheManager(config)
	if err != nil {
		return nil, err
	}

	client := &Client{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		registry: &registry{
			httpClient: httpClient,
			cache:      cacheManager,
		},
		sandbox: sandbox,
		logger:  config.Logger,
	}

	client.initializeResourceClients()

	return client, nil
}

// createTokenManager picks the token manager for the configured credentials.
// A static access token wins over client credentials.
func createTokenManager(config *aep.Config) (auth.TokenManager, error) {
	if config.AccessToken != "" {
		return auth.NewStaticTokenManager(config.AccessToken), nil
	}

	if config.ClientID != "" && config.ClientSecret != "" {
		return auth.NewIMSTokenManager(&auth.IMSConfig{
			TokenURL:     config.TokenURL,
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Scopes:       config.Scopes,
		}), nil
	}

	return nil, ErrNoCredentialsConfigured
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *aep.Config, sandbox string) []http.Option {
	httpOpts := []http.Option{
		http.WithGatewayHeaders(config.ClientID, config.OrgID),
		http.WithSandbox(sandbox),
	}

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.Interceptors != nil {
		httpOpts = append(httpOpts, http.WithInterceptors(config.Interceptors))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	return httpOpts
}

// createCacheManager builds the optional global-read cache.
func createCacheManager(config *aep.Config) (*aep.CacheManager, error) {
	if config.Cache == nil {
		return nil, nil
	}

	cache, err := aep.NewCacheFromConfig(config.Cache)
	if err != nil {
		return nil, fmt.Errorf("building cache: %w", err)
	}

	return aep.NewCacheManager(cache, config.Cache.Policy), nil
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients() {
	both := []aep.Container{aep.ContainerTenant, aep.ContainerGlobal}

	c.registryAll = NewRegistryClient(c.registry, both...)
	c.schemas = NewSchemasClient(c.registry, both...)
	c.tenantSchemas = NewSchemasClient(c.registry, aep.ContainerTenant)
	c.globalSchemas = NewSchemasClient(c.registry, aep.ContainerGlobal)
	c.classes = NewClassesClient(c.registry, both...)
	c.tenantClasses = NewClassesClient(c.registry, aep.ContainerTenant)
	c.globalClasses = NewClassesClient(c.registry, aep.ContainerGlobal)
	c.fieldGroups = NewFieldGroupsClient(c.registry, both...)
	c.tenantFieldGroups = NewFieldGroupsClient(c.registry, aep.ContainerTenant)
	c.globalFieldGroups = NewFieldGroupsClient(c.registry, aep.ContainerGlobal)
	c.dataTypes = NewDataTypesClient(c.registry, both...)
	c.tenantDataTypes = NewDataTypesClient(c.registry, aep.ContainerTenant)
	c.globalDataTypes = NewDataTypesClient(c.registry, aep.ContainerGlobal)
	c.behaviors = NewBehaviorsClient(c.registry)
	c.datasets = NewDatasetsClient(c.httpClient)
	c.batches = NewBatchesClient(c.httpClient)
}

// Ref implements aep.Client.Ref.
func (c *Client) Ref(ctx context.Context, ref string) (*aep.Resource, error) {
	return c.registryAll.Get(ctx, ref)
}

// GetStats implements aep.Client.GetStats.
func (c *Client) GetStats(ctx context.Context) (*aep.Stats, error) {
	resp, err := c.httpClient.Get(ctx, constants.SchemaRegistryBasePath+"/stats", nil)
	if err != nil {
		return nil, fmt.Errorf("getting registry stats: %w", err)
	}

	var stats aep.Stats

	err = json.Unmarshal(resp.Body, &stats)
	if err != nil {
		return nil, fmt.Errorf("parsing stats response: %w", err)
	}

	return &stats, nil
}

// Sandbox implements aep.Client.Sandbox.
func (c *Client) Sandbox() string {
	return c.sandbox
}

// GetToken returns the current access token from the token manager.
func (c *Client) GetToken(ctx context.Context) (string, error) {
	if c.tokenManager == nil {
		return "", aep.ErrNoTokenManagerConfigured
	}

	token, err := c.tokenManager.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get token: %w", err)
	}

	return token, nil
}

// GetTokenManager returns the token manager for this client.
func (c *Client) GetTokenManager() auth.TokenManager {
	return c.tokenManager
}

// Resource client accessors

// Registry implements aep.Client.Registry.
func (c *Client) Registry() aep.RegistryClient {
	return c.registryAll
}

// Schemas implements aep.Client.Schemas.
func (c *Client) Schemas() aep.SchemasClient {
	return c.schemas
}

// TenantSchemas implements aep.Client.TenantSchemas.
func (c *Client) TenantSchemas() aep.SchemasClient {
	return c.tenantSchemas
}

// GlobalSchemas implements aep.Client.GlobalSchemas.
func (c *Client) GlobalSchemas() aep.SchemasClient {
	return c.globalSchemas
}

// Classes implements aep.Client.Classes.
func (c *Client) Classes() aep.ClassesClient {
	return c.classes
}

// TenantClasses implements aep.Client.TenantClasses.
func (c *Client) TenantClasses() aep.ClassesClient {
	return c.tenantClasses
}

// GlobalClasses implements aep.Client.GlobalClasses.
func (c *Client) GlobalClasses() aep.ClassesClient {
	return c.globalClasses
}

// FieldGroups implements aep.Client.FieldGroups.
func (c *Client) FieldGroups() aep.FieldGroupsClient {
	return c.fieldGroups
}

// TenantFieldGroups implements aep.Client.TenantFieldGroups.
func (c *Client) TenantFieldGroups() aep.FieldGroupsClient {
	return c.tenantFieldGroups
}

// GlobalFieldGroups implements aep.Client.GlobalFieldGroups.
func (c *Client) GlobalFieldGroups() aep.FieldGroupsClient {
	return c.globalFieldGroups
}

// DataTypes implements aep.Client.DataTypes.
func (c *Client) DataTypes() aep.DataTypesClient {
	return c.dataTypes
}

// TenantDataTypes implements aep.Client.TenantDataTypes.
func (c *Client) TenantDataTypes() aep.DataTypesClient {
	return c.tenantDataTypes
}

// GlobalDataTypes implements aep.Client.GlobalDataTypes.
func (c *Client) GlobalDataTypes() aep.DataTypesClient {
	return c.globalDataTypes
}

// Behaviors implements aep.Client.Behaviors.
func (c *Client) Behaviors() aep.BehaviorsClient {
	return c.behaviors
}

// Datasets implements aep.Client.Datasets.
func (c *Client) Datasets() aep.DatasetsClient {
	return c.datasets
}

// Batches implements aep.Client.Batches.
func (c *Client) Batches() aep.BatchesClient {
	return c.batches
}
