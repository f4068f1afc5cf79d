package constants

import "time"

// Platform endpoints.
const (
	// DefaultPlatformEndpoint is the base URL for the Experience Platform API.
	DefaultPlatformEndpoint = "https://platform.adobe.io"

	// DefaultIMSTokenURL is the IMS OAuth server-to-server token endpoint.
	DefaultIMSTokenURL = "https://ims-na1.adobelogin.com/ims/token/v2"

	// SchemaRegistryBasePath is the root of the schema registry API.
	SchemaRegistryBasePath = "/data/foundation/schemaregistry"

	// CatalogDatasetsPath is the catalog datasets endpoint.
	CatalogDatasetsPath = "/data/foundation/catalog/dataSets"

	// CatalogBatchesPath is the catalog batches endpoint.
	CatalogBatchesPath = "/data/foundation/catalog/batches"

	// ImportBatchesPath is the bulk ingestion batches endpoint.
	ImportBatchesPath = "/data/foundation/import/batches"
)

// Request headers required by the platform gateway.
const (
	// HeaderAPIKey carries the client ID on every request.
	HeaderAPIKey = "x-api-key"

	// HeaderOrgID carries the IMS organization ID on every request.
	HeaderOrgID = "x-gw-ims-org-id"

	// HeaderSandbox selects the sandbox the request operates in.
	HeaderSandbox = "x-sandbox-name"
)

// DefaultSandbox is used when no sandbox is configured.
const DefaultSandbox = "prod"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations such as token requests.
	ShortHTTPTimeout = 10 * time.Second

	// UploadHTTPTimeout is used for batch file uploads.
	UploadHTTPTimeout = 5 * time.Minute
)

// Retry limits. Retries are disabled unless explicitly configured.
const (
	// LowRetryMax is used for operations that should retry few times.
	LowRetryMax = 3

	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second

	// ExtendedRetryWaitMax is used for operations that need longer waits.
	ExtendedRetryWaitMax = 30 * time.Second
)

// Token lifecycle.
const (
	// TokenExpirationBuffer is the buffer time before token expiration at
	// which a token is considered expired and refreshed.
	TokenExpirationBuffer = 60 * time.Second
)

// Pagination.
const (
	// CatalogPageSize is the fixed page size of catalog list responses.
	CatalogPageSize = 100
)

// Cache defaults.
const (
	// DefaultCacheSize is the default maximum number of cached entries.
	DefaultCacheSize = 1000

	// DefaultCacheTTL is the default time-to-live for cached global resources.
	DefaultCacheTTL = 15 * time.Minute
)

// Circuit breaker defaults.
const (
	CircuitBreakerThreshold        = 5
	CircuitBreakerTimeout          = 30 * time.Second
	CircuitBreakerSuccessThreshold = 2
)

// Circuit breaker states shared between interceptors.
const (
	StatusOpen     = "open"
	StatusHalfOpen = "half-open"
)
