package aep

import (
	"context"
	"time"
)

// RegistryClients provides access to schema registry resource collections.
// The unscoped accessors span both containers; the Tenant/Global variants are
// restricted to one container, which narrows listings to a single endpoint.
type RegistryClients interface {
	Registry() RegistryClient
	Schemas() SchemasClient
	TenantSchemas() SchemasClient
	GlobalSchemas() SchemasClient
	Classes() ClassesClient
	TenantClasses() ClassesClient
	GlobalClasses() ClassesClient
	FieldGroups() FieldGroupsClient
	TenantFieldGroups() FieldGroupsClient
	GlobalFieldGroups() FieldGroupsClient
	DataTypes() DataTypesClient
	TenantDataTypes() DataTypesClient
	GlobalDataTypes() DataTypesClient
	Behaviors() BehaviorsClient
}

// CatalogClients provides access to catalog resource clients.
type CatalogClients interface {
	Datasets() DatasetsClient
	Batches() BatchesClient
}

// Client is the root handle to the Experience Platform API.
type Client interface {
	RegistryClients
	CatalogClients

	// Ref resolves a $id or meta:altId reference of any resource type.
	Ref(ctx context.Context, ref string) (*Resource, error)

	// GetStats returns the registry statistics for the organization,
	// including the tenant id used in tenant resource identifiers.
	GetStats(ctx context.Context) (*Stats, error)

	// Sandbox returns the sandbox name requests operate in.
	Sandbox() string
}

// RegistryClient is the untyped collection spanning every resource type, used
// when the type of a reference is not known up front.
type RegistryClient interface {
	Get(ctx context.Context, ref string) (*Resource, error)
	List(ctx context.Context, params *QueryParams) ([]*Resource, error)
	Find(ctx context.Context, params *QueryParams) (*Resource, error)
}

// SchemasClient manages XDM schemas.
type SchemasClient interface {
	Get(ctx context.Context, ref string) (*Schema, error)
	List(ctx context.Context, params *QueryParams) ([]*Schema, error)
	ListPage(ctx context.Context, params *QueryParams) (*ListResponse[*Schema], error)
	Find(ctx context.Context, params *QueryParams) (*Schema, error)
	Create(ctx context.Context, request *SchemaCreateRequest) (*Schema, error)
	Update(ctx context.Context, ref string, ops []PatchOperation) (*Schema, error)
	AddFieldGroup(ctx context.Context, schemaRef, fieldGroupRef string) (*Schema, error)
	Delete(ctx context.Context, ref string) error

	// Fields accesses the per-schema field collection. Field creation is not
	// supported by the registry and fails with ErrNotSupported.
	Fields(schemaRef string) SchemaFieldsClient
}

// SchemaFieldsClient is the nested field collection of one schema.
type SchemaFieldsClient interface {
	List(ctx context.Context) (map[string]Property, error)
	Create(ctx context.Context, name string, property Property) error
}

// ClassesClient manages XDM classes.
type ClassesClient interface {
	Get(ctx context.Context, ref string) (*Class, error)
	List(ctx context.Context, params *QueryParams) ([]*Class, error)
	ListPage(ctx context.Context, params *QueryParams) (*ListResponse[*Class], error)
	Find(ctx context.Context, params *QueryParams) (*Class, error)
	Create(ctx context.Context, request *ClassCreateRequest) (*Class, error)
	Update(ctx context.Context, ref string, ops []PatchOperation) (*Class, error)
	Delete(ctx context.Context, ref string) error
}

// FieldGroupsClient manages XDM field groups.
type FieldGroupsClient interface {
	Get(ctx context.Context, ref string) (*FieldGroup, error)
	List(ctx context.Context, params *QueryParams) ([]*FieldGroup, error)
	ListPage(ctx context.Context, params *QueryParams) (*ListResponse[*FieldGroup], error)
	Find(ctx context.Context, params *QueryParams) (*FieldGroup, error)
	Create(ctx context.Context, request *FieldGroupCreateRequest) (*FieldGroup, error)
	Update(ctx context.Context, ref string, ops []PatchOperation) (*FieldGroup, error)
	Delete(ctx context.Context, ref string) error
}

// DataTypesClient manages XDM data types.
type DataTypesClient interface {
	Get(ctx context.Context, ref string) (*DataType, error)
	List(ctx context.Context, params *QueryParams) ([]*DataType, error)
	ListPage(ctx context.Context, params *QueryParams) (*ListResponse[*DataType], error)
	Find(ctx context.Context, params *QueryParams) (*DataType, error)
	Create(ctx context.Context, request *DataTypeCreateRequest) (*DataType, error)
	Update(ctx context.Context, ref string, ops []PatchOperation) (*DataType, error)
	Delete(ctx context.Context, ref string) error
}

// BehaviorsClient reads the platform-defined data behaviors. Behaviors are
// global and read-only.
type BehaviorsClient interface {
	Get(ctx context.Context, ref string) (*Behavior, error)
	List(ctx context.Context, params *QueryParams) ([]*Behavior, error)
	Find(ctx context.Context, params *QueryParams) (*Behavior, error)

	// Well-known behaviors, returned without a request so they can be used
	// directly as class create parents.
	Adhoc() *Behavior
	Record() *Behavior
	TimeSeries() *Behavior
}

// SchemaCreateRequest describes a new schema. Parent is the $id or meta:altId
// of the class the schema inherits from; FieldGroups are composed in order.
type SchemaCreateRequest struct {
	Title       string
	Description string
	Parent      string
	FieldGroups []string
}

// ClassCreateRequest describes a new class built on one of the platform
// behaviors.
type ClassCreateRequest struct {
	Title       string
	Description string
	Behavior    string
	FieldGroups []string
}

// FieldGroupCreateRequest describes a new field group.
type FieldGroupCreateRequest struct {
	Title            string
	Description      string
	Properties       map[string]Property
	IntendedToExtend []string
}

// DataTypeCreateRequest describes a new data type.
type DataTypeCreateRequest struct {
	Title       string
	Description string
	Properties  map[string]Property
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building an aep.Client.
//
// # Authentication precedence
//
//  1. AccessToken: if set, used directly as a static Bearer token.
//  2. ClientID/ClientSecret/Scopes: OAuth2 client_credentials grant against
//     the IMS token endpoint, refreshed before expiry.
//  3. CredentialsFile: the Adobe Developer Console "Download JSON" file is
//     loaded by aepclient.NewFromFile and populates 2.
//
// # Timeouts and retries
//
// Per-request timeouts are controlled via the context passed to client
// methods. Retries are disabled unless RetryMax is set.
type Config struct {
	// Endpoint is the platform API base URL. Defaults to
	// https://platform.adobe.io.
	Endpoint string

	// ClientID is the OAuth2 client ID, also sent as the x-api-key header.
	ClientID string
	// ClientSecret is the OAuth2 client secret.
	ClientSecret string
	// OrgID is the IMS organization ID, sent as x-gw-ims-org-id.
	OrgID string
	// Scopes are the OAuth2 scopes requested for the access token.
	Scopes []string
	// TechnicalAccountID identifies the server-to-server integration. Not
	// sent on requests; retained for diagnostics.
	TechnicalAccountID string
	// AccessToken, if set, is used directly as a static Bearer token.
	AccessToken string
	// TokenURL overrides the IMS token endpoint.
	TokenURL string

	// Sandbox selects the sandbox requests operate in. Defaults to "prod".
	Sandbox string

	// RetryMax enables request retries for transient failures when > 0.
	RetryMax int
	// RetryWaitMin is the minimum backoff between retries.
	RetryWaitMin time.Duration
	// RetryWaitMax is the maximum backoff between retries.
	RetryWaitMax time.Duration

	// Debug enables verbose HTTP logging when a Logger is provided.
	Debug bool
	// Logger is an optional structured logger.
	Logger Logger
	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// Cache optionally caches reads of global (read-only) resources.
	Cache *CacheConfig

	// Interceptors observe every request and response when set.
	Interceptors *InterceptorChain
}
