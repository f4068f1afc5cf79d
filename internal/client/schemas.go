package client

import (
	"context"
	"fmt"

	"github.com/aepio/aep-client/pkg/aep"
)

// SchemasClient implements aep.SchemasClient.
type SchemasClient struct {
	registry   *registry
	containers []aep.Container
}

// NewSchemasClient creates a schemas client scoped to the given containers.
func NewSchemasClient(reg *registry, containers ...aep.Container) *SchemasClient {
	return &SchemasClient{
		registry:   reg,
		containers: containers,
	}
}

// Get implements aep.SchemasClient.Get.
func (c *SchemasClient) Get(ctx context.Context, ref string) (*aep.Schema, error) {
	return getResource[aep.Schema](ctx, c.registry, aep.ResourceTypeSchema, ref, aep.FormatShort)
}

// List implements aep.SchemasClient.List. It drains every container in
// scope.
func (c *SchemasClient) List(ctx context.Context, params *aep.QueryParams) ([]*aep.Schema, error) {
	return listAll[aep.Schema](ctx, c.registry, c.containers, aep.ResourceTypeSchema, params)
}

// ListPage implements aep.SchemasClient.ListPage. It pages the first
// container in scope; use a container-scoped client to page the other.
func (c *SchemasClient) ListPage(ctx context.Context, params *aep.QueryParams) (*aep.ListResponse[*aep.Schema], error) {
	return listPageIn[aep.Schema](ctx, c.registry, c.containers[0], aep.ResourceTypeSchema, params)
}

// Find implements aep.SchemasClient.Find.
func (c *SchemasClient) Find(ctx context.Context, params *aep.QueryParams) (*aep.Schema, error) {
	return findResource[aep.Schema](ctx, c.registry, c.containers, aep.ResourceTypeSchema, params)
}

// Create implements aep.SchemasClient.Create. A schema composes one class
// and any number of field groups; composition order is preserved.
func (c *SchemasClient) Create(ctx context.Context, request *aep.SchemaCreateRequest) (*aep.Schema, error) {
	parent, err := aep.ParseRefAs(request.Parent, aep.ResourceTypeClass)
	if err != nil {
		return nil, fmt.Errorf("resolving parent class: %w", err)
	}

	allOf := []aep.AllOfEntry{{Ref: parent.URI}}

	for _, raw := range request.FieldGroups {
		fieldGroup, err := aep.ParseRefAs(raw, aep.ResourceTypeFieldGroup)
		if err != nil {
			return nil, fmt.Errorf("resolving field group: %w", err)
		}

		allOf = append(allOf, aep.AllOfEntry{Ref: fieldGroup.URI})
	}

	body := map[string]interface{}{
		"type":        "object",
		"title":       request.Title,
		"description": request.Description,
		"allOf":       allOf,
	}

	return createResource[aep.Schema](ctx, c.registry, c.containers, aep.ResourceTypeSchema, body)
}

// Update implements aep.SchemasClient.Update.
func (c *SchemasClient) Update(ctx context.Context, ref string, ops []aep.PatchOperation) (*aep.Schema, error) {
	return updateResource[aep.Schema](ctx, c.registry, aep.ResourceTypeSchema, ref, ops)
}

// AddFieldGroup implements aep.SchemasClient.AddFieldGroup. The registry
// models this as a JSON Patch append to the schema's allOf list.
func (c *SchemasClient) AddFieldGroup(ctx context.Context, schemaRef, fieldGroupRef string) (*aep.Schema, error) {
	fieldGroup, err := aep.ParseRefAs(fieldGroupRef, aep.ResourceTypeFieldGroup)
	if err != nil {
		return nil, fmt.Errorf("resolving field group: %w", err)
	}

	return c.Update(ctx, schemaRef, []aep.PatchOperation{
		{
			Op:    "add",
			Path:  "/allOf/-",
			Value: aep.AllOfEntry{Ref: fieldGroup.URI},
		},
	})
}

// Delete implements aep.SchemasClient.Delete.
func (c *SchemasClient) Delete(ctx context.Context, ref string) error {
	return deleteResource(ctx, c.registry, aep.ResourceTypeSchema, ref)
}

// Fields implements aep.SchemasClient.Fields.
func (c *SchemasClient) Fields(schemaRef string) aep.SchemaFieldsClient {
	return &SchemaFieldsClient{
		registry:  c.registry,
		schemaRef: schemaRef,
	}
}

// SchemaFieldsClient implements aep.SchemaFieldsClient for one schema.
type SchemaFieldsClient struct {
	registry  *registry
	schemaRef string
}

// List returns the schema's flattened field map, resolved server side from
// the composed class and field groups.
func (c *SchemaFieldsClient) List(ctx context.Context) (map[string]aep.Property, error) {
	schema, err := getResource[aep.Schema](ctx, c.registry, aep.ResourceTypeSchema, c.schemaRef, aep.FormatFull)
	if err != nil {
		return nil, err
	}

	return schema.Properties, nil
}

// Create fails with aep.ErrNotSupported. The registry does not accept field
// writes on a schema; add fields by composing a field group instead.
func (c *SchemaFieldsClient) Create(ctx context.Context, name string, property aep.Property) error {
	return fmt.Errorf("creating field %q: add the field to a field group and compose it: %w", name, aep.ErrNotSupported)
}
