package client

import (
	"context"
	"fmt"

	"github.com/aepio/aep-client/pkg/aep"
)

// FieldGroupsClient implements aep.FieldGroupsClient.
type FieldGroupsClient struct {
	registry   *registry
	containers []aep.Container
}

// NewFieldGroupsClient creates a field groups client scoped to the given
// containers.
func NewFieldGroupsClient(reg *registry, containers ...aep.Container) *FieldGroupsClient {
	return &FieldGroupsClient{
		registry:   reg,
		containers: containers,
	}
}

// Get implements aep.FieldGroupsClient.Get.
func (c *FieldGroupsClient) Get(ctx context.Context, ref string) (*aep.FieldGroup, error) {
	return getResource[aep.FieldGroup](ctx, c.registry, aep.ResourceTypeFieldGroup, ref, aep.FormatShort)
}

// List implements aep.FieldGroupsClient.List.
func (c *FieldGroupsClient) List(ctx context.Context, params *aep.QueryParams) ([]*aep.FieldGroup, error) {
	return listAll[aep.FieldGroup](ctx, c.registry, c.containers, aep.ResourceTypeFieldGroup, params)
}

// ListPage implements aep.FieldGroupsClient.ListPage.
func (c *FieldGroupsClient) ListPage(ctx context.Context, params *aep.QueryParams) (*aep.ListResponse[*aep.FieldGroup], error) {
	return listPageIn[aep.FieldGroup](ctx, c.registry, c.containers[0], aep.ResourceTypeFieldGroup, params)
}

// Find implements aep.FieldGroupsClient.Find.
func (c *FieldGroupsClient) Find(ctx context.Context, params *aep.QueryParams) (*aep.FieldGroup, error) {
	return findResource[aep.FieldGroup](ctx, c.registry, c.containers, aep.ResourceTypeFieldGroup, params)
}

// Create implements aep.FieldGroupsClient.Create. Properties are nested
// under a definitions entry, the layout the registry expects for tenant
// field groups.
func (c *FieldGroupsClient) Create(ctx context.Context, request *aep.FieldGroupCreateRequest) (*aep.FieldGroup, error) {
	intendedToExtend := make([]string, 0, len(request.IntendedToExtend))

	for _, raw := range request.IntendedToExtend {
		class, err := aep.ParseRefAs(raw, aep.ResourceTypeClass)
		if err != nil {
			return nil, fmt.Errorf("resolving intended class: %w", err)
		}

		intendedToExtend = append(intendedToExtend, class.URI)
	}

	body := map[string]interface{}{
		"type":                  "object",
		"title":                 request.Title,
		"description":           request.Description,
		"meta:intendedToExtend": intendedToExtend,
		"definitions": map[string]interface{}{
			"customFields": map[string]interface{}{
				"type":       "object",
				"properties": request.Properties,
			},
		},
		"allOf": []map[string]interface{}{
			{
				"$ref": "#/definitions/customFields",
				"type": "object",
			},
		},
	}

	return createResource[aep.FieldGroup](ctx, c.registry, c.containers, aep.ResourceTypeFieldGroup, body)
}

// Update implements aep.FieldGroupsClient.Update.
func (c *FieldGroupsClient) Update(ctx context.Context, ref string, ops []aep.PatchOperation) (*aep.FieldGroup, error) {
	return updateResource[aep.FieldGroup](ctx, c.registry, aep.ResourceTypeFieldGroup, ref, ops)
}

// Delete implements aep.FieldGroupsClient.Delete.
func (c *FieldGroupsClient) Delete(ctx context.Context, ref string) error {
	return deleteResource(ctx, c.registry, aep.ResourceTypeFieldGroup, ref)
}
