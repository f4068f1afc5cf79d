package client

import (
	"context"

	"github.com/aepio/aep-client/pkg/aep"
)

// DataTypesClient implements aep.DataTypesClient.
type DataTypesClient struct {
	registry   *registry
	containers []aep.Container
}

// NewDataTypesClient creates a data types client scoped to the given
// containers.
func NewDataTypesClient(reg *registry, containers ...aep.Container) *DataTypesClient {
	return &DataTypesClient{
		registry:   reg,
		containers: containers,
	}
}

// Get implements aep.DataTypesClient.Get.
func (c *DataTypesClient) Get(ctx context.Context, ref string) (*aep.DataType, error) {
	return getResource[aep.DataType](ctx, c.registry, aep.ResourceTypeDataType, ref, aep.FormatShort)
}

// List implements aep.DataTypesClient.List.
func (c *DataTypesClient) List(ctx context.Context, params *aep.QueryParams) ([]*aep.DataType, error) {
	return listAll[aep.DataType](ctx, c.registry, c.containers, aep.ResourceTypeDataType, params)
}

// ListPage implements aep.DataTypesClient.ListPage.
func (c *DataTypesClient) ListPage(ctx context.Context, params *aep.QueryParams) (*aep.ListResponse[*aep.DataType], error) {
	return listPageIn[aep.DataType](ctx, c.registry, c.containers[0], aep.ResourceTypeDataType, params)
}

// Find implements aep.DataTypesClient.Find.
func (c *DataTypesClient) Find(ctx context.Context, params *aep.QueryParams) (*aep.DataType, error) {
	return findResource[aep.DataType](ctx, c.registry, c.containers, aep.ResourceTypeDataType, params)
}

// Create implements aep.DataTypesClient.Create.
func (c *DataTypesClient) Create(ctx context.Context, request *aep.DataTypeCreateRequest) (*aep.DataType, error) {
	body := map[string]interface{}{
		"type":        "object",
		"title":       request.Title,
		"description": request.Description,
		"properties":  request.Properties,
	}

	return createResource[aep.DataType](ctx, c.registry, c.containers, aep.ResourceTypeDataType, body)
}

// Update implements aep.DataTypesClient.Update.
func (c *DataTypesClient) Update(ctx context.Context, ref string, ops []aep.PatchOperation) (*aep.DataType, error) {
	return updateResource[aep.DataType](ctx, c.registry, aep.ResourceTypeDataType, ref, ops)
}

// Delete implements aep.DataTypesClient.Delete.
func (c *DataTypesClient) Delete(ctx context.Context, ref string) error {
	return deleteResource(ctx, c.registry, aep.ResourceTypeDataType, ref)
}
