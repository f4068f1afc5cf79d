package client

import (
	"context"
	"fmt"

	"github.com/aepio/aep-client/pkg/aep"
)

// ClassesClient implements aep.ClassesClient.
type ClassesClient struct {
	registry   *registry
	containers []aep.Container
}

// NewClassesClient creates a classes client scoped to the given containers.
func NewClassesClient(reg *registry, containers ...aep.Container) *ClassesClient {
	return &ClassesClient{
		registry:   reg,
		containers: containers,
	}
}

// Get implements aep.ClassesClient.Get.
func (c *ClassesClient) Get(ctx context.Context, ref string) (*aep.Class, error) {
	return getResource[aep.Class](ctx, c.registry, aep.ResourceTypeClass, ref, aep.FormatShort)
}

// List implements aep.ClassesClient.List.
func (c *ClassesClient) List(ctx context.Context, params *aep.QueryParams) ([]*aep.Class, error) {
	return listAll[aep.Class](ctx, c.registry, c.containers, aep.ResourceTypeClass, params)
}

// ListPage implements aep.ClassesClient.ListPage.
func (c *ClassesClient) ListPage(ctx context.Context, params *aep.QueryParams) (*aep.ListResponse[*aep.Class], error) {
	return listPageIn[aep.Class](ctx, c.registry, c.containers[0], aep.ResourceTypeClass, params)
}

// Find implements aep.ClassesClient.Find.
func (c *ClassesClient) Find(ctx context.Context, params *aep.QueryParams) (*aep.Class, error) {
	return findResource[aep.Class](ctx, c.registry, c.containers, aep.ResourceTypeClass, params)
}

// Create implements aep.ClassesClient.Create. A class composes one of the
// platform behaviors with optional field groups.
func (c *ClassesClient) Create(ctx context.Context, request *aep.ClassCreateRequest) (*aep.Class, error) {
	behavior, err := aep.ParseRefAs(request.Behavior, aep.ResourceTypeBehavior)
	if err != nil {
		return nil, fmt.Errorf("resolving behavior: %w", err)
	}

	allOf := []aep.AllOfEntry{{Ref: behavior.URI}}

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

	return createResource[aep.Class](ctx, c.registry, c.containers, aep.ResourceTypeClass, body)
}

// Update implements aep.ClassesClient.Update.
func (c *ClassesClient) Update(ctx context.Context, ref string, ops []aep.PatchOperation) (*aep.Class, error) {
	return updateResource[aep.Class](ctx, c.registry, aep.ResourceTypeClass, ref, ops)
}

// Delete implements aep.ClassesClient.Delete.
func (c *ClassesClient) Delete(ctx context.Context, ref string) error {
	return deleteResource(ctx, c.registry, aep.ResourceTypeClass, ref)
}
