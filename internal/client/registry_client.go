package client

import (
	"context"

	"github.com/aepio/aep-client/pkg/aep"
)

// allResourceTypes is the order cross-type operations walk the registry in.
var allResourceTypes = []aep.ResourceType{
	aep.ResourceTypeSchema,
	aep.ResourceTypeClass,
	aep.ResourceTypeFieldGroup,
	aep.ResourceTypeDataType,
	aep.ResourceTypeBehavior,
}

// RegistryClient implements aep.RegistryClient, the untyped collection used
// when the resource type of a reference is not known up front.
type RegistryClient struct {
	registry   *registry
	containers []aep.Container
}

// NewRegistryClient creates an untyped registry client.
func NewRegistryClient(reg *registry, containers ...aep.Container) *RegistryClient {
	return &RegistryClient{
		registry:   reg,
		containers: containers,
	}
}

// Get resolves a reference of any resource type. The type is decoded from
// the reference itself.
func (c *RegistryClient) Get(ctx context.Context, ref string) (*aep.Resource, error) {
	parsed, err := aep.ParseRef(ref)
	if err != nil {
		return nil, err
	}

	return c.registry.FetchResource(ctx, parsed, aep.FormatShort)
}

// List walks every resource type in every container in scope. Behaviors are
// global only and skipped for tenant-scoped clients.
func (c *RegistryClient) List(ctx context.Context, params *aep.QueryParams) ([]*aep.Resource, error) {
	var all []*aep.Resource

	for _, resourceType := range allResourceTypes {
		containers := c.containers
		if resourceType == aep.ResourceTypeBehavior {
			containers = globalOnly(containers)
			if len(containers) == 0 {
				continue
			}
		}

		items, err := listAll[aep.Resource](ctx, c.registry, containers, resourceType, params)
		if err != nil {
			return nil, err
		}

		all = append(all, items...)
	}

	return all, nil
}

// Find returns the single resource of any type matching the params.
func (c *RegistryClient) Find(ctx context.Context, params *aep.QueryParams) (*aep.Resource, error) {
	matches, err := c.List(ctx, params)
	if err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, aep.ErrNoMatch
	case 1:
		return matches[0], nil
	default:
		return nil, aep.ErrAmbiguousMatch
	}
}

func globalOnly(containers []aep.Container) []aep.Container {
	for _, container := range containers {
		if container == aep.ContainerGlobal {
			return []aep.Container{aep.ContainerGlobal}
		}
	}

	return nil
}
