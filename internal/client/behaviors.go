package client

import (
	"context"

	"github.com/aepio/aep-client/pkg/aep"
)

// Well-known behavior identifiers. Behaviors are platform defined; these
// three are the complete set.
const (
	behaviorAdhocURI      = "https://ns.adobe.com/xdm/data/adhoc"
	behaviorRecordURI     = "https://ns.adobe.com/xdm/data/record"
	behaviorTimeSeriesURI = "https://ns.adobe.com/xdm/data/time-series"
)

// BehaviorsClient implements aep.BehaviorsClient. Behaviors only exist in
// the global container.
type BehaviorsClient struct {
	registry *registry
}

// NewBehaviorsClient creates a behaviors client.
func NewBehaviorsClient(reg *registry) *BehaviorsClient {
	return &BehaviorsClient{registry: reg}
}

// Get implements aep.BehaviorsClient.Get.
func (c *BehaviorsClient) Get(ctx context.Context, ref string) (*aep.Behavior, error) {
	return getResource[aep.Behavior](ctx, c.registry, aep.ResourceTypeBehavior, ref, aep.FormatShort)
}

// List implements aep.BehaviorsClient.List.
func (c *BehaviorsClient) List(ctx context.Context, params *aep.QueryParams) ([]*aep.Behavior, error) {
	return listAll[aep.Behavior](ctx, c.registry, []aep.Container{aep.ContainerGlobal}, aep.ResourceTypeBehavior, params)
}

// Find implements aep.BehaviorsClient.Find.
func (c *BehaviorsClient) Find(ctx context.Context, params *aep.QueryParams) (*aep.Behavior, error) {
	return findResource[aep.Behavior](ctx, c.registry, []aep.Container{aep.ContainerGlobal}, aep.ResourceTypeBehavior, params)
}

// Adhoc returns the adhoc data behavior.
func (c *BehaviorsClient) Adhoc() *aep.Behavior {
	return c.wellKnown(behaviorAdhocURI)
}

// Record returns the record data behavior.
func (c *BehaviorsClient) Record() *aep.Behavior {
	return c.wellKnown(behaviorRecordURI)
}

// TimeSeries returns the time-series data behavior.
func (c *BehaviorsClient) TimeSeries() *aep.Behavior {
	return c.wellKnown(behaviorTimeSeriesURI)
}

func (c *BehaviorsClient) wellKnown(uri string) *aep.Behavior {
	ref, err := aep.ParseRefAs(uri, aep.ResourceTypeBehavior)
	if err != nil {
		// The three URIs above are compile-time constants in the globals
		// table; a parse failure is a programming error.
		panic(err)
	}

	behavior := &aep.Behavior{Resource: aep.Resource{URI: ref.URI, ID: ref.ID}}
	behavior.Bind(c.registry)

	return behavior
}
