package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/aepio/aep-client/internal/constants"
	"github.com/aepio/aep-client/internal/http"
	"github.com/aepio/aep-client/pkg/aep"
)

// DatasetsClient implements aep.DatasetsClient against the catalog service.
// Catalog responds with objects keyed by id rather than lists, and pages by
// fixed-size offset rather than a next token.
type DatasetsClient struct {
	httpClient *http.Client
}

// NewDatasetsClient creates a datasets client.
func NewDatasetsClient(httpClient *http.Client) *DatasetsClient {
	return &DatasetsClient{httpClient: httpClient}
}

// Get implements aep.DatasetsClient.Get.
func (c *DatasetsClient) Get(ctx context.Context, id string) (*aep.Dataset, error) {
	path := constants.CatalogDatasetsPath + "/" + url.PathEscape(id)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting dataset: %w", err)
	}

	datasets, err := decodeDatasetMap(resp.Body)
	if err != nil {
		return nil, err
	}

	if len(datasets) == 0 {
		return nil, fmt.Errorf("getting dataset %s: %w", id, aep.ErrNoMatch)
	}

	return datasets[0], nil
}

// List implements aep.DatasetsClient.List. Filters are catalog property
// matches ("name", "state") applied server side.
func (c *DatasetsClient) List(ctx context.Context, filters map[string]string) ([]*aep.Dataset, error) {
	var all []*aep.Dataset

	for start := 0; ; start += constants.CatalogPageSize {
		query := catalogQuery(filters, start)

		resp, err := c.httpClient.Get(ctx, constants.CatalogDatasetsPath, query)
		if err != nil {
			return nil, fmt.Errorf("listing datasets: %w", err)
		}

		page, err := decodeDatasetMap(resp.Body)
		if err != nil {
			return nil, err
		}

		all = append(all, page...)

		if len(page) < constants.CatalogPageSize {
			return all, nil
		}
	}
}

// Find implements aep.DatasetsClient.Find.
func (c *DatasetsClient) Find(ctx context.Context, filters map[string]string) (*aep.Dataset, error) {
	matches, err := c.List(ctx, filters)
	if err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("finding dataset: %w", aep.ErrNoMatch)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("finding dataset: %d results: %w", len(matches), aep.ErrAmbiguousMatch)
	}
}

// Create implements aep.DatasetsClient.Create. Catalog answers a create with
// a list of "@/dataSets/<id>" paths rather than the created object.
func (c *DatasetsClient) Create(ctx context.Context, request *aep.DatasetCreateRequest) (*aep.Dataset, error) {
	format := request.Format
	if format == "" {
		format = "parquet"
	}

	schemaRef, err := aep.ParseRefAs(request.SchemaRef, aep.ResourceTypeSchema)
	if err != nil {
		return nil, fmt.Errorf("resolving dataset schema: %w", err)
	}

	body := map[string]interface{}{
		"name":        request.Name,
		"description": request.Description,
		"schemaRef": aep.SchemaRef{
			ID:          schemaRef.URI,
			ContentType: aep.AcceptHeader(aep.FormatFull, 1),
		},
		"fileDescription": map[string]interface{}{
			"persisted":       true,
			"containerFormat": format,
			"format":          format,
		},
	}

	resp, err := c.httpClient.Post(ctx, constants.CatalogDatasetsPath, body)
	if err != nil {
		return nil, fmt.Errorf("creating dataset: %w", err)
	}

	var created []string
	if err := json.Unmarshal(resp.Body, &created); err != nil {
		return nil, fmt.Errorf("parsing dataset create response: %w", err)
	}

	if len(created) == 0 {
		return nil, fmt.Errorf("creating dataset: %w", aep.ErrNoMatch)
	}

	id := strings.TrimPrefix(created[0], "@/dataSets/")

	return c.Get(ctx, id)
}

// Update implements aep.DatasetsClient.Update.
func (c *DatasetsClient) Update(ctx context.Context, id string, changes map[string]interface{}) (*aep.Dataset, error) {
	path := constants.CatalogDatasetsPath + "/" + url.PathEscape(id)

	if _, err := c.httpClient.Patch(ctx, path, changes); err != nil {
		return nil, fmt.Errorf("updating dataset: %w", err)
	}

	return c.Get(ctx, id)
}

// Delete implements aep.DatasetsClient.Delete.
func (c *DatasetsClient) Delete(ctx context.Context, id string) error {
	path := constants.CatalogDatasetsPath + "/" + url.PathEscape(id)

	if _, err := c.httpClient.Delete(ctx, path); err != nil {
		return fmt.Errorf("deleting dataset: %w", err)
	}

	return nil
}

// catalogQuery builds the offset-paged catalog query with property filters.
func catalogQuery(filters map[string]string, start int) url.Values {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(constants.CatalogPageSize))
	query.Set("start", strconv.Itoa(start))

	for name, value := range filters {
		query.Add("property", name+"=="+value)
	}

	return query
}

// decodeDatasetMap decodes a catalog id-keyed response into datasets with
// their ID fields populated from the keys.
func decodeDatasetMap(body []byte) ([]*aep.Dataset, error) {
	var keyed map[string]*aep.Dataset
	if err := json.Unmarshal(body, &keyed); err != nil {
		return nil, fmt.Errorf("parsing dataset response: %w", err)
	}

	datasets := make([]*aep.Dataset, 0, len(keyed))

	for id, dataset := range keyed {
		dataset.ID = id
		datasets = append(datasets, dataset)
	}

	return datasets, nil
}
