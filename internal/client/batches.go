package client

import (
	"context"
	"fmt"
	"io"
	"net/url"

	json "github.com/goccy/go-json"

	"github.com/aepio/aep-client/internal/constants"
	"github.com/aepio/aep-client/internal/http"
	"github.com/aepio/aep-client/pkg/aep"
)

// BatchesClient implements aep.BatchesClient. Reads go through catalog;
// creation, uploads, and promotion go through the bulk ingestion service.
type BatchesClient struct {
	httpClient *http.Client
}

// NewBatchesClient creates a batches client.
func NewBatchesClient(httpClient *http.Client) *BatchesClient {
	return &BatchesClient{httpClient: httpClient}
}

// Get implements aep.BatchesClient.Get.
func (c *BatchesClient) Get(ctx context.Context, id string) (*aep.Batch, error) {
	path := constants.CatalogBatchesPath + "/" + url.PathEscape(id)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting batch: %w", err)
	}

	batches, err := decodeBatchMap(resp.Body)
	if err != nil {
		return nil, err
	}

	if len(batches) == 0 {
		return nil, fmt.Errorf("getting batch %s: %w", id, aep.ErrNoMatch)
	}

	return batches[0], nil
}

// List implements aep.BatchesClient.List. Filters are catalog property
// matches ("status", "dataSet") applied server side.
func (c *BatchesClient) List(ctx context.Context, filters map[string]string) ([]*aep.Batch, error) {
	var all []*aep.Batch

	for start := 0; ; start += constants.CatalogPageSize {
		query := catalogQuery(filters, start)

		resp, err := c.httpClient.Get(ctx, constants.CatalogBatchesPath, query)
		if err != nil {
			return nil, fmt.Errorf("listing batches: %w", err)
		}

		page, err := decodeBatchMap(resp.Body)
		if err != nil {
			return nil, err
		}

		all = append(all, page...)

		if len(page) < constants.CatalogPageSize {
			return all, nil
		}
	}
}

// Create implements aep.BatchesClient.Create, opening an import batch
// targeting a dataset.
func (c *BatchesClient) Create(ctx context.Context, datasetID, format string) (*aep.Batch, error) {
	if format == "" {
		format = "parquet"
	}

	inputFormat := map[string]interface{}{
		"format": format,
	}

	// The import service spells line-delimited JSON as json with the
	// multiline flag rather than a jsonl format.
	if format == "jsonl" {
		inputFormat["format"] = "json"
		inputFormat["isMultiLineJson"] = true
	}

	body := map[string]interface{}{
		"datasetId":   datasetID,
		"inputFormat": inputFormat,
	}

	resp, err := c.httpClient.Post(ctx, constants.ImportBatchesPath, body)
	if err != nil {
		return nil, fmt.Errorf("creating batch: %w", err)
	}

	// Unlike catalog reads, the import service answers with the object
	// itself, id included.
	var batch struct {
		aep.Batch

		ID string `json:"id"`
	}

	if err := json.Unmarshal(resp.Body, &batch); err != nil {
		return nil, fmt.Errorf("parsing batch response: %w", err)
	}

	result := batch.Batch
	result.ID = batch.ID

	return &result, nil
}

// Upload implements aep.BatchesClient.Upload.
func (c *BatchesClient) Upload(ctx context.Context, batchID, datasetID, name string, data io.Reader) error {
	path := fmt.Sprintf("%s/%s/datasets/%s/files/%s",
		constants.ImportBatchesPath,
		url.PathEscape(batchID),
		url.PathEscape(datasetID),
		url.PathEscape(name))

	if _, err := c.httpClient.Upload(ctx, path, data, "application/octet-stream"); err != nil {
		return fmt.Errorf("uploading batch file %s: %w", name, err)
	}

	return nil
}

// Complete implements aep.BatchesClient.Complete.
func (c *BatchesClient) Complete(ctx context.Context, batchID string) error {
	return c.signal(ctx, batchID, "COMPLETE")
}

// Abort implements aep.BatchesClient.Abort.
func (c *BatchesClient) Abort(ctx context.Context, batchID string) error {
	return c.signal(ctx, batchID, "ABORT")
}

// Revert implements aep.BatchesClient.Revert.
func (c *BatchesClient) Revert(ctx context.Context, batchID string) error {
	return c.signal(ctx, batchID, "REVERT")
}

// signal posts a lifecycle action to an import batch.
func (c *BatchesClient) signal(ctx context.Context, batchID, action string) error {
	req := &http.Request{
		Method: "POST",
		Path:   constants.ImportBatchesPath + "/" + url.PathEscape(batchID),
		Query:  url.Values{"action": []string{action}},
	}

	if _, err := c.httpClient.Do(ctx, req); err != nil {
		return fmt.Errorf("signaling batch %s %s: %w", batchID, action, err)
	}

	return nil
}

func decodeBatchMap(body []byte) ([]*aep.Batch, error) {
	var keyed map[string]*aep.Batch
	if err := json.Unmarshal(body, &keyed); err != nil {
		return nil, fmt.Errorf("parsing batch response: %w", err)
	}

	batches := make([]*aep.Batch, 0, len(keyed))

	for id, batch := range keyed {
		batch.ID = id
		batches = append(batches, batch)
	}

	return batches, nil
}
