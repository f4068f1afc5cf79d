package aep

import (
	"context"
	"io"
)

// Dataset represents a catalog dataset. Catalog responds with objects keyed
// by id rather than lists, so the ID field is populated by the client from
// the response key.
type Dataset struct {
	ID          string                 `json:"-"`
	Name        string                 `json:"name,omitempty"`
	Description string                 `json:"description,omitempty"`
	State       string                 `json:"state,omitempty"`
	Created     int64                  `json:"created,omitempty"`
	Updated     int64                  `json:"updated,omitempty"`
	IMSOrg      string                 `json:"imsOrg,omitempty"`
	SchemaRef   *SchemaRef             `json:"schemaRef,omitempty"`
	Tags        map[string][]string    `json:"tags,omitempty"`
	FileDesc    map[string]interface{} `json:"fileDescription,omitempty"`
}

// SchemaRef ties a dataset to the schema its batches validate against.
type SchemaRef struct {
	ID          string `json:"id"`
	ContentType string `json:"contentType"`
}

// Batch represents a catalog batch ingestion unit.
type Batch struct {
	ID             string               `json:"-"`
	Status         string               `json:"status,omitempty"`
	Created        int64                `json:"created,omitempty"`
	Updated        int64                `json:"updated,omitempty"`
	IMSOrg         string               `json:"imsOrg,omitempty"`
	RelatedObjects []BatchRelatedObject `json:"relatedObjects,omitempty"`
	Metrics        map[string]int64     `json:"metrics,omitempty"`
	Errors         []BatchError         `json:"errors,omitempty"`
}

// BatchRelatedObject links a batch to the dataset it targets.
type BatchRelatedObject struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// BatchError carries a per-batch ingestion failure reported by catalog.
type BatchError struct {
	Code        string `json:"code,omitempty"`
	Description string `json:"description,omitempty"`
}

// Batch status values reported by catalog.
const (
	BatchStatusLoading  = "loading"
	BatchStatusStaged   = "staged"
	BatchStatusActive   = "active"
	BatchStatusSuccess  = "success"
	BatchStatusFailed   = "failed"
	BatchStatusAborted  = "aborted"
	BatchStatusReverted = "reverted"
	BatchStatusInactive = "inactive"
)

// DatasetCreateRequest describes a new catalog dataset bound to a schema.
type DatasetCreateRequest struct {
	Name        string
	Description string
	// SchemaRef is the $id of the schema records in the dataset conform to.
	SchemaRef string
	// Format is the file format for ingested data, "parquet" or "json".
	// Defaults to "parquet".
	Format string
}

// DatasetsClient manages catalog datasets.
type DatasetsClient interface {
	Get(ctx context.Context, id string) (*Dataset, error)
	List(ctx context.Context, filters map[string]string) ([]*Dataset, error)
	Find(ctx context.Context, filters map[string]string) (*Dataset, error)
	Create(ctx context.Context, request *DatasetCreateRequest) (*Dataset, error)

	// Update patches the given fields ("name", "description", "tags") and
	// returns the refreshed dataset.
	Update(ctx context.Context, id string, changes map[string]interface{}) (*Dataset, error)
	Delete(ctx context.Context, id string) error
}

// BatchesClient manages catalog batches and batch ingestion.
type BatchesClient interface {
	Get(ctx context.Context, id string) (*Batch, error)
	List(ctx context.Context, filters map[string]string) ([]*Batch, error)

	// Create opens a new import batch targeting a dataset.
	Create(ctx context.Context, datasetID, format string) (*Batch, error)

	// Upload streams a file into an open batch under the given name.
	Upload(ctx context.Context, batchID, datasetID, name string, data io.Reader) error

	// Complete signals the batch is fully uploaded and ready for promotion.
	Complete(ctx context.Context, batchID string) error
	// Abort cancels an in-progress batch.
	Abort(ctx context.Context, batchID string) error
	// Revert removes a promoted batch from the dataset.
	Revert(ctx context.Context, batchID string) error
}
