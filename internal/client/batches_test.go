package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aepio/aep-client/pkg/aep"
)

func TestBatchesClient_Get(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/foundation/catalog/batches/batch-1", r.URL.Path)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"batch-1": map[string]interface{}{
				"status": "success",
				"relatedObjects": []map[string]interface{}{
					{"type": "dataSet", "id": "ds-1"},
				},
			},
		})
	}))
	defer server.Close()

	client, err := New(&aep.Config{Endpoint: server.URL, AccessToken: "test-token"})
	require.NoError(t, err)

	batch, err := client.Batches().Get(context.Background(), "batch-1")
	require.NoError(t, err)
	assert.Equal(t, "batch-1", batch.ID)
	assert.Equal(t, aep.BatchStatusSuccess, batch.Status)
	require.Len(t, batch.RelatedObjects, 1)
	assert.Equal(t, "ds-1", batch.RelatedObjects[0].ID)
}

func TestBatchesClient_List(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/foundation/catalog/batches", r.URL.Path)
		assert.Equal(t, "status==failed", r.URL.Query().Get("property"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"batch-1": map[string]interface{}{"status": "failed"},
		})
	}))
	defer server.Close()

	client, err := New(&aep.Config{Endpoint: server.URL, AccessToken: "test-token"})
	require.NoError(t, err)

	batches, err := client.Batches().List(context.Background(), map[string]string{"status": "failed"})
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, aep.BatchStatusFailed, batches[0].Status)
}

func TestBatchesClient_Create(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/foundation/import/batches", r.URL.Path)
		assert.Equal(t, "POST", r.Method)

		var body struct {
			DatasetID   string `json:"datasetId"`
			InputFormat struct {
				Format string `json:"format"`
			} `json:"inputFormat"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "ds-1", body.DatasetID)
		assert.Equal(t, "json", body.InputFormat.Format)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "batch-new",
			"status": "loading",
		})
	}))
	defer server.Close()

	client, err := New(&aep.Config{Endpoint: server.URL, AccessToken: "test-token"})
	require.NoError(t, err)

	batch, err := client.Batches().Create(context.Background(), "ds-1", "json")
	require.NoError(t, err)
	assert.Equal(t, "batch-new", batch.ID)
	assert.Equal(t, aep.BatchStatusLoading, batch.Status)
}

func TestBatchesClient_CreateJSONL(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			InputFormat struct {
				Format          string `json:"format"`
				IsMultiLineJSON bool   `json:"isMultiLineJson"`
			} `json:"inputFormat"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "json", body.InputFormat.Format)
		assert.True(t, body.InputFormat.IsMultiLineJSON)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "batch-new"})
	}))
	defer server.Close()

	client, err := New(&aep.Config{Endpoint: server.URL, AccessToken: "test-token"})
	require.NoError(t, err)

	batch, err := client.Batches().Create(context.Background(), "ds-1", "jsonl")
	require.NoError(t, err)
	assert.Equal(t, "batch-new", batch.ID)
}

func TestBatchesClient_Upload(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/foundation/import/batches/batch-1/datasets/ds-1/files/part-0.json", r.URL.Path)
		assert.Equal(t, "PUT", r.Method)
		assert.Equal(t, "application/octet-stream", r.Header.Get("Content-Type"))

		data, _ := io.ReadAll(r.Body)
		assert.Equal(t, `{"loyaltyId":"L-1"}`, string(data))

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := New(&aep.Config{Endpoint: server.URL, AccessToken: "test-token"})
	require.NoError(t, err)

	err = client.Batches().Upload(context.Background(), "batch-1", "ds-1", "part-0.json",
		strings.NewReader(`{"loyaltyId":"L-1"}`))
	require.NoError(t, err)
}

func TestBatchesClient_Signals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		signal func(ctx context.Context, c aep.BatchesClient, id string) error
		action string
	}{
		{
			name: "complete",
			signal: func(ctx context.Context, c aep.BatchesClient, id string) error {
				return c.Complete(ctx, id)
			},
			action: "COMPLETE",
		},
		{
			name: "abort",
			signal: func(ctx context.Context, c aep.BatchesClient, id string) error {
				return c.Abort(ctx, id)
			},
			action: "ABORT",
		},
		{
			name: "revert",
			signal: func(ctx context.Context, c aep.BatchesClient, id string) error {
				return c.Revert(ctx, id)
			},
			action: "REVERT",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/data/foundation/import/batches/batch-1", r.URL.Path)
				assert.Equal(t, "POST", r.Method)
				assert.Equal(t, tt.action, r.URL.Query().Get("action"))

				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			client, err := New(&aep.Config{Endpoint: server.URL, AccessToken: "test-token"})
			require.NoError(t, err)

			err = tt.signal(context.Background(), client.Batches(), "batch-1")
			require.NoError(t, err)
		})
	}
}
