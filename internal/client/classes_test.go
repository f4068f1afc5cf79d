package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aepio/aep-client/pkg/aep"
)

func TestClassesClient_Get(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/foundation/schemaregistry/global/classes/_xdm.context.profile", r.URL.Path)
		assert.Equal(t, "GET", r.Method)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"$id":        "https://ns.adobe.com/xdm/context/profile",
			"meta:altId": "_xdm.context.profile",
			"title":      "XDM Individual Profile",
		})
	}))
	defer server.Close()

	client, err := New(&aep.Config{Endpoint: server.URL, AccessToken: "test-token"})
	require.NoError(t, err)

	class, err := client.Classes().Get(context.Background(), "https://ns.adobe.com/xdm/context/profile")
	require.NoError(t, err)
	assert.Equal(t, "XDM Individual Profile", class.Title)
}

func TestClassesClient_Create(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/foundation/schemaregistry/tenant/classes", r.URL.Path)
		assert.Equal(t, "POST", r.Method)

		var body struct {
			Title string           `json:"title"`
			AllOf []aep.AllOfEntry `json:"allOf"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		require.Len(t, body.AllOf, 1)
		assert.Equal(t, "https://ns.adobe.com/xdm/data/record", body.AllOf[0].Ref)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"$id":        "https://ns.adobe.com/acmecorp/classes/new1",
			"meta:altId": "_acmecorp.classes.new1",
			"title":      body.Title,
		})
	}))
	defer server.Close()

	client, err := New(&aep.Config{Endpoint: server.URL, AccessToken: "test-token"})
	require.NoError(t, err)

	class, err := client.Classes().Create(context.Background(), &aep.ClassCreateRequest{
		Title:    "Loyalty Tier",
		Behavior: "https://ns.adobe.com/xdm/data/record",
	})
	require.NoError(t, err)
	assert.Equal(t, "_acmecorp.classes.new1", class.ID)
}

func TestClassesClient_CreateRejectsBadBehavior(t *testing.T) {
	t.Parallel()

	client, err := New(&aep.Config{AccessToken: "test-token"})
	require.NoError(t, err)

	_, err = client.Classes().Create(context.Background(), &aep.ClassCreateRequest{
		Title:    "Broken",
		Behavior: "https://ns.adobe.com/xdm/context/profile",
	})
	require.ErrorIs(t, err, aep.ErrRefTypeMismatch)
}

func TestClassesClient_Update(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/foundation/schemaregistry/tenant/classes/_acmecorp.classes.abc", r.URL.Path)
		assert.Equal(t, "PATCH", r.Method)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"meta:altId":  "_acmecorp.classes.abc",
			"description": "updated",
		})
	}))
	defer server.Close()

	client, err := New(&aep.Config{Endpoint: server.URL, AccessToken: "test-token"})
	require.NoError(t, err)

	class, err := client.Classes().Update(context.Background(), "_acmecorp.classes.abc",
		[]aep.PatchOperation{{Op: "replace", Path: "/description", Value: "updated"}})
	require.NoError(t, err)
	assert.Equal(t, "updated", class.Description)
}

func TestClassesClient_UpdateGlobal(t *testing.T) {
	t.Parallel()

	client, err := New(&aep.Config{AccessToken: "test-token"})
	require.NoError(t, err)

	_, err = client.Classes().Update(context.Background(), "https://ns.adobe.com/xdm/context/profile",
		[]aep.PatchOperation{{Op: "replace", Path: "/title", Value: "nope"}})
	require.ErrorIs(t, err, aep.ErrGlobalReadOnly)
}

func TestClassesClient_CreateGlobalScoped(t *testing.T) {
	t.Parallel()

	client, err := New(&aep.Config{AccessToken: "test-token"})
	require.NoError(t, err)

	_, err = client.GlobalClasses().Create(context.Background(), &aep.ClassCreateRequest{
		Title:    "Loyalty Class",
		Behavior: "https://ns.adobe.com/xdm/data/record",
	})
	require.ErrorIs(t, err, aep.ErrGlobalReadOnly)
}

func TestClassesClient_Delete(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/foundation/schemaregistry/tenant/classes/_acmecorp.classes.abc", r.URL.Path)
		assert.Equal(t, "DELETE", r.Method)

		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client, err := New(&aep.Config{Endpoint: server.URL, AccessToken: "test-token"})
	require.NoError(t, err)

	err = client.Classes().Delete(context.Background(), "_acmecorp.classes.abc")
	require.NoError(t, err)
}
