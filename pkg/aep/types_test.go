package aep_test

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aepio/aep-client/pkg/aep"
)

func TestResource_JSON(t *testing.T) {
	t.Parallel()

	doc := `{
		"$id": "https://ns.adobe.com/acmecorp/schemas/abc123",
		"meta:altId": "_acmecorp.schemas.abc123",
		"version": "1.2",
		"title": "Loyalty Members",
		"type": "object",
		"meta:extends": [
			"https://ns.adobe.com/xdm/context/profile",
			"https://ns.adobe.com/acmecorp/mixins/fg1"
		],
		"meta:resourceType": "schemas"
	}`

	var resource aep.Resource
	require.NoError(t, json.Unmarshal([]byte(doc), &resource))

	assert.Equal(t, "https://ns.adobe.com/acmecorp/schemas/abc123", resource.URI)
	assert.Equal(t, "_acmecorp.schemas.abc123", resource.ID)
	assert.Equal(t, "1.2", resource.Version)
	assert.Equal(t, "Loyalty Members", resource.Title)
	assert.Len(t, resource.Extends, 2)
	assert.Equal(t, "schemas", resource.ResourceKind)
}

func TestResource_Ref(t *testing.T) {
	t.Parallel()

	t.Run("from URI", func(t *testing.T) {
		t.Parallel()

		resource := aep.Resource{URI: "https://ns.adobe.com/acmecorp/schemas/abc123"}

		ref, err := resource.Ref()
		require.NoError(t, err)
		assert.Equal(t, "_acmecorp.schemas.abc123", ref.ID)
	})

	t.Run("from altId", func(t *testing.T) {
		t.Parallel()

		resource := aep.Resource{ID: "_acmecorp.schemas.abc123"}

		ref, err := resource.Ref()
		require.NoError(t, err)
		assert.Equal(t, aep.ResourceTypeSchema, ref.Type)
	})

	t.Run("unsaved", func(t *testing.T) {
		t.Parallel()

		resource := aep.Resource{Title: "Draft"}

		_, err := resource.Ref()
		require.ErrorIs(t, err, aep.ErrNotPersisted)
	})
}

func TestSchema_JSON(t *testing.T) {
	t.Parallel()

	doc := `{
		"meta:altId": "_acmecorp.schemas.abc123",
		"title": "Loyalty Members",
		"meta:class": "https://ns.adobe.com/xdm/context/profile"
	}`

	var schema aep.Schema
	require.NoError(t, json.Unmarshal([]byte(doc), &schema))
	assert.Equal(t, "https://ns.adobe.com/xdm/context/profile", schema.Class)
}

func TestProperty_RoundTrip(t *testing.T) {
	t.Parallel()

	// Server documents carry vendor keywords the typed view does not model;
	// they must survive a decode/encode cycle untouched.
	doc := `{"type":"string","title":"Loyalty ID","meta:xdmType":"string","pattern":"^L-","maxLength":32}`

	var property aep.Property
	require.NoError(t, json.Unmarshal([]byte(doc), &property))

	assert.Equal(t, aep.PropertyTypeString, property.Type)
	assert.Equal(t, "Loyalty ID", property.Title)
	assert.Equal(t, "string", property.XDMType)

	out, err := json.Marshal(property)
	require.NoError(t, err)
	assert.JSONEq(t, doc, string(out))
}

func TestProperty_MarshalConstructed(t *testing.T) {
	t.Parallel()

	property := aep.Property{
		Type:  aep.PropertyTypeObject,
		Title: "Address",
		Properties: map[string]aep.Property{
			"street": {Type: aep.PropertyTypeString},
		},
	}

	out, err := json.Marshal(property)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "object",
		"title": "Address",
		"properties": {"street": {"type": "string"}}
	}`, string(out))
}

func TestProperty_Nested(t *testing.T) {
	t.Parallel()

	doc := `{
		"type": "array",
		"items": {"type": "object", "properties": {"code": {"type": "string"}}}
	}`

	var property aep.Property
	require.NoError(t, json.Unmarshal([]byte(doc), &property))

	require.NotNil(t, property.Items)
	assert.Equal(t, aep.PropertyTypeObject, property.Items.Type)
	assert.Equal(t, aep.PropertyTypeString, property.Items.Properties["code"].Type)
}

func TestListResponse_JSON(t *testing.T) {
	t.Parallel()

	doc := `{
		"results": [
			{"meta:altId": "_acmecorp.schemas.one", "title": "One"},
			{"meta:altId": "_acmecorp.schemas.two", "title": "Two"}
		],
		"_page": {"orderby": "title", "count": 2, "next": "_acmecorp.schemas.two"}
	}`

	var page aep.ListResponse[*aep.Schema]
	require.NoError(t, json.Unmarshal([]byte(doc), &page))

	require.Len(t, page.Results, 2)
	assert.Equal(t, "One", page.Results[0].Title)
	assert.Equal(t, 2, page.Page.Count)
	assert.Equal(t, "_acmecorp.schemas.two", page.Page.Next)
}

func TestAcceptHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  aep.Format
		version int
		want    string
	}{
		{name: "short list", format: aep.FormatShort, version: 0, want: "application/vnd.adobe.xed+json"},
		{name: "short get", format: aep.FormatShort, version: 1, want: "application/vnd.adobe.xed+json; version=1"},
		{name: "full get", format: aep.FormatFull, version: 1, want: "application/vnd.adobe.xed-full+json; version=1"},
		{name: "id list", format: aep.FormatID, version: 0, want: "application/vnd.adobe.xed-id+json"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, aep.AcceptHeader(tt.format, tt.version))
		})
	}
}
