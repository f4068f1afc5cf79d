package aep_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aepio/aep-client/pkg/aep"
)

func TestQueryParams_ToValues(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		values := aep.NewQueryParams().ToValues()
		assert.Empty(t, values)
	})

	t.Run("properties are sorted and comma-joined", func(t *testing.T) {
		t.Parallel()

		params := aep.NewQueryParams().
			WithProperty("meta:resourceType", "schemas").
			WithTitle("Loyalty Members")

		values := params.ToValues()
		assert.Equal(t, "meta:resourceType==schemas,title==Loyalty Members", values.Get("property"))
	})

	t.Run("pagination and ordering", func(t *testing.T) {
		t.Parallel()

		params := aep.NewQueryParams().
			WithOrderBy("-title").
			WithStart("_acmecorp.schemas.abc123").
			WithLimit(25)

		values := params.ToValues()
		assert.Equal(t, "-title", values.Get("orderby"))
		assert.Equal(t, "_acmecorp.schemas.abc123", values.Get("start"))
		assert.Equal(t, "25", values.Get("limit"))
	})

	t.Run("zero limit is omitted", func(t *testing.T) {
		t.Parallel()

		values := aep.NewQueryParams().WithLimit(0).ToValues()
		assert.Empty(t, values.Get("limit"))
	})
}

func TestQueryParams_WithFormat(t *testing.T) {
	t.Parallel()

	params := aep.NewQueryParams().WithFormat(aep.FormatID)
	assert.Equal(t, aep.FormatID, params.Format)

	// Format travels in the Accept header, not the query string.
	assert.Empty(t, params.ToValues().Get("format"))
}

func TestQueryParams_Clone(t *testing.T) {
	t.Parallel()

	original := aep.NewQueryParams().WithTitle("Loyalty Members").WithLimit(10)

	clone := original.Clone()
	clone.WithProperty("version", "1.0").WithStart("token")

	assert.Empty(t, original.Start)
	assert.NotContains(t, original.Properties, "version")
	assert.Equal(t, "Loyalty Members", clone.Properties["title"])
	assert.Equal(t, 10, clone.Limit)
}
