package commands

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateClient(t *testing.T) {
	t.Run("not authenticated", func(t *testing.T) {
		viper.Reset()

		client, err := CreateClient()
		require.ErrorIs(t, err, ErrNotAuthenticated)
		assert.Nil(t, client)
	})

	t.Run("access token", func(t *testing.T) {
		viper.Reset()
		viper.Set("access_token", "test-token")
		viper.Set("sandbox", "dev")

		t.Cleanup(viper.Reset)

		client, err := CreateClient()
		require.NoError(t, err)
		assert.Equal(t, "dev", client.Sandbox())
	})
}

func TestFormatEpochMillis(t *testing.T) {
	assert.Equal(t, NotAvailable, formatEpochMillis(0))
	assert.Equal(t, "2024-01-15 12:30:45", formatEpochMillis(1705321845000))
}

func TestBuildListParams(t *testing.T) {
	params := buildListParams("Loyalty Members", "title", 10)
	values := params.ToValues()

	assert.Equal(t, "title==Loyalty Members", values.Get("property"))
	assert.Equal(t, "title", values.Get("orderby"))
	assert.Equal(t, "10", values.Get("limit"))

	empty := buildListParams("", "", 0)
	assert.Empty(t, empty.ToValues().Encode())
}

func TestOrNA(t *testing.T) {
	assert.Equal(t, NotAvailable, orNA(""))
	assert.Equal(t, "value", orNA("value"))
}

func TestResolveBehaviorRef(t *testing.T) {
	viper.Reset()
	viper.Set("access_token", "test-token")

	t.Cleanup(viper.Reset)

	client, err := CreateClient()
	require.NoError(t, err)

	ref, err := resolveBehaviorRef(client, "record")
	require.NoError(t, err)
	assert.Equal(t, "https://ns.adobe.com/xdm/data/record", ref)

	ref, err = resolveBehaviorRef(client, "https://ns.adobe.com/xdm/data/time-series")
	require.NoError(t, err)
	assert.Equal(t, "https://ns.adobe.com/xdm/data/time-series", ref)

	_, err = resolveBehaviorRef(client, "bogus")
	assert.ErrorIs(t, err, ErrUnknownBehavior)
}
