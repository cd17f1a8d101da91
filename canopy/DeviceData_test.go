package canopy_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canopyhq/canopy-go/canopy"
)

// TestGetDeviceDataTreeByName walks the full resolution chain: device
// introspection selects the installed major, the interface definition is
// fetched, then the value document is folded into a tree.
func TestGetDeviceDataTreeByName(t *testing.T) {
	tb := newTestBackend(t)
	tb.router.Get("/v1/{realm}/devices/{deviceID}", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, map[string]any{
			"id": "dev1",
			"introspection": map[string]any{
				"com.acme.Thermostat": map[string]int{"major": 2, "minor": 0},
			},
		})
	})
	tb.router.Get("/v1/{realm}/interfaces/{interfaceName}/{interfaceMajor}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "com.acme.Thermostat", chi.URLParam(r, "interfaceName"))
		assert.Equal(t, "2", chi.URLParam(r, "interfaceMajor"))
		writeData(w, map[string]any{
			"interface_name": "com.acme.Thermostat",
			"version_major":  2,
			"version_minor":  0,
			"type":           "properties",
			"ownership":      "device",
			"mappings": []map[string]any{
				{"endpoint": "/living/temperature", "type": "double"},
			},
		})
	})
	tb.router.Get("/v1/{realm}/devices/{deviceID}/interfaces/{interfaceName}", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, map[string]any{
			"living": map[string]any{"temperature": 21.5},
		})
	})
	c := tb.client()
	defer c.Close()
	ctx := context.Background()

	tree, err := c.GetDeviceDataTreeByName(ctx, "dev1", "com.acme.Thermostat")
	require.NoError(t, err)
	leaves := tree.Leaves()
	require.Len(t, leaves, 1)
	assert.Equal(t, "/living/temperature", leaves[0].Path)
	assert.Equal(t, 21.5, leaves[0].Value)

	// an interface absent from the introspection fails without fetching
	// definitions or values
	before := tb.requests.Load()
	_, err = c.GetDeviceDataTreeByName(ctx, "dev1", "com.acme.Missing")
	require.Error(t, err)
	assert.Equal(t, before+1, tb.requests.Load(),
		"only the introspection lookup may hit the backend")
}

func TestGetDeviceInterfaceValuesPreconditions(t *testing.T) {
	tb := newTestBackend(t)
	c := tb.client()
	defer c.Close()
	ctx := context.Background()

	_, err := c.GetDeviceInterfaceValues(ctx, "", "com.acme.Thermostat")
	require.ErrorIs(t, err, canopy.ErrEmptyIdentifier)
	_, err = c.GetDeviceInterfaceValues(ctx, "dev1", "")
	require.ErrorIs(t, err, canopy.ErrEmptyIdentifier)
	assert.Zero(t, tb.requests.Load())
}
