package canopy_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canopyhq/canopy-go/canopy"
	"github.com/canopyhq/canopy-go/types"
	"github.com/canopyhq/canopy-go/utils"
)

const testRealm = "acme"

func TestMain(m *testing.M) {
	utils.SetLogging("warn", "")
	res := m.Run()
	os.Exit(res)
}

// testBackend serves all four planes from one base URL and counts requests.
type testBackend struct {
	srv      *httptest.Server
	router   *chi.Mux
	requests atomic.Int64

	// raw escaped path of the last request, for encoding assertions
	lastEscapedPath atomic.Value
}

func newTestBackend(t *testing.T) *testBackend {
	tb := &testBackend{router: chi.NewRouter()}
	tb.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tb.requests.Add(1)
			tb.lastEscapedPath.Store(r.URL.EscapedPath())
			next.ServeHTTP(w, r)
		})
	})
	tb.srv = httptest.NewServer(tb.router)
	t.Cleanup(tb.srv.Close)
	return tb
}

func (tb *testBackend) client() *canopy.Client {
	return canopy.NewCanopyClient(&canopy.Config{
		Realm:              testRealm,
		Token:              "test-token",
		AppEngineURL:       tb.srv.URL,
		FlowURL:            tb.srv.URL,
		PairingURL:         tb.srv.URL,
		RealmManagementURL: tb.srv.URL,
	})
}

func writeData(w http.ResponseWriter, data any) {
	_ = jsoniter.NewEncoder(w).Encode(map[string]any{"data": data})
}

func readData(r *http.Request) map[string]any {
	raw, _ := io.ReadAll(r.Body)
	var env struct {
		Data map[string]any `json:"data"`
	}
	_ = jsoniter.Unmarshal(raw, &env)
	return env.Data
}

func TestListDevicesPagination(t *testing.T) {
	tb := newTestBackend(t)
	tb.router.Get("/v1/{realm}/devices", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testRealm, chi.URLParam(r, "realm"))
		assert.Equal(t, "true", r.URL.Query().Get("details"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		if r.URL.Query().Get("from_token") == "" {
			_, _ = w.Write([]byte(`{
				"data": [{"id":"dev1","connected":true,
				          "last_connection":"2026-08-26T08:30:00Z"}],
				"links": {"self":"/v1/acme/devices?details=true",
				          "next":"/v1/acme/devices?details=true&from_token=tok42"}}`))
			return
		}
		assert.Equal(t, "tok42", r.URL.Query().Get("from_token"))
		_, _ = w.Write([]byte(`{
			"data": [{"id":"dev2","connected":false}],
			"links": {"self":"/v1/acme/devices?from_token=tok42"}}`))
	})
	c := tb.client()
	defer c.Close()
	ctx := context.Background()

	devices, next, err := c.ListDevices(ctx, canopy.ListDevicesOptions{})
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "dev1", devices[0].ID)
	assert.True(t, devices[0].Connected)
	assert.Equal(t, time.Date(2026, 8, 26, 8, 30, 0, 0, time.UTC),
		devices[0].LastConnection.UTC())
	assert.Equal(t, "tok42", next)

	devices, next, err = c.ListDevices(ctx, canopy.ListDevicesOptions{FromToken: next})
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "dev2", devices[0].ID)
	assert.Empty(t, next, "no next link means the listing is complete")
}

func TestGetDeviceMapsTheEnvelope(t *testing.T) {
	tb := newTestBackend(t)
	tb.router.Get("/v1/{realm}/devices/{deviceID}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "dev1", chi.URLParam(r, "deviceID"))
		writeData(w, map[string]any{
			"id":        "dev1",
			"aliases":   map[string]string{"display_name": "Boiler"},
			"connected": true,
			"introspection": map[string]any{
				"com.acme.Thermostat": map[string]int{"major": 1, "minor": 3},
			},
		})
	})
	c := tb.client()
	defer c.Close()

	dev, err := c.GetDevice(context.Background(), "dev1")
	require.NoError(t, err)
	assert.Equal(t, "Boiler", dev.Aliases["display_name"])
	assert.Equal(t, types.InterfaceVersion{Major: 1, Minor: 3},
		dev.Introspection["com.acme.Thermostat"])
}

func TestEmptyIdentifiersFailBeforeAnyRequest(t *testing.T) {
	tb := newTestBackend(t)
	c := tb.client()
	defer c.Close()
	ctx := context.Background()

	_, err := c.GetDevice(ctx, "")
	require.ErrorIs(t, err, canopy.ErrEmptyIdentifier)
	require.ErrorIs(t, c.DeleteDevice(ctx, ""), canopy.ErrEmptyIdentifier)
	require.ErrorIs(t, c.AddDeviceToGroup(ctx, "", "dev1"), canopy.ErrEmptyIdentifier)
	require.ErrorIs(t, c.AddDeviceToGroup(ctx, "floor1", ""), canopy.ErrEmptyIdentifier)
	require.ErrorIs(t, c.RemoveDeviceFromGroup(ctx, "floor1", ""), canopy.ErrEmptyIdentifier)
	_, err = c.GetTrigger(ctx, "")
	require.ErrorIs(t, err, canopy.ErrEmptyIdentifier)
	_, err = c.GetInterface(ctx, "", 1)
	require.ErrorIs(t, err, canopy.ErrEmptyIdentifier)
	_, err = c.GetPipeline(ctx, "")
	require.ErrorIs(t, err, canopy.ErrEmptyIdentifier)

	assert.Zero(t, tb.requests.Load(), "precondition failures must not reach the network")
}

func TestGroupNamesAreDoubleEncoded(t *testing.T) {
	tb := newTestBackend(t)
	tb.router.Get("/v1/{realm}/groups/{groupName}", func(w http.ResponseWriter, r *http.Request) {
		// the raw path carries the name encoded twice; one decode by the
		// router leaves a single level, a second recovers the original
		once := chi.URLParam(r, "groupName")
		assert.Equal(t, "sports%20team", once)
		twice, err := url.PathUnescape(once)
		assert.NoError(t, err)
		assert.Equal(t, "sports team", twice)
		writeData(w, map[string]string{"group_name": twice})
	})
	c := tb.client()
	defer c.Close()

	group, err := c.GetGroup(context.Background(), "sports team")
	require.NoError(t, err)
	assert.Equal(t, "sports team", group.Name)
	assert.Contains(t, tb.lastEscapedPath.Load(), "sports%2520team")
}

func TestCreateGroupNeedsDevices(t *testing.T) {
	tb := newTestBackend(t)
	tb.router.Post("/v1/{realm}/groups", func(w http.ResponseWriter, r *http.Request) {
		data := readData(r)
		assert.Equal(t, "floor1", data["group_name"])
		w.WriteHeader(http.StatusCreated)
	})
	c := tb.client()
	defer c.Close()
	ctx := context.Background()

	require.Error(t, c.CreateGroup(ctx, "floor1", nil))
	assert.Zero(t, tb.requests.Load())
	require.NoError(t, c.CreateGroup(ctx, "floor1", []string{"dev1"}))
}

func TestRegisterDevice(t *testing.T) {
	tb := newTestBackend(t)
	tb.router.Post("/v1/{realm}/agent/devices", func(w http.ResponseWriter, r *http.Request) {
		data := readData(r)
		assert.NotEmpty(t, data["hw_id"])
		w.WriteHeader(http.StatusCreated)
		writeData(w, map[string]string{"credentials_secret": "s3cr3t"})
	})
	c := tb.client()
	defer c.Close()
	ctx := context.Background()

	secret, err := c.RegisterDevice(ctx, utils.GenerateDeviceID())
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", secret)

	// a malformed hardware id never reaches the pairing plane
	before := tb.requests.Load()
	_, err = c.RegisterDevice(ctx, "not-a-valid-id")
	require.Error(t, err)
	assert.Equal(t, before, tb.requests.Load())
}

func TestInsertDeviceAliasUsesMergePatch(t *testing.T) {
	tb := newTestBackend(t)
	tb.router.Patch("/v1/{realm}/devices/{deviceID}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/merge-patch+json", r.Header.Get("Content-Type"))
		data := readData(r)
		aliases := data["aliases"].(map[string]any)
		assert.Equal(t, "Boiler", aliases["display_name"])
		writeData(w, map[string]any{"id": chi.URLParam(r, "deviceID")})
	})
	c := tb.client()
	defer c.Close()

	err := c.InsertDeviceAlias(context.Background(), "dev1", "display_name", "Boiler")
	require.NoError(t, err)
}

func TestListBlocksMergesBuiltins(t *testing.T) {
	tb := newTestBackend(t)
	tb.router.Get("/v1/{realm}/blocks", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, []map[string]any{
			{"name": "custom_filter", "type": "producer_consumer"},
			// clashes with a bundled block; the bundled one must win
			{"name": "lua_map", "type": "producer"},
		})
	})
	c := tb.client()
	defer c.Close()

	blocks, err := c.ListBlocks(context.Background())
	require.NoError(t, err)

	byName := map[string]types.Block{}
	for i, b := range blocks {
		byName[b.Name] = b
		if i > 0 {
			assert.Less(t, blocks[i-1].Name, b.Name, "blocks are sorted by name")
		}
	}
	assert.Contains(t, byName, "custom_filter")
	require.Contains(t, byName, "lua_map")
	assert.Equal(t, types.BlockTypeProducerConsumer, byName["lua_map"].Type,
		"bundled definition wins the name tie")
}

func TestBuiltinBlockPreconditions(t *testing.T) {
	tb := newTestBackend(t)
	c := tb.client()
	defer c.Close()
	ctx := context.Background()

	err := c.RegisterBlock(ctx, &types.Block{Name: "lua_map", Type: types.BlockTypeProducer})
	require.ErrorIs(t, err, canopy.ErrNameConflict)

	err = c.DeleteBlock(ctx, "http_source")
	require.ErrorIs(t, err, canopy.ErrBuiltinBlock)

	assert.Zero(t, tb.requests.Load())
}

func TestUnauthorizedResponses(t *testing.T) {
	tb := newTestBackend(t)
	tb.router.Get("/v1/{realm}/triggers", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":{"detail":"Unauthorized"}}`))
	})
	c := tb.client()
	defer c.Close()

	_, err := c.ListTriggers(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, canopy.ErrUnauthorized)
	apiErr := &canopy.APIError{}
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestHealthProbes(t *testing.T) {
	tb := newTestBackend(t)
	tb.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	c := tb.client()
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.AppEngineHealth(ctx))
	require.NoError(t, c.RealmManagementHealth(ctx))
	require.NoError(t, c.PairingHealth(ctx))
	require.NoError(t, c.FlowHealth(ctx))
	assert.Equal(t, int64(4), tb.requests.Load())
}

func TestSetCredentialsChangesTheRealm(t *testing.T) {
	tb := newTestBackend(t)
	realms := make(chan string, 2)
	tb.router.Get("/v1/{realm}/groups", func(w http.ResponseWriter, r *http.Request) {
		realms <- chi.URLParam(r, "realm")
		writeData(w, []string{})
	})
	c := tb.client()
	defer c.Close()
	ctx := context.Background()

	_, err := c.ListGroups(ctx)
	require.NoError(t, err)
	c.SetCredentials(&canopy.Credentials{Realm: "other", Token: "other-token"})
	_, err = c.ListGroups(ctx)
	require.NoError(t, err)

	assert.Equal(t, testRealm, <-realms)
	assert.Equal(t, "other", <-realms)
}

func TestInstallInterfaceSendsWireFormat(t *testing.T) {
	tb := newTestBackend(t)
	tb.router.Post("/v1/{realm}/interfaces", func(w http.ResponseWriter, r *http.Request) {
		data := readData(r)
		assert.Equal(t, "com.acme.Thermostat", data["interface_name"])
		assert.Equal(t, float64(1), data["version_major"])
		w.WriteHeader(http.StatusCreated)
	})
	c := tb.client()
	defer c.Close()

	iface := &types.Interface{
		Name:      "com.acme.Thermostat",
		Major:     1,
		Minor:     0,
		Type:      types.InterfaceTypeDatastream,
		Ownership: types.OwnershipDevice,
		Mappings: []types.Mapping{
			{Endpoint: "/temperature", Type: "double"},
		},
	}
	require.NoError(t, c.InstallInterface(context.Background(), iface))
}
