package types_test

import (
	"testing"

	"github.com/canopyhq/canopy-go/types"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unmarshalRaw(t *testing.T, doc string) any {
	var raw any
	require.NoError(t, jsoniter.Unmarshal([]byte(doc), &raw))
	return raw
}

func TestFoldProperties(t *testing.T) {
	iface := &types.Interface{
		Name:        "com.example.Settings",
		Type:        types.InterfaceTypeProperties,
		Aggregation: types.AggregationIndividual,
	}
	raw := unmarshalRaw(t, `{"kitchen":{"enabled":true,"threshold":21.5},"hall":{"enabled":false}}`)

	tree, err := types.FoldInterfaceValues(iface, raw)
	require.NoError(t, err)
	require.False(t, tree.IsLeaf())

	kitchen := tree.Children["kitchen"]
	require.NotNil(t, kitchen)
	enabled := kitchen.Children["enabled"]
	require.NotNil(t, enabled)
	assert.True(t, enabled.IsLeaf())
	assert.Equal(t, true, enabled.Value)
	assert.Equal(t, "/kitchen/enabled", enabled.Path)

	leaves := tree.Leaves()
	assert.Len(t, leaves, 3)
}

func TestFoldDatastreamSamples(t *testing.T) {
	iface := &types.Interface{
		Name:        "com.example.Values",
		Type:        types.InterfaceTypeDatastream,
		Aggregation: types.AggregationIndividual,
	}
	raw := unmarshalRaw(t, `{
		"kitchen": {"value": 21.5, "timestamp": "2024-05-01T10:00:00.000Z"},
		"hall": [
			{"value": 19.0, "timestamp": "2024-05-01T09:00:00.000Z"},
			{"value": 19.5, "timestamp": "2024-05-01T10:00:00.000Z"}
		]
	}`)

	tree, err := types.FoldInterfaceValues(iface, raw)
	require.NoError(t, err)

	kitchen := tree.Children["kitchen"]
	require.NotNil(t, kitchen)
	assert.True(t, kitchen.IsLeaf())
	assert.Equal(t, 21.5, kitchen.Value)
	assert.False(t, kitchen.Timestamp.IsZero())

	// most recent sample wins
	hall := tree.Children["hall"]
	require.NotNil(t, hall)
	assert.Equal(t, 19.5, hall.Value)
}

func TestFoldObjectAggregated(t *testing.T) {
	iface := &types.Interface{
		Name:        "com.example.Telemetry",
		Type:        types.InterfaceTypeDatastream,
		Aggregation: types.AggregationObject,
	}
	raw := unmarshalRaw(t, `{
		"lobby": {"temperature": 21.5, "humidity": 40.0, "timestamp": "2024-05-01T10:00:00.000Z"}
	}`)

	tree, err := types.FoldInterfaceValues(iface, raw)
	require.NoError(t, err)

	lobby := tree.Children["lobby"]
	require.NotNil(t, lobby)
	assert.True(t, lobby.IsLeaf())
	obj, ok := lobby.Value.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 21.5, obj["temperature"])
	assert.Equal(t, 40.0, obj["humidity"])
	assert.False(t, lobby.Timestamp.IsZero())
}

func TestFoldScalar(t *testing.T) {
	iface := &types.Interface{
		Name: "com.example.State",
		Type: types.InterfaceTypeProperties,
	}
	tree, err := types.FoldInterfaceValues(iface, "ready")
	require.NoError(t, err)
	assert.True(t, tree.IsLeaf())
	assert.Equal(t, "ready", tree.Value)
}
