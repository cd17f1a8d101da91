package types

// BlockType positions a block in a pipeline.
type BlockType string

const (
	BlockTypeProducer         BlockType = "producer"
	BlockTypeConsumer         BlockType = "consumer"
	BlockTypeProducerConsumer BlockType = "producer_consumer"
)

// Block is a pipeline building block. Custom blocks carry their source;
// built-in blocks ship with the platform and have no removable definition.
type Block struct {
	Name   string         `json:"name"`
	Type   BlockType      `json:"type"`
	Source string         `json:"source,omitempty"`
	Schema map[string]any `json:"schema,omitempty"`
}

// builtinBlocks are bundled with the platform runtime. They are merged into
// block listings and always win a name tie with a server-registered block.
var builtinBlocks = []Block{
	{Name: "http_source", Type: BlockTypeProducer, Schema: map[string]any{
		"$id":   "https://canopy.io/blocks/http_source.json",
		"title": "HTTP source options",
	}},
	{Name: "http_sink", Type: BlockTypeConsumer, Schema: map[string]any{
		"$id":   "https://canopy.io/blocks/http_sink.json",
		"title": "HTTP sink options",
	}},
	{Name: "device_events_source", Type: BlockTypeProducer, Schema: map[string]any{
		"$id":   "https://canopy.io/blocks/device_events_source.json",
		"title": "Device events source options",
	}},
	{Name: "lua_map", Type: BlockTypeProducerConsumer, Schema: map[string]any{
		"$id":   "https://canopy.io/blocks/lua_map.json",
		"title": "Lua mapper options",
	}},
	{Name: "split_map", Type: BlockTypeProducerConsumer, Schema: map[string]any{
		"$id":   "https://canopy.io/blocks/split_map.json",
		"title": "Split map options",
	}},
	{Name: "json_mapper", Type: BlockTypeProducerConsumer, Schema: map[string]any{
		"$id":   "https://canopy.io/blocks/json_mapper.json",
		"title": "JSON mapper options",
	}},
}

// BuiltinBlocks returns the statically bundled blocks.
func BuiltinBlocks() []Block {
	out := make([]Block, len(builtinBlocks))
	copy(out, builtinBlocks)
	return out
}

// IsBuiltinBlock tests whether a name belongs to a bundled block.
func IsBuiltinBlock(name string) bool {
	for _, b := range builtinBlocks {
		if b.Name == name {
			return true
		}
	}
	return false
}
