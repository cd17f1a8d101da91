package canopy

import (
	"context"
	"fmt"
	"sort"

	"github.com/canopyhq/canopy-go/types"
)

// ListBlocks merges the statically bundled built-in blocks with the realm's
// server-registered custom blocks, de-duplicated by name. A built-in block
// always wins a name tie with a server entry.
func (c *Client) ListBlocks(ctx context.Context) ([]types.Block, error) {
	var custom []types.Block
	err := c.getData(ctx, c.url(c.endpoints.blocks, nil), nil, &custom)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]types.Block, len(custom))
	for _, b := range custom {
		byName[b.Name] = b
	}
	for _, b := range types.BuiltinBlocks() {
		byName[b.Name] = b
	}

	merged := make([]types.Block, 0, len(byName))
	for _, b := range byName {
		merged = append(merged, b)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Name < merged[j].Name })
	return merged, nil
}

// GetBlock returns one block. Built-in blocks are served from the bundled
// definitions without a network call.
func (c *Client) GetBlock(ctx context.Context, blockName string) (*types.Block, error) {
	if blockName == "" {
		return nil, fmt.Errorf("GetBlock: block name: %w", ErrEmptyIdentifier)
	}
	for _, b := range types.BuiltinBlocks() {
		if b.Name == blockName {
			return &b, nil
		}
	}
	block := &types.Block{}
	err := c.getData(ctx, c.url(c.endpoints.block, Params{"blockName": blockName}), nil, block)
	if err != nil {
		return nil, err
	}
	return block, nil
}

// RegisterBlock registers a custom block on the flow plane.
// A name collision with a built-in block fails before any network call.
func (c *Client) RegisterBlock(ctx context.Context, block *types.Block) error {
	if block.Name == "" {
		return fmt.Errorf("RegisterBlock: block name: %w", ErrEmptyIdentifier)
	}
	if types.IsBuiltinBlock(block.Name) {
		return fmt.Errorf("RegisterBlock: '%s': %w", block.Name, ErrNameConflict)
	}
	return c.postData(ctx, c.url(c.endpoints.blocks, nil), block, nil)
}

// DeleteBlock removes a custom block. Built-in blocks are not removable and
// fail before any network call.
func (c *Client) DeleteBlock(ctx context.Context, blockName string) error {
	if blockName == "" {
		return fmt.Errorf("DeleteBlock: block name: %w", ErrEmptyIdentifier)
	}
	if types.IsBuiltinBlock(blockName) {
		return fmt.Errorf("DeleteBlock: '%s': %w", blockName, ErrBuiltinBlock)
	}
	return c.delete(ctx, c.url(c.endpoints.block, Params{"blockName": blockName}))
}
