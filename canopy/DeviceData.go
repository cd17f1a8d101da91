package canopy

import (
	"context"
	"fmt"

	"github.com/canopyhq/canopy-go/types"
)

// GetDeviceInterfaceValues fetches the raw value document of one device
// interface from the device-data plane.
func (c *Client) GetDeviceInterfaceValues(ctx context.Context, deviceID string, interfaceName string) (any, error) {
	if deviceID == "" || interfaceName == "" {
		return nil, fmt.Errorf("GetDeviceInterfaceValues: device ID or interface name: %w", ErrEmptyIdentifier)
	}
	var raw any
	err := c.getData(ctx, c.url(c.endpoints.deviceInterface,
		Params{"deviceID": deviceID, "interfaceName": interfaceName}), nil, &raw)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// GetDeviceDataTree fetches the device's values for the given interface and
// folds them into a tree keyed by the interface's declared structure.
func (c *Client) GetDeviceDataTree(ctx context.Context, deviceID string, iface *types.Interface) (
	*types.DataTreeNode, error) {

	raw, err := c.GetDeviceInterfaceValues(ctx, deviceID, iface.Name)
	if err != nil {
		return nil, err
	}
	return types.FoldInterfaceValues(iface, raw)
}

// GetDeviceDataTreeByName resolves the interface definition before folding.
// The device's introspection supplies the installed major version; a name
// that is absent from the introspection fails without fetching values.
func (c *Client) GetDeviceDataTreeByName(ctx context.Context, deviceID string, interfaceName string) (
	*types.DataTreeNode, error) {

	introspection, err := c.GetDeviceIntrospection(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	version, found := introspection[interfaceName]
	if !found {
		return nil, fmt.Errorf(
			"GetDeviceDataTreeByName: device '%s' does not have interface '%s' installed",
			deviceID, interfaceName)
	}
	iface, err := c.GetInterface(ctx, interfaceName, version.Major)
	if err != nil {
		return nil, err
	}
	return c.GetDeviceDataTree(ctx, deviceID, iface)
}
