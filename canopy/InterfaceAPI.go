package canopy

import (
	"context"
	"fmt"
	"strconv"

	"github.com/canopyhq/canopy-go/types"
)

// ListInterfaceNames returns the names of the realm's installed interfaces.
func (c *Client) ListInterfaceNames(ctx context.Context) ([]string, error) {
	var names []string
	err := c.getData(ctx, c.url(c.endpoints.interfaces, nil), nil, &names)
	return names, err
}

// ListInterfaceMajors returns the installed major versions of an interface.
func (c *Client) ListInterfaceMajors(ctx context.Context, interfaceName string) ([]int, error) {
	if interfaceName == "" {
		return nil, fmt.Errorf("ListInterfaceMajors: interface name: %w", ErrEmptyIdentifier)
	}
	var majors []int
	err := c.getData(ctx, c.url(c.endpoints.interfaceMajors,
		Params{"interfaceName": interfaceName}), nil, &majors)
	return majors, err
}

// GetInterface returns one installed interface definition.
func (c *Client) GetInterface(ctx context.Context, interfaceName string, major int) (*types.Interface, error) {
	if interfaceName == "" {
		return nil, fmt.Errorf("GetInterface: interface name: %w", ErrEmptyIdentifier)
	}
	dto := &types.InterfaceDTO{}
	err := c.getData(ctx, c.url(c.endpoints.interfaceVersion,
		Params{"interfaceName": interfaceName, "interfaceMajor": strconv.Itoa(major)}), nil, dto)
	if err != nil {
		return nil, err
	}
	return types.InterfaceFromDTO(dto)
}

// InstallInterface installs a new interface in the realm.
func (c *Client) InstallInterface(ctx context.Context, iface *types.Interface) error {
	if iface.Name == "" {
		return fmt.Errorf("InstallInterface: interface name: %w", ErrEmptyIdentifier)
	}
	return c.postData(ctx, c.url(c.endpoints.interfaces, nil), iface.ToDTO(), nil)
}

// UpdateInterface replaces an installed interface with a newer minor of the
// same major version.
func (c *Client) UpdateInterface(ctx context.Context, iface *types.Interface) error {
	if iface.Name == "" {
		return fmt.Errorf("UpdateInterface: interface name: %w", ErrEmptyIdentifier)
	}
	return c.putData(ctx, c.url(c.endpoints.interfaceVersion,
		Params{"interfaceName": iface.Name, "interfaceMajor": strconv.Itoa(iface.Major)}),
		iface.ToDTO(), nil)
}

// DeleteInterface removes an installed interface major from the realm.
// The backend only allows deleting draft interfaces (major 0).
func (c *Client) DeleteInterface(ctx context.Context, interfaceName string, major int) error {
	if interfaceName == "" {
		return fmt.Errorf("DeleteInterface: interface name: %w", ErrEmptyIdentifier)
	}
	return c.delete(ctx, c.url(c.endpoints.interfaceVersion,
		Params{"interfaceName": interfaceName, "interfaceMajor": strconv.Itoa(major)}))
}
