package canopy

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	jsoniter "github.com/json-iterator/go"
)

// Group is a named collection of devices.
type Group struct {
	Name string `json:"group_name"`
}

// encodeGroupName percent-encodes a group name once. The endpoint template
// encodes parameter values a second time, yielding the double encoding the
// backend expects for group names: it decodes the path segment twice before
// lookup. This is a compatibility requirement, not a defect to fix.
func encodeGroupName(groupName string) string {
	return url.PathEscape(groupName)
}

// CreateGroup creates a group containing the given devices.
// Groups cannot be created empty.
func (c *Client) CreateGroup(ctx context.Context, groupName string, deviceIDs []string) error {
	if groupName == "" {
		return fmt.Errorf("CreateGroup: group name: %w", ErrEmptyIdentifier)
	}
	if len(deviceIDs) == 0 {
		return fmt.Errorf("CreateGroup: a group needs at least one device")
	}
	payload := map[string]any{
		"group_name": groupName,
		"devices":    deviceIDs,
	}
	return c.postData(ctx, c.url(c.endpoints.groups, nil), payload, nil)
}

// ListGroups returns the names of the realm's groups.
func (c *Client) ListGroups(ctx context.Context) ([]string, error) {
	var names []string
	err := c.getData(ctx, c.url(c.endpoints.groups, nil), nil, &names)
	return names, err
}

// GetGroup checks a group exists and returns it.
func (c *Client) GetGroup(ctx context.Context, groupName string) (*Group, error) {
	if groupName == "" {
		return nil, fmt.Errorf("GetGroup: group name: %w", ErrEmptyIdentifier)
	}
	group := &Group{}
	err := c.getData(ctx, c.url(c.endpoints.group,
		Params{"groupName": encodeGroupName(groupName)}), nil, group)
	if err != nil {
		return nil, err
	}
	return group, nil
}

// ListGroupDevices returns one page of the IDs of the group's devices along
// with the next-page token. An empty next token means the listing is
// complete.
func (c *Client) ListGroupDevices(ctx context.Context, groupName string, opts ListDevicesOptions) (
	deviceIDs []string, nextToken string, err error) {

	if groupName == "" {
		return nil, "", fmt.Errorf("ListGroupDevices: group name: %w", ErrEmptyIdentifier)
	}
	qParams := map[string]string{}
	if opts.Limit > 0 {
		qParams["limit"] = fmt.Sprintf("%d", opts.Limit)
	}
	if opts.FromToken != "" {
		qParams["from_token"] = opts.FromToken
	}
	var page struct {
		Data  []string        `json:"data"`
		Links paginationLinks `json:"links"`
	}
	raw, _, err := c.send(ctx, http.MethodGet, c.url(c.endpoints.groupDevices,
		Params{"groupName": encodeGroupName(groupName)}), qParams, nil, "")
	if err != nil {
		return nil, "", err
	}
	if err = jsoniter.Unmarshal(raw, &page); err != nil {
		return nil, "", fmt.Errorf("ListGroupDevices: %w", err)
	}
	return page.Data, nextPageToken(page.Links), nil
}

// AddDeviceToGroup adds a device to a group.
// An empty group name or device ID fails before any network call.
func (c *Client) AddDeviceToGroup(ctx context.Context, groupName string, deviceID string) error {
	if groupName == "" || deviceID == "" {
		return fmt.Errorf("AddDeviceToGroup: group name or device ID: %w", ErrEmptyIdentifier)
	}
	payload := map[string]string{"device_id": deviceID}
	return c.postData(ctx, c.url(c.endpoints.groupDevices,
		Params{"groupName": encodeGroupName(groupName)}), payload, nil)
}

// RemoveDeviceFromGroup removes a device from a group.
// An empty group name or device ID fails before any network call.
func (c *Client) RemoveDeviceFromGroup(ctx context.Context, groupName string, deviceID string) error {
	if groupName == "" || deviceID == "" {
		return fmt.Errorf("RemoveDeviceFromGroup: group name or device ID: %w", ErrEmptyIdentifier)
	}
	return c.delete(ctx, c.url(c.endpoints.groupDevice,
		Params{"groupName": encodeGroupName(groupName), "deviceID": deviceID}))
}
