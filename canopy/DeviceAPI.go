package canopy

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/canopyhq/canopy-go/types"
	"github.com/canopyhq/canopy-go/utils"
	jsoniter "github.com/json-iterator/go"
)

// ListDevicesOptions control device list pagination.
type ListDevicesOptions struct {
	// Limit is the page size. 0 uses the backend default.
	Limit int
	// FromToken resumes listing from a previous page's next token.
	FromToken string
}

// paginationLinks is the link structure carried by paged list responses.
type paginationLinks struct {
	Self string `json:"self,omitempty"`
	Next string `json:"next,omitempty"`
}

// nextPageToken extracts the from_token query parameter of a next-page link.
// An absent link yields an empty token, meaning the listing is complete.
func nextPageToken(links paginationLinks) string {
	if links.Next == "" {
		return ""
	}
	parts, err := url.Parse(links.Next)
	if err != nil {
		return ""
	}
	return parts.Query().Get("from_token")
}

// ListDevices returns one page of the realm's devices along with the token
// of the next page. An empty next token means the listing is complete.
func (c *Client) ListDevices(ctx context.Context, opts ListDevicesOptions) (
	devices []*types.Device, nextToken string, err error) {

	qParams := map[string]string{"details": "true"}
	if opts.Limit > 0 {
		qParams["limit"] = strconv.Itoa(opts.Limit)
	}
	if opts.FromToken != "" {
		qParams["from_token"] = opts.FromToken
	}

	var page struct {
		Data  []*types.DeviceDTO `json:"data"`
		Links paginationLinks    `json:"links"`
	}
	raw, _, err := c.send(ctx, http.MethodGet, c.url(c.endpoints.devices, nil), qParams, nil, "")
	if err != nil {
		return nil, "", err
	}
	if err = jsoniter.Unmarshal(raw, &page); err != nil {
		return nil, "", fmt.Errorf("ListDevices: %w", err)
	}
	devices = make([]*types.Device, 0, len(page.Data))
	for _, dto := range page.Data {
		dev, err := types.DeviceFromDTO(dto)
		if err != nil {
			return nil, "", fmt.Errorf("ListDevices: %w", err)
		}
		devices = append(devices, dev)
	}
	return devices, nextPageToken(page.Links), nil
}

// GetDevice returns the status record of one device.
func (c *Client) GetDevice(ctx context.Context, deviceID string) (*types.Device, error) {
	if deviceID == "" {
		return nil, fmt.Errorf("GetDevice: device ID: %w", ErrEmptyIdentifier)
	}
	dto := &types.DeviceDTO{}
	err := c.getData(ctx, c.url(c.endpoints.device, Params{"deviceID": deviceID}), nil, dto)
	if err != nil {
		return nil, err
	}
	return types.DeviceFromDTO(dto)
}

// GetDeviceIntrospection returns the device's self-reported map of installed
// interface names to version descriptors.
func (c *Client) GetDeviceIntrospection(ctx context.Context, deviceID string) (
	map[string]types.InterfaceVersion, error) {

	device, err := c.GetDevice(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	return device.Introspection, nil
}

// DeleteDevice removes a device and all its data from the realm.
func (c *Client) DeleteDevice(ctx context.Context, deviceID string) error {
	if deviceID == "" {
		return fmt.Errorf("DeleteDevice: device ID: %w", ErrEmptyIdentifier)
	}
	return c.delete(ctx, c.url(c.endpoints.device, Params{"deviceID": deviceID}))
}

// InsertDeviceAlias adds or replaces an alias under the given tag.
func (c *Client) InsertDeviceAlias(ctx context.Context, deviceID string, tag string, alias string) error {
	if deviceID == "" || tag == "" {
		return fmt.Errorf("InsertDeviceAlias: device ID or tag: %w", ErrEmptyIdentifier)
	}
	payload := map[string]any{"aliases": map[string]any{tag: alias}}
	return c.patchData(ctx, c.url(c.endpoints.device, Params{"deviceID": deviceID}), payload, nil)
}

// DeleteDeviceAlias removes the alias under the given tag.
// The merge-patch null clears the entry server side.
func (c *Client) DeleteDeviceAlias(ctx context.Context, deviceID string, tag string) error {
	if deviceID == "" || tag == "" {
		return fmt.Errorf("DeleteDeviceAlias: device ID or tag: %w", ErrEmptyIdentifier)
	}
	payload := map[string]any{"aliases": map[string]any{tag: nil}}
	return c.patchData(ctx, c.url(c.endpoints.device, Params{"deviceID": deviceID}), payload, nil)
}

// SetDeviceAttribute adds or replaces a device attribute.
func (c *Client) SetDeviceAttribute(ctx context.Context, deviceID string, key string, value string) error {
	if deviceID == "" || key == "" {
		return fmt.Errorf("SetDeviceAttribute: device ID or key: %w", ErrEmptyIdentifier)
	}
	payload := map[string]any{"attributes": map[string]any{key: value}}
	return c.patchData(ctx, c.url(c.endpoints.device, Params{"deviceID": deviceID}), payload, nil)
}

// DeleteDeviceAttribute removes a device attribute.
func (c *Client) DeleteDeviceAttribute(ctx context.Context, deviceID string, key string) error {
	if deviceID == "" || key == "" {
		return fmt.Errorf("DeleteDeviceAttribute: device ID or key: %w", ErrEmptyIdentifier)
	}
	payload := map[string]any{"attributes": map[string]any{key: nil}}
	return c.patchData(ctx, c.url(c.endpoints.device, Params{"deviceID": deviceID}), payload, nil)
}

// RegisterDevice registers a device ID on the pairing plane and returns the
// credentials secret the device authenticates with.
func (c *Client) RegisterDevice(ctx context.Context, deviceID string) (credentialsSecret string, err error) {
	if deviceID == "" {
		return "", fmt.Errorf("RegisterDevice: device ID: %w", ErrEmptyIdentifier)
	}
	if !utils.ValidateDeviceID(deviceID) {
		return "", fmt.Errorf("RegisterDevice: '%s' is not a valid device ID", deviceID)
	}
	payload := map[string]string{"hw_id": deviceID}
	var resp struct {
		CredentialsSecret string `json:"credentials_secret"`
	}
	err = c.postData(ctx, c.url(c.endpoints.agentDevices, nil), payload, &resp)
	if err != nil {
		return "", err
	}
	return resp.CredentialsSecret, nil
}

// WipeDeviceCredentials invalidates the device's credentials secret on the
// pairing plane. The device must re-register before it can connect again.
func (c *Client) WipeDeviceCredentials(ctx context.Context, deviceID string) error {
	if deviceID == "" {
		return fmt.Errorf("WipeDeviceCredentials: device ID: %w", ErrEmptyIdentifier)
	}
	return c.delete(ctx, c.url(c.endpoints.agentDevice, Params{"deviceID": deviceID}))
}
