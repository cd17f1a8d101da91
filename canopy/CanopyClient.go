package canopy

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/canopyhq/canopy-go/rooms"
	"github.com/canopyhq/canopy-go/types"
	"github.com/canopyhq/canopy-go/utils"
)

// Credentials are the live realm/token pair used by all subsequent calls.
type Credentials struct {
	Realm string
	Token string
}

// Client is the API client for the platform control plane.
//
// It builds one URL template per backend operation at construction from the
// four configured plane base URLs, issues authenticated requests against
// them, and manages the realtime rooms socket. Credentials can be swapped at
// runtime with SetCredentials; all templates substitute the realm from live
// state on every call.
type Client struct {
	// guards realm/token updates against concurrent requests
	mux sync.RWMutex

	realm string
	token string

	cfg        Config
	endpoints  endpointTable
	httpClient *http.Client
	rooms      *rooms.ChannelManager
}

// NewCanopyClient creates a client from the given configuration.
// Missing configuration values degrade to empty strings.
func NewCanopyClient(cfg *Config) *Client {
	if cfg == nil {
		cfg = &Config{}
	}
	c := &Client{
		realm:      cfg.Realm,
		token:      cfg.Token,
		cfg:        *cfg,
		endpoints:  newEndpointTable(cfg),
		httpClient: newHttpClient(cfg.CACertFile),
	}
	if c.token != "" && utils.IsTokenExpired(c.token) {
		slog.Warn("NewCanopyClient: bearer token is expired", "realm", c.realm)
	}
	c.rooms = rooms.NewChannelManager(c.socketURL, c.Realm)
	return c
}

// SetCredentials replaces the realm and token used by all subsequent calls.
// Passing nil resets both to empty.
func (c *Client) SetCredentials(creds *Credentials) {
	c.mux.Lock()
	defer c.mux.Unlock()
	if creds == nil {
		c.realm = ""
		c.token = ""
		return
	}
	c.realm = creds.Realm
	c.token = creds.Token
	if c.token != "" && utils.IsTokenExpired(c.token) {
		slog.Warn("SetCredentials: bearer token is expired", "realm", c.realm)
	}
}

// Realm returns the current realm name.
func (c *Client) Realm() string {
	c.mux.RLock()
	defer c.mux.RUnlock()
	return c.realm
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mux.RLock()
	defer c.mux.RUnlock()
	return c.token
}

// url resolves an endpoint with the live realm merged into the parameters.
func (c *Client) url(ep Endpoint, params Params) string {
	merged := Params{"realm": c.Realm()}
	for k, v := range params {
		merged[k] = v
	}
	return ep.URL(merged)
}

// socketURL derives the rooms websocket URL from the device-data plane URL,
// with the live token as a query parameter.
func (c *Client) socketURL() string {
	parts, err := url.Parse(c.cfg.AppEngineURL)
	if err != nil {
		return ""
	}
	switch parts.Scheme {
	case "https":
		parts.Scheme = "wss"
	case "http":
		parts.Scheme = "ws"
	}
	parts.Path = strings.TrimRight(parts.Path, "/") + "/v1/socket/websocket"
	q := parts.Query()
	q.Set("token", c.Token())
	q.Set("vsn", "1.0.0")
	parts.RawQuery = q.Encode()
	return parts.String()
}

// Close releases the rooms socket and any idle connections.
func (c *Client) Close() {
	c.rooms.Close()
	c.httpClient.CloseIdleConnections()
}

// --- health probes ---

func (c *Client) healthCheck(ctx context.Context, ep Endpoint) error {
	_, _, err := c.send(ctx, http.MethodGet, ep.URL(nil), nil, nil, "")
	return err
}

// AppEngineHealth probes the device-data plane.
func (c *Client) AppEngineHealth(ctx context.Context) error {
	return c.healthCheck(ctx, c.endpoints.appEngineHealth)
}

// RealmManagementHealth probes the interface/trigger management plane.
func (c *Client) RealmManagementHealth(ctx context.Context) error {
	return c.healthCheck(ctx, c.endpoints.realmManagementHealth)
}

// PairingHealth probes the pairing plane.
func (c *Client) PairingHealth(ctx context.Context) error {
	return c.healthCheck(ctx, c.endpoints.pairingHealth)
}

// FlowHealth probes the flow plane.
func (c *Client) FlowHealth(ctx context.Context) error {
	return c.healthCheck(ctx, c.endpoints.flowHealth)
}

// --- realtime rooms ---

// Rooms returns the realtime channel manager.
func (c *Client) Rooms() *rooms.ChannelManager {
	return c.rooms
}

// JoinRoom joins a realm room, opening the socket on first use.
// Joining an already-joined room is a no-op.
func (c *Client) JoinRoom(ctx context.Context, roomName string) error {
	_, err := c.rooms.Join(ctx, roomName)
	return err
}

// ListenRoom registers a handler for decoded events on a joined room.
func (c *Client) ListenRoom(roomName string, handler rooms.EventHandler) error {
	return c.rooms.Listen(roomName, handler)
}

// RegisterVolatileTrigger installs a trigger on a joined room for the
// lifetime of the session.
func (c *Client) RegisterVolatileTrigger(ctx context.Context, roomName string, trigger *types.Trigger) error {
	return c.rooms.RegisterVolatileTrigger(ctx, roomName, trigger.ToDTO())
}

// LeaveRoom leaves a joined room.
func (c *Client) LeaveRoom(ctx context.Context, roomName string) error {
	return c.rooms.Leave(ctx, roomName)
}

// AddListener subscribes to a connection-lifecycle event
// (rooms.EventSocketError or rooms.EventSocketClose).
func (c *Client) AddListener(eventName string, fn rooms.ListenerFunc) *rooms.EventListener {
	return c.rooms.Listeners().Add(eventName, fn)
}

// RemoveListener removes a previously added connection-event listener.
func (c *Client) RemoveListener(listener *rooms.EventListener) {
	c.rooms.Listeners().Remove(listener)
}
