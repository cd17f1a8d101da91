package rooms

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/canopyhq/canopy-go/types"
)

// ErrNotJoined is returned by operations that need a joined room.
var ErrNotJoined = errors.New("room not joined")

// EventHandler receives decoded inbound events of one joined room.
type EventHandler func(event *types.RoomEvent)

// ChannelManager owns the realtime side of a client: one lazily opened
// socket, the registry of joined rooms, and the connection-event listeners.
//
// The socket is created on the first join and reused by every later one.
// Only one connection attempt is ever in flight; a join arriving while the
// socket is still connecting waits on the in-flight attempt instead of
// opening a duplicate. No reconnection is attempted when the connection
// drops: joined state is discarded and the socketClose listeners are told.
//
// socketURL and realm are read per operation so credential changes on the
// owning client take effect without rebuilding the manager.
type ChannelManager struct {
	socketURL func() string
	realm     func() string

	// guards the socket state machine: absent, connecting, open
	mux     sync.Mutex
	socket  *socketClient
	opening chan struct{}
	openErr error

	// serializes join handshakes so concurrent joins of one room
	// produce a single handshake
	joinMux sync.Mutex

	channels cmap.ConcurrentMap[string, *Channel]
	handlers cmap.ConcurrentMap[string, EventHandler]

	listeners *ListenerRegistry

	decodeFailures atomic.Int64
}

func NewChannelManager(socketURL func() string, realm func() string) *ChannelManager {
	return &ChannelManager{
		socketURL: socketURL,
		realm:     realm,
		channels:  cmap.New[*Channel](),
		handlers:  cmap.New[EventHandler](),
		listeners: NewListenerRegistry(),
	}
}

// topic builds the wire topic of a room in the current realm.
func (cm *ChannelManager) topic(roomName string) string {
	return "rooms:" + cm.realm() + ":" + roomName
}

// ensureSocket returns the open socket, dialing it if absent. A caller
// arriving while another dial is in flight waits for that attempt and shares
// its outcome.
func (cm *ChannelManager) ensureSocket(ctx context.Context) (*socketClient, error) {
	cm.mux.Lock()
	if cm.socket != nil {
		sc := cm.socket
		cm.mux.Unlock()
		return sc, nil
	}
	if cm.opening != nil {
		inflight := cm.opening
		cm.mux.Unlock()
		select {
		case <-inflight:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		cm.mux.Lock()
		sc, err := cm.socket, cm.openErr
		cm.mux.Unlock()
		if sc != nil {
			return sc, nil
		}
		if err == nil {
			// the dial succeeded but the connection dropped before this
			// waiter could observe it
			err = fmt.Errorf("ensureSocket: socket closed while opening")
		}
		return nil, err
	}
	inflight := make(chan struct{})
	cm.opening = inflight
	cm.mux.Unlock()

	sc, err := dialSocket(ctx, cm.socketURL(),
		cm.dispatchEvent, cm.onSocketError, cm.onSocketClose)

	cm.mux.Lock()
	cm.opening = nil
	cm.openErr = err
	if err == nil {
		cm.socket = sc
	}
	cm.mux.Unlock()
	close(inflight)
	return sc, err
}

// Join joins a room, opening the socket first if needed. Join is idempotent:
// an already-joined room returns its cached handle without a new handshake,
// and concurrent joins of the same room resolve to the identical handle. A
// rejected handshake propagates to the caller and caches nothing.
func (cm *ChannelManager) Join(ctx context.Context, roomName string) (*Channel, error) {
	if roomName == "" {
		return nil, fmt.Errorf("Join: empty room name")
	}
	if ch, found := cm.channels.Get(roomName); found {
		return ch, nil
	}
	cm.joinMux.Lock()
	defer cm.joinMux.Unlock()
	// a concurrent join may have won the race while we waited
	if ch, found := cm.channels.Get(roomName); found {
		return ch, nil
	}
	sc, err := cm.ensureSocket(ctx)
	if err != nil {
		return nil, err
	}
	ch := newChannel(sc, cm.topic(roomName))
	if err = ch.join(ctx); err != nil {
		return nil, err
	}
	cm.channels.Set(roomName, ch)
	slog.Info("Join: room joined", slog.String("topic", ch.Topic()))
	return ch, nil
}

// Listen registers the inbound-event handler of a joined room. Later calls
// replace the handler. Listening on a room that was never joined fails with
// ErrNotJoined.
func (cm *ChannelManager) Listen(roomName string, handler EventHandler) error {
	if !cm.channels.Has(roomName) {
		return fmt.Errorf("Listen '%s': %w", roomName, ErrNotJoined)
	}
	cm.handlers.Set(roomName, handler)
	return nil
}

// RegisterVolatileTrigger pushes a session-scoped trigger registration on a
// joined room and waits for the backend's acknowledgment. The trigger lives
// only as long as the room subscription.
func (cm *ChannelManager) RegisterVolatileTrigger(ctx context.Context, roomName string, payload any) error {
	ch, found := cm.channels.Get(roomName)
	if !found {
		return fmt.Errorf("RegisterVolatileTrigger '%s': %w", roomName, ErrNotJoined)
	}
	return ch.Push(ctx, "watch", payload)
}

// Leave leaves a joined room. The cached handle and its handler are removed
// only when the leave handshake succeeds.
func (cm *ChannelManager) Leave(ctx context.Context, roomName string) error {
	ch, found := cm.channels.Get(roomName)
	if !found {
		return fmt.Errorf("Leave '%s': %w", roomName, ErrNotJoined)
	}
	if err := ch.leave(ctx); err != nil {
		return err
	}
	cm.channels.Remove(roomName)
	cm.handlers.Remove(roomName)
	return nil
}

// Listeners returns the connection-event listener registry.
func (cm *ChannelManager) Listeners() *ListenerRegistry {
	return cm.listeners
}

// DecodeFailures returns how many inbound events were rejected because their
// payload did not map to a known event shape.
func (cm *ChannelManager) DecodeFailures() int64 {
	return cm.decodeFailures.Load()
}

// Close tears down the socket and forgets all joined rooms.
func (cm *ChannelManager) Close() {
	cm.mux.Lock()
	sc := cm.socket
	cm.socket = nil
	cm.mux.Unlock()
	if sc != nil {
		sc.close()
	}
	cm.channels.Clear()
	cm.handlers.Clear()
}

// dispatchEvent routes an inbound frame to the handler of its room. Payloads
// that fail decoding are rejected here and never reach the handler.
func (cm *ChannelManager) dispatchEvent(topic string, event string, payload []byte) {
	if event != "new_event" {
		slog.Debug("dispatchEvent: ignoring event",
			slog.String("topic", topic), slog.String("event", event))
		return
	}
	var roomName string
	for item := range cm.channels.IterBuffered() {
		if item.Val.Topic() == topic {
			roomName = item.Key
			break
		}
	}
	if roomName == "" {
		slog.Warn("dispatchEvent: event for an unknown topic", slog.String("topic", topic))
		return
	}
	roomEvent, err := types.DecodeRoomEvent(payload)
	if err != nil {
		cm.decodeFailures.Add(1)
		slog.Warn("dispatchEvent: rejecting undecodable event",
			slog.String("topic", topic), "err", err)
		return
	}
	if handler, found := cm.handlers.Get(roomName); found {
		handler(roomEvent)
	}
}

// onSocketError broadcasts an unexpected connection failure.
func (cm *ChannelManager) onSocketError(err error) {
	slog.Warn("rooms socket error", "err", err)
	cm.listeners.Dispatch(EventSocketError, err)
}

// onSocketClose discards joined state and broadcasts the close. A later join
// dials a fresh connection.
func (cm *ChannelManager) onSocketClose() {
	cm.mux.Lock()
	cm.socket = nil
	cm.mux.Unlock()
	cm.channels.Clear()
	cm.handlers.Clear()
	cm.listeners.Dispatch(EventSocketClose, nil)
}
