package rooms

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/teris-io/shortid"
)

// heartbeatInterval is how often the socket-level keepalive is pushed.
// The backend drops connections that stay silent for around a minute.
const heartbeatInterval = time.Second * 30

// phxFrame is one message on the rooms socket, inbound or outbound.
type phxFrame struct {
	Topic   string              `json:"topic"`
	Event   string              `json:"event"`
	Payload jsoniter.RawMessage `json:"payload"`
	Ref     string              `json:"ref,omitempty"`
}

// phxReply is the payload of a phx_reply frame acknowledging a push.
type phxReply struct {
	Status   string              `json:"status"`
	Response jsoniter.RawMessage `json:"response"`
}

// socketClient owns one websocket connection to the rooms endpoint. It
// serializes writes, routes phx_reply frames to their waiting push by ref,
// and hands every other frame to the onEvent callback.
type socketClient struct {
	conn    *websocket.Conn
	replies *replyChan

	// gorilla connections do not support concurrent writers
	writeMux sync.Mutex

	cancelFn func()

	onEvent func(topic string, event string, payload []byte)
	onError func(err error)
	onClose func()
}

// dialSocket establishes the websocket session and starts the read loop.
// Authentication travels as a query parameter of socketURL.
func dialSocket(ctx context.Context, socketURL string,
	onEvent func(topic string, event string, payload []byte),
	onError func(err error),
	onClose func(),
) (*socketClient, error) {

	slog.Info("dialSocket: establishing rooms websocket connection",
		slog.String("url", socketURL))

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, socketURL, http.Header{})
	if err != nil {
		if resp != nil {
			slog.Warn("dialSocket: websocket handshake rejected",
				slog.Int("status", resp.StatusCode))
		}
		return nil, err
	}

	readCtx, cancelFn := context.WithCancel(context.Background())
	sc := &socketClient{
		conn:     conn,
		replies:  newReplyChan(),
		cancelFn: cancelFn,
		onEvent:  onEvent,
		onError:  onError,
		onClose:  onClose,
	}
	go sc.readLoop(readCtx)
	go sc.heartbeatLoop(readCtx)
	return sc, nil
}

// writeFrame marshals and sends one frame.
func (sc *socketClient) writeFrame(frame *phxFrame) error {
	data, err := jsoniter.Marshal(frame)
	if err != nil {
		return err
	}
	sc.writeMux.Lock()
	defer sc.writeMux.Unlock()
	return sc.conn.WriteMessage(websocket.TextMessage, data)
}

// push sends a frame with a fresh ref and waits for its phx_reply. A reply
// with a non-ok status or a context cancellation fails the push.
func (sc *socketClient) push(ctx context.Context, topic string, event string, payload any) error {
	raw, err := jsoniter.Marshal(payload)
	if err != nil {
		return err
	}
	ref := shortid.MustGenerate()
	rChan := sc.replies.Open(ref)
	defer sc.replies.Close(ref)

	err = sc.writeFrame(&phxFrame{Topic: topic, Event: event, Payload: raw, Ref: ref})
	if err != nil {
		return err
	}
	select {
	case reply, ok := <-rChan:
		if !ok {
			return &PushError{Topic: topic, Event: event, Reason: "connection closed"}
		}
		if reply.Status != "ok" {
			return &PushError{Topic: topic, Event: event,
				Reason: reply.Status, Response: reply.Response}
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// readLoop reads frames until the connection closes or the context ends.
// Replies are matched to waiting pushes; everything else goes to onEvent.
func (sc *socketClient) readLoop(ctx context.Context) {
	var reading atomic.Bool
	reading.Store(true)

	go func() {
		<-ctx.Done()
		// keep the loop draining until Close takes effect to avoid a
		// write deadlock on the peer side
		_ = sc.conn.Close()
		reading.Store(false)
	}()

	for reading.Load() {
		_, raw, err := sc.conn.ReadMessage()
		if err != nil {
			reading.Store(false)
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure, websocket.CloseGoingAway) &&
				ctx.Err() == nil {
				sc.onError(err)
			}
			break
		}
		var frame phxFrame
		if err = jsoniter.Unmarshal(raw, &frame); err != nil {
			slog.Warn("readLoop: unparseable socket frame", "err", err)
			continue
		}
		if frame.Event == "phx_reply" {
			reply := &phxReply{}
			if err = jsoniter.Unmarshal(frame.Payload, reply); err != nil {
				slog.Warn("readLoop: unparseable phx_reply payload", "err", err)
				continue
			}
			if !sc.replies.Handle(frame.Ref, reply) {
				// heartbeat acks land here
				slog.Debug("readLoop: reply without a waiting push",
					slog.String("ref", frame.Ref))
			}
			continue
		}
		sc.onEvent(frame.Topic, frame.Event, frame.Payload)
	}
	// a remote close lands here without the context ever being cancelled;
	// cancel it so the watcher and heartbeat goroutines end and the
	// connection fd is released
	sc.cancelFn()
	sc.replies.CloseAll()
	sc.onClose()
}

// heartbeatLoop keeps the connection alive. Acks are fire-and-forget.
func (sc *socketClient) heartbeatLoop(ctx context.Context) {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			err := sc.writeFrame(&phxFrame{
				Topic:   "phoenix",
				Event:   "heartbeat",
				Payload: jsoniter.RawMessage("{}"),
				Ref:     shortid.MustGenerate(),
			})
			if err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// close tears the connection down and unblocks every waiting push.
func (sc *socketClient) close() {
	sc.cancelFn()
}
