package rooms

import (
	"context"
	"fmt"
)

// Channel is a handle on one joined room topic. Handles are created and
// cached by the ChannelManager; at most one handle exists per room.
type Channel struct {
	topic  string
	socket *socketClient
}

func newChannel(socket *socketClient, topic string) *Channel {
	return &Channel{
		topic:  topic,
		socket: socket,
	}
}

// Topic returns the wire topic of the channel, eg "rooms:myrealm:kitchen".
func (ch *Channel) Topic() string {
	return ch.topic
}

// join performs the join handshake. A rejection or closed connection fails
// the join; nothing is cached by the manager in that case.
func (ch *Channel) join(ctx context.Context) error {
	return ch.socket.push(ctx, ch.topic, "phx_join", struct{}{})
}

// leave performs the leave handshake.
func (ch *Channel) leave(ctx context.Context) error {
	return ch.socket.push(ctx, ch.topic, "phx_leave", struct{}{})
}

// Push sends a custom event on the channel and waits for its acknowledgment.
func (ch *Channel) Push(ctx context.Context, event string, payload any) error {
	return ch.socket.push(ctx, ch.topic, event, payload)
}

// PushError is a push that the backend acknowledged with a non-ok status,
// or that could not be acknowledged at all.
type PushError struct {
	Topic    string
	Event    string
	Reason   string
	Response []byte
}

func (e *PushError) Error() string {
	if len(e.Response) > 0 {
		return fmt.Sprintf("push '%s' on '%s' failed (%s): %s",
			e.Event, e.Topic, e.Reason, e.Response)
	}
	return fmt.Sprintf("push '%s' on '%s' failed: %s", e.Event, e.Topic, e.Reason)
}
