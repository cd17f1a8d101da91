package rooms

import "sync"

// Connection-lifecycle event names accepted by the listener registry.
const (
	// EventSocketError fires on an unexpected socket failure; the listener
	// argument is the error.
	EventSocketError = "socketError"
	// EventSocketClose fires when the socket connection ends, expectedly or
	// not; the listener argument is nil.
	EventSocketClose = "socketClose"
)

// ListenerFunc receives a connection-lifecycle notification.
type ListenerFunc func(arg any)

// EventListener is the removal handle returned by Add. Functions are not
// comparable, so removal goes through the handle rather than the callback.
type EventListener struct {
	event string
	fn    ListenerFunc
}

// ListenerRegistry holds the connection-event listeners of one channel
// manager. Listeners for an event are invoked in registration order.
//
// Per-operation failures never pass through here; they reject the operation
// itself. The registry only carries connection-level conditions, which have
// no single caller to reject.
type ListenerRegistry struct {
	mux       sync.RWMutex
	listeners map[string][]*EventListener
}

func NewListenerRegistry() *ListenerRegistry {
	return &ListenerRegistry{
		listeners: make(map[string][]*EventListener),
	}
}

// Add registers a listener for an event name and returns its removal handle.
func (reg *ListenerRegistry) Add(eventName string, fn ListenerFunc) *EventListener {
	listener := &EventListener{event: eventName, fn: fn}
	reg.mux.Lock()
	reg.listeners[eventName] = append(reg.listeners[eventName], listener)
	reg.mux.Unlock()
	return listener
}

// Remove deregisters a listener by its handle. Removing a listener that was
// never added, or was already removed, is a no-op.
func (reg *ListenerRegistry) Remove(listener *EventListener) {
	if listener == nil {
		return
	}
	reg.mux.Lock()
	defer reg.mux.Unlock()
	registered := reg.listeners[listener.event]
	for i, l := range registered {
		if l == listener {
			reg.listeners[listener.event] = append(registered[:i:i], registered[i+1:]...)
			return
		}
	}
}

// Dispatch invokes every listener of an event in registration order.
func (reg *ListenerRegistry) Dispatch(eventName string, arg any) {
	reg.mux.RLock()
	registered := make([]*EventListener, len(reg.listeners[eventName]))
	copy(registered, reg.listeners[eventName])
	reg.mux.RUnlock()
	for _, l := range registered {
		l.fn(arg)
	}
}

// Len returns the number of listeners registered for an event.
func (reg *ListenerRegistry) Len(eventName string) int {
	reg.mux.RLock()
	defer reg.mux.RUnlock()
	return len(reg.listeners[eventName])
}
