package types

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
	jsoniter "github.com/json-iterator/go"
)

// Event is a typed room event body. Concrete types below correspond to the
// event type tag on the wire.
type Event interface {
	EventType() string
}

type DeviceConnectedEvent struct {
	DeviceIPAddress string `json:"device_ip_address"`
}

func (e *DeviceConnectedEvent) EventType() string { return "device_connected" }

type DeviceDisconnectedEvent struct{}

func (e *DeviceDisconnectedEvent) EventType() string { return "device_disconnected" }

type DeviceErrorEvent struct {
	ErrorName string            `json:"error_name"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func (e *DeviceErrorEvent) EventType() string { return "device_error" }

type IncomingDataEvent struct {
	Interface string `json:"interface"`
	Path      string `json:"path"`
	Value     any    `json:"value"`
}

func (e *IncomingDataEvent) EventType() string { return "incoming_data" }

type ValueStoredEvent struct {
	Interface string `json:"interface"`
	Path      string `json:"path"`
	Value     any    `json:"value"`
}

func (e *ValueStoredEvent) EventType() string { return "value_stored" }

type ValueChangedEvent struct {
	Interface string `json:"interface"`
	Path      string `json:"path"`
	OldValue  any    `json:"old_value"`
	NewValue  any    `json:"new_value"`
}

func (e *ValueChangedEvent) EventType() string { return "value_change" }

type ValueChangeAppliedEvent struct {
	Interface string `json:"interface"`
	Path      string `json:"path"`
	OldValue  any    `json:"old_value"`
	NewValue  any    `json:"new_value"`
}

func (e *ValueChangeAppliedEvent) EventType() string { return "value_change_applied" }

// RoomEvent is a decoded inbound room notification.
type RoomEvent struct {
	DeviceID  string
	Timestamp time.Time
	Event     Event
}

// roomEventDTO is the wire envelope of a new_event payload.
type roomEventDTO struct {
	DeviceID  string              `json:"device_id"`
	Timestamp string              `json:"timestamp,omitempty"`
	Event     jsoniter.RawMessage `json:"event"`
}

// DecodeRoomEvent decodes an inbound new_event payload into a typed room
// event. Payloads that do not map to a known event shape are rejected with an
// error, they are never passed through untyped.
func DecodeRoomEvent(raw []byte) (*RoomEvent, error) {
	var dto roomEventDTO
	if err := jsoniter.Unmarshal(raw, &dto); err != nil {
		return nil, fmt.Errorf("DecodeRoomEvent: malformed payload: %w", err)
	}
	if dto.DeviceID == "" {
		return nil, fmt.Errorf("DecodeRoomEvent: missing device_id")
	}
	if len(dto.Event) == 0 {
		return nil, fmt.Errorf("DecodeRoomEvent: missing event body")
	}

	// the event type tag selects the concrete shape
	var tag struct {
		Type string `json:"type"`
	}
	if err := jsoniter.Unmarshal(dto.Event, &tag); err != nil {
		return nil, fmt.Errorf("DecodeRoomEvent: malformed event body: %w", err)
	}

	var event Event
	switch tag.Type {
	case "device_connected":
		event = &DeviceConnectedEvent{}
	case "device_disconnected":
		event = &DeviceDisconnectedEvent{}
	case "device_error":
		event = &DeviceErrorEvent{}
	case "incoming_data":
		event = &IncomingDataEvent{}
	case "value_stored":
		event = &ValueStoredEvent{}
	case "value_change":
		event = &ValueChangedEvent{}
	case "value_change_applied":
		event = &ValueChangeAppliedEvent{}
	default:
		return nil, fmt.Errorf("DecodeRoomEvent: unknown event type '%s'", tag.Type)
	}
	if err := jsoniter.Unmarshal(dto.Event, event); err != nil {
		return nil, fmt.Errorf("DecodeRoomEvent: bad '%s' event: %w", tag.Type, err)
	}

	re := &RoomEvent{
		DeviceID: dto.DeviceID,
		Event:    event,
	}
	if dto.Timestamp != "" {
		ts, err := dateparse.ParseAny(dto.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("DecodeRoomEvent: bad timestamp: %w", err)
		}
		re.Timestamp = ts
	}
	return re, nil
}
