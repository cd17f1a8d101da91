package types

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
)

// InterfaceVersion is the version descriptor a device reports for an
// installed interface.
type InterfaceVersion struct {
	Major int
	Minor int
}

// Device is the domain representation of a registered device.
type Device struct {
	ID         string
	Aliases    map[string]string
	Attributes map[string]string
	Connected  bool

	// introspection maps installed interface names to their version
	Introspection map[string]InterfaceVersion

	FirstRegistration       time.Time
	FirstCredentialsRequest time.Time
	LastConnection          time.Time
	LastDisconnection       time.Time
	LastSeenIP              string

	TotalReceivedMsgs    int64
	TotalReceivedBytes   int64
	CredentialsInhibited bool
	Groups               []string
}

// InterfaceVersionDTO is the wire format of an introspection entry.
type InterfaceVersionDTO struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
}

// DeviceDTO is the wire format of a device status record.
type DeviceDTO struct {
	ID                      string                         `json:"id"`
	Aliases                 map[string]string              `json:"aliases,omitempty"`
	Attributes              map[string]string              `json:"attributes,omitempty"`
	Connected               bool                           `json:"connected"`
	Introspection           map[string]InterfaceVersionDTO `json:"introspection,omitempty"`
	FirstRegistration       string                         `json:"first_registration,omitempty"`
	FirstCredentialsRequest string                         `json:"first_credentials_request,omitempty"`
	LastConnection          string                         `json:"last_connection,omitempty"`
	LastDisconnection       string                         `json:"last_disconnection,omitempty"`
	LastSeenIP              string                         `json:"last_seen_ip,omitempty"`
	TotalReceivedMsgs       int64                          `json:"total_received_msgs,omitempty"`
	TotalReceivedBytes      int64                          `json:"total_received_bytes,omitempty"`
	CredentialsInhibited    bool                           `json:"credentials_inhibited,omitempty"`
	Groups                  []string                       `json:"groups,omitempty"`
}

// parseTimestamp accepts any reasonable timestamp format the backend emits.
// An empty string yields the zero time.
func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return dateparse.ParseAny(s)
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// DeviceFromDTO converts a wire device record to its domain representation.
func DeviceFromDTO(dto *DeviceDTO) (*Device, error) {
	if dto.ID == "" {
		return nil, fmt.Errorf("DeviceFromDTO: missing device id")
	}
	dev := &Device{
		ID:                   dto.ID,
		Aliases:              dto.Aliases,
		Attributes:           dto.Attributes,
		Connected:            dto.Connected,
		LastSeenIP:           dto.LastSeenIP,
		TotalReceivedMsgs:    dto.TotalReceivedMsgs,
		TotalReceivedBytes:   dto.TotalReceivedBytes,
		CredentialsInhibited: dto.CredentialsInhibited,
		Groups:               dto.Groups,
	}
	if len(dto.Introspection) > 0 {
		dev.Introspection = make(map[string]InterfaceVersion, len(dto.Introspection))
		for name, v := range dto.Introspection {
			dev.Introspection[name] = InterfaceVersion(v)
		}
	}
	var err error
	if dev.FirstRegistration, err = parseTimestamp(dto.FirstRegistration); err != nil {
		return nil, fmt.Errorf("DeviceFromDTO: bad first_registration: %w", err)
	}
	if dev.FirstCredentialsRequest, err = parseTimestamp(dto.FirstCredentialsRequest); err != nil {
		return nil, fmt.Errorf("DeviceFromDTO: bad first_credentials_request: %w", err)
	}
	if dev.LastConnection, err = parseTimestamp(dto.LastConnection); err != nil {
		return nil, fmt.Errorf("DeviceFromDTO: bad last_connection: %w", err)
	}
	if dev.LastDisconnection, err = parseTimestamp(dto.LastDisconnection); err != nil {
		return nil, fmt.Errorf("DeviceFromDTO: bad last_disconnection: %w", err)
	}
	return dev, nil
}

// ToDTO converts the device to its wire format.
func (d *Device) ToDTO() *DeviceDTO {
	dto := &DeviceDTO{
		ID:                      d.ID,
		Aliases:                 d.Aliases,
		Attributes:              d.Attributes,
		Connected:               d.Connected,
		FirstRegistration:       formatTimestamp(d.FirstRegistration),
		FirstCredentialsRequest: formatTimestamp(d.FirstCredentialsRequest),
		LastConnection:          formatTimestamp(d.LastConnection),
		LastDisconnection:       formatTimestamp(d.LastDisconnection),
		LastSeenIP:              d.LastSeenIP,
		TotalReceivedMsgs:       d.TotalReceivedMsgs,
		TotalReceivedBytes:      d.TotalReceivedBytes,
		CredentialsInhibited:    d.CredentialsInhibited,
		Groups:                  d.Groups,
	}
	if len(d.Introspection) > 0 {
		dto.Introspection = make(map[string]InterfaceVersionDTO, len(d.Introspection))
		for name, v := range d.Introspection {
			dto.Introspection[name] = InterfaceVersionDTO(v)
		}
	}
	return dto
}
