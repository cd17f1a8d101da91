package utils

import (
	"encoding/base64"

	"github.com/google/uuid"
)

// Device IDs are 128 bit identifiers encoded as 22 character url-safe
// unpadded base64, as produced by the pairing plane.

// GenerateDeviceID creates a new random device ID.
func GenerateDeviceID() string {
	id := uuid.New()
	return base64.RawURLEncoding.EncodeToString(id[:])
}

// ValidateDeviceID checks that an ID decodes to a 128 bit identifier.
func ValidateDeviceID(deviceID string) bool {
	raw, err := base64.RawURLEncoding.DecodeString(deviceID)
	if err != nil {
		return false
	}
	return len(raw) == 16
}
