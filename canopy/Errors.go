package canopy

import (
	"errors"
	"fmt"
)

// Precondition errors are raised before any network call is made.
var (
	// ErrEmptyIdentifier is returned when a required path identifier, such
	// as a group name or device ID, is empty.
	ErrEmptyIdentifier = errors.New("empty identifier")

	// ErrNameConflict is returned when registering a block whose name
	// collides with a built-in block.
	ErrNameConflict = errors.New("name conflicts with a built-in block")

	// ErrBuiltinBlock is returned when deleting a built-in block.
	ErrBuiltinBlock = errors.New("built-in blocks cannot be deleted")

	// ErrUnauthorized is wrapped into transport errors with status 401.
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a non-2xx response from the backend, propagated unmodified to
// the caller. This layer does not retry or recover.
type APIError struct {
	Method string
	URL    string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.Status, e.Body)
}

// Unwrap maps 401 responses onto the ErrUnauthorized sentinel.
func (e *APIError) Unwrap() error {
	if e.Status == 401 {
		return ErrUnauthorized
	}
	return nil
}
