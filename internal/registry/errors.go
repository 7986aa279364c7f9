package registry

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no pack is registered under an id.
var ErrNotFound = errors.New("appearance not found")

// ValidationError rejects an incomplete pack definition.
type ValidationError struct {
	ID     string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid appearance pack %s: %s", e.ID, e.Reason)
}

// DuplicateIDError rejects a pack whose id is already registered. The first
// registration wins.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("appearance pack %s already registered", e.ID)
}
