package storage

import (
	"errors"

	"github.com/euforicio/scratchpad/internal/models"
)

// Common storage errors
var (
	// ErrZoneNotFound indicates that the zone does not exist for the account
	ErrZoneNotFound = errors.New("zone not found")

	// ErrRecordNotFound indicates that the record does not exist or is deleted
	ErrRecordNotFound = errors.New("record not found")

	// ErrConflict indicates that the supplied version token is stale
	ErrConflict = errors.New("record changed on server")

	// ErrInvalidCursor indicates that the change feed cursor cannot be parsed
	ErrInvalidCursor = errors.New("invalid cursor")
)

// ConflictError carries the current server copy of a record whose save was rejected.
type ConflictError struct {
	Current *models.Record
}

func (e *ConflictError) Error() string {
	return ErrConflict.Error()
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
