package storage

import "errors"

// Common client storage errors
var (
	// ErrNotFound indicates that the record does not exist locally
	ErrNotFound = errors.New("record not found")

	// ErrNotSyncEligible indicates a local record that must not leave the device
	ErrNotSyncEligible = errors.New("record is not sync eligible")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
