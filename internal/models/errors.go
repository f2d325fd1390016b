package models

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrMalformedRecord indicates a remote record with a missing or mistyped field
	ErrMalformedRecord = errors.New("malformed record")

	// ErrUnknownKind indicates a remote record of a kind this client does not sync
	ErrUnknownKind = errors.New("unknown record kind")
)

// ErrorKind classifies remote failures.
type ErrorKind int

const (
	// ErrKindUnclassified is any failure without a dedicated policy
	ErrKindUnclassified ErrorKind = iota
	// ErrKindConflict means the server copy changed since our token
	ErrKindConflict
	// ErrKindZoneMissing means the container zone does not exist
	ErrKindZoneMissing
	// ErrKindRecordGone means the record does not exist on the server
	ErrKindRecordGone
	// ErrKindTransient covers network, busy, unavailable, auth and cancellation
	ErrKindTransient
)

func (k ErrorKind) String() string {
	switch k {
	case ErrKindConflict:
		return "conflict"
	case ErrKindZoneMissing:
		return "zone_missing"
	case ErrKindRecordGone:
		return "record_gone"
	case ErrKindTransient:
		return "transient"
	default:
		return "unclassified"
	}
}

// RemoteError is a classified failure reported by the remote record service.
type RemoteError struct {
	Err error
	// ServerRecord is the current server copy, set for conflicts
	ServerRecord *Record
	Kind         ErrorKind
}

func (e *RemoteError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("remote error: %s", e.Kind)
	}
	return fmt.Sprintf("remote error (%s): %v", e.Kind, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// ClassifyError maps any error returned by a remote call to an ErrorKind.
func ClassifyError(err error) ErrorKind {
	if err == nil {
		return ErrKindUnclassified
	}

	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.Kind
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrKindTransient
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return ErrKindTransient
	}

	return ErrKindUnclassified
}

// ServerRecordOf returns the server copy attached to a conflict error, if any.
func ServerRecordOf(err error) *Record {
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.ServerRecord
	}
	return nil
}
