package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	fieldText      = "text"
	fieldTimestamp = "timestamp"
)

// ClipboardKind describes the payload of a clipboard history entry
type ClipboardKind string

const (
	ClipboardText  ClipboardKind = "text"
	ClipboardImage ClipboardKind = "image"
)

// ClipboardEntry is one item of clipboard history.
type ClipboardEntry struct {
	Timestamp time.Time     `json:"timestamp"`
	Text      string        `json:"text"`
	Kind      ClipboardKind `json:"kind"`
	ID        uuid.UUID     `json:"id"`
}

// SyncEligible reports whether the entry may leave the device. Only text is synced.
func (c *ClipboardEntry) SyncEligible() bool {
	return c.Kind == ClipboardText
}

// ToRecord converts the entry to its wire form carrying meta.
func (c *ClipboardEntry) ToRecord(meta VersionMetadata) *Record {
	return &Record{
		ID:   c.ID.String(),
		Kind: KindClipboardEntry,
		Fields: map[string]Value{
			fieldText:      StringValue(c.Text),
			fieldTimestamp: TimeValue(c.Timestamp),
		},
		Metadata: meta,
	}
}

// ClipboardFromRecord parses a remote ClipboardEntry record.
func ClipboardFromRecord(r *Record) (*ClipboardEntry, error) {
	if r.Kind != KindClipboardEntry {
		return nil, fmt.Errorf("%w: kind %q is not a clipboard entry", ErrMalformedRecord, r.Kind)
	}

	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid id %q", ErrMalformedRecord, r.ID)
	}

	text, ok := r.StringField(fieldText)
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformedRecord, fieldText)
	}
	ts, ok := r.TimeField(fieldTimestamp)
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformedRecord, fieldTimestamp)
	}

	return &ClipboardEntry{
		ID:        id,
		Text:      text,
		Timestamp: ts,
		Kind:      ClipboardText,
	}, nil
}
