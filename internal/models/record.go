package models

import "time"

// RecordKind is the remote record type. The set is closed.
type RecordKind string

const (
	KindDocument       RecordKind = "ScratchTab"
	KindClipboardEntry RecordKind = "ClipboardEntry"
)

// Known reports whether the kind is one the sync engine handles.
func (k RecordKind) Known() bool {
	return k == KindDocument || k == KindClipboardEntry
}

// VersionMetadata is the remote service's opaque per-record version token.
// A nil value means the record has never been uploaded from this device.
type VersionMetadata []byte

// SyncCursor is the opaque change-feed position. Nil means never synced.
type SyncCursor []byte

// Value is a typed scalar field of a remote record.
// Exactly one of the pointers is set.
type Value struct {
	String *string    `json:"s,omitempty"`
	Int    *int64     `json:"i,omitempty"`
	Time   *time.Time `json:"t,omitempty"`
}

// StringValue wraps s as a record field
func StringValue(s string) Value {
	return Value{String: &s}
}

// IntValue wraps i as a record field
func IntValue(i int64) Value {
	return Value{Int: &i}
}

// TimeValue wraps t as a record field
func TimeValue(t time.Time) Value {
	return Value{Time: &t}
}

// Record is the wire form of a synced object.
type Record struct {
	Fields   map[string]Value `json:"fields"`
	ID       string           `json:"id"`
	Kind     RecordKind       `json:"kind"`
	Metadata VersionMetadata  `json:"metadata,omitempty"`
}

// StringField returns a string field; ok is false when missing or not a string.
func (r *Record) StringField(name string) (string, bool) {
	v, ok := r.Fields[name]
	if !ok || v.String == nil {
		return "", false
	}
	return *v.String, true
}

// IntField returns an integer field; ok is false when missing or not an integer.
func (r *Record) IntField(name string) (int64, bool) {
	v, ok := r.Fields[name]
	if !ok || v.Int == nil {
		return 0, false
	}
	return *v.Int, true
}

// TimeField returns a time field; ok is false when missing or not a time.
func (r *Record) TimeField(name string) (time.Time, bool) {
	v, ok := r.Fields[name]
	if !ok || v.Time == nil {
		return time.Time{}, false
	}
	return *v.Time, true
}

// DeletedRecord identifies a record removed remotely.
type DeletedRecord struct {
	ID   string     `json:"id"`
	Kind RecordKind `json:"kind"`
}

// ChangeBatch is one page of the remote change feed.
type ChangeBatch struct {
	Modified []*Record
	Deleted  []DeletedRecord
	Cursor   SyncCursor
	More     bool
}
