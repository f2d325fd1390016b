package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Поля записи ScratchTab
const (
	fieldName           = "name"
	fieldContent        = "content"
	fieldLanguage       = "language"
	fieldLanguageLocked = "languageLocked"
	fieldLastModified   = "lastModified"
)

// Document is an editable scratch tab.
type Document struct {
	LastModified   time.Time `json:"last_modified"`
	Name           string    `json:"name"`
	Content        string    `json:"content"`
	Language       string    `json:"language"`
	FilePath       string    `json:"file_path,omitempty"` // FilePath путь к файлу на диске; такие вкладки не синхронизируются
	ID             uuid.UUID `json:"id"`
	LanguageLocked bool      `json:"language_locked"`
}

// SyncEligible reports whether the document may leave the device.
// File-backed tabs stay local.
func (d *Document) SyncEligible() bool {
	return d.FilePath == ""
}

// ToRecord converts the document to its wire form carrying meta.
func (d *Document) ToRecord(meta VersionMetadata) *Record {
	locked := int64(0)
	if d.LanguageLocked {
		locked = 1
	}

	return &Record{
		ID:   d.ID.String(),
		Kind: KindDocument,
		Fields: map[string]Value{
			fieldName:           StringValue(d.Name),
			fieldContent:        StringValue(d.Content),
			fieldLanguage:       StringValue(d.Language),
			fieldLanguageLocked: IntValue(locked),
			fieldLastModified:   TimeValue(d.LastModified),
		},
		Metadata: meta,
	}
}

// DocumentFromRecord parses a remote ScratchTab record.
// Returns ErrMalformedRecord when the id or a required field is missing or mistyped.
// languageLocked is optional and defaults to false.
func DocumentFromRecord(r *Record) (*Document, error) {
	if r.Kind != KindDocument {
		return nil, fmt.Errorf("%w: kind %q is not a document", ErrMalformedRecord, r.Kind)
	}

	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid id %q", ErrMalformedRecord, r.ID)
	}

	name, ok := r.StringField(fieldName)
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformedRecord, fieldName)
	}
	content, ok := r.StringField(fieldContent)
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformedRecord, fieldContent)
	}
	language, ok := r.StringField(fieldLanguage)
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformedRecord, fieldLanguage)
	}
	lastModified, ok := r.TimeField(fieldLastModified)
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformedRecord, fieldLastModified)
	}

	locked, _ := r.IntField(fieldLanguageLocked)

	return &Document{
		ID:             id,
		Name:           name,
		Content:        content,
		Language:       language,
		LanguageLocked: locked != 0,
		LastModified:   lastModified,
	}, nil
}
