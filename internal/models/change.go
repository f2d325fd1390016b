package models

import "github.com/google/uuid"

// ChangeOp is the kind of local intent waiting to be sent.
type ChangeOp string

const (
	OpSave   ChangeOp = "save"
	OpDelete ChangeOp = "delete"
)

// PendingChange is a queued local intent for one record.
// Seq grows with every enqueue so a confirmation can remove exactly
// the change it confirms and not a newer one for the same ID.
type PendingChange struct {
	Op  ChangeOp  `json:"op"`
	Seq uint64    `json:"seq"`
	ID  uuid.UUID `json:"id"`
}
