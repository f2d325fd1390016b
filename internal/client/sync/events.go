package sync

import "github.com/euforicio/scratchpad/internal/models"

// Event is an input to the sync state machine. Attempt outcomes are produced
// internally; account and zone lifecycle events are pushed with Notify.
type Event interface {
	eventName() string
}

// AccountChange is the kind of account lifecycle transition.
type AccountChange int

const (
	AccountSignedIn AccountChange = iota
	AccountSignedOut
	AccountSwitched
)

// AccountChanged reports a sign-in, sign-out or account switch.
type AccountChanged struct {
	Change AccountChange
}

// ZoneDeleted reports that the remote zone was removed.
type ZoneDeleted struct{}

// ZoneSaved reports a successful zone save.
type ZoneSaved struct{}

// ZoneSaveFailed reports a failed zone save.
type ZoneSaveFailed struct {
	Err error
}

// RecordSaved reports a confirmed upload.
type RecordSaved struct {
	Metadata models.VersionMetadata
	Change   models.PendingChange
}

// RecordSaveFailed reports a rejected upload. Sent is the record that was sent.
type RecordSaveFailed struct {
	Err    error
	Sent   *models.Record
	Change models.PendingChange
}

// RecordRemoved reports a confirmed remote deletion.
type RecordRemoved struct {
	Change models.PendingChange
}

// RecordRemoveFailed reports a rejected remote deletion.
type RecordRemoveFailed struct {
	Err    error
	Change models.PendingChange
}

// ChangesFetched carries one page of the change feed.
type ChangesFetched struct {
	Modified []*models.Record
	Deleted  []models.DeletedRecord
}

// StateUpdated carries the cursor after a fetched page.
type StateUpdated struct {
	Cursor models.SyncCursor
}

// SendCompleted ends the send phase. Failed counts changes that were not confirmed.
type SendCompleted struct {
	Failed int
}

// FetchCompleted ends a successful fetch phase.
type FetchCompleted struct{}

// FetchFailed ends a failed fetch phase.
type FetchFailed struct {
	Err error
}

func (AccountChanged) eventName() string     { return "account_changed" }
func (ZoneDeleted) eventName() string        { return "zone_deleted" }
func (ZoneSaved) eventName() string          { return "zone_saved" }
func (ZoneSaveFailed) eventName() string     { return "zone_save_failed" }
func (RecordSaved) eventName() string        { return "record_saved" }
func (RecordSaveFailed) eventName() string   { return "record_save_failed" }
func (RecordRemoved) eventName() string      { return "record_removed" }
func (RecordRemoveFailed) eventName() string { return "record_remove_failed" }
func (ChangesFetched) eventName() string     { return "changes_fetched" }
func (StateUpdated) eventName() string       { return "state_updated" }
func (SendCompleted) eventName() string      { return "send_completed" }
func (FetchCompleted) eventName() string     { return "fetch_completed" }
func (FetchFailed) eventName() string        { return "fetch_failed" }

// envelope tags attempt output with the generation of the run loop that started it.
type envelope struct {
	ev   Event
	gen  uint64
	done bool
}
