package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/euforicio/scratchpad/internal/models"
	"github.com/euforicio/scratchpad/internal/server/storage"
	"github.com/euforicio/scratchpad/internal/validation"
	"github.com/euforicio/scratchpad/pkg/api"
)

const (
	// DefaultChangesLimit is the page size when the client does not ask for one
	DefaultChangesLimit = 200

	// MaxChangesLimit caps the page size of the change feed
	MaxChangesLimit = 1000
)

// RecordsHandler serves zones, records and the change feed
type RecordsHandler struct {
	logger  *slog.Logger
	storage storage.RecordStorage
}

// NewRecordsHandler creates a new records handler
func NewRecordsHandler(logger *slog.Logger, storage storage.RecordStorage) *RecordsHandler {
	return &RecordsHandler{
		logger:  logger,
		storage: storage,
	}
}

// SaveZone обрабатывает PUT /api/v1/zones/{zone}
func (h *RecordsHandler) SaveZone(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.account(w, r)
	if !ok {
		return
	}
	zone, _, ok := h.target(w, r)
	if !ok {
		return
	}

	if err := h.storage.SaveZone(r.Context(), accountID, zone); err != nil {
		h.fail(w, err, "zone", zone)
		return
	}

	h.logger.Debug("Zone saved", "account_id", accountID, "zone", zone)
	w.WriteHeader(http.StatusNoContent)
}

// DeleteZone обрабатывает DELETE /api/v1/zones/{zone}
func (h *RecordsHandler) DeleteZone(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.account(w, r)
	if !ok {
		return
	}
	zone, _, ok := h.target(w, r)
	if !ok {
		return
	}

	if err := h.storage.DeleteZone(r.Context(), accountID, zone); err != nil {
		h.fail(w, err, "zone", zone)
		return
	}

	h.logger.Info("Zone deleted", "account_id", accountID, "zone", zone)
	w.WriteHeader(http.StatusNoContent)
}

// SaveRecord обрабатывает PUT /api/v1/zones/{zone}/records/{id}
func (h *RecordsHandler) SaveRecord(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.account(w, r)
	if !ok {
		return
	}
	zone, id, ok := h.target(w, r)
	if !ok {
		return
	}

	var req api.SaveRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Failed to decode save request", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, api.ErrorResponse{Error: api.ErrCodeBadRequest, Message: "invalid request body"})
		return
	}
	if req.Kind == "" {
		writeError(w, h.logger, http.StatusBadRequest, api.ErrorResponse{Error: api.ErrCodeBadRequest, Message: "kind is required"})
		return
	}

	rec := &models.Record{
		ID:       id,
		Kind:     models.RecordKind(req.Kind),
		Fields:   api.FieldsToModel(req.Fields),
		Metadata: req.Metadata,
	}

	meta, err := h.storage.SaveRecord(r.Context(), accountID, zone, rec)
	if err != nil {
		h.fail(w, err, "zone", zone, "record_id", id)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, api.SaveRecordResponse{Metadata: meta})
}

// DeleteRecord обрабатывает DELETE /api/v1/zones/{zone}/records/{id}
func (h *RecordsHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.account(w, r)
	if !ok {
		return
	}
	zone, id, ok := h.target(w, r)
	if !ok {
		return
	}

	if err := h.storage.DeleteRecord(r.Context(), accountID, zone, id); err != nil {
		h.fail(w, err, "zone", zone, "record_id", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Changes обрабатывает GET /api/v1/zones/{zone}/changes?cursor=&limit=
func (h *RecordsHandler) Changes(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.account(w, r)
	if !ok {
		return
	}
	zone, _, ok := h.target(w, r)
	if !ok {
		return
	}

	limit := DefaultChangesLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeError(w, h.logger, http.StatusBadRequest, api.ErrorResponse{Error: api.ErrCodeBadRequest, Message: "invalid limit"})
			return
		}
		limit = min(n, MaxChangesLimit)
	}

	var cursor models.SyncCursor
	if s := r.URL.Query().Get("cursor"); s != "" {
		cursor = models.SyncCursor(s)
	}

	batch, err := h.storage.Changes(r.Context(), accountID, zone, cursor, limit)
	if err != nil {
		h.fail(w, err, "zone", zone)
		return
	}

	resp := api.ChangesResponse{
		Modified: make([]api.Record, 0, len(batch.Modified)),
		Deleted:  make([]api.DeletedRecord, 0, len(batch.Deleted)),
		Cursor:   string(batch.Cursor),
		More:     batch.More,
	}
	for _, rec := range batch.Modified {
		resp.Modified = append(resp.Modified, api.FromModel(rec))
	}
	for _, del := range batch.Deleted {
		resp.Deleted = append(resp.Deleted, api.DeletedRecord{ID: del.ID, Kind: string(del.Kind)})
	}

	h.logger.Debug("Changes served",
		"account_id", accountID,
		"zone", zone,
		"modified", len(resp.Modified),
		"deleted", len(resp.Deleted),
		"more", resp.More)

	writeJSON(w, h.logger, http.StatusOK, resp)
}

func (h *RecordsHandler) account(w http.ResponseWriter, r *http.Request) (string, bool) {
	accountID, ok := GetAccountID(r.Context())
	if !ok {
		h.logger.Error("Account ID not found in context")
		writeError(w, h.logger, http.StatusUnauthorized, api.ErrorResponse{Error: api.ErrCodeUnauthorized})
		return "", false
	}
	return accountID, true
}

// target returns the validated zone and record id from the path.
// id is empty for zone level routes.
func (h *RecordsHandler) target(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	zone, id := r.PathValue("zone"), r.PathValue("id")

	err := validation.ValidateZoneName(zone)
	if err == nil && id != "" {
		err = validation.ValidateRecordID(id)
	}
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, api.ErrorResponse{Error: api.ErrCodeBadRequest, Message: err.Error()})
		return "", "", false
	}

	return zone, id, true
}

// fail maps storage errors to the wire error codes
func (h *RecordsHandler) fail(w http.ResponseWriter, err error, args ...any) {
	var conflict *storage.ConflictError

	switch {
	case errors.As(err, &conflict):
		server := api.FromModel(conflict.Current)
		writeError(w, h.logger, http.StatusConflict, api.ErrorResponse{
			Error:        api.ErrCodeServerRecordChanged,
			Message:      err.Error(),
			ServerRecord: &server,
		})
	case errors.Is(err, storage.ErrZoneNotFound):
		writeError(w, h.logger, http.StatusNotFound, api.ErrorResponse{Error: api.ErrCodeZoneNotFound, Message: err.Error()})
	case errors.Is(err, storage.ErrRecordNotFound):
		writeError(w, h.logger, http.StatusNotFound, api.ErrorResponse{Error: api.ErrCodeUnknownItem, Message: err.Error()})
	case errors.Is(err, storage.ErrInvalidCursor):
		writeError(w, h.logger, http.StatusBadRequest, api.ErrorResponse{Error: api.ErrCodeBadRequest, Message: err.Error()})
	default:
		h.logger.Error("Storage failure", append(args, "error", err)...)
		writeError(w, h.logger, http.StatusInternalServerError, api.ErrorResponse{Error: api.ErrCodeInternal, Message: "internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, body api.ErrorResponse) {
	writeJSON(w, logger, status, body)
}
