package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/euforicio/scratchpad/internal/models"
	"github.com/euforicio/scratchpad/pkg/api"
)

// Client представляет HTTP клиент сервиса записей.
// Реализует sync.RemoteService; все ошибки возвращаются как *models.RemoteError.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	pageSize   int
}

// NewClient создает новый API клиент
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return errors.New("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// WithPageSize sets the change feed page size; zero leaves it to the server.
func (c *Client) WithPageSize(n int) *Client {
	c.pageSize = n
	return c
}

// SaveZone создает зону записей
func (c *Client) SaveZone(ctx context.Context, zone string) error {
	return c.doRequest(ctx, http.MethodPut, zonePath(zone), nil, nil)
}

// DeleteZone удаляет зону вместе со всеми записями
func (c *Client) DeleteZone(ctx context.Context, zone string) error {
	return c.doRequest(ctx, http.MethodDelete, zonePath(zone), nil, nil)
}

// SaveRecord загружает запись и возвращает новый токен версии
func (c *Client) SaveRecord(ctx context.Context, zone string, rec *models.Record) (models.VersionMetadata, error) {
	wire := api.FromModel(rec)
	req := api.SaveRecordRequest{
		Kind:     wire.Kind,
		Fields:   wire.Fields,
		Metadata: wire.Metadata,
	}

	var resp api.SaveRecordResponse
	if err := c.doRequest(ctx, http.MethodPut, recordPath(zone, rec.ID), req, &resp); err != nil {
		return nil, err
	}
	return resp.Metadata, nil
}

// DeleteRecord удаляет запись по идентификатору
func (c *Client) DeleteRecord(ctx context.Context, zone, id string) error {
	return c.doRequest(ctx, http.MethodDelete, recordPath(zone, id), nil, nil)
}

// FetchChanges получает одну страницу изменений после cursor
func (c *Client) FetchChanges(ctx context.Context, zone string, cursor models.SyncCursor) (*models.ChangeBatch, error) {
	q := url.Values{}
	if len(cursor) > 0 {
		q.Set("cursor", string(cursor))
	}
	if c.pageSize > 0 {
		q.Set("limit", strconv.Itoa(c.pageSize))
	}

	path := zonePath(zone) + "/changes"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp api.ChangesResponse
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	batch := &models.ChangeBatch{
		Modified: make([]*models.Record, 0, len(resp.Modified)),
		Deleted:  make([]models.DeletedRecord, 0, len(resp.Deleted)),
		More:     resp.More,
	}
	if resp.Cursor != "" {
		batch.Cursor = models.SyncCursor(resp.Cursor)
	}
	for _, rec := range resp.Modified {
		batch.Modified = append(batch.Modified, rec.ToModel())
	}
	for _, del := range resp.Deleted {
		batch.Deleted = append(batch.Deleted, models.DeletedRecord{ID: del.ID, Kind: models.RecordKind(del.Kind)})
	}

	return batch, nil
}

// Health проверяет доступность сервера
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func zonePath(zone string) string {
	return "/api/v1/zones/" + url.PathEscape(zone)
}

func recordPath(zone, id string) string {
	return zonePath(zone) + "/records/" + url.PathEscape(id)
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return &models.RemoteError{Kind: models.ErrKindUnclassified, Err: fmt.Errorf("failed to marshal request body: %w", err)}
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return &models.RemoteError{Kind: models.ErrKindUnclassified, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Сеть, таймауты и отмена контекста - повторяемые ошибки
		return &models.RemoteError{Kind: models.ErrKindTransient, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &models.RemoteError{Kind: models.ErrKindTransient, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp.StatusCode, respBody)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return &models.RemoteError{Kind: models.ErrKindUnclassified, Err: fmt.Errorf("failed to decode response: %w", err)}
		}
	}

	return nil
}

// statusError классифицирует ответ сервера с кодом ошибки
func statusError(status int, body []byte) error {
	var errResp api.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		errResp = api.ErrorResponse{Message: string(body)}
	}

	remoteErr := &models.RemoteError{
		Kind: models.ErrKindUnclassified,
		Err:  fmt.Errorf("server error (%d %s): %s", status, errResp.Error, errResp.Message),
	}

	switch {
	case status == http.StatusConflict:
		remoteErr.Kind = models.ErrKindConflict
		if errResp.ServerRecord != nil {
			remoteErr.ServerRecord = errResp.ServerRecord.ToModel()
		}
	case status == http.StatusNotFound && errResp.Error == api.ErrCodeZoneNotFound:
		remoteErr.Kind = models.ErrKindZoneMissing
	case status == http.StatusNotFound && errResp.Error == api.ErrCodeUnknownItem:
		remoteErr.Kind = models.ErrKindRecordGone
	case status == http.StatusUnauthorized,
		status == http.StatusForbidden,
		status == http.StatusRequestTimeout,
		status == http.StatusTooManyRequests,
		status >= 500:
		remoteErr.Kind = models.ErrKindTransient
	}

	return remoteErr
}
