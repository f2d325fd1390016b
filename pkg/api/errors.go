package api

// Коды ошибок сервиса записей
const (
	ErrCodeZoneNotFound        = "zone_not_found"
	ErrCodeUnknownItem         = "unknown_item"
	ErrCodeServerRecordChanged = "server_record_changed"
	ErrCodeBadRequest          = "bad_request"
	ErrCodeUnauthorized        = "unauthorized"
	ErrCodeRateLimited         = "rate_limited"
	ErrCodeInternal            = "internal"
)

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	ServerRecord *Record `json:"server_record,omitempty"` // текущая версия записи при конфликте
	Error        string  `json:"error"`                   // код ошибки
	Message      string  `json:"message,omitempty"`       // дополнительное сообщение
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
