package api

import "time"

// Field представляет типизированное значение поля записи
type Field struct {
	S *string    `json:"s,omitempty"` // строковое значение
	I *int64     `json:"i,omitempty"` // целочисленное значение
	T *time.Time `json:"t,omitempty"` // время
}

// Record представляет запись в зоне
type Record struct {
	Fields   map[string]Field `json:"fields"`
	ID       string           `json:"id"`
	Kind     string           `json:"kind"`
	Metadata []byte           `json:"metadata,omitempty"` // токен версии, base64 в JSON
}

// SaveRecordRequest представляет запрос на сохранение записи.
// Пустой Metadata означает создание новой записи.
type SaveRecordRequest struct {
	Fields   map[string]Field `json:"fields"`
	Kind     string           `json:"kind"`
	Metadata []byte           `json:"metadata,omitempty"`
}

// SaveRecordResponse представляет ответ с новым токеном версии
type SaveRecordResponse struct {
	Metadata []byte `json:"metadata"`
}

// DeletedRecord представляет удаленную запись в ленте изменений
type DeletedRecord struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
}

// ChangesResponse представляет одну страницу ленты изменений
type ChangesResponse struct {
	Modified []Record        `json:"modified"`
	Deleted  []DeletedRecord `json:"deleted"`
	Cursor   string          `json:"cursor"`
	More     bool            `json:"more"`
}
