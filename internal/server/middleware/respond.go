package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/euforicio/scratchpad/pkg/api"
)

// writeError пишет JSON ошибку в формате сервиса записей
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: code, Message: message})
}

// Chain применяет middleware так, что первый в списке выполняется первым
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
