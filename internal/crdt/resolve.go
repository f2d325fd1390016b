package crdt

import "github.com/euforicio/scratchpad/internal/models"

// Resolution is the outcome of a write conflict between a local copy and the server copy.
type Resolution int

const (
	// ServerWins означает: принимаем серверную версию и применяем её локально
	ServerWins Resolution = iota
	// LocalWins означает: локальная версия будет отправлена поверх серверного токена
	LocalWins
)

func (r Resolution) String() string {
	if r == LocalWins {
		return "local"
	}
	return "server"
}

// ResolveDocument applies last-writer-wins on LastModified.
// The local copy wins only when strictly newer; ties go to the server
// so every device converges on the same copy.
func ResolveDocument(local, server *models.Document) Resolution {
	if local.LastModified.After(server.LastModified) {
		return LocalWins
	}
	return ServerWins
}

// ResolveClipboardEntry always picks the server copy.
// Clipboard entries are immutable once created.
func ResolveClipboardEntry(_, _ *models.ClipboardEntry) Resolution {
	return ServerWins
}
