package filestore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/spf13/afero"

	"github.com/euforicio/scratchpad/internal/models"
)

// MetadataCache is a RecordMetadataCache mirrored to a JSON file.
type MetadataCache struct {
	fs      afero.Fs
	entries map[string]models.VersionMetadata
	logger  *slog.Logger
	path    string
	mu      sync.RWMutex
}

// NewMetadataCache loads the cache from path.
// A missing, unreadable or corrupt file yields an empty cache.
func NewMetadataCache(fs afero.Fs, path string, logger *slog.Logger) *MetadataCache {
	c := &MetadataCache{
		fs:      fs,
		path:    path,
		logger:  logger,
		entries: make(map[string]models.VersionMetadata),
	}

	data, err := readFile(fs, path)
	if err != nil {
		logger.Warn("Failed to read record metadata, starting empty", "path", path, "error", err)
		return c
	}
	if data == nil {
		return c
	}

	entries := make(map[string]models.VersionMetadata)
	if err := json.Unmarshal(data, &entries); err != nil {
		logger.Warn("Corrupt record metadata, starting empty", "path", path, "error", err)
		return c
	}
	c.entries = entries

	return c
}

// Get returns the cached token for the record.
func (c *MetadataCache) Get(id string) (models.VersionMetadata, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	meta, ok := c.entries[id]
	return meta, ok
}

// Put stores the token and persists the cache.
func (c *MetadataCache) Put(id string, meta models.VersionMetadata) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[id] = meta
	return c.persistLocked()
}

// Remove drops the token and persists the cache.
func (c *MetadataCache) Remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[id]; !ok {
		return nil
	}
	delete(c.entries, id)
	return c.persistLocked()
}

// Clear drops every token and persists the empty cache.
func (c *MetadataCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]models.VersionMetadata)
	return c.persistLocked()
}

// Len returns the number of cached tokens.
func (c *MetadataCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

func (c *MetadataCache) persistLocked() error {
	// Сериализуем весь кэш, map[string][]byte кодируется в base64
	data, err := json.Marshal(c.entries)
	if err != nil {
		return fmt.Errorf("failed to marshal record metadata: %w", err)
	}

	if err := writeFileAtomic(c.fs, c.path, data); err != nil {
		return fmt.Errorf("failed to persist record metadata: %w", err)
	}

	return nil
}
