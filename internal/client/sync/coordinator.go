package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/euforicio/scratchpad/internal/client/storage"
	"github.com/euforicio/scratchpad/internal/models"
)

const (
	// ProtocolVersion is bumped when the record layout changes; a mismatch forces a full resync
	ProtocolVersion = 2

	// DefaultInterval is the periodic sync interval
	DefaultInterval = 120 * time.Second

	// DefaultZone is the remote zone holding all records
	DefaultZone = "ScratchpadData"
)

// ErrNotRunning is returned by operations that need the run loop.
var ErrNotRunning = errors.New("sync coordinator is not running")

// Config holds coordinator settings.
type Config struct {
	Zone     string
	Interval time.Duration
}

// Deps are the collaborators the coordinator drives.
type Deps struct {
	Remote    RemoteService
	Metadata  storage.MetadataCache
	Cursor    storage.StateStore
	Pending   storage.PendingStore
	Settings  storage.SettingsStore
	Documents storage.DocumentStore
	Clipboard storage.ClipboardStore
	Logger    *slog.Logger
}

// Status is a snapshot of sync state for display.
type Status struct {
	LastSynced      time.Time
	Pending         int
	CachedRecords   int
	Running         bool
	FirstSync       bool
	ZoneSavePending bool
	HasCursor       bool
}

// Coordinator schedules sync attempts and applies their outcomes.
// All sync state is mutated on a single run-loop goroutine; the exported
// methods are safe for concurrent use.
type Coordinator struct {
	remote    RemoteService
	metadata  storage.MetadataCache
	cursor    storage.StateStore
	pending   storage.PendingStore
	settings  storage.SettingsStore
	documents storage.DocumentStore
	clipboard storage.ClipboardStore
	logger    *slog.Logger
	metrics   *syncMetrics

	triggers chan string
	events   chan envelope
	external chan Event
	idle     chan chan struct{}

	cancel  context.CancelFunc
	applier *applier
	cfg     Config

	wg         sync.WaitGroup
	generation atomic.Uint64
	lastSynced atomic.Int64
	mu         sync.Mutex
	firstSync  atomic.Bool
}

// NewCoordinator creates a coordinator. It does nothing until Start.
func NewCoordinator(cfg Config, deps Deps) (*Coordinator, error) {
	if cfg.Zone == "" {
		cfg.Zone = DefaultZone
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}

	m, err := newSyncMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to create sync metrics: %w", err)
	}

	return &Coordinator{
		remote:    deps.Remote,
		metadata:  deps.Metadata,
		cursor:    deps.Cursor,
		pending:   deps.Pending,
		settings:  deps.Settings,
		documents: deps.Documents,
		clipboard: deps.Clipboard,
		logger:    deps.Logger,
		metrics:   m,
		cfg:       cfg,
		triggers:  make(chan string, 1),
		events:    make(chan envelope, 64),
		external:  make(chan Event, 16),
		idle:      make(chan chan struct{}),
	}, nil
}

// Start runs migration and first-sync preparation, then launches the run
// loop and an immediate "startup" attempt. Starting a running coordinator is a no-op.
func (c *Coordinator) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		return nil
	}

	if err := c.prepare(ctx); err != nil {
		return fmt.Errorf("failed to prepare sync: %w", err)
	}

	if last, err := c.settings.LastSynced(ctx); err != nil {
		c.logger.Warn("Failed to read last sync time", "error", err)
	} else if !last.IsZero() {
		c.lastSynced.Store(last.UnixNano())
	}

	loopCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.applier = newApplier(c.logger)
	gen := c.generation.Add(1)

	go c.applier.run(context.WithoutCancel(ctx))

	c.wg.Add(1)
	go c.run(loopCtx, gen, c.applier)

	c.logger.Info("Sync started", "zone", c.cfg.Zone, "interval", c.cfg.Interval, "first_sync", c.firstSync.Load())

	return nil
}

// Stop cancels the run loop and any in-flight attempt and waits for them.
// Local applies already queued are completed. Results of the cancelled
// attempt are discarded.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel == nil {
		return
	}

	c.cancel()
	c.wg.Wait()
	c.applier.close()
	c.cancel = nil

	c.logger.Info("Sync stopped")
}

// Disable stops syncing and forgets all sync state so the next Start is a first sync.
func (c *Coordinator) Disable() {
	c.Stop()

	if err := c.metadata.Clear(); err != nil {
		c.logger.Warn("Failed to clear record metadata", "error", err)
	}
	if err := c.cursor.Reset(); err != nil {
		c.logger.Warn("Failed to reset sync state", "error", err)
	}

	c.logger.Info("Sync disabled")
}

// Running reports whether the run loop is active.
func (c *Coordinator) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.cancel != nil
}

// RecordChanged queues an upload of the record and requests an attempt.
func (c *Coordinator) RecordChanged(ctx context.Context, id uuid.UUID) error {
	if _, err := c.pending.AddPending(ctx, models.OpSave, id); err != nil {
		return fmt.Errorf("failed to queue save: %w", err)
	}
	c.Trigger("local change")
	return nil
}

// RecordDeleted queues a remote deletion of the record and requests an attempt.
func (c *Coordinator) RecordDeleted(ctx context.Context, id uuid.UUID) error {
	if _, err := c.pending.AddPending(ctx, models.OpDelete, id); err != nil {
		return fmt.Errorf("failed to queue delete: %w", err)
	}
	c.Trigger("local delete")
	return nil
}

// Foreground requests an attempt because the application became active.
func (c *Coordinator) Foreground() {
	c.Trigger("became active")
}

// Trigger requests an attempt. It never blocks; requests made while one is
// already owed are coalesced.
func (c *Coordinator) Trigger(reason string) {
	select {
	case c.triggers <- reason:
	default:
	}
}

// Notify delivers an account or zone lifecycle event to the run loop.
func (c *Coordinator) Notify(ctx context.Context, ev Event) error {
	select {
	case c.external <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WaitIdle blocks until no attempt is running or owed and every queued
// local apply has finished.
func (c *Coordinator) WaitIdle(ctx context.Context) error {
	c.mu.Lock()
	running := c.cancel != nil
	a := c.applier
	c.mu.Unlock()
	if !running {
		return ErrNotRunning
	}

	done := make(chan struct{})
	select {
	case c.idle <- done:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	return a.flush(ctx)
}

// IsFirstSync reports whether local state is still authoritative for records
// without cached metadata.
func (c *Coordinator) IsFirstSync() bool {
	return c.firstSync.Load()
}

// LastSynced returns the time of the last successful phase, zero if never.
func (c *Coordinator) LastSynced() time.Time {
	ns := c.lastSynced.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns).UTC()
}

// Status returns a snapshot of sync state.
func (c *Coordinator) Status(ctx context.Context) (Status, error) {
	changes, err := c.pending.ListPending(ctx)
	if err != nil {
		return Status{}, err
	}
	zoneSave, err := c.pending.ZoneSavePending(ctx)
	if err != nil {
		return Status{}, err
	}

	last := c.LastSynced()
	if last.IsZero() {
		if last, err = c.settings.LastSynced(ctx); err != nil {
			return Status{}, err
		}
	}

	cursor, err := c.cursor.Load()
	if err != nil {
		c.logger.Warn("Failed to load sync state", "error", err)
	}

	return Status{
		Running:         c.Running(),
		FirstSync:       c.IsFirstSync(),
		Pending:         len(changes),
		ZoneSavePending: zoneSave,
		LastSynced:      last,
		HasCursor:       cursor != nil,
		CachedRecords:   c.metadata.Len(),
	}, nil
}
