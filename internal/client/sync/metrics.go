package sync

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/euforicio/scratchpad/internal/crdt"
	"github.com/euforicio/scratchpad/internal/models"
)

const instrumentationName = "github.com/euforicio/scratchpad/internal/client/sync"

// syncMetrics holds sync engine instruments. They are no-ops unless the
// process installs a meter provider.
type syncMetrics struct {
	attempts  metric.Int64Counter
	sent      metric.Int64Counter
	conflicts metric.Int64Counter
	applied   metric.Int64Counter
}

func newSyncMetrics() (*syncMetrics, error) {
	meter := otel.Meter(instrumentationName)

	attempts, err := meter.Int64Counter(
		"scratchpad.sync.attempts",
		metric.WithDescription("Number of sync attempts started"),
		metric.WithUnit("{attempts}"),
	)
	if err != nil {
		return nil, err
	}

	sent, err := meter.Int64Counter(
		"scratchpad.sync.records.sent",
		metric.WithDescription("Records sent to the remote service by outcome"),
		metric.WithUnit("{records}"),
	)
	if err != nil {
		return nil, err
	}

	conflicts, err := meter.Int64Counter(
		"scratchpad.sync.conflicts",
		metric.WithDescription("Write conflicts by record kind and winner"),
		metric.WithUnit("{conflicts}"),
	)
	if err != nil {
		return nil, err
	}

	applied, err := meter.Int64Counter(
		"scratchpad.sync.records.applied",
		metric.WithDescription("Remote changes applied to the local store"),
		metric.WithUnit("{records}"),
	)
	if err != nil {
		return nil, err
	}

	return &syncMetrics{
		attempts:  attempts,
		sent:      sent,
		conflicts: conflicts,
		applied:   applied,
	}, nil
}

func (m *syncMetrics) attemptStarted(ctx context.Context, reason string) {
	m.attempts.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

func (m *syncMetrics) recordSent(ctx context.Context, op models.ChangeOp, err error) {
	outcome := "ok"
	if err != nil {
		outcome = models.ClassifyError(err).String()
	}
	m.sent.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", string(op)),
		attribute.String("outcome", outcome),
	))
}

func (m *syncMetrics) conflict(ctx context.Context, kind models.RecordKind, resolution crdt.Resolution) {
	m.conflicts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", string(kind)),
		attribute.String("winner", resolution.String()),
	))
}

func (m *syncMetrics) recordApplied(ctx context.Context, kind models.RecordKind, op string) {
	m.applied.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", string(kind)),
		attribute.String("op", op),
	))
}
