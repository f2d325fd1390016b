package sync

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestApplier_RunsInOrder(t *testing.T) {
	a := newApplier(setupTestLogger())
	go a.run(context.Background())

	var got []int
	for i := range 50 {
		a.enqueue("job", func(context.Context) error {
			got = append(got, i)
			return nil
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, a.flush(ctx))

	require.Len(t, got, 50)
	for i, v := range got {
		assert.Equal(t, i, v)
	}

	a.close()
}

func TestApplier_FailedJobDoesNotStopQueue(t *testing.T) {
	a := newApplier(setupTestLogger())
	go a.run(context.Background())

	ran := false
	a.enqueue("broken", func(context.Context) error { return errors.New("boom") })
	a.enqueue("next", func(context.Context) error {
		ran = true
		return nil
	})

	a.close()
	assert.True(t, ran)
}

func TestApplier_CloseDrainsAndDropsLater(t *testing.T) {
	a := newApplier(setupTestLogger())

	count := 0
	for range 3 {
		a.enqueue("job", func(context.Context) error {
			count++
			return nil
		})
	}

	go a.run(context.Background())
	a.close()
	assert.Equal(t, 3, count)

	a.enqueue("late", func(context.Context) error {
		count++
		return nil
	})
	assert.Equal(t, 3, count)
	assert.NoError(t, a.flush(context.Background()))
}
