package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_CoalescesTriggers(t *testing.T) {
	var s scheduler

	assert.True(t, s.Trigger(), "idle scheduler starts an attempt")
	assert.Equal(t, stateRunning, s.state)

	// Три запроса во время попытки дают ровно один повтор
	assert.False(t, s.Trigger())
	assert.False(t, s.Trigger())
	assert.False(t, s.Trigger())
	assert.Equal(t, stateRunningQueued, s.state)

	assert.True(t, s.Complete(), "queued rerun starts on completion")
	assert.Equal(t, stateRunning, s.state)

	assert.False(t, s.Complete())
	assert.Equal(t, stateIdle, s.state)
}

func TestScheduler_Reset(t *testing.T) {
	var s scheduler
	s.Trigger()
	s.Trigger()

	s.Reset()
	assert.Equal(t, stateIdle, s.state)
	assert.True(t, s.Trigger())
}

func TestSchedulerState_String(t *testing.T) {
	tests := []struct {
		want  string
		state schedulerState
	}{
		{state: stateIdle, want: "idle"},
		{state: stateRunning, want: "running"},
		{state: stateRunningQueued, want: "running_queued"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.String())
		})
	}
}
