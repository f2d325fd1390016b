package models

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want ErrorKind
	}{
		{name: "nil", err: nil, want: ErrKindUnclassified},
		{name: "plain error", err: errors.New("boom"), want: ErrKindUnclassified},
		{name: "conflict", err: &RemoteError{Kind: ErrKindConflict}, want: ErrKindConflict},
		{
			name: "wrapped zone missing",
			err:  fmt.Errorf("save failed: %w", &RemoteError{Kind: ErrKindZoneMissing}),
			want: ErrKindZoneMissing,
		},
		{name: "record gone", err: &RemoteError{Kind: ErrKindRecordGone}, want: ErrKindRecordGone},
		{name: "context canceled", err: context.Canceled, want: ErrKindTransient},
		{name: "deadline", err: fmt.Errorf("op: %w", context.DeadlineExceeded), want: ErrKindTransient},
		{name: "network", err: &net.OpError{Op: "dial", Err: errors.New("refused")}, want: ErrKindTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyError(tt.err))
		})
	}
}

func TestServerRecordOf(t *testing.T) {
	rec := &Record{ID: "x"}
	err := fmt.Errorf("wrapped: %w", &RemoteError{Kind: ErrKindConflict, ServerRecord: rec})

	assert.Same(t, rec, ServerRecordOf(err))
	assert.Nil(t, ServerRecordOf(errors.New("other")))
}
