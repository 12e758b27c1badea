package task

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuntimeReportsProgress(t *testing.T) {
	var got []Progress
	rt := New(WithUpdateInterval(0), WithObserver(func(p Progress) { got = append(got, p) }))

	assert.True(t, rt.ShouldUpdate())
	err := rt.Update(context.Background(), Progress{Message: "colors", Current: 5, Max: 10})
	assert.NoError(t, err)
	if assert.Len(t, got, 1) {
		assert.Equal(t, "colors (5/10)", got[0].String())
	}
}

func TestRuntimeAbort(t *testing.T) {
	rt := New(WithUpdateInterval(0))
	rt.Abort()
	err := rt.Update(context.Background(), Progress{})
	assert.ErrorIs(t, err, ErrCancelled)
	assert.True(t, IsCancelled(err))
}

func TestRuntimeContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New().Update(ctx, Progress{})
	assert.ErrorIs(t, err, ErrCancelled)
	assert.ErrorIs(t, err, context.Canceled)

	assert.ErrorIs(t, Synchronous().Update(ctx, Progress{}), ErrCancelled)
	assert.ErrorIs(t, Check(ctx), ErrCancelled)
}

func TestSynchronousNeverUpdates(t *testing.T) {
	rt := Synchronous()
	assert.False(t, rt.ShouldUpdate())
	assert.NoError(t, rt.Update(context.Background(), Progress{}))
}
