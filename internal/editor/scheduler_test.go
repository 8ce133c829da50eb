package editor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueue_FlushRunsInOrder(t *testing.T) {
	q := NewQueue()
	var got []int
	q.Defer(func() { got = append(got, 1) })
	q.Defer(func() { got = append(got, 2) })

	require.True(t, q.Pending())
	require.Equal(t, 2, q.Flush())
	require.Equal(t, []int{1, 2}, got)
	require.False(t, q.Pending())
}

func TestQueue_TasksDeferredDuringFlushWaitForNextTick(t *testing.T) {
	q := NewQueue()
	var got []string
	q.Defer(func() {
		got = append(got, "first")
		q.Defer(func() { got = append(got, "second") })
	})

	q.Flush()
	require.Equal(t, []string{"first"}, got)
	require.True(t, q.Pending())

	q.Flush()
	require.Equal(t, []string{"first", "second"}, got)
}

func TestQueue_StopDiscardsWork(t *testing.T) {
	q := NewQueue()
	calls := 0
	q.Defer(func() { calls++ })
	q.Stop()
	q.Defer(func() { calls++ })

	require.False(t, q.Pending())
	require.Equal(t, 0, q.Flush())
	require.Equal(t, 0, calls)
	require.True(t, q.Stopped())
}

func TestQueue_StopDuringFlushSkipsRestOfBatch(t *testing.T) {
	q := NewQueue()
	calls := 0
	q.Defer(func() { q.Stop() })
	q.Defer(func() { calls++ })

	require.Equal(t, 1, q.Flush())
	require.Equal(t, 0, calls)
}
