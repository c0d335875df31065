package store

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/statestorm/action"
)

func TestDispatchAsyncInvokesHandlerWithCallback(t *testing.T) {
	started := make(chan struct{})
	async := func(a action.Action, dispatch DispatchFunc, state any) CancelFunc {
		go func() {
			defer close(started)
			// State changes only through the dispatch callback.
			dispatch(action.New("fetch.done", "loaded", action.WithTargets("data")))
		}()
		return func() {}
	}

	s, err := New([]SliceDef{{
		Name: "data",
		Handler: func(a action.Action, state any) any {
			if a.Type == "fetch.done" {
				return a.Payload
			}
			return state
		},
		AsyncHandler: async,
		Initial:      "empty",
	}})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.DispatchAsync(action.New("fetch.start", nil)))

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("async handler never ran")
	}

	require.Eventually(t, func() bool {
		return s.StateSnapshot().Value("data") == "loaded"
	}, 2*time.Second, 5*time.Millisecond)
}

func TestDispatchAsyncReturnsBeforeStateChange(t *testing.T) {
	release := make(chan struct{})
	async := func(a action.Action, dispatch DispatchFunc, state any) CancelFunc {
		go func() {
			<-release
			dispatch(action.New("done", 1, action.WithTargets("n")))
		}()
		return func() {}
	}

	s, err := New([]SliceDef{{
		Name:         "n",
		Handler:      func(a action.Action, _ any) any { return a.Payload },
		AsyncHandler: async,
		Initial:      0,
	}})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.DispatchAsync(action.New("go", nil)))
	assert.Equal(t, 0, s.StateSnapshot().Value("n"), "async dispatch must not change state synchronously")

	close(release)
	require.Eventually(t, func() bool {
		return s.StateSnapshot().Value("n") == 1
	}, 2*time.Second, 5*time.Millisecond)
}

func TestCancelInvokesThunk(t *testing.T) {
	var cancelled atomic.Bool
	async := func(a action.Action, dispatch DispatchFunc, state any) CancelFunc {
		return func() { cancelled.Store(true) }
	}

	s, err := New([]SliceDef{{
		Name:         "job",
		Handler:      counterHandler,
		AsyncHandler: async,
	}})
	require.NoError(t, err)
	defer s.Close()

	token := NewCancelToken()
	require.NoError(t, s.DispatchAsync(action.New("job.start", nil, action.WithCancelToken(token))))

	s.Cancel(token)
	assert.True(t, cancelled.Load())

	// Cancelling again is a no-op marker, not an error.
	s.Cancel(token)
}

func TestCancelBeforeProcessingSkipsAction(t *testing.T) {
	var invoked atomic.Bool
	async := func(a action.Action, dispatch DispatchFunc, state any) CancelFunc {
		invoked.Store(true)
		return func() {}
	}

	s, err := New([]SliceDef{{
		Name:         "job",
		Handler:      counterHandler,
		AsyncHandler: async,
	}})
	require.NoError(t, err)
	defer s.Close()

	token := NewCancelToken()
	s.Cancel(token)

	require.NoError(t, s.DispatchAsync(action.New("job.start", nil, action.WithCancelToken(token))))
	assert.False(t, invoked.Load(), "cancelled token must skip the action entirely")
}

func TestDispatchAsyncSkipsSlicesWithoutAsyncHandler(t *testing.T) {
	s, err := New([]SliceDef{{
		Name:    "sync-only",
		Handler: counterHandler,
		Initial: 0,
	}})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.DispatchAsync(action.New("tick", nil)))
	assert.Equal(t, 0, s.StateSnapshot().Value("sync-only"))
}

func TestAsyncHandlerPanicIsolation(t *testing.T) {
	async := func(a action.Action, dispatch DispatchFunc, state any) CancelFunc {
		panic("async handler exploded")
	}

	s, err := New([]SliceDef{{
		Name:         "job",
		Handler:      counterHandler,
		AsyncHandler: async,
	}})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.DispatchAsync(action.New("job.start", nil)))
	assert.Equal(t, uint64(1), s.Stats().HandlerPanics)
}
