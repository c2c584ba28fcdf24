package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubFetcher func(ctx context.Context, sessionID string) (*SessionStatus, error)

func (f stubFetcher) GetSessionStatus(ctx context.Context, sessionID string) (*SessionStatus, error) {
	return f(ctx, sessionID)
}

func TestPollerStopsOnProcessingComplete(t *testing.T) {
	var calls atomic.Int32
	fetch := stubFetcher(func(_ context.Context, sessionID string) (*SessionStatus, error) {
		require.Equal(t, "s1", sessionID)
		calls.Add(1)
		return &SessionStatus{
			Nuggets:            []Nugget{singleNugget("n1")},
			ProcessingComplete: true,
		}, nil
	})

	p := startPoller(fetch, "s1", 5*time.Millisecond, zap.NewNop())
	defer p.Stop()

	select {
	case st := <-p.Updates():
		assert.True(t, st.ProcessingComplete)
	case <-time.After(2 * time.Second):
		t.Fatal("no update delivered")
	}

	// The loop must exit after the complete response: no further fetch.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestPollerContinuesThroughErrors(t *testing.T) {
	var calls atomic.Int32
	fetch := stubFetcher(func(context.Context, string) (*SessionStatus, error) {
		if calls.Add(1) < 3 {
			return nil, errors.New("transient")
		}
		return &SessionStatus{ProcessingComplete: true}, nil
	})

	p := startPoller(fetch, "s1", time.Millisecond, zap.NewNop())
	defer p.Stop()

	select {
	case <-p.Updates():
	case <-time.After(2 * time.Second):
		t.Fatal("poller gave up after transient errors")
	}
	assert.GreaterOrEqual(t, calls.Load(), int32(3))
}

func TestPollerStopIsIdempotentAndSynchronous(t *testing.T) {
	block := make(chan struct{})
	fetch := stubFetcher(func(ctx context.Context, _ string) (*SessionStatus, error) {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return &SessionStatus{}, nil
	})

	p := startPoller(fetch, "s1", time.Millisecond, zap.NewNop())
	p.Stop()
	p.Stop()
	p.Stop()

	// Stop has returned, so the loop is gone and the channel is closed;
	// no update may arrive now.
	_, ok := <-p.Updates()
	assert.False(t, ok, "update delivered after Stop returned")
}

func TestPollerDiscardsInFlightResultOnStop(t *testing.T) {
	fetched := make(chan struct{}, 1)
	fetch := stubFetcher(func(context.Context, string) (*SessionStatus, error) {
		select {
		case fetched <- struct{}{}:
		default:
		}
		return &SessionStatus{Nuggets: []Nugget{singleNugget("n1")}}, nil
	})

	p := startPoller(fetch, "s1", time.Hour, zap.NewNop())
	<-fetched
	// The first result is now waiting for a reader; Stop must win the
	// race and the result must be dropped, not delivered later.
	p.Stop()

	_, ok := <-p.Updates()
	assert.False(t, ok, "stale poll result delivered after teardown")
}
