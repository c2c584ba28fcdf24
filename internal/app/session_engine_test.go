package app

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	mu             sync.Mutex
	completeCalls  int
	completedIDs   []string
	sessionID      string
	markReadCalls  int
	markedIDs      []string
	err            error
}

func (f *fakeCompleter) CompleteSession(_ context.Context, sessionID string, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completeCalls++
	f.sessionID = sessionID
	f.completedIDs = ids
	return f.err
}

func (f *fakeCompleter) MarkNuggetsRead(_ context.Context, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markReadCalls++
	f.markedIDs = ids
	return f.err
}

type fakeRecorder struct {
	mu   sync.Mutex
	recs []SessionRecord
	err  error
}

func (f *fakeRecorder) Record(rec SessionRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recs = append(f.recs, rec)
	return f.err
}

func TestEngineFinishReportsExactlyOnce(t *testing.T) {
	comp := &fakeCompleter{}
	sess := &Session{SessionID: "s1", LocalID: "l1", Nuggets: []Nugget{singleNugget("n1")}}
	e := NewSessionEngine(sess, comp, nil, nil, nil)

	e.Advance()
	require.True(t, e.Done())

	e.Finish(context.Background())
	e.Finish(context.Background())
	e.Finish(context.Background())

	assert.Equal(t, 1, comp.completeCalls)
	assert.Equal(t, "s1", comp.sessionID)
	assert.Equal(t, []string{"n1"}, comp.completedIDs)
	assert.Zero(t, comp.markReadCalls)
}

func TestEngineEarlyCloseCarriesPartialCredits(t *testing.T) {
	comp := &fakeCompleter{}
	sess := &Session{SessionID: "s1", Nuggets: []Nugget{singleNugget("n1"), singleNugget("n2")}}
	e := NewSessionEngine(sess, comp, nil, nil, nil)

	e.Advance()
	require.False(t, e.Done())

	// User bails out mid-session.
	e.Finish(context.Background())
	assert.Equal(t, 1, comp.completeCalls)
	assert.Equal(t, []string{"n1"}, comp.completedIDs)
}

func TestEngineAdHocSessionUsesMarkNuggetsRead(t *testing.T) {
	comp := &fakeCompleter{}
	e := NewSessionEngine(NewSingleSession(singleNugget("n1")), comp, nil, nil, nil)

	e.Advance()
	e.Finish(context.Background())

	assert.Zero(t, comp.completeCalls)
	assert.Equal(t, 1, comp.markReadCalls)
	assert.Equal(t, []string{"n1"}, comp.markedIDs)
}

func TestEngineAdHocSessionWithNoCreditsSkipsMarkRead(t *testing.T) {
	comp := &fakeCompleter{}
	e := NewSessionEngine(NewSingleSession(singleNugget("n1")), comp, nil, nil, nil)

	e.Skip()
	e.Finish(context.Background())
	assert.Zero(t, comp.markReadCalls)
}

func TestEngineFinishSwallowsSubmissionErrors(t *testing.T) {
	comp := &fakeCompleter{err: errors.New("backend down")}
	rec := &fakeRecorder{}
	sess := &Session{SessionID: "s1", LocalID: "l1", Nuggets: []Nugget{singleNugget("n1")}}
	e := NewSessionEngine(sess, comp, rec, nil, nil)

	e.Advance()
	// Must not panic or surface the error; the local record still lands.
	e.Finish(context.Background())
	require.Len(t, rec.recs, 1)
	assert.Equal(t, "l1", rec.recs[0].ID)
	assert.Equal(t, 1, rec.recs[0].CompletedCount)
}

func TestEngineFinishNotifiesBroadcast(t *testing.T) {
	bc := NewBroadcaster()
	sub := bc.Subscribe()
	e := NewSessionEngine(NewSingleSession(singleNugget("n1")), &fakeCompleter{}, nil, bc, nil)

	e.Advance()
	e.Finish(context.Background())

	select {
	case <-sub:
	default:
		t.Fatal("expected a refresh notification after finish")
	}
}

func TestEngineApplyStatusReplacesNuggetsWholesale(t *testing.T) {
	sess := &Session{SessionID: "s1", Nuggets: []Nugget{singleNugget("n1"), singleNugget("n2")}}
	e := NewSessionEngine(sess, &fakeCompleter{}, nil, nil, nil)
	require.Len(t, e.Cards(), 2)

	// The poll response drops n2 entirely and adds n3; nothing from the
	// old list may linger.
	e.ApplyStatus(SessionStatus{Nuggets: []Nugget{singleNugget("n1"), singleNugget("n3")}})

	cards := e.Cards()
	require.Len(t, cards, 2)
	assert.Equal(t, "n1", cards[0].NuggetID)
	assert.Equal(t, "n3", cards[1].NuggetID)
}

func TestEngineApplyStatusKeepsCursor(t *testing.T) {
	sess := &Session{SessionID: "s1", Nuggets: []Nugget{singleNugget("n1"), singleNugget("n2"), singleNugget("n3")}}
	e := NewSessionEngine(sess, &fakeCompleter{}, nil, nil, nil)

	e.Advance()
	idx, _ := e.Position()
	require.Equal(t, 1, idx)

	e.ApplyStatus(SessionStatus{Nuggets: []Nugget{groupedNugget("n1", 2), singleNugget("n2"), singleNugget("n3")}})
	idx, total := e.Position()
	assert.Equal(t, 1, idx)
	assert.Equal(t, 5, total)
}

func TestEngineApplyStatusClampsCursorToNewLength(t *testing.T) {
	sess := &Session{SessionID: "s1", Nuggets: []Nugget{singleNugget("n1"), singleNugget("n2"), singleNugget("n3")}}
	e := NewSessionEngine(sess, &fakeCompleter{}, nil, nil, nil)

	e.Advance()
	e.Advance()
	e.ApplyStatus(SessionStatus{Nuggets: []Nugget{singleNugget("n1")}})

	idx, total := e.Position()
	assert.Equal(t, 1, idx)
	assert.Equal(t, 1, total)
	assert.True(t, e.Done())
}

func TestEngineStartPollingRequiresSessionIDAndSentinel(t *testing.T) {
	// No server id: never polls, even with a pending nugget.
	pending := singleNugget("n1")
	pending.Summary = "Processing..."
	e := NewSessionEngine(NewSingleSession(pending), &fakeCompleter{}, nil, nil, nil)
	assert.Nil(t, e.StartPolling(stubFetcher(nil), DefaultPollInterval))

	// Server id but nothing processing: no polling either.
	sess := &Session{SessionID: "s1", Nuggets: []Nugget{singleNugget("n1")}}
	e2 := NewSessionEngine(sess, &fakeCompleter{}, nil, nil, nil)
	assert.Nil(t, e2.StartPolling(stubFetcher(nil), DefaultPollInterval))
}
