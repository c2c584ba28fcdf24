package app

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Completer is the slice of the API client that records finished
// sessions server-side.
type Completer interface {
	CompleteSession(ctx context.Context, sessionID string, completedNuggetIDs []string) error
	MarkNuggetsRead(ctx context.Context, nuggetIDs []string) error
}

// Recorder persists a finished session locally for the stats dashboard.
type Recorder interface {
	Record(rec SessionRecord) error
}

// SessionEngine owns one review session: the nugget list, the derived
// card stack, and the navigation state. The TUI (or the plain CLI
// runner) drives it from a single goroutine; the only concurrent caller
// is Finish, which runs as a background command, so the small lock
// below covers the handoff.
type SessionEngine struct {
	mu      sync.Mutex
	session *Session
	state   SessionState
	cards   []Card

	completer Completer
	history   Recorder
	broadcast *Broadcaster
	log       *zap.Logger

	poller    *Poller
	startedAt time.Time
	finished  bool
}

func NewSessionEngine(sess *Session, completer Completer, history Recorder, broadcast *Broadcaster, log *zap.Logger) *SessionEngine {
	if log == nil {
		log = zap.NewNop()
	}
	e := &SessionEngine{
		session:   sess,
		completer: completer,
		history:   history,
		broadcast: broadcast,
		log:       log,
		startedAt: time.Now().UTC(),
	}
	e.cards = DeriveCards(sess.Nuggets)
	return e
}

// Cards returns the current card stack.
func (e *SessionEngine) Cards() []Card {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cards
}

// Current returns the card under the cursor, or false once the stack is
// exhausted.
func (e *SessionEngine) Current() (Card, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.CurrentIndex < 0 || e.state.CurrentIndex >= len(e.cards) {
		return Card{}, false
	}
	return e.cards[e.state.CurrentIndex], true
}

// Position returns the cursor index and the card count.
func (e *SessionEngine) Position() (index, total int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.CurrentIndex, len(e.cards)
}

// Advance moves forward, crediting the nugget whose card was left.
func (e *SessionEngine) Advance() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Advance(e.cards)
}

// Skip moves forward without crediting completion.
func (e *SessionEngine) Skip() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Skip()
}

// Back moves backward, clamped at the first card.
func (e *SessionEngine) Back() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Back()
}

// Done reports whether the session reached its terminal state.
func (e *SessionEngine) Done() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Done(len(e.cards))
}

// CompletedNuggetIDs returns the credited ids in the order they were
// first advanced past.
func (e *SessionEngine) CompletedNuggetIDs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.state.CompletedNuggetIDs))
	copy(out, e.state.CompletedNuggetIDs)
	return out
}

// StartPolling begins background status polling if the session needs
// it: a server session id plus at least one nugget still carrying the
// processing sentinel. Returns nil when no polling is needed.
func (e *SessionEngine) StartPolling(fetch StatusFetcher, interval time.Duration) *Poller {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.poller != nil {
		return e.poller
	}
	if e.session.SessionID == "" || !e.session.HasProcessingNuggets() {
		return nil
	}
	e.poller = startPoller(fetch, e.session.SessionID, interval, e.log)
	return e.poller
}

// Poller returns the active poll handle, or nil when this session never
// needed polling.
func (e *SessionEngine) Poller() *Poller {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.poller
}

// ApplyStatus replaces the session's nugget list wholesale with a poll
// response and re-derives the cards. The cursor is left where it was,
// clamped only to the new stack length; if earlier nuggets changed
// shape, the card at the cursor may be a different one than before the
// poll. That matches the product's behavior and is accepted.
func (e *SessionEngine) ApplyStatus(st SessionStatus) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.Nuggets = st.Nuggets
	e.cards = DeriveCards(e.session.Nuggets)
	if e.state.CurrentIndex > len(e.cards) {
		e.state.CurrentIndex = len(e.cards)
	}
}

// Finish reports the session's completed nuggets exactly once and stops
// polling. It is called when the stack is exhausted or when the user
// closes the session early; either way the accumulated credits are
// what gets reported. Submission is best-effort: errors are logged and
// the session still closes. The local history record is written
// regardless, so a lost network call costs server-side state only.
//
// Callers run Finish off the UI loop (a tea command, or the CLI's own
// goroutine); the UI never waits on it to dismiss.
func (e *SessionEngine) Finish(ctx context.Context) {
	e.mu.Lock()
	if e.finished {
		e.mu.Unlock()
		return
	}
	e.finished = true
	poller := e.poller
	sessionID := e.session.SessionID
	localID := e.session.LocalID
	nuggetCount := len(e.session.Nuggets)
	completed := make([]string, len(e.state.CompletedNuggetIDs))
	copy(completed, e.state.CompletedNuggetIDs)
	startedAt := e.startedAt
	e.mu.Unlock()

	if poller != nil {
		poller.Stop()
	}

	if e.history != nil {
		if localID == "" {
			localID = uuid.NewString()
		}
		rec := SessionRecord{
			ID:             localID,
			SessionID:      sessionID,
			StartedAt:      startedAt,
			FinishedAt:     time.Now().UTC(),
			NuggetCount:    nuggetCount,
			CompletedCount: len(completed),
			CompletedIDs:   completed,
		}
		if err := e.history.Record(rec); err != nil {
			e.log.Warn("recording session history failed", zap.Error(err))
		}
	}

	if e.completer != nil {
		var err error
		switch {
		case sessionID != "":
			err = e.completer.CompleteSession(ctx, sessionID, completed)
		case len(completed) > 0:
			err = e.completer.MarkNuggetsRead(ctx, completed)
		}
		if err != nil {
			e.log.Warn("session completion submission failed",
				zap.String("sessionId", sessionID), zap.Error(err))
		}
	}

	if e.broadcast != nil {
		e.broadcast.Notify()
	}
}
