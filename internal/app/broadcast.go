package app

import "sync"

// Broadcaster is a one-way "nuggets changed" fan-out. Screens that show
// nugget-derived data (home list, unread badge) subscribe and reload
// when poked; the sender never waits on them.
type Broadcaster struct {
	mu   sync.Mutex
	subs []chan struct{}
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{}
}

// Subscribe returns a channel that receives at most one pending
// notification. Coalescing is fine here: subscribers reload everything
// on any signal, so two signals are no better than one.
func (b *Broadcaster) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch
}

// Notify pokes every subscriber without blocking. A subscriber with a
// notification already pending is skipped.
func (b *Broadcaster) Notify() {
	b.mu.Lock()
	subs := make([]chan struct{}, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
