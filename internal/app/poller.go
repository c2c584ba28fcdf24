package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultPollInterval matches the backend's expectation for session
// status checks while summarization is in flight.
const DefaultPollInterval = 2 * time.Second

// StatusFetcher is the slice of the API client the poller needs.
type StatusFetcher interface {
	GetSessionStatus(ctx context.Context, sessionID string) (*SessionStatus, error)
}

// Poller periodically fetches session status while server-side
// processing is pending and hands each decoded response to the owner
// over Updates. It never applies state itself: the session engine (on
// the UI-owning goroutine) is the only writer of session state.
//
// One check fires immediately on start, then one per interval. Fetch
// errors are logged and swallowed; only an explicit processing-complete
// response or Stop ends the loop.
type Poller struct {
	updates  chan SessionStatus
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func startPoller(fetch StatusFetcher, sessionID string, interval time.Duration, log *zap.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	p := &Poller{
		updates: make(chan SessionStatus),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-p.stop
		cancel()
	}()

	go func() {
		defer close(p.done)
		defer close(p.updates)
		// Release the cancel watcher even when the loop ends on its own.
		defer p.stopOnce.Do(func() { close(p.stop) })
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			st, err := fetch.GetSessionStatus(ctx, sessionID)
			if err != nil {
				log.Warn("session status poll failed", zap.String("sessionId", sessionID), zap.Error(err))
			} else {
				// A result fetched before Stop must not be delivered
				// after it.
				select {
				case p.updates <- *st:
				case <-p.stop:
					return
				}
				if st.ProcessingComplete {
					return
				}
			}

			select {
			case <-ticker.C:
			case <-p.stop:
				return
			}
		}
	}()

	return p
}

// Updates delivers each successful poll response. The channel closes
// when the loop exits, whether by a processing-complete response or by
// Stop.
func (p *Poller) Updates() <-chan SessionStatus {
	return p.updates
}

// Stop tears the poller down. It is idempotent, safe after natural
// completion, and does not return until the poll loop has exited, so no
// update can be delivered once Stop has returned.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		close(p.stop)
	})
	<-p.done
}
