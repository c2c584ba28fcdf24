package app

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// mockBackend backs the client when no real API is configured. It keeps
// just enough state (saved nuggets, feeds, a poll countdown per
// session) for the TUI to be explorable offline and for tests to
// exercise the full session flow, polling included.
type mockBackend struct {
	mu       sync.Mutex
	nuggets  []Nugget
	feeds    []Feed
	digest   DigestSettings
	sessions map[string]*mockSession
}

type mockSession struct {
	nuggets []Nugget
	// pollsLeft counts status checks until the pending nugget flips to
	// processed, so polling behavior is observable in mock mode.
	pollsLeft int
}

func newMockBackend() *mockBackend {
	return &mockBackend{
		nuggets: []Nugget{
			{
				NuggetID:  "mock-n1",
				Title:     "The State of Terminal UIs",
				Summary:   "Terminal interfaces are having a renaissance driven by composable widget libraries.",
				KeyPoints: []string{"Widget libraries matured", "Keyboard-first UX is back"},
				Question:  "Which of your tools would benefit from a TUI?",
				Category:  "Software",
				IsReady:   true,
				SourceURL: "https://example.com/terminal-uis",
			},
			{
				NuggetID:   "mock-n2",
				Title:      "This Week in Distributed Systems",
				Summary:    "Three papers on consensus, storage, and scheduling, condensed.",
				Category:   "Research",
				IsGrouped:  true,
				IsReady:    true,
				SourceURL:  "https://example.com/digest",
				SourceURLs: []string{"https://example.com/a", "https://example.com/b"},
				IndividualSummaries: []IndividualSummary{
					{
						Title:     "Consensus Without Timeouts",
						Summary:   "A leaderless protocol trading latency for liveness guarantees.",
						KeyPoints: []string{"No leader election", "Bounded message complexity"},
						SourceURL: "https://example.com/a",
					},
					{
						Title:     "Log-Structured Everything",
						Summary:   "Why append-only layouts keep winning on modern storage.",
						KeyPoints: []string{"Write amplification", "Compaction tradeoffs"},
						SourceURL: "https://example.com/b",
					},
				},
			},
			{
				NuggetID:  "mock-n3",
				Title:     "Saved just now",
				Summary:   processingSentinel,
				IsReady:   true,
				SourceURL: "https://example.com/pending",
			},
		},
		feeds: []Feed{
			{FeedID: "mock-f1", URL: "https://example.com/feed.xml", Title: "Example Engineering Blog"},
		},
		digest: DigestSettings{
			Enabled:      true,
			DeliveryHour: 8,
			MaxArticles:  5,
		},
		sessions: make(map[string]*mockSession),
	}
}

func (m *mockBackend) startSession(size int) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if size <= 0 || size > len(m.nuggets) {
		size = len(m.nuggets)
	}
	nuggets := make([]Nugget, size)
	copy(nuggets, m.nuggets[:size])

	id := "mock-session-" + uuid.NewString()[:8]
	m.sessions[id] = &mockSession{nuggets: nuggets, pollsLeft: 2}
	return &Session{SessionID: id, Nuggets: nuggets, LocalID: uuid.NewString()}, nil
}

func (m *mockBackend) sessionStatus(sessionID string) (*SessionStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		return nil, &APIError{Status: 404, Message: "unknown session"}
	}

	if sess.pollsLeft > 0 {
		sess.pollsLeft--
	}
	nuggets := make([]Nugget, len(sess.nuggets))
	copy(nuggets, sess.nuggets)
	if sess.pollsLeft == 0 {
		for i := range nuggets {
			if nuggets[i].IsProcessing() {
				nuggets[i].Summary = "A short read saved moments ago, now summarized."
				nuggets[i].KeyPoints = []string{"Summarization finished"}
			}
		}
		sess.nuggets = nuggets
	}

	st := &SessionStatus{Nuggets: nuggets}
	st.ProcessingComplete = true
	for _, n := range nuggets {
		if n.IsProcessing() {
			st.ProcessingComplete = false
			break
		}
	}
	return st, nil
}

func (m *mockBackend) saveNugget(sourceURL string) (*Nugget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := Nugget{
		NuggetID:  "mock-n" + fmt.Sprint(len(m.nuggets)+1),
		Title:     sourceURL,
		Summary:   processingSentinel,
		IsReady:   true,
		SourceURL: sourceURL,
	}
	m.nuggets = append([]Nugget{n}, m.nuggets...)
	return &n, nil
}

func (m *mockBackend) listNuggets() ([]Nugget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Nugget, len(m.nuggets))
	copy(out, m.nuggets)
	return out, nil
}

func (m *mockBackend) deleteNugget(nuggetID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, n := range m.nuggets {
		if n.NuggetID == nuggetID {
			m.nuggets = append(m.nuggets[:i], m.nuggets[i+1:]...)
			return nil
		}
	}
	return &APIError{Status: 404, Message: "unknown nugget"}
}

func (m *mockBackend) listFeeds() ([]Feed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Feed, len(m.feeds))
	copy(out, m.feeds)
	return out, nil
}

func (m *mockBackend) addFeed(feedURL, title string) (*Feed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f := Feed{
		FeedID: "mock-f" + fmt.Sprint(len(m.feeds)+1),
		URL:    feedURL,
		Title:  title,
	}
	m.feeds = append(m.feeds, f)
	return &f, nil
}

func (m *mockBackend) removeFeed(feedID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, f := range m.feeds {
		if f.FeedID == feedID {
			m.feeds = append(m.feeds[:i], m.feeds[i+1:]...)
			return nil
		}
	}
	return &APIError{Status: 404, Message: "unknown feed"}
}

func (m *mockBackend) digestSettings() *DigestSettings {
	m.mu.Lock()
	defer m.mu.Unlock()
	ds := m.digest
	return &ds
}

func (m *mockBackend) setDigestSettings(ds DigestSettings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.digest = ds
}
