package app

import (
	"strings"

	"github.com/google/uuid"
)

// processingSentinel is what the backend writes into a nugget's summary
// while the AI summarization step is still running.
const processingSentinel = "Processing..."

type Nugget struct {
	NuggetID  string   `json:"nuggetId"`
	Title     string   `json:"title,omitempty"`
	Summary   string   `json:"summary,omitempty"`
	KeyPoints []string `json:"keyPoints,omitempty"`
	Question  string   `json:"question,omitempty"`
	Category  string   `json:"category,omitempty"`

	// Digest nuggets combine several source articles into one item.
	IsGrouped           bool                `json:"isGrouped,omitempty"`
	SourceURLs          []string            `json:"sourceUrls,omitempty"`
	IndividualSummaries []IndividualSummary `json:"individualSummaries,omitempty"`

	// IsReady means server-side scraping produced usable content. A nugget
	// can be ready while its summary is still being generated.
	IsReady   bool   `json:"isReady"`
	SourceURL string `json:"sourceUrl"`
}

// IsProcessing reports whether the backend is still summarizing this
// nugget. The backend signals this in-band through the summary text.
func (n Nugget) IsProcessing() bool {
	return strings.Contains(n.Summary, processingSentinel)
}

// HasGroupContent reports whether this nugget should render as a digest:
// the grouped flag alone is not enough, there must be per-article
// summaries to show.
func (n Nugget) HasGroupContent() bool {
	return len(n.IndividualSummaries) > 0
}

// IndividualSummary is one article's contribution inside a digest nugget.
type IndividualSummary struct {
	Title     string   `json:"title"`
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"keyPoints,omitempty"`
	SourceURL string   `json:"sourceUrl"`
}

type Session struct {
	// SessionID is empty for ad-hoc sessions synthesized client-side
	// around a single nugget.
	SessionID string   `json:"sessionId,omitempty"`
	Nuggets   []Nugget `json:"nuggets"`

	// LocalID identifies the session in local history even when the
	// server never assigned an id.
	LocalID string `json:"-"`
}

// NewSingleSession wraps one nugget in a session with no server id.
// Completion for such sessions goes through MarkNuggetsRead instead of
// CompleteSession.
func NewSingleSession(n Nugget) *Session {
	return &Session{
		Nuggets: []Nugget{n},
		LocalID: uuid.NewString(),
	}
}

// HasProcessingNuggets reports whether any nugget in the session still
// carries the processing sentinel, which is what gates status polling.
func (s *Session) HasProcessingNuggets() bool {
	for _, n := range s.Nuggets {
		if n.IsProcessing() {
			return true
		}
	}
	return false
}

// SessionStatus is the poll response for an in-flight session.
type SessionStatus struct {
	Nuggets            []Nugget `json:"nuggets"`
	ProcessingComplete bool     `json:"processingComplete,omitempty"`
}

type Feed struct {
	FeedID      string `json:"feedId"`
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// DigestSettings controls server-side digest generation for the account.
type DigestSettings struct {
	Enabled      bool     `json:"enabled"`
	DeliveryHour int      `json:"deliveryHour"`
	MaxArticles  int      `json:"maxArticles"`
	Categories   []string `json:"categories,omitempty"`
}
