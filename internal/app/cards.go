package app

// CardKind says how a card should be rendered.
type CardKind string

const (
	// CardSingle is a plain one-article nugget.
	CardSingle CardKind = "single"
	// CardGroupOverview is the combined summary page of a digest nugget.
	CardGroupOverview CardKind = "group_overview"
	// CardIndividual is one article's page inside a digest nugget.
	CardIndividual CardKind = "individual"
)

// Card is a non-persistent projection of a nugget for display. Several
// cards may reference the same nugget; they are re-derived from the
// session's nugget list whenever it changes and carry no state of their
// own.
type Card struct {
	NuggetID string
	Kind     CardKind

	// Index and Total are set for CardIndividual only: zero-based
	// position within the digest and the digest's article count.
	Index int
	Total int

	Title     string
	Summary   string
	KeyPoints []string
	Question  string
	Category  string
	SourceURL string
}

// DeriveCards flattens a nugget list into the ordered card sequence the
// stack presents. It is a pure function: same nuggets in, same cards
// out, and callers re-derive after every change to the nugget list.
//
// Nuggets that are not ready yet produce no cards. A digest nugget with
// N individual summaries produces N+1 cards (overview first, then the
// articles in their original order). A grouped flag without any
// individual summaries degrades to a single card.
func DeriveCards(nuggets []Nugget) []Card {
	cards := make([]Card, 0, len(nuggets))
	for _, n := range nuggets {
		if !n.IsReady {
			continue
		}
		if !n.HasGroupContent() {
			cards = append(cards, Card{
				NuggetID:  n.NuggetID,
				Kind:      CardSingle,
				Title:     n.Title,
				Summary:   n.Summary,
				KeyPoints: n.KeyPoints,
				Question:  n.Question,
				Category:  n.Category,
				SourceURL: n.SourceURL,
			})
			continue
		}

		total := len(n.IndividualSummaries)
		cards = append(cards, Card{
			NuggetID:  n.NuggetID,
			Kind:      CardGroupOverview,
			Total:     total,
			Title:     n.Title,
			Summary:   n.Summary,
			KeyPoints: n.KeyPoints,
			Question:  n.Question,
			Category:  n.Category,
			SourceURL: n.SourceURL,
		})
		for i, sub := range n.IndividualSummaries {
			cards = append(cards, Card{
				NuggetID:  n.NuggetID,
				Kind:      CardIndividual,
				Index:     i,
				Total:     total,
				Title:     sub.Title,
				Summary:   sub.Summary,
				KeyPoints: sub.KeyPoints,
				Category:  n.Category,
				SourceURL: sub.SourceURL,
			})
		}
	}
	return cards
}
