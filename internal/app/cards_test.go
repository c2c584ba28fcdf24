package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func groupedNugget(id string, subs int) Nugget {
	n := Nugget{
		NuggetID:  id,
		Title:     "digest " + id,
		Summary:   "combined summary",
		IsGrouped: true,
		IsReady:   true,
		SourceURL: "https://example.com/" + id,
	}
	for i := 0; i < subs; i++ {
		n.IndividualSummaries = append(n.IndividualSummaries, IndividualSummary{
			Title:     "article",
			Summary:   "sub summary",
			SourceURL: "https://example.com/sub",
		})
	}
	return n
}

func singleNugget(id string) Nugget {
	return Nugget{
		NuggetID:  id,
		Title:     "article " + id,
		Summary:   "summary",
		IsReady:   true,
		SourceURL: "https://example.com/" + id,
	}
}

func TestDeriveCardsGroupedCardinality(t *testing.T) {
	for _, subs := range []int{1, 2, 5} {
		cards := DeriveCards([]Nugget{groupedNugget("n1", subs)})
		require.Len(t, cards, subs+1, "subs=%d", subs)

		assert.Equal(t, CardGroupOverview, cards[0].Kind)
		for i := 1; i < len(cards); i++ {
			assert.Equal(t, CardIndividual, cards[i].Kind)
			assert.Equal(t, i-1, cards[i].Index)
			assert.Equal(t, subs, cards[i].Total)
			assert.Equal(t, "n1", cards[i].NuggetID)
		}
	}
}

func TestDeriveCardsGroupedFlagWithoutSummariesDegradesToSingle(t *testing.T) {
	n := groupedNugget("n1", 0)
	require.True(t, n.IsGrouped)
	require.Empty(t, n.IndividualSummaries)

	cards := DeriveCards([]Nugget{n})
	require.Len(t, cards, 1)
	assert.Equal(t, CardSingle, cards[0].Kind)
	assert.Equal(t, "n1", cards[0].NuggetID)
}

func TestDeriveCardsSkipsNotReadyNuggets(t *testing.T) {
	pending := singleNugget("n2")
	pending.IsReady = false

	cards := DeriveCards([]Nugget{singleNugget("n1"), pending, singleNugget("n3")})
	require.Len(t, cards, 2)
	assert.Equal(t, "n1", cards[0].NuggetID)
	assert.Equal(t, "n3", cards[1].NuggetID)
}

func TestDeriveCardsOrdering(t *testing.T) {
	// A two-article digest followed by a single nugget must flatten to
	// overview, individual 0, individual 1, single.
	cards := DeriveCards([]Nugget{groupedNugget("n1", 2), singleNugget("n2")})
	require.Len(t, cards, 4)

	assert.Equal(t, CardGroupOverview, cards[0].Kind)
	assert.Equal(t, "n1", cards[0].NuggetID)
	assert.Equal(t, CardIndividual, cards[1].Kind)
	assert.Equal(t, 0, cards[1].Index)
	assert.Equal(t, CardIndividual, cards[2].Kind)
	assert.Equal(t, 1, cards[2].Index)
	assert.Equal(t, CardSingle, cards[3].Kind)
	assert.Equal(t, "n2", cards[3].NuggetID)
}

func TestDeriveCardsIsPure(t *testing.T) {
	nuggets := []Nugget{groupedNugget("n1", 2), singleNugget("n2")}
	first := DeriveCards(nuggets)
	second := DeriveCards(nuggets)
	assert.Equal(t, first, second)
}

func TestDeriveCardsEmptyInput(t *testing.T) {
	assert.Empty(t, DeriveCards(nil))
	assert.Empty(t, DeriveCards([]Nugget{}))
}
