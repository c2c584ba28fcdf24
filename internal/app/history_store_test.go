package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryStoreRoundTrip(t *testing.T) {
	st, err := NewHistoryStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	now := time.Now().UTC().Truncate(time.Second)
	rec := SessionRecord{
		ID:             "l1",
		SessionID:      "s1",
		StartedAt:      now.Add(-2 * time.Minute),
		FinishedAt:     now,
		NuggetCount:    4,
		CompletedCount: 3,
		CompletedIDs:   []string{"n1", "n2", "n3"},
	}
	require.NoError(t, st.Record(rec))

	got, err := st.List()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, rec, got[0])
}

func TestHistoryStoreListOrdersByFinishTime(t *testing.T) {
	st, err := NewHistoryStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	base := time.Now().UTC().Truncate(time.Second)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, st.Record(SessionRecord{
			ID:         id,
			StartedAt:  base.Add(time.Duration(i) * time.Hour),
			FinishedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	got, err := st.List()
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "a", got[2].ID)
}

func TestHistoryStoreRecordIsIdempotentPerID(t *testing.T) {
	st, err := NewHistoryStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	rec := SessionRecord{ID: "l1", FinishedAt: time.Now().UTC(), CompletedCount: 1}
	require.NoError(t, st.Record(rec))
	rec.CompletedCount = 2
	require.NoError(t, st.Record(rec))

	got, err := st.List()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].CompletedCount)
}
