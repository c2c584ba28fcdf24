package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func recAt(t time.Time, completed int) SessionRecord {
	return SessionRecord{
		ID:             t.Format(time.RFC3339Nano),
		StartedAt:      t.Add(-time.Minute),
		FinishedAt:     t,
		NuggetCount:    completed,
		CompletedCount: completed,
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	st := ComputeStats(nil, time.Now())
	assert.Zero(t, st.TotalSessions)
	assert.Zero(t, st.CurrentStreak)
}

func TestComputeStatsTotalsAndWeek(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.Local)
	records := []SessionRecord{
		recAt(now.Add(-time.Hour), 3),
		recAt(now.AddDate(0, 0, -2), 2),
		recAt(now.AddDate(0, 0, -30), 5),
	}

	st := ComputeStats(records, now)
	assert.Equal(t, 3, st.TotalSessions)
	assert.Equal(t, 10, st.TotalCompleted)
	assert.Equal(t, 2, st.SessionsThisWeek)
}

func TestComputeStatsCurrentStreak(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.Local)
	records := []SessionRecord{
		recAt(now.Add(-time.Hour), 1),
		recAt(now.AddDate(0, 0, -1), 1),
		recAt(now.AddDate(0, 0, -2), 1),
		// Gap on day -3 breaks the streak.
		recAt(now.AddDate(0, 0, -4), 1),
	}

	st := ComputeStats(records, now)
	assert.Equal(t, 3, st.CurrentStreak)
	assert.Equal(t, 3, st.LongestStreak)
}

func TestComputeStatsStreakSurvivesMissingToday(t *testing.T) {
	// No session yet today: yesterday's streak still counts.
	now := time.Date(2026, 8, 28, 9, 0, 0, 0, time.Local)
	records := []SessionRecord{
		recAt(now.AddDate(0, 0, -1), 1),
		recAt(now.AddDate(0, 0, -2), 1),
	}

	st := ComputeStats(records, now)
	assert.Equal(t, 2, st.CurrentStreak)
}

func TestComputeStatsLongestStreakInThePast(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.Local)
	records := []SessionRecord{
		recAt(now, 1),
		// A four-day run two weeks back.
		recAt(now.AddDate(0, 0, -10), 1),
		recAt(now.AddDate(0, 0, -11), 1),
		recAt(now.AddDate(0, 0, -12), 1),
		recAt(now.AddDate(0, 0, -13), 1),
	}

	st := ComputeStats(records, now)
	assert.Equal(t, 1, st.CurrentStreak)
	assert.Equal(t, 4, st.LongestStreak)
}
