package app

import "time"

// Stats is the aggregate the dashboard renders, computed from local
// session history.
type Stats struct {
	TotalSessions    int
	TotalCompleted   int
	CurrentStreak    int
	LongestStreak    int
	LastSessionAt    time.Time
	SessionsThisWeek int
}

// ComputeStats folds session records into dashboard numbers. A streak
// is consecutive calendar days (in local time) with at least one
// finished session; the current streak counts only if the last session
// was today or yesterday.
func ComputeStats(records []SessionRecord, now time.Time) Stats {
	st := Stats{}
	if len(records) == 0 {
		return st
	}

	days := map[string]bool{}
	weekAgo := now.AddDate(0, 0, -7)
	for _, rec := range records {
		st.TotalSessions++
		st.TotalCompleted += rec.CompletedCount
		if rec.FinishedAt.After(st.LastSessionAt) {
			st.LastSessionAt = rec.FinishedAt
		}
		if rec.FinishedAt.After(weekAgo) {
			st.SessionsThisWeek++
		}
		days[dayKey(rec.FinishedAt.Local())] = true
	}

	// Longest streak: walk backward from the most recent active day.
	longest, run := 0, 0
	day := st.LastSessionAt.Local()
	// Bound the walk by the number of active days; gaps reset the run.
	for remaining := len(days); remaining > 0; day = day.AddDate(0, 0, -1) {
		if days[dayKey(day)] {
			run++
			remaining--
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	st.LongestStreak = longest

	// Current streak: anchored at today (or yesterday, to not punish a
	// session not yet done today).
	anchor := now.Local()
	if !days[dayKey(anchor)] {
		anchor = anchor.AddDate(0, 0, -1)
	}
	for days[dayKey(anchor)] {
		st.CurrentStreak++
		anchor = anchor.AddDate(0, 0, -1)
	}
	return st
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
