package tui

import (
	"fmt"
	"strings"

	"nugget-cli/internal/app"

	tea "github.com/charmbracelet/bubbletea"
)

type statsModel struct {
	theme  Theme
	stats  app.Stats
	loaded bool
}

func newStatsModel(theme Theme) statsModel {
	return statsModel{theme: theme}
}

func (s statsModel) load(application *app.Application) tea.Cmd {
	return func() tea.Msg {
		stats, err := application.Stats()
		if err != nil {
			return errMsg{err}
		}
		return statsLoadedMsg{stats}
	}
}

func (s statsModel) view(width int) string {
	title := s.theme.PaneTitle.Render("stats")
	if !s.loaded {
		return title + "\n" + s.theme.ListMeta.Render("loading…")
	}

	st := s.stats
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  sessions finished   %d\n", st.TotalSessions))
	b.WriteString(fmt.Sprintf("  nuggets reviewed    %d\n", st.TotalCompleted))
	b.WriteString(fmt.Sprintf("  this week           %d\n", st.SessionsThisWeek))
	b.WriteString(fmt.Sprintf("  current streak      %s\n", streakText(st.CurrentStreak)))
	b.WriteString(fmt.Sprintf("  longest streak      %s\n", streakText(st.LongestStreak)))
	if !st.LastSessionAt.IsZero() {
		b.WriteString(s.theme.ListMeta.Render(fmt.Sprintf("\n  last session %s", st.LastSessionAt.Local().Format("Mon Jan 2 15:04"))))
	}
	return s.theme.Pane.Width(min(width-2, 44)).Render(b.String())
}

func streakText(days int) string {
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}
