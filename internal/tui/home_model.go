package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"nugget-cli/internal/app"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// homeModel is the saved-nugget list: the screen the app opens on and
// returns to after a session.
type homeModel struct {
	theme    Theme
	nuggets  []app.Nugget
	selected int
}

func newHomeModel(theme Theme) homeModel {
	return homeModel{theme: theme}
}

func (h *homeModel) setNuggets(nuggets []app.Nugget) {
	h.nuggets = nuggets
	if h.selected >= len(nuggets) {
		h.selected = max(0, len(nuggets)-1)
	}
}

// unreadCount feeds the badge in the top bar. A nugget counts as unread
// while it is ready but not yet reviewed; without read-state from the
// backend the ready count is the best local approximation.
func (h *homeModel) unreadCount() int {
	n := 0
	for _, ng := range h.nuggets {
		if ng.IsReady {
			n++
		}
	}
	return n
}

func (h homeModel) handleKey(msg tea.KeyMsg, keys keyMap, application *app.Application) (homeModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if h.selected > 0 {
			h.selected--
		}
	case key.Matches(msg, keys.Down):
		if h.selected < len(h.nuggets)-1 {
			h.selected++
		}
	case key.Matches(msg, keys.Select):
		if h.selected < len(h.nuggets) {
			n := h.nuggets[h.selected]
			engine := application.StartSingleSession(n)
			return h, func() tea.Msg { return sessionStartedMsg{engine} }
		}
	case key.Matches(msg, keys.Delete):
		if h.selected < len(h.nuggets) {
			id := h.nuggets[h.selected].NuggetID
			client := application.Client
			return h, func() tea.Msg {
				ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
				defer cancel()
				if err := client.DeleteNugget(ctx, id); err != nil {
					return errMsg{err}
				}
				return refreshMsg{}
			}
		}
	}
	return h, nil
}

func (h homeModel) view(width, height int) string {
	if len(h.nuggets) == 0 {
		return h.theme.ListMeta.Render("nothing saved yet — press n to save a link, r to start a session")
	}

	var b strings.Builder
	visible := max(1, height-2)
	start := 0
	if h.selected >= visible {
		start = h.selected - visible + 1
	}
	for i := start; i < len(h.nuggets) && i < start+visible; i++ {
		n := h.nuggets[i]
		line := n.Title
		if line == "" {
			line = n.SourceURL
		}
		marker := "  "
		style := h.theme.ListItem
		if i == h.selected {
			marker = "▸ "
			style = h.theme.ListItemSel
		}
		meta := ""
		switch {
		case n.IsProcessing():
			meta = "  summarizing…"
		case n.HasGroupContent():
			meta = fmt.Sprintf("  digest · %d articles", len(n.IndividualSummaries))
		case n.Category != "":
			meta = "  " + n.Category
		}
		b.WriteString(marker + style.Render(truncate(line, width-20)) + h.theme.ListMeta.Render(meta))
		b.WriteString("\n")
	}
	return b.String()
}

func truncate(s string, w int) string {
	if w < 4 || len(s) <= w {
		return s
	}
	return s[:w-1] + "…"
}
