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

// feedsModel manages the user's RSS subscriptions. Adding a feed first
// fetches the feed itself so the backend registration carries a title.
type feedsModel struct {
	theme    Theme
	feeds    []app.Feed
	selected int
	loaded   bool
}

func newFeedsModel(theme Theme) feedsModel {
	return feedsModel{theme: theme}
}

func (f feedsModel) load(application *app.Application) tea.Cmd {
	client := application.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		feeds, err := client.ListFeeds(ctx)
		if err != nil {
			return errMsg{err}
		}
		return feedsLoadedMsg{feeds}
	}
}

// add previews the feed URL and then registers it. Preview failure is
// not fatal: the subscription still goes through with the bare URL.
func (f feedsModel) add(application *app.Application, feedURL string) tea.Cmd {
	client := application.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		preview := app.PreviewFeed(ctx, feedURL)
		feed, err := client.AddFeed(ctx, feedURL, preview.Title)
		if err != nil {
			return errMsg{err}
		}
		return feedAddedMsg{feed}
	}
}

func (f feedsModel) update(msg tea.Msg, application *app.Application) (feedsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case feedsLoadedMsg:
		f.feeds = msg.feeds
		f.loaded = true
		if f.selected >= len(f.feeds) {
			f.selected = max(0, len(f.feeds)-1)
		}
	case feedAddedMsg, feedRemovedMsg:
		return f, f.load(application)
	}
	return f, nil
}

func (f feedsModel) handleKey(msg tea.KeyMsg, keys keyMap, application *app.Application) (feedsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if f.selected > 0 {
			f.selected--
		}
	case key.Matches(msg, keys.Down):
		if f.selected < len(f.feeds)-1 {
			f.selected++
		}
	case key.Matches(msg, keys.Remove):
		if f.selected < len(f.feeds) {
			id := f.feeds[f.selected].FeedID
			client := application.Client
			return f, func() tea.Msg {
				ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
				defer cancel()
				if err := client.RemoveFeed(ctx, id); err != nil {
					return errMsg{err}
				}
				return feedRemovedMsg{id}
			}
		}
	}
	return f, nil
}

func (f feedsModel) view(width, height int) string {
	title := f.theme.PaneTitle.Render("feeds")
	if !f.loaded {
		return title + "\n" + f.theme.ListMeta.Render("loading…")
	}
	if len(f.feeds) == 0 {
		return title + "\n" + f.theme.ListMeta.Render("no feeds yet — press a to add one")
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	for i, feed := range f.feeds {
		name := feed.Title
		if name == "" {
			name = feed.URL
		}
		marker := "  "
		style := f.theme.ListItem
		if i == f.selected {
			marker = "▸ "
			style = f.theme.ListItemSel
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", marker, style.Render(truncate(name, width-30)), f.theme.ListMeta.Render(feed.URL)))
	}
	return b.String()
}
