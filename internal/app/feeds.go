package app

import (
	"context"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"
)

// FeedPreview is what we learn about a feed URL before registering it
// with the backend.
type FeedPreview struct {
	URL         string
	Title       string
	Description string
	ItemCount   int
	Err         error
}

// PreviewFeed fetches and parses a candidate feed URL so the add-feed
// screen can show its title before committing. A parse failure is not
// fatal: the feed can still be registered with the raw URL and no
// title.
func PreviewFeed(ctx context.Context, feedURL string) FeedPreview {
	p := FeedPreview{URL: feedURL}

	parser := gofeed.NewParser()
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	feed, err := parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		p.Err = err
		return p
	}
	p.Title = strings.TrimSpace(feed.Title)
	p.Description = strings.TrimSpace(feed.Description)
	p.ItemCount = len(feed.Items)
	return p
}

// PreviewFeeds resolves several candidate URLs concurrently, preserving
// input order. Individual failures land in the corresponding preview's
// Err; the only error returned is context cancellation.
func PreviewFeeds(ctx context.Context, urls []string) ([]FeedPreview, error) {
	previews := make([]FeedPreview, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, u := range urls {
		g.Go(func() error {
			previews[i] = PreviewFeed(ctx, u)
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return previews, nil
}
