package rss

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/deusflow/hotspot/internal/logger"
	"github.com/deusflow/hotspot/internal/metrics"
	"github.com/deusflow/hotspot/internal/retry"
	"github.com/mmcdole/gofeed"
)

// BrowserUserAgent is sent with every feed request; some endpoints reject default agents.
const BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

var errEmptyFeed = errors.New("feed has no entries")

// Entry is a feed item reduced to what the pipeline uses. Link may be empty.
type Entry struct {
	Title string
	Link  string
}

// FeedResult is a successfully parsed, non-empty feed.
type FeedResult struct {
	Source  string
	Entries []Entry
}

// Fetcher downloads and parses feeds with a fixed-delay bounded retry.
type Fetcher struct {
	parser   *gofeed.Parser
	attempts int
	delay    time.Duration
}

func NewFetcher(attempts int, delay, timeout time.Duration) *Fetcher {
	parser := gofeed.NewParser()
	parser.UserAgent = BrowserUserAgent
	parser.Client = &http.Client{Timeout: timeout}

	return &Fetcher{
		parser:   parser,
		attempts: attempts,
		delay:    delay,
	}
}

// Fetch returns the feed at feedURL, or false once every attempt has failed.
// An attempt fails on transport error, parse error, or a feed with zero entries.
func (f *Fetcher) Fetch(ctx context.Context, source, feedURL string) (*FeedResult, bool) {
	var feed *gofeed.Feed

	err := retry.WithRetry(ctx, retry.RetryConfig{MaxAttempts: f.attempts, Delay: f.delay}, func(attempt int) error {
		metrics.Global.IncrementFeedAttempts()

		parsed, err := f.parser.ParseURLWithContext(feedURL, ctx)
		if err == nil && len(parsed.Items) == 0 {
			err = errEmptyFeed
		}
		if err != nil {
			logger.Warn("feed attempt failed", "source", source, "url", feedURL, "attempt", attempt, "of", f.attempts, "error", err)
			return err
		}
		feed = parsed
		return nil
	})
	if err != nil {
		metrics.Global.IncrementFeedsFailed()
		logger.Error("skipping feed", "source", source, "url", feedURL, "error", err)
		return nil, false
	}

	metrics.Global.IncrementFeedsFetched()
	result := &FeedResult{Source: source, Entries: make([]Entry, 0, len(feed.Items))}
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = "无标题"
		}
		result.Entries = append(result.Entries, Entry{Title: title, Link: pickLink(item)})
	}
	logger.Info("feed fetched", "source", source, "entries", len(result.Entries))
	return result, true
}

// pickLink prefers link, then the first of links, then a GUID that is itself a URL.
func pickLink(item *gofeed.Item) string {
	if l := strings.TrimSpace(item.Link); l != "" {
		return l
	}
	for _, l := range item.Links {
		if l = strings.TrimSpace(l); l != "" {
			return l
		}
	}
	if isHTTPURL(item.GUID) {
		return strings.TrimSpace(item.GUID)
	}
	return ""
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
