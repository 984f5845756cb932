package news

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/deusflow/hotspot/internal/logger"
	"github.com/deusflow/hotspot/internal/metrics"
	"github.com/deusflow/hotspot/internal/rss"
)

// DefaultPerSourceLimit caps how many entries of one feed are processed.
const DefaultPerSourceLimit = 5

// FeedFetcher is satisfied by *rss.Fetcher.
type FeedFetcher interface {
	Fetch(ctx context.Context, source, feedURL string) (*rss.FeedResult, bool)
}

// ArticleExtractor is satisfied by *scraper.Extractor.
type ArticleExtractor interface {
	Extract(ctx context.Context, url string) string
}

// CategoryBlock is the rendered markdown of one category. Markdown is empty when
// none of its sources produced anything.
type CategoryBlock struct {
	Name     string
	Markdown string
}

// DisplayIndex keeps categories in configured order.
type DisplayIndex []CategoryBlock

// Block returns the markdown for a category name.
func (d DisplayIndex) Block(name string) (string, bool) {
	for _, b := range d {
		if b.Name == name {
			return b.Markdown, true
		}
	}
	return "", false
}

type CorpusEntry struct {
	Title   string
	Excerpt string
}

// Corpus is the ordered model input. It has no overall size cap.
type Corpus []CorpusEntry

func (c Corpus) String() string {
	var b strings.Builder
	for _, e := range c {
		fmt.Fprintf(&b, "【%s】\n%s\n\n", e.Title, e.Excerpt)
	}
	return b.String()
}

// Result is what one aggregation run produces.
type Result struct {
	Index  DisplayIndex
	Corpus Corpus
}

type Aggregator struct {
	fetcher        FeedFetcher
	extractor      ArticleExtractor
	perSourceLimit int
	concurrency    int
}

// NewAggregator builds an aggregator. concurrency <= 1 processes sources one at a time.
func NewAggregator(fetcher FeedFetcher, extractor ArticleExtractor, perSourceLimit, concurrency int) *Aggregator {
	if perSourceLimit <= 0 {
		perSourceLimit = DefaultPerSourceLimit
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Aggregator{
		fetcher:        fetcher,
		extractor:      extractor,
		perSourceLimit: perSourceLimit,
		concurrency:    concurrency,
	}
}

type sourceOutput struct {
	lines  []string
	corpus Corpus
}

// Aggregate walks categories and their sources in order. A source whose feed cannot
// be fetched is skipped; it never aborts the run.
func (a *Aggregator) Aggregate(ctx context.Context, categories []rss.Category) Result {
	startTime := time.Now()
	defer func() {
		metrics.Global.RecordProcessingTime(time.Since(startTime))
	}()

	// one slot per source, so output order never depends on completion order
	slots := make([][]sourceOutput, len(categories))
	g := new(errgroup.Group)
	g.SetLimit(a.concurrency)

	for ci, cat := range categories {
		slots[ci] = make([]sourceOutput, len(cat.Sources))
		for si, src := range cat.Sources {
			ci, si, src := ci, si, src
			g.Go(func() error {
				slots[ci][si] = a.processSource(ctx, src)
				return nil
			})
		}
	}
	_ = g.Wait()

	var res Result
	for ci, cat := range categories {
		var block strings.Builder
		for si, src := range cat.Sources {
			out := slots[ci][si]
			res.Corpus = append(res.Corpus, out.corpus...)
			if len(out.lines) > 0 {
				block.WriteString("### " + src.Name + "\n" + strings.Join(out.lines, "\n") + "\n\n")
			}
		}
		res.Index = append(res.Index, CategoryBlock{Name: cat.Name, Markdown: block.String()})
	}

	logger.Info("aggregation finished", "categories", len(categories), "corpus_entries", len(res.Corpus))
	return res
}

func (a *Aggregator) processSource(ctx context.Context, src rss.Source) sourceOutput {
	logger.Info("fetching feed", "category", src.Category, "source", src.Name, "url", src.URL)

	feed, ok := a.fetcher.Fetch(ctx, src.Name, src.URL)
	if !ok {
		logger.Warn("no feed data, source skipped", "source", src.Name)
		return sourceOutput{}
	}

	entries := feed.Entries
	if len(entries) > a.perSourceLimit {
		entries = entries[:a.perSourceLimit]
	}

	var out sourceOutput
	for _, entry := range entries {
		if entry.Link == "" {
			metrics.Global.IncrementEntriesSkipped()
			logger.Warn("entry has no link, skipped", "source", src.Name, "title", entry.Title)
			continue
		}

		excerpt := a.extractor.Extract(ctx, entry.Link)
		out.corpus = append(out.corpus, CorpusEntry{Title: entry.Title, Excerpt: excerpt})
		out.lines = append(out.lines, fmt.Sprintf("- [%s](%s)", entry.Title, entry.Link))
		logger.Debug("entry processed", "source", src.Name, "title", entry.Title)
	}
	return out
}
