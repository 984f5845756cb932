package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/deusflow/hotspot/internal/cache"
	"github.com/deusflow/hotspot/internal/logger"
	"github.com/deusflow/hotspot/internal/metrics"
	"github.com/deusflow/hotspot/internal/rss"
)

// Placeholder replaces the excerpt whenever a page cannot be turned into text.
const Placeholder = "（未能获取文章正文）"

// DefaultMaxChars bounds every excerpt, counted in characters.
const DefaultMaxChars = 800

// Extractor turns an article URL into a bounded plain-text excerpt.
type Extractor struct {
	client   *http.Client
	maxChars int
	memo     *cache.Cache
}

// NewExtractor builds an extractor. memo may be nil.
func NewExtractor(timeout time.Duration, maxChars int, memo *cache.Cache) *Extractor {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return &Extractor{
		client:   &http.Client{Timeout: timeout},
		maxChars: maxChars,
		memo:     memo,
	}
}

// Extract never fails: any error yields Placeholder.
func (e *Extractor) Extract(ctx context.Context, url string) string {
	if e.memo != nil {
		if text, ok := e.memo.Get(url); ok {
			metrics.Global.IncrementExcerptCacheHits()
			return text
		}
	}

	text, err := e.fetchText(ctx, url)
	if err != nil {
		metrics.Global.IncrementExtractionFailures()
		logger.Warn("article extraction failed", "url", url, "error", err)
		text = Placeholder
	} else {
		metrics.Global.IncrementArticlesExtracted()
		logger.Debug("article extracted", "url", url, "chars", utf8.RuneCountInString(text))
	}

	if e.memo != nil {
		e.memo.Set(url, text)
	}
	return text
}

func (e *Extractor) fetchText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", rss.BrowserUserAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error loading page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error parsing HTML: %w", err)
	}

	content := cleanContent(extractContent(doc))
	if content == "" {
		return "", fmt.Errorf("empty article body")
	}
	return Truncate(content, e.maxChars), nil
}

// extractContent tries the common article containers of Chinese news portals first,
// then generic ones, then the whole body.
func extractContent(doc *goquery.Document) string {
	doc.Find("script, style, noscript, iframe, nav, footer, header").Remove()

	selectors := []string{
		"#content_area p", // cctv
		".rm_txt_con p",   // people.com.cn
		"#detail p",       // xinhuanet
		".left_zw p",      // chinanews
		".article-content p",
		"article p",
		".article p",
		".content p",
		"#content p",
		".post-content p",
		".entry-content p",
		"main p",
		"p",
	}

	var paragraphs []string
	for _, selector := range selectors {
		doc.Find(selector).Each(func(i int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if utf8.RuneCountInString(text) > 5 {
				paragraphs = append(paragraphs, text)
			}
		})
		if len(paragraphs) >= 2 {
			break
		}
	}

	if len(paragraphs) == 0 {
		return doc.Find("body").Text()
	}
	return strings.Join(paragraphs, "\n")
}

var junkIndicators = []string{
	"责任编辑", "版权所有", "扫一扫", "分享到", "打印本页", "关闭窗口",
	"点击进入", "copyright", "cookie",
}

// cleanContent collapses whitespace per line and drops boilerplate lines.
func cleanContent(content string) string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		junk := false
		for _, indicator := range junkIndicators {
			if strings.Contains(lower, indicator) {
				junk = true
				break
			}
		}
		if !junk {
			lines = append(lines, line)
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Truncate cuts s to at most max characters without splitting a rune.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
