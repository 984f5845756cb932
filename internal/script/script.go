// Package script turns a validated digest into a short-video broadcast script.
//
// Model output is not guaranteed to follow the requested format, so parsing is a
// tolerant per-line classifier: every line is Opening, Bullet, Closing or
// Unclassified, and unclassified lines are dropped rather than reported.
package script

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type LineKind int

const (
	Unclassified LineKind = iota
	Opening
	Bullet
	Closing
)

func (k LineKind) String() string {
	switch k {
	case Opening:
		return "opening"
	case Bullet:
		return "bullet"
	case Closing:
		return "closing"
	default:
		return "unclassified"
	}
}

var (
	openingMarkers = []string{"大家好", "今天的热点"}
	bulletPrefixes = []string{"1.", "2.", "3.", "4.", "5."}
	closingMarker  = "本内容仅为信息整理"
)

const (
	keywordOpen  = "【"
	keywordClose = "】"
)

// Classify inspects one trimmed line. Checks run in a fixed order, so a line that
// both greets and starts with "1." is an opening.
func Classify(line string) LineKind {
	for _, m := range openingMarkers {
		if strings.Contains(line, m) {
			return Opening
		}
	}
	for _, p := range bulletPrefixes {
		if strings.HasPrefix(line, p) {
			return Bullet
		}
	}
	if strings.Contains(line, closingMarker) {
		return Closing
	}
	return Unclassified
}

// Item is one numbered broadcast line. Keyword is empty when the line had none.
type Item struct {
	Text    string
	Keyword string
}

type Script struct {
	Opening string
	Items   []Item
	Closing string
}

// FlashKeyword ties a keyword to its 1-based bullet number.
type FlashKeyword struct {
	Bullet  int
	Keyword string
}

// Build parses a digest. When several lines qualify as opening or closing the last
// one wins; earlier candidates are discarded.
func Build(digest string) Script {
	var s Script
	for _, raw := range strings.Split(digest, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		switch Classify(line) {
		case Opening:
			s.Opening = line
		case Bullet:
			s.Items = append(s.Items, parseItem(line))
		case Closing:
			s.Closing = line
		}
	}
	return s
}

func parseItem(line string) Item {
	text := strings.TrimSpace(line[len("1."):])

	start := strings.Index(text, keywordOpen)
	if start < 0 {
		return Item{Text: text}
	}
	rest := text[start+len(keywordOpen):]
	end := strings.Index(rest, keywordClose)
	if end < 0 {
		return Item{Text: text}
	}

	keyword := rest[:end]
	text = strings.TrimSpace(strings.ReplaceAll(text, keywordOpen+keyword+keywordClose, ""))
	return Item{Text: text, Keyword: strings.TrimSpace(keyword)}
}

// Keywords lists recorded flash keywords by bullet number.
func (s Script) Keywords() []FlashKeyword {
	var out []FlashKeyword
	for i, it := range s.Items {
		if it.Keyword != "" {
			out = append(out, FlashKeyword{Bullet: i + 1, Keyword: it.Keyword})
		}
	}
	return out
}

// OversizeKeywords returns keywords wider than maxWidth terminal cells.
// A CJK character is two cells wide.
func (s Script) OversizeKeywords(maxWidth int) []FlashKeyword {
	var out []FlashKeyword
	for _, k := range s.Keywords() {
		if runewidth.StringWidth(k.Keyword) > maxWidth {
			out = append(out, k)
		}
	}
	return out
}
