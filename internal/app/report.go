package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/deusflow/hotspot/internal/news"
)

const dateLayout = "2006-01-02"

// Title is the push title for a run date.
func Title(date string) string {
	return fmt.Sprintf("📌 %s 每日热点速览（抖音脚本）", date)
}

// FormatDocument assembles the delivered document. Section order is fixed: date
// header, digest, script, sources. Categories with no links are left out.
func FormatDocument(date, digest, script string, index news.DisplayIndex) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📅 **%s 每日热点速览（抖音适配版）**\n\n", date))
	b.WriteString("📝 核心摘要：\n" + digest + "\n\n")
	b.WriteString("🎬 抖音文字闪烁脚本：\n" + script + "\n\n")

	b.WriteString("---\n📡 新闻来源：\n")
	for _, block := range index {
		if strings.TrimSpace(block.Markdown) == "" {
			continue
		}
		b.WriteString(fmt.Sprintf("## %s\n%s\n\n", block.Name, block.Markdown))
	}

	return b.String()
}

// LoadLocation resolves the configured zone, falling back to UTC+8 when the host has
// no zoneinfo database.
func LoadLocation(name string) *time.Location {
	if loc, err := time.LoadLocation(name); err == nil {
		return loc
	}
	return time.FixedZone("CST", 8*60*60)
}
