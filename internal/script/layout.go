package script

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Layout is the static text around a rendered script.
type Layout struct {
	Header       string   `yaml:"header"`
	OpeningLabel string   `yaml:"opening_label"`
	BodyLabel    string   `yaml:"body_label"`
	ClosingLabel string   `yaml:"closing_label"`
	FlashHeader  string   `yaml:"flash_header"`
	FlashLine    string   `yaml:"flash_line"` // fmt verbs: bullet number, keyword
	NotesHeader  string   `yaml:"notes_header"`
	Notes        []string `yaml:"notes"`
}

var ErrBadFlashLine = errors.New("flash_line must contain %d and %s")

func DefaultLayout() Layout {
	return Layout{
		Header:       "【每日热点速览-抖音口播脚本（30-60秒）】",
		OpeningLabel: "▶️ 口播开场：",
		BodyLabel:    "▶️ 口播内容：",
		ClosingLabel: "▶️ 口播结尾：",
		FlashHeader:  "🎯 文字闪烁标注（适配视频制作）：",
		FlashLine:    "  第%d条热点闪烁词：%s（闪烁频率0.5秒/次，高对比度显示）",
		NotesHeader:  "📌 视频制作注意：",
		Notes: []string{
			"背景：简约纯色背景（黑/白），避免干扰；",
			"字体：白色字体+黑色描边，字号24-30号；",
			"节奏：口播说完1条热点，对应关键词闪烁2次；",
			"时长：整体控制在30-60秒，语速180-200字/分钟。",
		},
	}
}

// LoadLayout overlays a YAML file on DefaultLayout. Keys absent from the file keep
// their defaults.
func LoadLayout(path string) (Layout, error) {
	l := DefaultLayout()

	data, err := os.ReadFile(path)
	if err != nil {
		return l, err
	}
	if err := yaml.Unmarshal(data, &l); err != nil {
		return l, fmt.Errorf("decode layout %s: %w", path, err)
	}
	if !strings.Contains(l.FlashLine, "%d") || !strings.Contains(l.FlashLine, "%s") {
		return DefaultLayout(), ErrBadFlashLine
	}
	return l, nil
}

// Render produces the fixed multi-part script document.
func Render(s Script, l Layout) string {
	var b strings.Builder

	b.WriteString(l.Header + "\n")
	b.WriteString(l.OpeningLabel + s.Opening + "\n")
	b.WriteString(l.BodyLabel + "\n")
	for i, it := range s.Items {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, it.Text)
	}
	b.WriteString(l.ClosingLabel + s.Closing + "\n")

	b.WriteString("\n" + l.FlashHeader + "\n")
	for _, k := range s.Keywords() {
		b.WriteString(fmt.Sprintf(l.FlashLine, k.Bullet, k.Keyword) + "\n")
	}

	b.WriteString("\n" + l.NotesHeader + "\n")
	for i, note := range l.Notes {
		fmt.Fprintf(&b, "%d. %s\n", i+1, note)
	}

	return b.String()
}
