package script

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const sampleDigest = `大家好！今天的热点速览来了👇
1. 医保新政落地【门诊报销提至60%】：全国门诊报销比例统一提高至60%，覆盖所有参保人群。
2. 人民币升值破7.0【造纸板块受益】：离岸人民币兑美元升破7.0，造纸行业原材料成本降低。
3. 多地发布降温预警，注意添衣保暖。
本内容仅为信息整理，不构成任何建议。`

func TestClassify(t *testing.T) {
	tests := []struct {
		line string
		want LineKind
	}{
		{"大家好！今天的热点速览来了👇", Opening},
		{"今天的热点有这些", Opening},
		{"1. 新闻", Bullet},
		{"5.新闻", Bullet},
		{"6. 第六条", Unclassified},
		{"本内容仅为信息整理，不构成任何建议。", Closing},
		{"以上就是今天的内容", Unclassified},
		{"1. 大家好", Opening},
		{"- 1. 带前缀", Unclassified},
	}
	for _, tt := range tests {
		if got := Classify(tt.line); got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestBuild_SingleBulletScenario(t *testing.T) {
	s := Build("1. 测试新闻【关键词】：内容。\n本内容仅为信息整理，不构成任何建议。")

	if len(s.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(s.Items))
	}
	if s.Items[0].Text != "测试新闻：内容。" {
		t.Errorf("Text = %q, want %q", s.Items[0].Text, "测试新闻：内容。")
	}
	want := []FlashKeyword{{Bullet: 1, Keyword: "关键词"}}
	if got := s.Keywords(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keywords = %+v, want %+v", got, want)
	}
	if s.Closing != "本内容仅为信息整理，不构成任何建议。" {
		t.Errorf("Closing = %q", s.Closing)
	}
	if s.Opening != "" {
		t.Errorf("Opening = %q, want empty", s.Opening)
	}
}

func TestBuild_KeywordsAlignedByBullet(t *testing.T) {
	s := Build("1. 没有关键词的新闻\n2. 第二条【闪烁】内容\n3. 第三条【】空关键词")

	want := []FlashKeyword{{Bullet: 2, Keyword: "闪烁"}}
	if got := s.Keywords(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keywords = %+v, want %+v", got, want)
	}
	if s.Items[0].Text != "没有关键词的新闻" || s.Items[0].Keyword != "" {
		t.Errorf("item 1 = %+v", s.Items[0])
	}
	if s.Items[2].Text != "第三条空关键词" {
		t.Errorf("empty keyword markup not stripped: %q", s.Items[2].Text)
	}
	if len(s.Keywords()) > len(s.Items) {
		t.Error("more keywords than bullets")
	}
}

func TestBuild_UnbalancedBracketsPassThrough(t *testing.T) {
	s := Build("1. 只有左括号【没有闭合\n2. 反向】括号【")
	if s.Items[0].Text != "只有左括号【没有闭合" || s.Items[0].Keyword != "" {
		t.Errorf("item 1 = %+v", s.Items[0])
	}
	if s.Items[1].Keyword != "" {
		t.Errorf("item 2 keyword = %q, want none", s.Items[1].Keyword)
	}
}

func TestBuild_LastOpeningAndClosingWin(t *testing.T) {
	s := Build("大家好，第一版开场\n大家好，第二版开场\n1. 新闻\n本内容仅为信息整理（旧）\n本内容仅为信息整理，不构成任何建议。")
	if s.Opening != "大家好，第二版开场" {
		t.Errorf("Opening = %q", s.Opening)
	}
	if s.Closing != "本内容仅为信息整理，不构成任何建议。" {
		t.Errorf("Closing = %q", s.Closing)
	}
}

func TestBuild_DropsVerboseLines(t *testing.T) {
	s := Build("好的，以下是摘要：\n\n   \n1. 新闻一\n补充说明一句\n2. 新闻二")
	if len(s.Items) != 2 {
		t.Errorf("items = %d, want 2", len(s.Items))
	}
}

func TestBuild_Idempotent(t *testing.T) {
	a, b := Build(sampleDigest), Build(sampleDigest)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Build not idempotent: %+v vs %+v", a, b)
	}
}

func TestRender(t *testing.T) {
	got := Render(Build(sampleDigest), DefaultLayout())

	want := `【每日热点速览-抖音口播脚本（30-60秒）】
▶️ 口播开场：大家好！今天的热点速览来了👇
▶️ 口播内容：
  1. 医保新政落地：全国门诊报销比例统一提高至60%，覆盖所有参保人群。
  2. 人民币升值破7.0：离岸人民币兑美元升破7.0，造纸行业原材料成本降低。
  3. 多地发布降温预警，注意添衣保暖。
▶️ 口播结尾：本内容仅为信息整理，不构成任何建议。

🎯 文字闪烁标注（适配视频制作）：
  第1条热点闪烁词：门诊报销提至60%（闪烁频率0.5秒/次，高对比度显示）
  第2条热点闪烁词：造纸板块受益（闪烁频率0.5秒/次，高对比度显示）

📌 视频制作注意：
1. 背景：简约纯色背景（黑/白），避免干扰；
2. 字体：白色字体+黑色描边，字号24-30号；
3. 节奏：口播说完1条热点，对应关键词闪烁2次；
4. 时长：整体控制在30-60秒，语速180-200字/分钟。
`
	if got != want {
		t.Errorf("Render mismatch:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestOversizeKeywords(t *testing.T) {
	s := Build("1. a【医保】x\n2. b【门诊报销比例大幅提高】y\n3. c【AI】z")
	got := s.OversizeKeywords(10)
	want := []FlashKeyword{{Bullet: 2, Keyword: "门诊报销比例大幅提高"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("OversizeKeywords = %+v, want %+v", got, want)
	}
}

func TestLoadLayout(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "layout.yaml")
	os.WriteFile(path, []byte("header: \"[SCRIPT]\"\nnotes:\n  - 只有一条备注\n"), 0o644)

	l, err := LoadLayout(path)
	if err != nil {
		t.Fatalf("LoadLayout: %v", err)
	}
	if l.Header != "[SCRIPT]" {
		t.Errorf("Header = %q", l.Header)
	}
	if len(l.Notes) != 1 {
		t.Errorf("Notes = %v", l.Notes)
	}
	if l.OpeningLabel != DefaultLayout().OpeningLabel {
		t.Errorf("unset key lost its default: %q", l.OpeningLabel)
	}
	if !strings.HasPrefix(Render(Script{}, l), "[SCRIPT]\n") {
		t.Error("custom header not rendered")
	}

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("flash_line: \"no verbs\"\n"), 0o644)
	if _, err := LoadLayout(bad); err != ErrBadFlashLine {
		t.Errorf("err = %v, want ErrBadFlashLine", err)
	}

	if _, err := LoadLayout(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
