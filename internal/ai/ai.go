// Package ai is the language-model boundary: it sends the fixed digest instruction
// plus the analysis corpus and returns the model's free text untouched. Shape
// checking happens later, in compliance and script.
package ai

import (
	"context"
	"errors"
	"strings"
)

var ErrEmptyResponse = errors.New("model returned no text")

// Summarizer condenses an analysis corpus into a digest.
type Summarizer interface {
	Summarize(ctx context.Context, corpus string) (string, error)
}

type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// SystemInstruction asks for a 30–60 second spoken hotspot digest.
const SystemInstruction = `你是专业的新闻速览编辑，需生成适配抖音30-60秒口播的每日热点速览内容，要求：
1. 精选3-5条当日核心热点（优先民生/财经/政策类，避开敏感时政）；
2. 每条热点控制在1-2句话，语言通俗口语化，适配口播节奏；
3. 为每条热点标注【闪烁关键词】（3-5字，用于视频文字闪烁）；
4. 整体结构：开场语+3-5条热点+合规声明；
5. 总字数控制在200字以内，避免专业术语，无绝对化表述；
6. 合规声明必须包含：本内容仅为信息整理，不构成任何建议。
示例格式：
大家好！今天的热点速览来了👇
1. 医保新政落地【门诊报销提至60%】：全国门诊报销比例统一提高至60%，覆盖所有参保人群。
2. 人民币升值破7.0【造纸板块受益】：离岸人民币兑美元升破7.0，造纸行业原材料成本降低。
本内容仅为信息整理，不构成任何建议。`

// Messages is the role → text request sent to every provider.
func Messages(corpus string) map[Role]string {
	return map[Role]string{
		RoleSystem: SystemInstruction,
		RoleUser:   corpus,
	}
}

func cleanReply(s string) (string, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\r", ""))
	if s == "" {
		return "", ErrEmptyResponse
	}
	return s, nil
}
