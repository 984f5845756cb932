// Package compliance checks generated digests against the content policy before
// anything is rendered or pushed.
package compliance

import (
	"fmt"
	"strings"
)

// Disclaimer must appear verbatim in every digest.
const Disclaimer = "本内容仅为信息整理，不构成任何建议"

// Denylist holds financial-advice and sensational-claim terms. Matching is literal.
var Denylist = []string{
	"个股涨停", "龙头个股", "推荐", "买入", "卖出", "必涨", "必跌",
	"精准预测", "稳赚", "抄底", "逃顶", "敏感时政关键词", "煽动性表述",
	"绝对化表述", "虚假承诺",
}

const passedReason = "内容合规"

// Verdict is final for a run; a failed digest is never retried.
type Verdict struct {
	Passed bool
	Reason string
}

// Validate reports the first failing rule: denylist terms, then the disclaimer.
func Validate(text string) Verdict {
	var found []string
	for _, term := range Denylist {
		if strings.Contains(text, term) {
			found = append(found, term)
		}
	}
	if len(found) > 0 {
		return Verdict{Reason: fmt.Sprintf("存在违规关键词：%s，请删除或修改。", strings.Join(found, ","))}
	}

	if !strings.Contains(text, Disclaimer) {
		return Verdict{Reason: fmt.Sprintf("缺少合规声明，需添加'%s'。", Disclaimer)}
	}

	return Verdict{Passed: true, Reason: passedReason}
}
