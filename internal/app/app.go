package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/deusflow/hotspot/internal/ai"
	"github.com/deusflow/hotspot/internal/compliance"
	"github.com/deusflow/hotspot/internal/logger"
	"github.com/deusflow/hotspot/internal/metrics"
	"github.com/deusflow/hotspot/internal/news"
	"github.com/deusflow/hotspot/internal/notify"
	"github.com/deusflow/hotspot/internal/rss"
	"github.com/deusflow/hotspot/internal/script"
)

// ErrNonCompliant is returned when the digest is rejected. Nothing is pushed.
var ErrNonCompliant = errors.New("digest failed compliance check")

// maxKeywordWidth is five CJK characters.
const maxKeywordWidth = 10

type Aggregator interface {
	Aggregate(ctx context.Context, categories []rss.Category) news.Result
}

// Channel pairs a notifier with its recipients.
type Channel struct {
	Name       string
	Notifier   notify.Notifier
	Recipients []string
}

// Pipeline runs one aggregation, digest and delivery cycle.
type Pipeline struct {
	Categories []rss.Category
	Aggregator Aggregator
	Summarizer ai.Summarizer
	Layout     script.Layout
	Channels   []Channel
	Location   *time.Location
	DryRun     bool

	// Out receives the console echo of digest, script and (in dry run) the document.
	Out io.Writer
	Now func() time.Time
}

// Report describes what a run produced.
type Report struct {
	RunID    string
	Date     string
	Title    string
	Digest   string
	Verdict  compliance.Verdict
	Script   string
	Document string
	Outcomes []notify.Outcome
}

// Run executes the pipeline once. A compliance rejection returns ErrNonCompliant
// together with the partial report.
func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	rep := Report{RunID: uuid.NewString()}
	log := logger.With("run_id", rep.RunID)
	startTime := time.Now()
	metrics.Global.SetLastRun()

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	loc := p.Location
	if loc == nil {
		loc = LoadLocation("Asia/Shanghai")
	}
	out := p.Out
	if out == nil {
		out = os.Stdout
	}

	rep.Date = now().In(loc).Format(dateLayout)
	rep.Title = Title(rep.Date)
	log.Info("run started", "date", rep.Date, "categories", len(p.Categories))

	result := p.Aggregator.Aggregate(ctx, p.Categories)
	log.Info("corpus assembled", "entries", len(result.Corpus))

	digest, err := p.Summarizer.Summarize(ctx, result.Corpus.String())
	if err != nil {
		metrics.Global.SetError(err.Error())
		return rep, fmt.Errorf("summarize: %w", err)
	}
	rep.Digest = digest
	fmt.Fprintf(out, "\n📝 生成每日热点速览摘要：\n%s\n", digest)

	rep.Verdict = compliance.Validate(digest)
	if !rep.Verdict.Passed {
		metrics.Global.IncrementDigestsRejected()
		log.Warn("digest rejected", "reason", rep.Verdict.Reason)
		fmt.Fprintf(out, "❌ 内容不合规：%s\n", rep.Verdict.Reason)
		return rep, fmt.Errorf("%w: %s", ErrNonCompliant, rep.Verdict.Reason)
	}
	fmt.Fprintln(out, "✅ 内容合规校验通过")

	built := script.Build(digest)
	for _, k := range built.OversizeKeywords(maxKeywordWidth) {
		log.Warn("flash keyword too long", "bullet", k.Bullet, "keyword", k.Keyword)
	}
	if len(built.Items) == 0 {
		log.Warn("digest has no numbered items")
	}
	rep.Script = script.Render(built, p.Layout)
	fmt.Fprintf(out, "\n🎬 生成抖音视频脚本：\n%s\n", rep.Script)

	rep.Document = FormatDocument(rep.Date, digest, rep.Script, result.Index)

	if p.DryRun {
		log.Info("dry run, skipping push")
		fmt.Fprintf(out, "\n%s\n\n%s", rep.Title, rep.Document)
		metrics.Global.RecordProcessingTime(time.Since(startTime))
		return rep, nil
	}

	for _, ch := range p.Channels {
		if len(ch.Recipients) == 0 {
			continue
		}
		outcomes := ch.Notifier.Deliver(ctx, rep.Title, rep.Document, ch.Recipients)
		log.Info("channel finished", "channel", ch.Name,
			"sent", notify.Succeeded(outcomes), "total", len(outcomes))
		rep.Outcomes = append(rep.Outcomes, outcomes...)
	}

	metrics.Global.RecordProcessingTime(time.Since(startTime))
	log.Info("run finished", "delivered", notify.Succeeded(rep.Outcomes), "attempted", len(rep.Outcomes),
		"duration", time.Since(startTime))
	return rep, nil
}
