/*
Package notify delivers the finished document to push channels. Every recipient is
attempted exactly once and independently; a failure is reported in its Outcome and
never stops the remaining recipients.
*/
package notify

import (
	"context"

	"github.com/deusflow/hotspot/internal/logger"
	"github.com/deusflow/hotspot/internal/metrics"
)

// Outcome is the result of one delivery attempt to one recipient.
type Outcome struct {
	Key     string
	Success bool
	Detail  string
}

// Notifier pushes a title and body to each recipient.
type Notifier interface {
	Deliver(ctx context.Context, title, body string, recipients []string) []Outcome
}

// record logs and counts an outcome. Keys are masked in logs.
func record(channel string, o Outcome) Outcome {
	metrics.Global.RecordPush(o.Success)
	if o.Success {
		logger.Info("push delivered", "channel", channel, "recipient", logger.Mask(o.Key))
	} else {
		logger.Error("push failed", "channel", channel, "recipient", logger.Mask(o.Key), "detail", o.Detail)
	}
	return o
}

// Succeeded counts successful outcomes.
func Succeeded(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Success {
			n++
		}
	}
	return n
}
