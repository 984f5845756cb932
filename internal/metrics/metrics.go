package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	FeedAttempts       int64
	FeedsFetched       int64
	FeedsFailed        int64
	EntriesSkipped     int64
	ArticlesExtracted  int64
	ExtractionFailures int64
	ExcerptCacheHits   int64
	DigestsRejected    int64
	PushesSent         int64
	PushesFailed       int64

	// Timings
	LastProcessingTime    time.Duration
	AverageProcessingTime time.Duration
	TotalProcessingTime   time.Duration
	ProcessingCount       int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) IncrementFeedAttempts() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedAttempts++
}

func (m *Metrics) IncrementFeedsFetched() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedsFetched++
}

func (m *Metrics) IncrementFeedsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedsFailed++
}

func (m *Metrics) IncrementEntriesSkipped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EntriesSkipped++
}

func (m *Metrics) IncrementArticlesExtracted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesExtracted++
}

func (m *Metrics) IncrementExtractionFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ExtractionFailures++
}

func (m *Metrics) IncrementExcerptCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ExcerptCacheHits++
}

func (m *Metrics) IncrementDigestsRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DigestsRejected++
}

// RecordPush counts one per-recipient delivery outcome.
func (m *Metrics) RecordPush(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if success {
		m.PushesSent++
	} else {
		m.PushesFailed++
	}
}

func (m *Metrics) RecordProcessingTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastProcessingTime = duration
	m.TotalProcessingTime += duration
	m.ProcessingCount++

	if m.ProcessingCount > 0 {
		m.AverageProcessingTime = m.TotalProcessingTime / time.Duration(m.ProcessingCount)
	}
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"feed_attempts":              m.FeedAttempts,
		"feeds_fetched":              m.FeedsFetched,
		"feeds_failed":               m.FeedsFailed,
		"entries_skipped":            m.EntriesSkipped,
		"articles_extracted":         m.ArticlesExtracted,
		"extraction_failures":        m.ExtractionFailures,
		"excerpt_cache_hits":         m.ExcerptCacheHits,
		"digests_rejected":           m.DigestsRejected,
		"pushes_sent":                m.PushesSent,
		"pushes_failed":              m.PushesFailed,
		"last_processing_time_ms":    m.LastProcessingTime.Milliseconds(),
		"average_processing_time_ms": m.AverageProcessingTime.Milliseconds(),
		"last_run_time":              m.LastRunTime.Format(time.RFC3339),
		"last_error_time":            m.LastErrorTime.Format(time.RFC3339),
		"last_error":                 m.LastError,
		"is_healthy":                 m.IsHealthy,
	}
}
