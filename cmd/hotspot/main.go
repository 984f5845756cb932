package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/deusflow/hotspot/internal/ai"
	"github.com/deusflow/hotspot/internal/app"
	"github.com/deusflow/hotspot/internal/cache"
	"github.com/deusflow/hotspot/internal/config"
	"github.com/deusflow/hotspot/internal/logger"
	"github.com/deusflow/hotspot/internal/metrics"
	"github.com/deusflow/hotspot/internal/news"
	"github.com/deusflow/hotspot/internal/notify"
	"github.com/deusflow/hotspot/internal/rss"
	"github.com/deusflow/hotspot/internal/scraper"
	"github.com/deusflow/hotspot/internal/script"
)

func main() {
	cfg, err := config.Load()
	logger.Init(cfg != nil && cfg.Debug)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Check if we should start HTTP server for monitoring
	if cfg.EnableHTTPMonitoring {
		go startMonitoringServer(cfg.MonitoringPort)
	}

	ctx := context.Background()

	categories, err := rss.LoadSourcesOrDefault(cfg.FeedsConfigPath)
	if err != nil {
		logger.Error("failed to load feed sources", "path", cfg.FeedsConfigPath, "error", err)
		os.Exit(1)
	}

	layout := script.DefaultLayout()
	if cfg.ScriptLayoutPath != "" {
		if layout, err = script.LoadLayout(cfg.ScriptLayoutPath); err != nil {
			logger.Warn("script layout not loaded, using defaults", "path", cfg.ScriptLayoutPath, "error", err)
		}
	}

	summarizer, closeSummarizer, err := newSummarizer(ctx, cfg)
	if err != nil {
		logger.Error("failed to create summarizer", "provider", cfg.ModelProvider, "error", err)
		os.Exit(1)
	}
	defer closeSummarizer()

	memo := cache.New(time.Hour)
	defer memo.Close()

	pipeline := &app.Pipeline{
		Categories: categories,
		Aggregator: news.NewAggregator(
			rss.NewFetcher(cfg.RetryAttempts, cfg.RetryDelay, cfg.FeedTimeout),
			scraper.NewExtractor(cfg.ArticleTimeout, cfg.ExcerptMaxChars, memo),
			cfg.PerSourceLimit,
			cfg.AggregateConcurrency,
		),
		Summarizer: summarizer,
		Layout:     layout,
		Channels:   channels(cfg),
		Location:   app.LoadLocation(cfg.Timezone),
		DryRun:     cfg.DryRun,
	}

	if _, err := pipeline.Run(ctx); err != nil {
		if errors.Is(err, app.ErrNonCompliant) {
			logger.Warn("run ended without delivery", "error", err)
			return
		}
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func newSummarizer(ctx context.Context, cfg *config.Config) (ai.Summarizer, func(), error) {
	if cfg.ModelProvider == config.ProviderGemini {
		client, err := ai.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, nil, err
		}
		return client, client.Close, nil
	}
	// Model calls can run long; the transport timeout is generous.
	return ai.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, 2*time.Minute), func() {}, nil
}

func channels(cfg *config.Config) []app.Channel {
	chs := []app.Channel{{
		Name:       "serverchan",
		Notifier:   notify.NewServerChan(cfg.ServerChanURL, cfg.PushTimeout),
		Recipients: cfg.ServerChanKeys,
	}}
	if cfg.TelegramEnabled() {
		chs = append(chs, app.Channel{
			Name:       "telegram",
			Notifier:   notify.NewTelegram(cfg.TelegramToken, cfg.PushTimeout),
			Recipients: cfg.TelegramChatIDs,
		})
	}
	if cfg.EmailEnabled() {
		chs = append(chs, app.Channel{
			Name: "email",
			Notifier: notify.NewEmail(notify.EmailConfig{
				SMTPServer: cfg.SMTPServer,
				SMTPPort:   cfg.SMTPPort,
				SMTPUser:   cfg.SMTPUser,
				SMTPPass:   cfg.SMTPPass,
				FromEmail:  cfg.EmailFrom,
			}, cfg.PushTimeout),
			Recipients: cfg.EmailTo,
		})
	}
	return chs
}

func startMonitoringServer(port string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/metrics", metricsHandler)

	logger.Info("starting monitoring server", "port", port)
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		logger.Error("monitoring server error", "error", err)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	status := "ok"
	healthy, _ := stats["is_healthy"].(bool)

	response := map[string]interface{}{
		"status":     status,
		"last_run":   stats["last_run_time"],
		"last_error": stats["last_error"],
	}

	w.Header().Set("Content-Type", "application/json")
	if !healthy {
		response["status"] = "error"
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(response)
}

func metricsHandler(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
