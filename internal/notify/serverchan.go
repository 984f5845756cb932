package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/deusflow/hotspot/internal/logger"
)

// DefaultServerChanURL is templated with the recipient's SendKey.
const DefaultServerChanURL = "https://sctapi.ftqq.com/%s.send"

// ServerChan pushes to WeChat through Server酱. Recipients are SendKeys.
type ServerChan struct {
	client      *http.Client
	urlTemplate string
}

func NewServerChan(urlTemplate string, timeout time.Duration) *ServerChan {
	if urlTemplate == "" {
		urlTemplate = DefaultServerChanURL
	}
	return &ServerChan{
		client:      &http.Client{Timeout: timeout},
		urlTemplate: urlTemplate,
	}
}

func (s *ServerChan) Deliver(ctx context.Context, title, body string, recipients []string) []Outcome {
	outcomes := make([]Outcome, 0, len(recipients))
	for _, key := range recipients {
		o := Outcome{Key: key}
		if err := s.sendOnce(ctx, key, title, body); err != nil {
			o.Detail = err.Error()
		} else {
			o.Success = true
			o.Detail = "ok"
		}
		outcomes = append(outcomes, record("serverchan", o))
	}
	return outcomes
}

// sendOnce does one POST of the form fields title and desp.
func (s *ServerChan) sendOnce(ctx context.Context, key, title, body string) error {
	endpoint := fmt.Sprintf(s.urlTemplate, url.PathEscape(key))
	form := url.Values{}
	form.Set("title", title)
	form.Set("desp", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("error build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("error HTTP request: %w", err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logger.Warn("failed to close response body", "error", err)
		}
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("server酱 API error: status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	return nil
}
