package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func chatServer(t *testing.T, reply string, got *chatRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if got != nil {
			json.NewDecoder(r.Body).Decode(got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIClient_Summarize(t *testing.T) {
	var req chatRequest
	srv := chatServer(t, `{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"  大家好！\r\n1. 新闻【词】：内容。\n本内容仅为信息整理，不构成任何建议。  "},"finish_reason":"stop"}]}`, &req)

	c := NewOpenAIClient("test-key", srv.URL+"/v1", "", 5*time.Second)
	got, err := c.Summarize(context.Background(), "【标题】\n正文\n\n")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	if got != "大家好！\n1. 新闻【词】：内容。\n本内容仅为信息整理，不构成任何建议。" {
		t.Errorf("unexpected digest: %q", got)
	}
	if req.Model != DefaultOpenAIModel {
		t.Errorf("model = %q, want %q", req.Model, DefaultOpenAIModel)
	}
	if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
		t.Fatalf("unexpected messages: %+v", req.Messages)
	}
	if req.Messages[0].Content != SystemInstruction {
		t.Error("system message is not the digest instruction")
	}
	if req.Messages[1].Content != "【标题】\n正文\n\n" {
		t.Errorf("user message = %q", req.Messages[1].Content)
	}
}

func TestOpenAIClient_EmptyChoices(t *testing.T) {
	srv := chatServer(t, `{"id":"1","object":"chat.completion","choices":[]}`, nil)
	c := NewOpenAIClient("k", srv.URL+"/v1", "deepseek-chat", 5*time.Second)
	if _, err := c.Summarize(context.Background(), "x"); !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("err = %v, want ErrEmptyResponse", err)
	}
}

func TestOpenAIClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key","type":"auth"}}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("k", srv.URL+"/v1", "", 5*time.Second)
	_, err := c.Summarize(context.Background(), "x")
	if err == nil || !strings.Contains(err.Error(), "chat completion failed") {
		t.Errorf("err = %v, want wrapped API error", err)
	}
}

func TestMessages(t *testing.T) {
	m := Messages("corpus")
	if m[RoleSystem] != SystemInstruction || m[RoleUser] != "corpus" || len(m) != 2 {
		t.Errorf("unexpected messages: %v", m)
	}
	if !strings.Contains(SystemInstruction, "本内容仅为信息整理，不构成任何建议") {
		t.Error("instruction must demand the disclaimer")
	}
}

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("大家好！\n"), genai.Text("1. 新闻")}},
		}},
	}
	got, err := responseText(resp)
	if err != nil || got != "大家好！\n1. 新闻" {
		t.Errorf("responseText = %q, %v", got, err)
	}

	for _, empty := range []*genai.GenerateContentResponse{
		nil,
		{},
		{Candidates: []*genai.Candidate{{}}},
		{Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []genai.Part{genai.Text("  ")}}}}},
	} {
		if _, err := responseText(empty); !errors.Is(err, ErrEmptyResponse) {
			t.Errorf("expected ErrEmptyResponse for %+v, got %v", empty, err)
		}
	}
}
