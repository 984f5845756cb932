package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/deusflow/hotspot/internal/cache"
)

func page(body string) string {
	return "<html><head><title>t</title><script>var x = 1;</script></head><body>" + body + "</body></html>"
}

func serve(t *testing.T, status int, html string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		w.Write([]byte(html))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestExtract_ArticleParagraphs(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, page(`
<nav><p>首页 导航 栏目 列表 更多</p></nav>
<article>
  <p>国务院常务会议今天召开，部署进一步优化营商环境。</p>
  <p>会议指出，要加快推进政务服务标准化。</p>
  <p>责任编辑：张三</p>
</article>`))

	e := NewExtractor(5*time.Second, DefaultMaxChars, nil)
	got := e.Extract(context.Background(), srv.URL)

	if !strings.Contains(got, "国务院常务会议今天召开") || !strings.Contains(got, "政务服务标准化") {
		t.Errorf("missing article text: %q", got)
	}
	if strings.Contains(got, "责任编辑") {
		t.Errorf("boilerplate line kept: %q", got)
	}
	if strings.Contains(got, "导航") {
		t.Errorf("navigation text kept: %q", got)
	}
}

func TestExtract_TruncatesTo800Chars(t *testing.T) {
	long := strings.Repeat("新闻正文内容测试。", 300)
	srv, _ := serve(t, http.StatusOK, page("<article><p>"+long+"</p><p>"+long+"</p></article>"))

	e := NewExtractor(5*time.Second, DefaultMaxChars, nil)
	got := e.Extract(context.Background(), srv.URL)

	if n := utf8.RuneCountInString(got); n != 800 {
		t.Errorf("excerpt length = %d chars, want 800", n)
	}
	if !utf8.ValidString(got) {
		t.Error("excerpt is not valid UTF-8")
	}
}

func TestExtract_FailuresYieldPlaceholder(t *testing.T) {
	notFound, _ := serve(t, http.StatusNotFound, page("<p>不存在的页面内容</p>"))
	empty, _ := serve(t, http.StatusOK, page(""))

	e := NewExtractor(2*time.Second, DefaultMaxChars, nil)
	for name, url := range map[string]string{
		"404":         notFound.URL,
		"empty body":  empty.URL,
		"bad url":     "://not-a-url",
		"unreachable": "http://127.0.0.1:1/article",
	} {
		if got := e.Extract(context.Background(), url); got != Placeholder {
			t.Errorf("%s: got %q, want placeholder", name, got)
		}
	}
}

func TestExtract_MemoizesPerURL(t *testing.T) {
	srv, hits := serve(t, http.StatusOK, page("<article><p>同一篇文章只下载一次的测试内容。</p></article>"))

	memo := cache.New(time.Minute)
	defer memo.Close()
	e := NewExtractor(5*time.Second, DefaultMaxChars, memo)

	first := e.Extract(context.Background(), srv.URL)
	second := e.Extract(context.Background(), srv.URL)

	if first != second {
		t.Errorf("memoized excerpt differs: %q vs %q", first, second)
	}
	if n := atomic.LoadInt32(hits); n != 1 {
		t.Errorf("page downloaded %d times, want 1", n)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"abc", 5, "abc"},
		{"abcdef", 3, "abc"},
		{"中文内容", 2, "中文"},
		{"x", 0, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
