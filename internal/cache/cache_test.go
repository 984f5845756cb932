package cache

import (
	"testing"
	"time"
)

func TestSetGet(t *testing.T) {
	c := New(time.Minute)
	defer c.Close()

	c.Set("https://example.com/a", "excerpt")
	got, ok := c.Get("https://example.com/a")
	if !ok || got != "excerpt" {
		t.Fatalf("Get = %q, %v; want excerpt, true", got, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestExpiry(t *testing.T) {
	c := New(10 * time.Millisecond)
	defer c.Close()

	c.Set("k", "v")
	time.Sleep(30 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Error("expected entry to expire")
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0", c.Len())
	}
}

func TestCloseTwice(t *testing.T) {
	c := New(time.Minute)
	c.Close()
	c.Close()
}
