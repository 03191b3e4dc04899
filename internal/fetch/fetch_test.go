package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hyperjump/kensho/internal/config"
)

func testFetcher() *HTTPFetcher {
	return NewHTTPFetcher(config.FetchConfig{
		UserAgent:         "kensho-test",
		RequestsPerSecond: 100,
		RetryMax:          0,
		TimeoutSeconds:    5,
	}, nil)
}

func TestFetchTextHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "kensho-test" {
			t.Errorf("unexpected user agent %q", ua)
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head><script>var x=1;</script></head>
			<body><h1>Press Release</h1><p>The ministry announced a new scheme.</p></body></html>`))
	}))
	defer srv.Close()

	text, err := testFetcher().FetchText(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "ministry announced a new scheme") {
		t.Errorf("body text missing: %q", text)
	}
	if strings.Contains(text, "var x=1") {
		t.Errorf("script content should be stripped: %q", text)
	}
}

func TestFetchTextJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"claims":[]}`))
	}))
	defer srv.Close()

	text, err := testFetcher().FetchText(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if text != `{"claims":[]}` {
		t.Errorf("json should pass through untouched: %q", text)
	}
}

func TestFetchTextErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	if _, err := testFetcher().FetchText(context.Background(), srv.URL); err == nil {
		t.Error("expected error for non-200 response")
	}
}

func TestFetchTextBodyCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write(make([]byte, 1<<20))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(config.FetchConfig{
		RequestsPerSecond: 100,
		TimeoutSeconds:    5,
		MaxBodyBytes:      1024,
	}, nil)
	text, err := f.FetchText(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if len(text) > 1024 {
		t.Errorf("body should be capped at 1024 bytes, got %d", len(text))
	}
}
