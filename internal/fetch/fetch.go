// Package fetch retrieves remote page text for the verification collectors,
// with retries, rate limiting, and a response size cap.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/hyperjump/kensho/internal/config"
)

// Fetcher retrieves the textual content of a URL.
type Fetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// HTTPFetcher implements Fetcher over HTTP with retries and a global rate
// limit shared by all collectors.
type HTTPFetcher struct {
	client    *retryablehttp.Client
	limiter   *rate.Limiter
	userAgent string
	maxBody   int64
	logger    *zap.Logger
}

// NewHTTPFetcher builds a fetcher from config.
func NewHTTPFetcher(cfg config.FetchConfig, logger *zap.Logger) *HTTPFetcher {
	client := retryablehttp.NewClient()
	client.Logger = log.New(io.Discard, "", 0)
	client.RetryMax = cfg.RetryMax
	client.HTTPClient.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 2 << 20
	}

	return &HTTPFetcher{
		client:    client,
		limiter:   rate.NewLimiter(rate.Limit(rps), 1),
		userAgent: cfg.UserAgent,
		maxBody:   maxBody,
		logger:    logger,
	}
}

// FetchText fetches url and returns its visible text. HTML responses are
// stripped of markup and scripts; anything else is returned as-is up to the
// size cap.
func (f *HTTPFetcher) FetchText(ctx context.Context, url string) (string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	body := io.LimitReader(resp.Body, f.maxBody)
	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "text/html") {
		return extractText(body)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("failed to read response from %s: %w", url, err)
	}
	return string(data), nil
}

func extractText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}
	doc.Find("script, style, noscript").Remove()
	return strings.Join(strings.Fields(doc.Text()), " "), nil
}
