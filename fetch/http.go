package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/leadflow/leadflow/retry"
)

const (
	httpTimeout      = 10 * time.Second
	maxRedirects     = 3
	maxResponseBytes = 5 * 1024 * 1024 // 5MB

	userAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	acceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
)

// HTTP fetches pages with a plain HTTP client. It misses client-side
// rendered content but needs no browser; the pipeline uses it when no
// Chromium is available and in tests.
type HTTP struct {
	client *http.Client
	retry  retry.Config
}

// NewHTTP builds an HTTP fetcher with the given retry policy.
func NewHTTP(retryCfg retry.Config) *HTTP {
	client := &http.Client{
		Timeout: httpTimeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}

			return nil
		},
	}

	return &HTTP{client: client, retry: retryCfg}
}

func (h *HTTP) Fetch(ctx context.Context, url string) (string, error) {
	return retry.DoVal(ctx, h.retry, "http fetch", func(ctx context.Context) (string, error) {
		return h.fetchPage(ctx, url)
	})
}

func (h *HTTP) fetchPage(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request for %s: %w", url, err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHeader)

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("reading body of %s: %w", url, err)
	}

	return string(body), nil
}
