package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/Assey1152/orders/internal/domain/catalog"
	"github.com/Assey1152/orders/internal/infrastructure/config"
)

const (
	defaultMaxBodySize = 10 << 20
	acceptHeader       = "application/x-yaml, text/yaml, text/plain"
)

// Fetcher downloads vendor price feeds over HTTP
type Fetcher struct {
	client      *http.Client
	maxBodySize int64
}

// NewFetcher creates a fetcher with timeouts and size limits from config
func NewFetcher(cfg *config.FeedConfig) *Fetcher {
	maxBody := cfg.MaxBodySize
	if maxBody <= 0 {
		maxBody = defaultMaxBodySize
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.FetchTimeout,
		},
		maxBodySize: maxBody,
	}
}

// Fetch downloads and parses the feed at the given URL
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Document, error) {
	if err := catalog.ValidateURL(rawURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}
	req.Header.Set("Accept", acceptHeader)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed responded with status %d", resp.StatusCode)
	}

	// Read one byte past the limit to detect oversized bodies
	raw, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read feed body: %w", err)
	}
	if int64(len(raw)) > f.maxBodySize {
		return nil, ErrFeedTooLarge
	}

	return ParseBytes(raw)
}
