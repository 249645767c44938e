// Package client retrieves a GitStatsData payload from its published location.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"go.uber.org/zap"

	"gitstats/logger"
	"gitstats/models"
)

// Client errors
var (
	ErrEmptyURL         = errors.New("data url is empty")
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrDecode           = errors.New("failed to decode stats payload")
)

const defaultUserAgent = "gitstats/1.0"

// Client fetches the stats document over HTTP, or from disk for file:// URLs
// and bare paths.
type Client struct {
	httpClient *http.Client
	userAgent  string
	log        *zap.Logger
}

// Option customises a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// NewClient returns a Client. A zero timeout leaves the request unbounded
// except by the caller's context.
func NewClient(timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  defaultUserAgent,
		log:        logger.Named("client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log.Debug("Initializing stats client", zap.Duration("timeout", timeout))
	return c
}

// FetchStats retrieves and decodes the payload at dataURL
func (c *Client) FetchStats(ctx context.Context, dataURL string) (*models.GitStatsData, error) {
	if dataURL == "" {
		return nil, ErrEmptyURL
	}

	u, err := url.Parse(dataURL)
	if err != nil {
		return nil, fmt.Errorf("invalid data url %q: %w", dataURL, err)
	}

	switch u.Scheme {
	case "http", "https":
		return c.fetchHTTP(ctx, u)
	case "file":
		return c.readFile(u.Path)
	case "":
		return c.readFile(dataURL)
	default:
		return nil, fmt.Errorf("unsupported data url scheme %q", u.Scheme)
	}
}

func (c *Client) fetchHTTP(ctx context.Context, u *url.URL) (*models.GitStatsData, error) {
	c.log.Info("Fetching stats", zap.String("url", u.String()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("Failed to fetch stats", zap.Error(err), zap.String("url", u.String()))
		return nil, fmt.Errorf("failed to fetch stats: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode > 299 {
		c.log.Warn("Failed to fetch stats",
			zap.Int("status_code", resp.StatusCode),
			zap.String("url", u.String()))
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	data, err := decode(resp.Body)
	if err != nil {
		c.log.Warn("Failed to decode stats response", zap.Error(err), zap.String("url", u.String()))
		return nil, err
	}

	c.log.Info("Successfully fetched stats",
		zap.String("url", u.String()),
		zap.Int("profiles", len(data.Profiles)),
		zap.Bool("is_dummy", data.Metadata.IsDummy))
	return data, nil
}

func (c *Client) readFile(path string) (*models.GitStatsData, error) {
	c.log.Info("Reading stats file", zap.String("path", path))

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stats file: %w", err)
	}
	defer f.Close()

	return decode(f)
}

func decode(r io.Reader) (*models.GitStatsData, error) {
	dec := json.NewDecoder(r)

	var data *models.GitStatsData
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if data == nil {
		return nil, fmt.Errorf("%w: empty document", ErrDecode)
	}

	// Exactly one JSON value per document
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after document", ErrDecode)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after document", ErrDecode)
	}
	return data, nil
}
