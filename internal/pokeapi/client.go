package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/five82/dex/internal/catalog"
)

// Ensure Client implements catalog.Client at compile time.
var _ catalog.Client = (*Client)(nil)

const (
	DefaultBaseURL     = "https://pokeapi.co/api/v2"
	DefaultSearchLimit = 1000
	defaultUserAgent   = "dex/0.1"
	defaultTimeout     = 10 * time.Second
)

// Client talks to the PokeAPI REST endpoints.
type Client struct {
	baseURL     *url.URL
	http        *http.Client
	userAgent   string
	searchLimit int
	log         *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithSearchLimit sets how many index entries a search scans.
func WithSearchLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.searchLimit = n
		}
	}
}

// WithLogger logs every request and its outcome.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.log = logger
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient builds a Client rooted at baseURL; an empty value selects the
// public API.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:     base,
		http:        &http.Client{Timeout: defaultTimeout},
		userAgent:   defaultUserAgent,
		searchLimit: DefaultSearchLimit,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchPage returns the first limit entries of the index.
func (c *Client) FetchPage(ctx context.Context, limit int) ([]catalog.Item, error) {
	return c.fetchIndex(ctx, "fetch list", limit)
}

// FetchDetail returns the full record for id.
func (c *Client) FetchDetail(ctx context.Context, id int) (catalog.Detail, error) {
	op := "fetch detail " + strconv.Itoa(id)
	var payload detailResponse
	if err := c.get(ctx, op, "pokemon/"+strconv.Itoa(id), nil, &payload); err != nil {
		return catalog.Detail{}, err
	}
	return payload.toDetail(), nil
}

// SearchByName scans the first searchLimit index entries and keeps those
// whose name contains query under Unicode case folding.
func (c *Client) SearchByName(ctx context.Context, query string) ([]catalog.Item, error) {
	items, err := c.fetchIndex(ctx, "search", c.searchLimit)
	if err != nil {
		return nil, err
	}
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(query))
	matches := make([]catalog.Item, 0, len(items))
	for _, item := range items {
		if strings.Contains(fold.String(item.Name), needle) {
			matches = append(matches, item)
		}
	}
	return matches, nil
}

func (c *Client) fetchIndex(ctx context.Context, op string, limit int) ([]catalog.Item, error) {
	values := url.Values{}
	values.Set("limit", strconv.Itoa(limit))
	var payload listResponse
	if err := c.get(ctx, op, "pokemon", values, &payload); err != nil {
		return nil, err
	}
	items := make([]catalog.Item, 0, len(payload.Results))
	for _, r := range payload.Results {
		item, err := catalog.NewItem(r.Name, r.URL)
		if err != nil {
			return nil, &catalog.NetworkError{Op: op, Kind: catalog.ErrDecode, Err: err}
		}
		items = append(items, item)
	}
	return items, nil
}

func (c *Client) get(ctx context.Context, op, path string, query url.Values, dest any) error {
	if c == nil {
		return errors.New("client is nil")
	}
	reqURL := c.resolve(path, query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &catalog.NetworkError{Op: op, Kind: catalog.ErrTransport, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	c.log.Debug("request", zap.String("method", req.Method), zap.String("url", reqURL))
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("url", reqURL), zap.Error(err))
		return &catalog.NetworkError{Op: op, Kind: catalog.ErrTransport, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug("response",
		zap.String("url", reqURL),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &catalog.NetworkError{Op: op, Kind: catalog.ErrNotFound}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &catalog.NetworkError{Op: op, Kind: catalog.ErrTransport, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		c.log.Warn("decode failed", zap.String("url", reqURL), zap.Error(err))
		return &catalog.NetworkError{Op: op, Kind: catalog.ErrDecode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// resolve joins path onto the base URL, keeping any base path such as /api/v2.
func (c *Client) resolve(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + strings.TrimPrefix(path, "/")
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_base_url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_base_url %q: missing host", raw)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
