// Package starfeed implements a read-only client for the external starship
// reference feed. The feed serves paged listings per entity kind; the client
// materializes full record lists so callers never see pagination.
package starfeed

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hangarbay/hangar-server/internal/ratelimit"
)

const (
	// Rate limit: be a polite consumer of a shared public feed.
	defaultRPS   = 4.0
	defaultBurst = 8

	defaultTimeout = 30 * time.Second

	// maxPages guards against a feed whose "next" links loop.
	maxPages = 200
)

// Sentinel errors returned by the client.
var (
	ErrNotFound    = errors.New("starfeed: not found")
	ErrRateLimited = errors.New("starfeed: rate limited")
	ErrServer      = errors.New("starfeed: server error")
)

// Client is a rate-limited reference feed client.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger
}

// New creates a new feed client for the given base URL (e.g. "https://example.test/api").
func New(baseURL string, logger *slog.Logger) *Client {
	return NewWithLimits(baseURL, defaultRPS, defaultBurst, logger)
}

// NewWithLimits creates a feed client with explicit rate limits.
func NewWithLimits(baseURL string, rps float64, burst int, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter: ratelimit.New(rps, burst),
		logger:  logger,
	}
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

// FetchPlanets returns every planet record in the feed.
func (c *Client) FetchPlanets(ctx context.Context) ([]Planet, error) {
	return fetchAll[Planet](ctx, c, "planets")
}

// FetchSpecies returns every species record in the feed.
func (c *Client) FetchSpecies(ctx context.Context) ([]Species, error) {
	return fetchAll[Species](ctx, c, "species")
}

// FetchPeople returns every person record in the feed.
func (c *Client) FetchPeople(ctx context.Context) ([]Person, error) {
	return fetchAll[Person](ctx, c, "people")
}

// FetchFilms returns every film record in the feed.
func (c *Client) FetchFilms(ctx context.Context) ([]Film, error) {
	return fetchAll[Film](ctx, c, "films")
}

// FetchStarships returns every starship record in the feed.
func (c *Client) FetchStarships(ctx context.Context) ([]Starship, error) {
	return fetchAll[Starship](ctx, c, "starships")
}

// FetchVehicles returns every vehicle record in the feed.
func (c *Client) FetchVehicles(ctx context.Context) ([]Vehicle, error) {
	return fetchAll[Vehicle](ctx, c, "vehicles")
}

// fetchAll walks every page of one kind's listing and concatenates the
// results. The feed's "next" link is authoritative for whether more pages
// exist; the page counter only guards against loops.
func fetchAll[T any](ctx context.Context, c *Client, resource string) ([]T, error) {
	var records []T

	for pageNum := 1; pageNum <= maxPages; pageNum++ {
		body, err := c.doRequest(ctx, resource, pageNum)
		if err != nil {
			return nil, fmt.Errorf("fetch %s page %d: %w", resource, pageNum, err)
		}

		var p page[T]
		if err := json.Unmarshal(body, &p); err != nil {
			return nil, fmt.Errorf("decode %s page %d: %w", resource, pageNum, err)
		}

		records = append(records, p.Results...)

		if p.Next == nil || *p.Next == "" {
			return records, nil
		}
	}

	return nil, fmt.Errorf("fetch %s: pagination did not terminate after %d pages", resource, maxPages)
}

// doRequest executes one page fetch with rate limiting.
func (c *Client) doRequest(ctx context.Context, resource string, pageNum int) ([]byte, error) {
	if err := c.limiter.Wait(ctx, "feed"); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	query := url.Values{}
	if pageNum > 1 {
		query.Set("page", strconv.Itoa(pageNum))
	}

	reqURL := c.baseURL + "/" + resource + "/"
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "HangarBay/1.0")

	c.logger.Debug("feed request",
		"resource", resource,
		"page", pageNum,
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		if resp.StatusCode >= 500 {
			return nil, ErrServer
		}
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
}
