// Package fetch retrieves raw topic and post records from the RedFlagDeals
// forum backend.
//
// Records are returned as Topic values; turning them into display models is
// the job of package model.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is the forum root. Thread URLs are built by appending the
// topic's web_path to it.
const DefaultBaseURL = "https://forums.redflagdeals.com"

// perPage is the page size requested from the topics and posts endpoints.
const perPage = 40

const userAgent = "rfd/1.0 (+https://github.com/abelbrown/rfd)"

// Options configures a Client. Zero values select defaults.
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
}

// Client talks to the forum JSON API.
type Client struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Client. A RequestsPerSecond <= 0 disables limiting.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	return &Client{
		baseURL: opts.BaseURL,
		client:  &http.Client{Timeout: opts.Timeout},
		limiter: rate.NewLimiter(limit, 1),
	}
}

// BaseURL returns the forum root this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type topicsPage struct {
	Topics []Topic `json:"topics"`
}

// Topics returns the raw topics of the first `pages` pages of a forum,
// concatenated in page order. Pages are fetched one after another.
func (c *Client) Topics(ctx context.Context, forumID, pages int) ([]Topic, error) {
	if pages < 1 {
		pages = 1
	}

	var topics []Topic
	for page := 1; page <= pages; page++ {
		q := url.Values{}
		q.Set("forum_id", strconv.Itoa(forumID))
		q.Set("per_page", strconv.Itoa(perPage))
		q.Set("page", strconv.Itoa(page))

		var body topicsPage
		if err := c.getJSON(ctx, c.baseURL+"/api/topics?"+q.Encode(), &body); err != nil {
			return nil, fmt.Errorf("forum %d page %d: %w", forumID, page, err)
		}
		if body.Topics == nil {
			return nil, fmt.Errorf("forum %d page %d: %w: missing topics list", forumID, page, ErrUnexpectedResponse)
		}
		topics = append(topics, body.Topics...)
	}
	return topics, nil
}

// getJSON performs a rate-limited GET and decodes the JSON body into v.
// Any decode failure is reported as ErrUnexpectedResponse.
func (c *Client) getJSON(ctx context.Context, rawURL string, v any) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP error: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	return nil
}
