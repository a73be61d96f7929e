package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"
)

// FeedSource reads a forum's RSS feed instead of the JSON API. The feed
// carries no votes, views or offer data, so threads from it score 0.
type FeedSource struct {
	baseURL string
	client  *http.Client
}

// NewFeedSource creates a FeedSource rooted at baseURL.
func NewFeedSource(baseURL string, timeout time.Duration) *FeedSource {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &FeedSource{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the forum root this source reads from.
func (f *FeedSource) BaseURL() string {
	return f.baseURL
}

// Topics returns the feed items of a forum as raw topics. The feed is a
// single page, so pages is ignored.
func (f *FeedSource) Topics(ctx context.Context, forumID, pages int) ([]Topic, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	feedURL := fmt.Sprintf("%s/feed/forum/%d", f.baseURL, forumID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %s", resp.Status)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}

	topics := make([]Topic, 0, len(feed.Items))
	for _, item := range feed.Items {
		topics = append(topics, topicFromFeedItem(item))
	}
	return topics, nil
}

// topicFromFeedItem maps an RSS item onto the fields the API would return.
func topicFromFeedItem(item *gofeed.Item) Topic {
	fields := map[string]any{}
	if item.Title != "" {
		fields["title"] = item.Title
	}
	if item.Published != "" {
		fields["post_time"] = item.Published
	}
	if u, err := url.Parse(item.Link); err == nil && u.Path != "" {
		fields["web_path"] = u.Path
		if id, ok := topicIDFromPath(u.Path); ok {
			fields["topic_id"] = id
		}
	}
	return NewTopic(fields)
}
