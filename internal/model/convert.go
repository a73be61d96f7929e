package model

import (
	"github.com/abelbrown/rfd/internal/fetch"
	"github.com/abelbrown/rfd/internal/ranking"
)

// NormalizeThread converts one raw topic into a Thread. Missing fields stay
// nil; it never fails.
//
// The URL is always baseURL + web_path. Without a web_path that is just the
// base URL, which is accepted as is.
func NormalizeThread(baseURL string, topic fetch.Topic) Thread {
	t := Thread{
		Score: ranking.Score(topic),
		URL:   baseURL,
	}
	if title, ok := topic.String("title"); ok {
		t.Title = &title
	}
	if path, ok := topic.String("web_path"); ok {
		t.URL = baseURL + path
	}
	if views, ok := topic.Int("total_views"); ok && views >= 0 {
		t.Views = &views
	}
	if id, ok := topic.Int("topic_id"); ok {
		t.TopicID = &id
	}
	if postTime, ok := topic.String("post_time"); ok {
		t.PostTime = &postTime
	}
	t.DealerName = dealerName(topic)
	return t
}

// dealerName reads offer.dealer_name. Any other shape yields nil.
func dealerName(topic fetch.Topic) *string {
	offer, ok := topic.Object("offer")
	if !ok {
		return nil
	}
	name, ok := offer.String("dealer_name")
	if !ok {
		return nil
	}
	return &name
}

// NormalizeThreads converts raw topics in order. A nil or empty input gives
// an empty, non-nil slice.
func NormalizeThreads(baseURL string, topics []fetch.Topic) []Thread {
	threads := make([]Thread, 0, len(topics))
	for _, topic := range topics {
		threads = append(threads, NormalizeThread(baseURL, topic))
	}
	return threads
}
