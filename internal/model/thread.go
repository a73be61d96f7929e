// Package model holds the display-ready Thread and Post types and the
// functions that build them from raw backend records.
package model

// Thread is one forum topic. Optional attributes are nil when the backend
// omitted them. Threads are built once per poll and never modified.
//
// Fields are declared in alphabetical order of their JSON names so the
// structured output has sorted keys.
type Thread struct {
	DealerName *string `json:"dealer_name"`
	PostTime   *string `json:"post_time"`
	Score      int     `json:"score"`
	Title      *string `json:"title"`
	TopicID    *int64  `json:"topic_id"`
	URL        string  `json:"url"`
	Views      *int64  `json:"views"`
}

// TitleText returns the title, or "" when absent.
func (t Thread) TitleText() string {
	if t.Title == nil {
		return ""
	}
	return *t.Title
}

// Dealer returns the dealer name and whether one is attached. An empty
// name counts as no dealer.
func (t Thread) Dealer() (string, bool) {
	if t.DealerName == nil || *t.DealerName == "" {
		return "", false
	}
	return *t.DealerName, true
}

// ID returns the topic id, or 0 when absent. 0 is never newer than any
// cursor, so threads without an id are never reported as new.
func (t Thread) ID() int64 {
	if t.TopicID == nil {
		return 0
	}
	return *t.TopicID
}

// NotifyText is the push message for a thread: "[dealer] title", with the
// bracket omitted when there is no dealer.
func (t Thread) NotifyText() string {
	if dealer, ok := t.Dealer(); ok {
		return "[" + dealer + "] " + t.TitleText()
	}
	return t.TitleText()
}
