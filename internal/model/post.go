package model

import (
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"

	"github.com/abelbrown/rfd/internal/fetch"
	"github.com/abelbrown/rfd/internal/ranking"
)

// Post is a single reply in a thread.
type Post struct {
	Body     string  `json:"body"`
	PostTime *string `json:"post_time"`
	Score    int     `json:"score"`
	User     *string `json:"user"`
}

// NormalizePosts converts raw post records in order. Bodies arrive as HTML
// and are converted to markdown text. A nil input gives an empty slice.
func NormalizePosts(records []fetch.Topic) []Post {
	converter := md.NewConverter("", true, nil)

	posts := make([]Post, 0, len(records))
	for _, rec := range records {
		p := Post{Score: ranking.Score(rec)}
		if body, ok := rec.String("body"); ok {
			p.Body = bodyText(converter, body)
		}
		if user, ok := rec.String("user"); ok {
			p.User = &user
		}
		if postTime, ok := rec.String("post_time"); ok {
			p.PostTime = &postTime
		}
		posts = append(posts, p)
	}
	return posts
}

func bodyText(converter *md.Converter, html string) string {
	text, err := converter.ConvertString(html)
	if err != nil {
		return strings.TrimSpace(html)
	}
	return strings.TrimSpace(text)
}
