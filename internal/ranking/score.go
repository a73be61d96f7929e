// Package ranking turns raw vote signals into a score and a display bucket.
package ranking

import "github.com/abelbrown/rfd/internal/fetch"

// Bucket is the display category of a score.
type Bucket int

const (
	Neutral Bucket = iota
	Positive
	Negative
)

func (b Bucket) String() string {
	switch b {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	default:
		return "neutral"
	}
}

// Score returns total_up - total_down from the record's "votes" object.
// A missing votes object, or a missing or malformed count, contributes 0.
// Never fails.
func Score(record fetch.Topic) int {
	votes, ok := record.Object("votes")
	if !ok {
		return 0
	}
	up, _ := votes.Int("total_up")
	down, _ := votes.Int("total_down")
	return int(up - down)
}

// BucketOf maps a score to its display bucket.
func BucketOf(score int) Bucket {
	switch {
	case score > 0:
		return Positive
	case score < 0:
		return Negative
	default:
		return Neutral
	}
}
