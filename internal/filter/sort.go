// Package filter provides pure sort and search functions over threads.
// All functions are simple: []Thread in, []Thread out. No side effects.
package filter

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/abelbrown/rfd/internal/model"
)

// ErrInvalidSortKey is returned for a sort key outside the supported set.
var ErrInvalidSortKey = errors.New("invalid sort key")

// SortKey names the attribute threads are ordered by.
type SortKey string

const (
	SortNone     SortKey = "none"
	SortViews    SortKey = "views"
	SortScore    SortKey = "score"
	SortTitle    SortKey = "title"
	SortTopicID  SortKey = "topic_id"
	SortPostTime SortKey = "post_time"
)

// SortKeys lists the accepted keys, for help text.
var SortKeys = []SortKey{SortNone, SortViews, SortScore, SortTitle, SortTopicID, SortPostTime}

// ParseSortKey validates a user-supplied key. The empty string means none.
func ParseSortKey(s string) (SortKey, error) {
	if s == "" {
		return SortNone, nil
	}
	key := SortKey(s)
	if slices.Contains(SortKeys, key) {
		return key, nil
	}
	return "", fmt.Errorf("%w: %q (want one of %v)", ErrInvalidSortKey, s, SortKeys)
}

// Ascending reports whether key orders oldest first. Chronological keys
// ascend; relevance keys (views, score, title) descend.
func (k SortKey) Ascending() bool {
	return k == SortTopicID || k == SortPostTime
}

// Sort returns threads ordered by key. The sort is stable: threads that
// compare equal keep their input order. SortNone returns the input as is.
//
// Absent values compare below every present value, so they come last in
// descending orders and first in ascending ones.
func Sort(threads []model.Thread, key SortKey) ([]model.Thread, error) {
	if key == SortNone || key == "" {
		return threads, nil
	}

	compare, err := comparator(key)
	if err != nil {
		return nil, err
	}

	sorted := slices.Clone(threads)
	if key.Ascending() {
		slices.SortStableFunc(sorted, compare)
	} else {
		slices.SortStableFunc(sorted, func(a, b model.Thread) int { return compare(b, a) })
	}
	return sorted, nil
}

func comparator(key SortKey) (func(a, b model.Thread) int, error) {
	switch key {
	case SortViews:
		return func(a, b model.Thread) int { return compareOptional(a.Views, b.Views) }, nil
	case SortScore:
		return func(a, b model.Thread) int { return cmp.Compare(a.Score, b.Score) }, nil
	case SortTitle:
		return func(a, b model.Thread) int { return compareOptional(a.Title, b.Title) }, nil
	case SortTopicID:
		return func(a, b model.Thread) int { return compareOptional(a.TopicID, b.TopicID) }, nil
	case SortPostTime:
		return func(a, b model.Thread) int { return compareOptional(a.PostTime, b.PostTime) }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidSortKey, string(key))
	}
}

// compareOptional orders nil before any value.
func compareOptional[T cmp.Ordered](a, b *T) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return cmp.Compare(*a, *b)
	}
}
