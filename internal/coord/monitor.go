// Package coord drives the watch loop: poll the forum, classify threads
// against a high-water-mark cursor, emit them, and notify about new ones.
package coord

import (
	"context"
	"fmt"
	"time"

	"github.com/abelbrown/rfd/internal/fetch"
	"github.com/abelbrown/rfd/internal/filter"
	"github.com/abelbrown/rfd/internal/logging"
	"github.com/abelbrown/rfd/internal/model"
	"github.com/abelbrown/rfd/internal/notify"
	"github.com/abelbrown/rfd/internal/ranking"
)

// DefaultInterval is the time between poll cycles.
const DefaultInterval = 10 * time.Second

// source interface for dependency injection (testing).
type source interface {
	Topics(ctx context.Context, forumID, pages int) ([]fetch.Topic, error)
	BaseURL() string
}

// State is the monitor cursor: the newest topic id seen by any completed
// cycle. The zero value is Cold.
type State struct {
	NewestTopicID int64
}

// Warm reports whether a cycle has observed at least one topic id. Until
// then nothing is reported as new.
func (s State) Warm() bool {
	return s.NewestTopicID > 0
}

// Entry is one polled thread and its classification.
type Entry struct {
	Thread model.Thread
	New    bool
}

// Classify marks each thread new or old against before and returns the
// advanced state. A thread is new only when before is Warm and its id is
// strictly greater than before's cursor. The cursor never decreases.
//
// Topic ids are assumed to grow with creation time; a reused or reordered
// id is misclassified, not detected.
func Classify(threads []model.Thread, before State) ([]Entry, State) {
	entries := make([]Entry, 0, len(threads))
	next := before
	for _, t := range threads {
		id := t.ID()
		entries = append(entries, Entry{
			Thread: t,
			New:    before.Warm() && id > before.NewestTopicID,
		})
		if id > next.NewestTopicID {
			next.NewestTopicID = id
		}
	}
	return entries, next
}

// Result is the outcome of one cycle. On failure Next equals the state the
// cycle started from and Entries is nil.
type Result struct {
	Entries []Entry
	Next    State
	Err     error
}

// NewCount returns how many entries were classified new.
func (r Result) NewCount() int {
	n := 0
	for _, e := range r.Entries {
		if e.New {
			n++
		}
	}
	return n
}

// Options configures a Monitor.
type Options struct {
	ForumID  int
	Pages    int
	SortKey  filter.SortKey
	Interval time.Duration // DefaultInterval when zero

	// Notifier is optional; nil disables notifications.
	Notifier notify.Notifier

	// Emit receives the entries to display for each successful cycle, in
	// display order. before is the state the cycle started from.
	Emit func(before State, entries []Entry)

	// NewOnly hides old threads once the monitor is warm. The first cycle
	// is always emitted in full.
	NewOnly bool
}

// Monitor polls one forum and reports threads that appear between polls.
// It is single-threaded: Run executes cycles back to back with a sleep in
// between.
type Monitor struct {
	src  source
	opts Options
}

// NewMonitor creates a Monitor reading from src.
func NewMonitor(src source, opts Options) *Monitor {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Pages < 1 {
		opts.Pages = 1
	}
	if opts.SortKey == "" {
		opts.SortKey = filter.SortNone
	}
	return &Monitor{src: src, opts: opts}
}

// Cycle runs one poll: fetch, normalize, sort, classify, emit, notify.
// Notification failures are logged and do not fail the cycle.
func (m *Monitor) Cycle(ctx context.Context, before State) Result {
	// No cycle-wide deadline: a poll spans Pages sequential requests, each
	// bounded by the source's own HTTP timeout.
	topics, err := m.src.Topics(ctx, m.opts.ForumID, m.opts.Pages)
	if err != nil {
		return Result{Next: before, Err: fmt.Errorf("poll forum %d: %w", m.opts.ForumID, err)}
	}

	threads := model.NormalizeThreads(m.src.BaseURL(), topics)
	threads, err = filter.Sort(threads, m.opts.SortKey)
	if err != nil {
		return Result{Next: before, Err: err}
	}

	entries, next := Classify(threads, before)

	if m.opts.Emit != nil {
		m.opts.Emit(before, m.visible(before, entries))
	}

	for _, e := range entries {
		if !e.New {
			continue
		}
		logging.Debug("new thread",
			"topic_id", e.Thread.ID(),
			"votes", ranking.BucketOf(e.Thread.Score),
			"title", e.Thread.TitleText())
		notify.BestEffort(ctx, m.opts.Notifier, notify.Message{
			Title: fmt.Sprintf("RFD forum %d", m.opts.ForumID),
			Text:  e.Thread.NotifyText(),
			URL:   e.Thread.URL,
		}, notify.DefaultTimeout)
	}

	return Result{Entries: entries, Next: next}
}

func (m *Monitor) visible(before State, entries []Entry) []Entry {
	if !m.opts.NewOnly || !before.Warm() {
		return entries
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.New {
			out = append(out, e)
		}
	}
	return out
}

// Run executes cycles until ctx is cancelled, sleeping Interval between
// them. A failed cycle is logged and the loop carries on with the state it
// had. Run returns the last state once ctx is done.
func (m *Monitor) Run(ctx context.Context) State {
	log := logging.WithPrefix("watch")

	var state State
	for cycle := 1; ; cycle++ {
		res := m.Cycle(ctx, state)
		switch {
		case res.Err != nil && ctx.Err() != nil:
			return state
		case res.Err != nil:
			log.Error("cycle failed", "cycle", cycle, "err", res.Err)
		default:
			log.Debug("cycle done",
				"cycle", cycle,
				"threads", len(res.Entries),
				"new", res.NewCount(),
				"cursor", res.Next.NewestTopicID)
			state = res.Next
		}

		timer := time.NewTimer(m.opts.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return state
		case <-timer.C:
		}
	}
}
