package coord

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/abelbrown/rfd/internal/fetch"
	"github.com/abelbrown/rfd/internal/filter"
	"github.com/abelbrown/rfd/internal/logging"
	"github.com/abelbrown/rfd/internal/model"
	"github.com/abelbrown/rfd/internal/notify"
)

const testBase = "https://forums.redflagdeals.com"

// poll is one scripted response from mockSource.
type poll struct {
	ids []int64
	err error
}

// mockSource implements the source interface for testing. It replays polls
// in order and calls onDrained once the script runs out.
type mockSource struct {
	mu          sync.Mutex
	polls       []poll
	calls       int
	onDrained   func()
	sawDeadline bool
}

func (m *mockSource) Topics(ctx context.Context, forumID, pages int) ([]fetch.Topic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := ctx.Deadline(); ok {
		m.sawDeadline = true
	}
	if m.calls >= len(m.polls) {
		if m.onDrained != nil {
			m.onDrained()
		}
		return nil, context.Canceled
	}
	p := m.polls[m.calls]
	m.calls++
	if p.err != nil {
		return nil, p.err
	}

	topics := make([]fetch.Topic, 0, len(p.ids))
	for _, id := range p.ids {
		topics = append(topics, fetch.NewTopic(map[string]any{
			"topic_id": id,
			"title":    "thread",
			"web_path": "/t-" + strconv.FormatInt(id, 10),
		}))
	}
	return topics, nil
}

func (m *mockSource) BaseURL() string { return testBase }

// mockNotifier records messages; it fails or panics when asked to.
type mockNotifier struct {
	mu    sync.Mutex
	msgs  []notify.Message
	err   error
	panic bool
}

func (n *mockNotifier) Notify(ctx context.Context, msg notify.Message) error {
	n.mu.Lock()
	n.msgs = append(n.msgs, msg)
	n.mu.Unlock()
	if n.panic {
		panic("notifier exploded")
	}
	return n.err
}

func (n *mockNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.msgs)
}

func threadsWithIDs(ids ...int64) []model.Thread {
	out := make([]model.Thread, len(ids))
	for i, id := range ids {
		id := id
		out[i] = model.Thread{TopicID: &id}
	}
	return out
}

func newIDs(entries []Entry) []int64 {
	var ids []int64
	for _, e := range entries {
		if e.New {
			ids = append(ids, e.Thread.ID())
		}
	}
	return ids
}

func TestClassifyColdNeverNew(t *testing.T) {
	entries, next := Classify(threadsWithIDs(7, 300, 42), State{})

	if len(entries) != 3 {
		t.Fatalf("expected all 3 threads emitted, got %d", len(entries))
	}
	if ids := newIDs(entries); len(ids) != 0 {
		t.Errorf("cold cycle marked %v as new", ids)
	}
	if next.NewestTopicID != 300 {
		t.Errorf("cursor = %d, want 300", next.NewestTopicID)
	}
	if !next.Warm() {
		t.Error("state should be warm after seeing ids")
	}
}

func TestClassifyWarm(t *testing.T) {
	entries, next := Classify(threadsWithIDs(98, 101, 105), State{NewestTopicID: 100})

	if got := newIDs(entries); !slices.Equal(got, []int64{101, 105}) {
		t.Errorf("new = %v, want [101 105]", got)
	}
	if next.NewestTopicID != 105 {
		t.Errorf("cursor = %d, want 105", next.NewestTopicID)
	}
}

func TestClassifyEqualIDIsOld(t *testing.T) {
	entries, _ := Classify(threadsWithIDs(100), State{NewestTopicID: 100})
	if entries[0].New {
		t.Error("thread with id equal to cursor should be old")
	}
}

func TestClassifyCursorNeverDecreases(t *testing.T) {
	_, next := Classify(threadsWithIDs(50), State{NewestTopicID: 105})
	if next.NewestTopicID != 105 {
		t.Errorf("cursor = %d, want 105", next.NewestTopicID)
	}

	_, next = Classify(nil, State{NewestTopicID: 105})
	if next.NewestTopicID != 105 {
		t.Errorf("empty poll moved cursor to %d", next.NewestTopicID)
	}
}

func TestClassifyComparesAgainstCycleStart(t *testing.T) {
	// 103 arrives after 110 in the same poll; both beat the starting cursor.
	entries, _ := Classify(threadsWithIDs(110, 103), State{NewestTopicID: 100})
	if got := newIDs(entries); !slices.Equal(got, []int64{110, 103}) {
		t.Errorf("new = %v, want [110 103]", got)
	}
}

func TestClassifyMissingIDIsOld(t *testing.T) {
	entries, next := Classify([]model.Thread{{}}, State{NewestTopicID: 10})
	if entries[0].New {
		t.Error("thread without id should never be new")
	}
	if next.NewestTopicID != 10 {
		t.Errorf("cursor = %d, want 10", next.NewestTopicID)
	}
}

func TestCycleColdSendsNoNotifications(t *testing.T) {
	src := &mockSource{polls: []poll{{ids: []int64{5, 9, 2}}}}
	n := &mockNotifier{}
	m := NewMonitor(src, Options{ForumID: 9, Notifier: n})

	res := m.Cycle(context.Background(), State{})
	if res.Err != nil {
		t.Fatalf("Cycle: %v", res.Err)
	}
	if n.count() != 0 {
		t.Errorf("cold cycle sent %d notifications", n.count())
	}
	if res.Next.NewestTopicID != 9 {
		t.Errorf("cursor = %d, want 9", res.Next.NewestTopicID)
	}
}

func TestCycleNotifiesNewThreads(t *testing.T) {
	src := &mockSource{polls: []poll{{ids: []int64{98, 101, 105}}}}
	n := &mockNotifier{}
	var emitted []Entry
	m := NewMonitor(src, Options{
		ForumID:  9,
		Notifier: n,
		Emit:     func(_ State, e []Entry) { emitted = e },
	})

	res := m.Cycle(context.Background(), State{NewestTopicID: 100})
	if res.Err != nil {
		t.Fatalf("Cycle: %v", res.Err)
	}
	if res.NewCount() != 2 {
		t.Errorf("NewCount = %d, want 2", res.NewCount())
	}
	if len(emitted) != 3 {
		t.Errorf("emitted %d entries, want all 3", len(emitted))
	}
	if n.count() != 2 {
		t.Fatalf("sent %d notifications, want 2", n.count())
	}
	got := n.msgs[0]
	if got.Text != "thread" || got.URL != testBase+"/t-101" || got.Title != "RFD forum 9" {
		t.Errorf("first message = %+v", got)
	}
}

func TestCycleLogsNewThreads(t *testing.T) {
	var buf bytes.Buffer
	logging.Init(&buf, "debug")
	defer func() { logging.Logger = nil }()

	src := &mockSource{polls: []poll{{ids: []int64{7}}}}
	m := NewMonitor(src, Options{ForumID: 9})
	m.Cycle(context.Background(), State{NewestTopicID: 5})

	out := buf.String()
	if !strings.Contains(out, "new thread") || !strings.Contains(out, "votes=neutral") {
		t.Errorf("debug log missing new thread entry:\n%s", out)
	}
}

func TestCycleHasNoOverallDeadline(t *testing.T) {
	src := &mockSource{polls: []poll{{ids: []int64{1}}}}
	m := NewMonitor(src, Options{Pages: 50})

	if res := m.Cycle(context.Background(), State{}); res.Err != nil {
		t.Fatalf("Cycle: %v", res.Err)
	}
	if src.sawDeadline {
		t.Error("a multi-page poll should only be bounded by per-request timeouts")
	}
}

func TestCycleAppliesSort(t *testing.T) {
	src := &mockSource{polls: []poll{{ids: []int64{3, 1, 2}}}}
	var order []int64
	m := NewMonitor(src, Options{
		SortKey: filter.SortTopicID,
		Emit: func(_ State, entries []Entry) {
			for _, e := range entries {
				order = append(order, e.Thread.ID())
			}
		},
	})

	m.Cycle(context.Background(), State{})
	if !slices.Equal(order, []int64{1, 2, 3}) {
		t.Errorf("emit order = %v, want ascending ids", order)
	}
}

func TestCycleNewOnly(t *testing.T) {
	src := &mockSource{polls: []poll{{ids: []int64{1, 2}}, {ids: []int64{1, 2, 3}}}}
	var emitted [][]Entry
	m := NewMonitor(src, Options{
		NewOnly: true,
		Emit:    func(_ State, e []Entry) { emitted = append(emitted, e) },
	})

	first := m.Cycle(context.Background(), State{})
	m.Cycle(context.Background(), first.Next)

	if len(emitted[0]) != 2 {
		t.Errorf("cold cycle emitted %d, want everything", len(emitted[0]))
	}
	if len(emitted[1]) != 1 || emitted[1][0].Thread.ID() != 3 {
		t.Errorf("warm cycle emitted %v, want only id 3", emitted[1])
	}
}

func TestCycleFailureKeepsState(t *testing.T) {
	errDown := errors.New("backend down")
	src := &mockSource{polls: []poll{{err: errDown}}}
	called := false
	m := NewMonitor(src, Options{Emit: func(State, []Entry) { called = true }})

	before := State{NewestTopicID: 42}
	res := m.Cycle(context.Background(), before)

	if !errors.Is(res.Err, errDown) {
		t.Errorf("Err = %v, want wrapped errDown", res.Err)
	}
	if res.Next != before {
		t.Errorf("Next = %+v, want unchanged %+v", res.Next, before)
	}
	if called {
		t.Error("failed cycle should emit nothing")
	}
}

func TestCycleNotifierFailureDoesNotFailCycle(t *testing.T) {
	for name, n := range map[string]*mockNotifier{
		"error": {err: errors.New("pushover down")},
		"panic": {panic: true},
	} {
		t.Run(name, func(t *testing.T) {
			src := &mockSource{polls: []poll{{ids: []int64{11, 12}}}}
			m := NewMonitor(src, Options{Notifier: n})

			res := m.Cycle(context.Background(), State{NewestTopicID: 10})
			if res.Err != nil {
				t.Errorf("notifier failure leaked into cycle: %v", res.Err)
			}
			if res.Next.NewestTopicID != 12 {
				t.Errorf("cursor = %d, want 12", res.Next.NewestTopicID)
			}
			if n.count() != 2 {
				t.Errorf("attempted %d notifications, want 2", n.count())
			}
		})
	}
}

func TestRunSurvivesFailuresAndStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := &mockSource{
		polls: []poll{
			{ids: []int64{100}},
			{err: errors.New("timeout")},
			{ids: []int64{98, 101, 105}},
			{ids: []int64{50}},
		},
		onDrained: cancel,
	}
	n := &mockNotifier{err: errors.New("always fails")}
	m := NewMonitor(src, Options{Interval: time.Millisecond, Notifier: n})

	done := make(chan State, 1)
	go func() { done <- m.Run(ctx) }()

	select {
	case final := <-done:
		if final.NewestTopicID != 105 {
			t.Errorf("final cursor = %d, want 105", final.NewestTopicID)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	if src.calls != 4 {
		t.Errorf("ran %d scripted polls, want 4", src.calls)
	}
	if n.count() != 2 {
		t.Errorf("attempted %d notifications, want 2 (101 and 105)", n.count())
	}
}

func TestRunReturnsWhenCancelledDuringSleep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := &mockSource{polls: []poll{{ids: []int64{1}}}}
	m := NewMonitor(src, Options{
		Interval: time.Hour,
		Emit:     func(State, []Entry) { cancel() },
	})

	done := make(chan State, 1)
	go func() { done <- m.Run(ctx) }()

	select {
	case final := <-done:
		if final.NewestTopicID != 1 {
			t.Errorf("final cursor = %d, want 1", final.NewestTopicID)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run kept sleeping after cancel")
	}
}
