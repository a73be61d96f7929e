package fetch

import (
	"encoding/json"
	"testing"
)

func decodeTopic(t *testing.T, s string) Topic {
	t.Helper()
	var topic Topic
	if err := json.Unmarshal([]byte(s), &topic); err != nil {
		t.Fatalf("decode %s: %v", s, err)
	}
	return topic
}

func TestTopicString(t *testing.T) {
	topic := decodeTopic(t, `{"title":"Koodo 5GB","post_time":1700000000,"flag":true,"missing":null}`)

	if got, ok := topic.String("title"); !ok || got != "Koodo 5GB" {
		t.Errorf("title = %q, %v", got, ok)
	}
	if got, ok := topic.String("post_time"); !ok || got != "1700000000" {
		t.Errorf("numeric post_time = %q, %v", got, ok)
	}
	if _, ok := topic.String("flag"); ok {
		t.Error("bool should not read as string")
	}
	if _, ok := topic.String("missing"); ok {
		t.Error("null should read as absent")
	}
	if _, ok := topic.String("nope"); ok {
		t.Error("missing key should read as absent")
	}
}

// present reports whether key holds a non-null value.
func present(t Topic, key string) bool {
	_, ok := t.raw(key)
	return ok
}

func TestTopicInt(t *testing.T) {
	topic := decodeTopic(t, `{"a":5,"b":"7","c":3.9,"d":"seven","e":null,"f":[1],`+
		`"h":"9223372036854775808.0","i":-9223372036854775808.0,"j":1e300}`)

	tests := []struct {
		key    string
		want   int64
		wantOK bool
	}{
		{"a", 5, true},
		{"b", 7, true},
		{"c", 3, true},
		{"d", 0, false},
		{"e", 0, false},
		{"f", 0, false},
		{"g", 0, false},
		{"h", 0, false}, // 2^63 does not fit in int64
		{"i", 0, false},
		{"j", 0, false},
	}

	for _, tc := range tests {
		got, ok := topic.Int(tc.key)
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("Int(%q) = %d, %v; want %d, %v", tc.key, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestTopicObject(t *testing.T) {
	topic := decodeTopic(t, `{"offer":{"dealer_name":"Koodo Mobile"},"votes":"n/a"}`)

	offer, ok := topic.Object("offer")
	if !ok {
		t.Fatal("expected offer object")
	}
	if name, _ := offer.String("dealer_name"); name != "Koodo Mobile" {
		t.Errorf("dealer_name = %q", name)
	}
	if _, ok := topic.Object("votes"); ok {
		t.Error("string should not read as object")
	}
}

func TestNewTopicAndSet(t *testing.T) {
	topic := NewTopic(map[string]any{"topic_id": 42, "title": "A"})
	topic.Set("user", "dave")

	if id, ok := topic.Int("topic_id"); !ok || id != 42 {
		t.Errorf("topic_id = %d, %v", id, ok)
	}
	if user, _ := topic.String("user"); user != "dave" {
		t.Errorf("user = %q", user)
	}
	if !present(topic, "title") || present(topic, "web_path") {
		t.Error("presence reported wrong after decode")
	}
}
