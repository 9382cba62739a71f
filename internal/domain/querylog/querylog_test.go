package querylog

import (
	"testing"
	"time"
)

func TestClean(t *testing.T) {
	tests := []struct {
		raw    string
		want   string
		wantOK bool
	}{
		{"the of", "", false},
		{"the a", "", false},
		{"Python Tutorial", "python tutorial", true},
		{"  Go!!  ", "", false},
		{"the Rust-lang book", "rust lang book", true},
		{"", "", false},
		{"abc", "abc", true},
	}
	for _, tc := range tests {
		got, ok := Clean(tc.raw)
		if ok != tc.wantOK || got != tc.want {
			t.Errorf("Clean(%q) = (%q, %v), want (%q, %v)", tc.raw, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestNewEntry_StopWordsOnlyYieldsNothing(t *testing.T) {
	if _, ok := NewEntry("the is", time.Now()); ok {
		t.Fatal("expected no entry for a stop-word-only query")
	}
}

func TestNewEntry(t *testing.T) {
	now := time.Unix(1700000000, 0)
	e, ok := NewEntry("The Elasticsearch guide", now)
	if !ok {
		t.Fatal("expected an entry")
	}
	if e.Query != "elasticsearch guide" {
		t.Errorf("Query = %q", e.Query)
	}
	if e.RawQuery != "The Elasticsearch guide" {
		t.Errorf("RawQuery = %q", e.RawQuery)
	}
	if e.Timestamp != 1700000000 {
		t.Errorf("Timestamp = %v", e.Timestamp)
	}
}

func TestNewEntry_TheQuickKeepsQuick(t *testing.T) {
	e, ok := NewEntry("the quick", time.Unix(1700000000, 0))
	if !ok {
		t.Fatal("expected an entry: only \"the\" is a stop-word")
	}
	if e.Query != "quick" {
		t.Errorf("Query = %q, want %q", e.Query, "quick")
	}
}
