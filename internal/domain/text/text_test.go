package text

import (
	"strings"
	"testing"
)

func TestTokens(t *testing.T) {
	got := Tokens("The Quick, brown-fox's 42!")
	want := []string{"the", "quick", "brown", "fox", "s", "42"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Tokens() = %v, want %v", got, want)
	}
}

func TestIsStopWord(t *testing.T) {
	for _, w := range []string{"the", "THE", "a", "that"} {
		if !IsStopWord(w) {
			t.Errorf("expected %q to be a stop-word", w)
		}
	}
	if IsStopWord("python") {
		t.Error("python is not a stop-word")
	}
}

func TestCollapseSpace(t *testing.T) {
	got := CollapseSpace("  hello \n\t  world  \r\n ")
	if got != "hello world" {
		t.Errorf("CollapseSpace() = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello", 3, "hel"},
		{"héllo", 2, "hé"},
		{"日本語テキスト", 3, "日本語"},
		{"", 3, ""},
	}
	for _, tc := range tests {
		if got := Truncate(tc.in, tc.n); got != tc.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tc.in, tc.n, got, tc.want)
		}
	}
}
