package textutil_test

import (
	"testing"

	"tubecast/internal/textutil"
)

func TestExcerptCutsOnRuneBoundary(t *testing.T) {
	if got := textutil.Excerpt("short", 10); got != "short" {
		t.Fatalf("short input should pass through, got %q", got)
	}
	if got := textutil.Excerpt("abcdef", 3); got != "abc" {
		t.Fatalf("expected abc, got %q", got)
	}
	// Multi-byte runes must not be split mid-sequence.
	if got := textutil.Excerpt("日本語テスト", 3); got != "日本語" {
		t.Fatalf("expected three runes, got %q", got)
	}
}

func TestStripQuotes(t *testing.T) {
	cases := map[string]string{
		`"Quoted Title"`:   "Quoted Title",
		`  "Padded"  `:     "Padded",
		"No Quotes":        "No Quotes",
		`"Inner "q" kept"`: `Inner "q" kept`,
	}
	for in, want := range cases {
		if got := textutil.StripQuotes(in); got != want {
			t.Errorf("StripQuotes(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseList(t *testing.T) {
	got := textutil.ParseList("tech, ai;news\n , ,video")
	want := []string{"tech", "ai", "news", "video"}
	if len(got) != len(want) {
		t.Fatalf("expected %d items, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("item %d: expected %q, got %q", i, want[i], got[i])
		}
	}
	if got := textutil.ParseList("  "); len(got) != 0 {
		t.Fatalf("blank input should produce no items, got %v", got)
	}
}

func TestHandle(t *testing.T) {
	if got := textutil.Handle(" Tech Daily "); got != "techdaily" {
		t.Fatalf("expected techdaily, got %q", got)
	}
}
