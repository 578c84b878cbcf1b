package tui

import (
	"reflect"
	"testing"
)

func TestWrapTextBreaksAtSpaces(t *testing.T) {
	got := wrapText("offer q=10 at price 4", 10)
	want := []string{"offer q=10", "at price 4"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected wrap: %q", got)
	}
}

func TestWrapTextSplitsLongWords(t *testing.T) {
	got := wrapText("abcdefghij", 4)
	want := []string{"abcd", "efgh", "ij"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected wrap: %q", got)
	}
}

func TestWrapTextKeepsLineBreaks(t *testing.T) {
	got := wrapText("a\nb", 10)
	want := []string{"a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected wrap: %q", got)
	}
}

func TestWrapTextCountsWideRunes(t *testing.T) {
	got := wrapText("日本語", 4)
	want := []string{"日本", "語"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected wrap: %q", got)
	}
}

func TestWrapTextEmpty(t *testing.T) {
	got := wrapText("", 10)
	if len(got) != 1 || got[0] != "" {
		t.Fatalf("expected a single empty line, got %q", got)
	}
}

func TestTruncateLine(t *testing.T) {
	if got := truncateLine("abcdefgh", 6); got != "abc..." {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := truncateLine("abc", 6); got != "abc" {
		t.Fatalf("short line changed: %q", got)
	}
}

func TestFitLinesPadsAndClips(t *testing.T) {
	got := fitLines("a\nb\nc", 2, 2)
	if got != "a \nb " {
		t.Fatalf("unexpected fit: %q", got)
	}
}
