package tui

import "testing"

func TestWrapTextKeepsWordsIntact(t *testing.T) {
	lines := wrapText("one two three four", 9)
	want := []string{"one two", "three", "four"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines %v, want %d", len(lines), lines, len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestWrapTextBreaksOverlongWord(t *testing.T) {
	lines := wrapText("abcdefghij", 4)
	if len(lines) != 3 {
		t.Fatalf("got %v", lines)
	}
	if lines[0] != "abcd" || lines[1] != "efgh" || lines[2] != "ij" {
		t.Fatalf("got %v", lines)
	}
}

func TestWrapTextZeroWidth(t *testing.T) {
	lines := wrapText("hello world", 0)
	if len(lines) != 1 || lines[0] != "hello world" {
		t.Fatalf("got %v", lines)
	}
}

func TestWrapTextEmpty(t *testing.T) {
	lines := wrapText("", 10)
	if len(lines) != 1 || lines[0] != "" {
		t.Fatalf("got %v", lines)
	}
}
