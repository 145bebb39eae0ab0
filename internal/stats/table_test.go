package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	lines := formatTable(
		[]string{"Question", "Correct"},
		[][]string{
			{"a", "1"},
			{"longer", "100"},
		},
		1,
	)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Question Correct" {
		t.Fatalf("header row = %q", lines[0])
	}
	if lines[1] != "a              1" {
		t.Fatalf("data row = %q", lines[1])
	}
	if lines[2] != "longer       100" {
		t.Fatalf("data row = %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	// CJK question text is double-width on screen; the count column must
	// still line up under its header.
	lines := formatTable(
		[]string{"Question", "Correct"},
		[][]string{
			{"日本", "2"},
			{"ab", "10"},
		},
		1,
	)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[1] != "日本           2" {
		t.Fatalf("data row = %q", lines[1])
	}
	if lines[2] != "ab            10" {
		t.Fatalf("data row = %q", lines[2])
	}
}

func TestFormatTableEmpty(t *testing.T) {
	if lines := formatTable(nil, nil); lines != nil {
		t.Fatalf("expected nil, got %v", lines)
	}
}
