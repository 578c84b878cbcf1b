package report

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"FRAME", "ACCEPTANCE RATE", "MODEL"}
	rows := [][]string{
		{"LP", "0.9", "llama"},
		{"TPT", "-", "gpt-4o"},
	}
	rightAlign := map[int]bool{1: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "FRAME  ACCEPTANCE RATE  MODEL" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "LP                 0.9  llama" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "TPT                  -  gpt-4o" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestColumnWidthsUseDisplayWidth(t *testing.T) {
	widths := ColumnWidths([]string{"A", "B"}, [][]string{{"日本", "x"}})
	if widths[0] != 4 {
		t.Fatalf("expected wide runes to count double, got %d", widths[0])
	}
	if widths[1] != 1 {
		t.Fatalf("expected width 1, got %d", widths[1])
	}
}

func TestFormatTableEmpty(t *testing.T) {
	if lines := formatTable(nil, nil, nil); lines != nil {
		t.Fatalf("expected nil, got %v", lines)
	}
}
