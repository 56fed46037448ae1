package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"ID", "Answers", "Weight"}
	rows := [][]string{
		{"vim/001", "12", "0.43"},
		{"tmux/010", "3", "1.00"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "ID       Answers Weight" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "vim/001       12   0.43" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "tmux/010       3   1.00" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableIgnoresColorAndCountsWideRunes(t *testing.T) {
	rows := [][]string{
		{colorGreen + "##" + colorReset, "x"},
		{"漢", "y"},
		{"abc", "z"},
	}
	lines := formatTable(nil, rows, nil)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != colorGreen+"##"+colorReset+"  x" {
		t.Fatalf("unexpected colored line: %q", lines[0])
	}
	if lines[1] != "漢  y" {
		t.Fatalf("unexpected wide line: %q", lines[1])
	}
	if lines[2] != "abc z" {
		t.Fatalf("unexpected plain line: %q", lines[2])
	}
}
