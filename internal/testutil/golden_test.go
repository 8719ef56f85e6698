package testutil

import "testing"

func TestFirstDiff(t *testing.T) {
	tests := []struct {
		want, got string
		line      int
	}{
		{"a\nb\nc\n", "a\nx\nc\n", 2},
		{"a\nb\n", "a\nb\nc\n", 3},
		{"a\n", "a\n", 0},
	}
	for _, tt := range tests {
		line, _, _ := firstDiff(tt.want, tt.got)
		if line != tt.line {
			t.Errorf("firstDiff(%q, %q) = line %d, want %d", tt.want, tt.got, line, tt.line)
		}
	}
}
