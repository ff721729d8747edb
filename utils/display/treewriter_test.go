package display

import (
	"strings"
	"testing"
)

func TestTreeWriter_Empty(t *testing.T) {
	if got := NewTreeWriter().String(); got != "" {
		t.Errorf("new TreeWriter renders %q, want empty", got)
	}
}

func TestTreeWriter_Line(t *testing.T) {
	tests := []struct {
		name   string
		depth  int
		format string
		args   []any
		want   string
	}{
		{
			name:   "no depth",
			depth:  0,
			format: "test",
			args:   nil,
			want:   "test\n",
		},
		{
			name:   "depth 1",
			depth:  1,
			format: "indented",
			args:   nil,
			want:   "  indented\n",
		},
		{
			name:   "depth 2",
			depth:  2,
			format: "double indent",
			args:   nil,
			want:   "    double indent\n",
		},
		{
			name:   "with formatting",
			depth:  1,
			format: "value: %d",
			args:   []any{42},
			want:   "  value: 42\n",
		},
		{
			name:   "multiple args",
			depth:  0,
			format: "%s = %d",
			args:   []any{"count", 5},
			want:   "count = 5\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Line(tt.depth, tt.format, tt.args...)
			got := tw.String()
			if got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_TextBlock(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		label string
		value string
		want  string
	}{
		{
			name:  "no depth empty value",
			depth: 0,
			label: "field",
			value: "",
			want:  "field: \n",
		},
		{
			name:  "no depth with value",
			depth: 0,
			label: "text",
			value: "hello world",
			want:  "text: \"hello world\"\n",
		},
		{
			name:  "depth 1 with value",
			depth: 1,
			label: "content",
			value: "test",
			want:  "  content: \"test\"\n",
		},
		{
			name:  "value with quotes",
			depth: 0,
			label: "quoted",
			value: "he said \"hello\"",
			want:  "quoted: \"he said \\\"hello\\\"\"\n",
		},
		{
			name:  "value with newline",
			depth: 0,
			label: "multiline",
			value: "line1\nline2",
			want:  "multiline: \"line1\\nline2\"\n",
		},
		{
			name:  "value with backslash",
			depth: 0,
			label: "path",
			value: `path\to\file`,
			want:  "path: \"path\\\\to\\\\file\"\n",
		},
		{
			name:  "umlauts stay readable",
			depth: 1,
			label: "title",
			value: "Einführung",
			want:  "  title: \"Einführung\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.TextBlock(tt.depth, tt.label, tt.value)
			got := tw.String()
			if got != tt.want {
				t.Errorf("TextBlock() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_Blank(t *testing.T) {
	tw := NewTreeWriter()
	tw.Line(0, "first")
	tw.Blank()
	tw.Line(0, "second")

	want := "first\n\nsecond\n"
	if got := tw.String(); got != want {
		t.Errorf("Blank() = %q, want %q", got, want)
	}
}

func TestTreeWriter_RecordShapedTree(t *testing.T) {
	tw := NewTreeWriter()
	tw.Line(0, "record %d", 1)
	tw.TextBlock(1, "title", "Die Blechtrommel")
	tw.TextBlock(1, "author", "Grass, Günter")
	tw.Line(1, "holdings (%d)", 2)
	tw.Line(2, "DE-21: Universität Tübingen")
	tw.TextBlock(3, "collection", "Hauptbestand")
	tw.Line(2, "DE-16: Universität Freiburg")

	result := tw.String()
	if !strings.Contains(result, "record 1\n") {
		t.Error("Missing record line")
	}
	if !strings.Contains(result, "  title: \"Die Blechtrommel\"\n") {
		t.Error("Missing title line")
	}
	if !strings.Contains(result, "  holdings (2)\n") {
		t.Error("Missing holdings line")
	}
	if !strings.Contains(result, "      collection: \"Hauptbestand\"\n") {
		t.Error("Missing collection line")
	}
}
