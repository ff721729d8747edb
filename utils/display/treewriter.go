// Package display renders parsed catalog data as indented text trees for
// terminal output.
package display

import (
	"fmt"
	"strconv"
	"strings"
)

// TreeWriter accumulates an indented tree of lines, two spaces per level.
type TreeWriter struct {
	w strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{}
}

func (tw *TreeWriter) String() string {
	return tw.w.String()
}

func (tw *TreeWriter) indent(depth int) {
	for range depth {
		tw.w.WriteString("  ")
	}
}

// Line writes one formatted line at the given depth.
func (tw *TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(&tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// TextBlock writes a labeled value with free-form text quoted, so whitespace
// oddities in catalog data stay visible.
func (tw *TreeWriter) TextBlock(depth int, label, value string) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	if value != "" {
		value = strconv.Quote(value)
	}
	tw.w.WriteString(value)
	tw.w.WriteByte('\n')
}

// Blank separates blocks, records in a result list for example.
func (tw *TreeWriter) Blank() {
	tw.w.WriteByte('\n')
}
