//go:build !windows

package config

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// CleanFileName strips path separators and NUL from a file name derived from
// record data, and leading dots so saved records never hide or escape their
// directory.
func CleanFileName(in string) string {
	var b strings.Builder
	for _, sym := range in {
		switch sym {
		case os.PathSeparator, os.PathListSeparator, 0:
			continue
		}
		b.WriteRune(sym)
	}
	out := strings.TrimLeft(b.String(), ".")
	if len(out) == 0 {
		out = "_bad_file_name_"
	}
	return out
}

// EnableColorOutput checks if colorized output is possible.
func EnableColorOutput(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}
