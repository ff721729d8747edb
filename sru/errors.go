package sru

import "fmt"

// ParseError reports a response document broken at the envelope level.
// Snippet carries the head of the offending input for error reports.
type ParseError struct {
	Msg     string
	Snippet string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parsing response: %s: %v", e.Msg, e.Err)
	}
	return "parsing response: " + e.Msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// DiagnosticError is a protocol diagnostic the server returned in place of
// a result set.
type DiagnosticError struct {
	URI     string
	Message string
}

func (e *DiagnosticError) Error() string {
	return fmt.Sprintf("server diagnostic (%s): %s", e.URI, e.Message)
}
