// Package diagnostics renders the compiler's fail-fast error reports:
// the offending source line followed by a caret, the way a single
// bad character or a missing semicolon has always been reported by
// this lineage of toy compilers.
//
// Every stage of the pipeline - scanner, parser, code generator -
// returns one of these instead of inventing its own fmt.Errorf shape,
// so the driver has exactly one place that formats and prints an
// error before calling os.Exit(1).
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Error is the single error type returned by every compiler stage.
type Error struct {
	// Msg is the human-readable description of the failure.
	Msg string

	// Source is the full input the offset is relative to. Empty if
	// the error has no associated location (e.g. "no main function").
	Source string

	// Offset is the byte position of the failure within Source.
	Offset int

	// HasOffset distinguishes "offset 0" from "no location".
	HasOffset bool
}

// New builds a location-less diagnostic.
func New(format string, args ...interface{}) *Error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}

// At builds a diagnostic pointing at a byte offset within source.
func At(source string, offset int, format string, args ...interface{}) *Error {
	return &Error{
		Msg:       fmt.Sprintf(format, args...),
		Source:    source,
		Offset:    offset,
		HasOffset: true,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if !e.HasOffset {
		return e.Msg
	}

	var b strings.Builder
	fmt.Fprintln(&b, e.Source)
	b.WriteString(strings.Repeat(" ", e.Offset))
	b.WriteString(color.New(color.FgRed, color.Bold).Sprint("^"))
	fmt.Fprintf(&b, " %s", e.Msg)
	return b.String()
}
