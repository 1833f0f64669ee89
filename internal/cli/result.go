package cli

import (
	"fmt"
	"io"
	"strings"
)

// Line is one line of command output, optionally attributed to a module
type Line struct {
	Module string
	Text   string
	// Err marks lines that report a failure; they are written to stderr
	Err bool
}

// String formats the line as "<module> <text>", or just the text
func (l Line) String() string {
	if l.Module == "" {
		return l.Text
	}
	return l.Module + " " + l.Text
}

// Result is the output of a command in display order
type Result []Line

// Failed reports whether any line is an error line
func (r Result) Failed() bool {
	for _, line := range r {
		if line.Err {
			return true
		}
	}
	return false
}

// Render writes normal lines to out and error lines to errOut
func (r Result) Render(out, errOut io.Writer) error {
	for _, line := range r {
		w := out
		if line.Err {
			w = errOut
		}
		if _, err := fmt.Fprintln(w, line.String()); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

// outputLines attributes each non-empty line of tool output to a module
func outputLines(module, output string) []Line {
	lines := []Line{}
	for _, text := range strings.Split(output, "\n") {
		text = strings.TrimRight(text, "\r ")
		if strings.TrimSpace(text) == "" {
			continue
		}
		lines = append(lines, Line{Module: module, Text: text})
	}
	return lines
}

// errorLine reports a per-module failure
func errorLine(module string, err error) Line {
	return Line{Module: module, Text: "error: " + err.Error(), Err: true}
}
