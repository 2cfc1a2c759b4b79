// Package ui renders results on the console. Output is colored with ANSI
// escapes when stdout is a terminal.
package ui

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

const reset = "\033[0m"

// Out is where every helper in this package writes.
var Out io.Writer = os.Stdout

// Color enables ANSI colors. It defaults to whether stdout is a terminal.
var Color = term.IsTerminal(int(os.Stdout.Fd()))

func colorf(code, format string, a ...interface{}) {
	if Color {
		fmt.Fprint(Out, code)
	}
	fmt.Fprintf(Out, format, a...)
	if Color {
		fmt.Fprint(Out, reset)
	}
}

// RedWriter wraps an io.Writer and emits red-colored output.
type RedWriter struct{ w io.Writer }

func (r RedWriter) Write(p []byte) (int, error) {
	if !Color {
		return r.w.Write(p)
	}
	out := append([]byte("\033[31m"), p...)
	out = append(out, []byte(reset)...)
	if _, err := r.w.Write(out); err != nil {
		return 0, err
	}
	return len(p), nil
}

// NewRedWriter returns a RedWriter wrapping the provided io.Writer.
func NewRedWriter(w io.Writer) RedWriter { return RedWriter{w: w} }

// Debugf prints a yellow debug message when enabled is true.
func Debugf(enabled bool, format string, a ...interface{}) {
	if enabled {
		colorf("\033[33m", "[DEBUG] "+format, a...)
	}
}

// Greenf prints a light green message.
func Greenf(format string, a ...interface{}) {
	colorf("\033[92m", format, a...)
}

// Warningf prints a bright yellow/orange warning.
func Warningf(format string, a ...interface{}) {
	colorf("\033[93m", format, a...)
}

// Printf prints uncolored.
func Printf(format string, a ...interface{}) {
	fmt.Fprintf(Out, format, a...)
}
