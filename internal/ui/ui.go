// Package ui provides terminal output helpers for the CLI.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// ANSI color codes.
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorDim    = "\033[2m"
)

// Printer writes status lines, colorized only when the destination is an
// interactive terminal and NO_COLOR is unset.
type Printer struct {
	out   io.Writer
	color bool
}

// NewPrinter creates a Printer for w with automatic color detection.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{out: w, color: IsTerminal(w) && !NoColorRequested()}
}

// WithColor overrides color detection, mainly for tests.
func (p *Printer) WithColor(enabled bool) *Printer {
	p.color = enabled
	return p
}

// Successf prints a success line.
func (p *Printer) Successf(format string, args ...any) {
	p.line(colorGreen, "OK", format, args...)
}

// Warnf prints a warning line.
func (p *Printer) Warnf(format string, args ...any) {
	p.line(colorYellow, "WARN", format, args...)
}

// Errorf prints an error line.
func (p *Printer) Errorf(format string, args ...any) {
	p.line(colorRed, "ERROR", format, args...)
}

// Infof prints a plain informational line.
func (p *Printer) Infof(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Dimf prints a de-emphasized line.
func (p *Printer) Dimf(format string, args ...any) {
	if p.color {
		fmt.Fprintf(p.out, colorDim+format+colorReset+"\n", args...)
		return
	}
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) line(color, tag, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if p.color {
		fmt.Fprintf(p.out, "%s[%s]%s %s\n", color, tag, colorReset, msg)
		return
	}
	fmt.Fprintf(p.out, "[%s] %s\n", tag, msg)
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// NoColorRequested checks the NO_COLOR convention.
func NoColorRequested() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}
