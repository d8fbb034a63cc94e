// Package ui is the terminal notification sink: styled, fire-and-forget
// progress and status messages for the command layer and the core.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	infoColor    = color.New(color.FgCyan)
	warnColor    = color.New(color.FgHiYellow)
	errorColor   = color.New(color.FgHiRed)
	successColor = color.New(color.FgHiGreen)
)

// out is swappable so tests can capture messages.
var out io.Writer = os.Stdout

// verbose gates Debugf output. Set once at startup from the --verbose flag.
var verbose bool

// SetOutput redirects all sink output. Returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	prev := out
	out = w
	return prev
}

// SetVerbose toggles debug-level output.
func SetVerbose(v bool) {
	verbose = v
}

// Infof prints an informational progress message.
func Infof(format string, args ...any) {
	infoColor.Fprintf(out, format+"\n", args...)
}

// Warnf prints a warning the user should read but that does not stop anything.
func Warnf(format string, args ...any) {
	warnColor.Fprintf(out, format+"\n", args...)
}

// Errorf prints an error message.
func Errorf(format string, args ...any) {
	errorColor.Fprintf(out, format+"\n", args...)
}

// Successf prints a success message.
func Successf(format string, args ...any) {
	successColor.Fprintf(out, format+"\n", args...)
}

// Debugf prints only when verbose output is enabled.
func Debugf(format string, args ...any) {
	if !verbose {
		return
	}
	fmt.Fprintf(out, format+"\n", args...)
}

// Printf prints unstyled output.
func Printf(format string, args ...any) {
	fmt.Fprintf(out, format, args...)
}
