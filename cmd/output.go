package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed, color.Bold)
)

func okf(w io.Writer, format string, args ...any) {
	okColor.Fprint(w, "✓ ")
	fmt.Fprintf(w, format+"\n", args...)
}

func warnf(w io.Writer, format string, args ...any) {
	warnColor.Fprint(w, "⚠ ")
	fmt.Fprintf(w, format+"\n", args...)
}

func errorf(w io.Writer, format string, args ...any) {
	errColor.Fprint(w, "✗ ")
	fmt.Fprintf(w, format+"\n", args...)
}
