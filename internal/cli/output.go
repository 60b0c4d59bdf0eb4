package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	infoColor    = color.New(color.FgCyan)
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed)
	keyColor     = color.New(color.FgYellow)
	faintColor   = color.New(color.Faint)
)

func printInfo(w io.Writer, format string, a ...interface{}) {
	_, _ = infoColor.Fprintln(w, fmt.Sprintf(format, a...))
}

func printSuccess(w io.Writer, format string, a ...interface{}) {
	_, _ = successColor.Fprintln(w, fmt.Sprintf(format, a...))
}

// PrintError writes err in red to w.
func PrintError(w io.Writer, err error) {
	_, _ = errorColor.Fprintln(w, err.Error())
}
