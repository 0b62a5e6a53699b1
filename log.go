package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// logOut receives all operator output. Tests swap it for a buffer.
var logOut io.Writer = color.Error

var (
	colorInfo    = color.New(color.FgBlue)
	colorSuccess = color.New(color.FgGreen)
	colorWarning = color.New(color.FgYellow, color.Bold)
	colorError   = color.New(color.FgRed)
)

func init() {
	// fatih/color only looks at stdout; log lines go to stderr.
	if !stderrIsTerminal() {
		color.NoColor = true
	}
}

func stderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func logLine(c *color.Color, tag, format string, args ...any) {
	fmt.Fprintf(logOut, "%s %s\n", c.Sprint(tag), fmt.Sprintf(format, args...))
}

func logInfo(format string, args ...any) {
	logLine(colorInfo, "[INFO]", format, args...)
}

func logSuccess(format string, args ...any) {
	logLine(colorSuccess, "[OK]", format, args...)
}

func logWarning(format string, args ...any) {
	logLine(colorWarning, "[WARN]", format, args...)
}

func logError(format string, args ...any) {
	logLine(colorError, "[ERROR]", format, args...)
}
