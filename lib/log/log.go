// Package log prints colored, leveled messages for the chardiff CLI.
package log

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

const (
	debugEnvName  = "CHARDIFF_DEBUG"
	debugEnvValue = "1"
)

var (
	// ColorRed is a red foreground color
	ColorRed = color.New(color.FgRed)
	// ColorGreen is a green foreground color
	ColorGreen = color.New(color.FgGreen)
	// ColorYellow is a yellow foreground color
	ColorYellow = color.New(color.FgYellow)
	// ColorBlue is a blue foreground color
	ColorBlue = color.New(color.FgBlue)
	// ColorGray is a gray foreground color
	ColorGray = color.New(color.FgHiBlack)
)

// Logger writes regular messages to out and problems to err.
type Logger struct {
	out io.Writer
	err io.Writer
}

func New(out, err io.Writer) *Logger {
	return &Logger{out: out, err: err}
}

var std = New(color.Output, color.Error)

// Infof prints information with optional format verbs
func (l *Logger) Infof(msg string, v ...interface{}) {
	fmt.Fprintf(l.out, "%s %s", ColorBlue.Sprint("•"), fmt.Sprintf(msg, v...))
}

// Successf prints a success message with optional format verbs
func (l *Logger) Successf(msg string, v ...interface{}) {
	fmt.Fprintf(l.out, "%s %s", ColorGreen.Sprint("✔"), fmt.Sprintf(msg, v...))
}

// Failuref prints a failed check with optional format verbs
func (l *Logger) Failuref(msg string, v ...interface{}) {
	fmt.Fprintf(l.out, "%s %s", ColorRed.Sprint("⨯"), fmt.Sprintf(msg, v...))
}

// Warnf prints a warning message with optional format verbs
func (l *Logger) Warnf(msg string, v ...interface{}) {
	fmt.Fprintf(l.err, "%s %s", ColorYellow.Sprint("•"), fmt.Sprintf(msg, v...))
}

// Errorf prints an error message with optional format verbs
func (l *Logger) Errorf(msg string, v ...interface{}) {
	fmt.Fprintf(l.err, "%s %s", ColorRed.Sprint("⨯"), fmt.Sprintf(msg, v...))
}

// Fatalf prints a message for an error that ends the run.
func (l *Logger) Fatalf(msg string, v ...interface{}) {
	fmt.Fprintf(l.err, "fatal: %s", fmt.Sprintf(msg, v...))
}

// Debugf prints to the error stream if CHARDIFF_DEBUG is set
func (l *Logger) Debugf(msg string, v ...interface{}) {
	if isDebug() {
		fmt.Fprintf(l.err, "%s %s", ColorGray.Sprint("DEBUG:"), fmt.Sprintf(msg, v...))
	}
}

// isDebug returns true if debug mode is enabled
func isDebug() bool {
	return os.Getenv(debugEnvName) == debugEnvValue
}

// Errorf prints an error message to the process's stderr
func Errorf(msg string, v ...interface{}) {
	std.Errorf(msg, v...)
}

// Debug prints to the process's stderr if CHARDIFF_DEBUG is set
func Debug(msg string, v ...interface{}) {
	std.Debugf(msg, v...)
}
