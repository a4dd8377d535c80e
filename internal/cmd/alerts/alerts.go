// Package alerts writes one-line status notices for CLI commands.
package alerts

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Alert is a status notice with optional details.
type Alert struct {
	Level   Level
	Message string
	Details []string
	Err     error
}

// New creates a new alert with the given level and message.
func New(level Level, message string) *Alert {
	return &Alert{Level: level, Message: message}
}

// NewError creates a new error alert.
func NewError(message string) *Alert {
	return New(LevelError, message)
}

// NewWarning creates a new warning alert.
func NewWarning(message string) *Alert {
	return New(LevelWarning, message)
}

// NewInfo creates a new info alert.
func NewInfo(message string) *Alert {
	return New(LevelInfo, message)
}

// NewSuccess creates a new success alert.
func NewSuccess(message string) *Alert {
	return New(LevelSuccess, message)
}

// WithError adds an underlying error to the alert.
func (a *Alert) WithError(err error) *Alert {
	a.Err = err
	return a
}

// WithDetails adds additional context details to the alert.
func (a *Alert) WithDetails(details ...string) *Alert {
	a.Details = append(a.Details, details...)
	return a
}

// String returns the alert as a single uncolored line.
func (a *Alert) String() string {
	message := fmt.Sprintf("%s %s", a.Level.Icon(), a.Message)
	if a.Err != nil {
		message += fmt.Sprintf(": %v", a.Err)
	}
	return message
}

// Writer prints alerts to an io.Writer, colored when it is a terminal.
type Writer struct {
	w           io.Writer
	color       bool
	showDetails bool
}

// NewWriter creates a Writer for w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, color: isTerminal(w), showDetails: true}
}

// WithDetails toggles printing of alert details.
func (aw *Writer) WithDetails(show bool) *Writer {
	aw.showDetails = show
	return aw
}

// Write prints the alert and its details, one per indented line.
func (aw *Writer) Write(alert *Alert) error {
	line := alert.String()
	if aw.color {
		line = alert.Level.color() + line + resetColor
	}

	var b strings.Builder
	b.WriteString(line)
	b.WriteByte('\n')
	if aw.showDetails {
		for _, d := range alert.Details {
			fmt.Fprintf(&b, "  %s\n", d)
		}
	}
	_, err := io.WriteString(aw.w, b.String())
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
