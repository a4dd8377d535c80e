// Package hints provides actionable user guidance after failed operations.
package hints

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Hint represents actionable user guidance.
type Hint struct {
	Message string // Human-readable guidance message
	Command string // Optional specific command to run
}

// New creates a new hint with the given message.
func New(message string) *Hint {
	return &Hint{Message: message}
}

// WithCommand adds a command to the hint.
func (h *Hint) WithCommand(command string) *Hint {
	h.Command = command
	return h
}

// String returns a string representation of the hint.
func (h *Hint) String() string {
	s := "hint: " + h.Message
	if h.Command != "" {
		s += "\n   Run: " + h.Command
	}
	return s
}

// Context describes the failed operation.
type Context struct {
	Dataset   string // Dataset location given on the command line
	KeyColumn string // Effective key column
}

func (c Context) dataset() string {
	if c.Dataset == "" {
		return "<dataset>"
	}
	return c.Dataset
}

func (c Context) keyColumn() string {
	if c.KeyColumn == "" {
		return "the key column"
	}
	return c.KeyColumn
}

// ForKind returns guidance for a failure kind as reported by errors.Kind.
// Unknown kinds have no hints.
func ForKind(kind string, ctx Context) []*Hint {
	switch kind {
	case "missing_key":
		return []*Hint{
			New(fmt.Sprintf("Add a %s field to the record or pass the row key explicitly", ctx.keyColumn())).
				WithCommand(fmt.Sprintf("fieldmap insert %s <record> --row-key <key>", ctx.dataset())),
		}
	case "row_not_found":
		return []*Hint{
			New(fmt.Sprintf("Row keys must match a %s cell exactly; check an existing row", ctx.keyColumn())).
				WithCommand(fmt.Sprintf("fieldmap preview %s <key>", ctx.dataset())),
		}
	case "column_not_found":
		return []*Hint{
			New("Choose the key column from the dataset header").
				WithCommand(fmt.Sprintf("fieldmap columns %s", ctx.dataset())),
		}
	case "unsupported_format":
		return []*Hint{
			New("Datasets must be .csv, .tsv, .xlsx files or sqlite://path.db?table=name"),
		}
	case "invalid_input":
		return []*Hint{
			New("Records must be JSON or YAML objects, or a list of objects"),
		}
	default:
		return nil
	}
}

// ForKinds returns the hints for every distinct kind, in kind order.
func ForKinds(kinds []string, ctx Context) []*Hint {
	seen := make(map[string]bool, len(kinds))
	var unique []string
	for _, k := range kinds {
		if k != "" && !seen[k] {
			seen[k] = true
			unique = append(unique, k)
		}
	}
	sort.Strings(unique)

	var out []*Hint
	for _, k := range unique {
		out = append(out, ForKind(k, ctx)...)
	}
	return out
}

// Write prints hints separated from preceding output by a blank line.
func Write(w io.Writer, hints []*Hint) error {
	if len(hints) == 0 {
		return nil
	}
	lines := make([]string, 0, len(hints))
	for _, h := range hints {
		lines = append(lines, h.String())
	}
	_, err := fmt.Fprintf(w, "\n%s\n", strings.Join(lines, "\n"))
	return err
}
