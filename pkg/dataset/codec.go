package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/agentstation/fieldmap/pkg/errors"
)

// Codec loads and saves a Table at a location.
type Codec interface {
	Load(ctx context.Context, location string) (*Table, error)
	Save(ctx context.Context, t *Table, location string) error
}

// Option configures codec selection.
type Option func(*options)

type options struct {
	sheet string
	table string
}

// WithSheet selects the XLSX worksheet. The first sheet is used by default.
func WithSheet(name string) Option {
	return func(o *options) {
		o.sheet = name
	}
}

// WithTable sets the SQL table name used when the location does not name one.
func WithTable(name string) Option {
	return func(o *options) {
		o.table = name
	}
}

// SQLitePrefix marks a location as a SQLite database.
const SQLitePrefix = "sqlite://"

// CodecFor picks a codec from the location: .csv, .tsv, .xlsx or sqlite://.
func CodecFor(location string, opts ...Option) (Codec, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if strings.HasPrefix(location, SQLitePrefix) {
		return &SQLCodec{DefaultTable: o.table}, nil
	}

	switch strings.ToLower(filepath.Ext(location)) {
	case ".csv":
		return &CSVCodec{Comma: ','}, nil
	case ".tsv":
		return &CSVCodec{Comma: '\t'}, nil
	case ".xlsx", ".xlsm":
		return &XLSXCodec{Sheet: o.sheet}, nil
	default:
		return nil, &errors.UnsupportedFormatError{Path: location}
	}
}

// Load reads the dataset at location with the matching codec.
func Load(ctx context.Context, location string, opts ...Option) (*Table, error) {
	c, err := CodecFor(location, opts...)
	if err != nil {
		return nil, err
	}
	return c.Load(ctx, location)
}

// Save writes t to location with the matching codec.
func Save(ctx context.Context, t *Table, location string, opts ...Option) error {
	c, err := CodecFor(location, opts...)
	if err != nil {
		return err
	}
	return c.Save(ctx, t, location)
}

// fromRecords builds a table from a header row and data rows. The header is
// widened to the longest row that has a value past it. Blank header cells are
// named "Unnamed: <index>" and repeated names get a ".<n>" suffix, so every
// column stays addressable and is written back on save.
func fromRecords(header []string, rows [][]string) (*Table, error) {
	width := len(header)
	for _, r := range rows {
		if n := usedWidth(r); n > width {
			width = n
		}
	}

	t, err := NewTable(columnNames(header, width)...)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		if len(r) > width {
			r = r[:width]
		}
		if err := t.AppendRow(r...); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// usedWidth is the length of r without trailing empty values.
func usedWidth(r []string) int {
	n := len(r)
	for n > 0 && r[n-1] == "" {
		n--
	}
	return n
}

func columnNames(header []string, width int) []string {
	names := make([]string, width)
	taken := make(map[string]bool, width)
	for i := range names {
		base := ""
		if i < len(header) {
			base = header[i]
		}
		if strings.TrimSpace(base) == "" {
			base = fmt.Sprintf("Unnamed: %d", i)
		}
		name := base
		for n := 1; taken[name]; n++ {
			name = fmt.Sprintf("%s.%d", base, n)
		}
		taken[name] = true
		names[i] = name
	}
	return names
}

// records returns the header and rows of t, missing cells as "".
func records(t *Table) [][]string {
	out := make([][]string, 0, t.Len()+1)
	out = append(out, t.Columns())
	for i := 0; i < t.Len(); i++ {
		out = append(out, t.Row(i))
	}
	return out
}
