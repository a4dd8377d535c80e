package dataset

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentstation/fieldmap/pkg/constants"
	"github.com/agentstation/fieldmap/pkg/errors"
	"github.com/agentstation/fieldmap/pkg/logging"
)

const utf8BOM = "\ufeff"

// CSVCodec reads and writes delimited text. The first record is the header.
type CSVCodec struct {
	Comma rune
}

// Load implements Codec.
func (c *CSVCodec) Load(ctx context.Context, path string) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapIO("load", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("load", path, err)
	}
	defer func() { _ = f.Close() }()

	t, err := c.Read(f)
	if err != nil {
		return nil, errors.WrapIO("load", path, err)
	}

	logging.FromContext(ctx).Debug().
		Str("path", path).
		Int("rows", t.Len()).
		Int("columns", len(t.columns)).
		Msg("Loaded CSV dataset")
	return t, nil
}

// Read parses a table from r.
func (c *CSVCodec) Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = c.comma()
	cr.FieldsPerRecord = -1

	all, err := cr.ReadAll()
	if err != nil {
		return nil, errors.WrapParse("csv", "", err)
	}
	if len(all) == 0 {
		return NewTable()
	}

	header := all[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	return fromRecords(header, all[1:])
}

// Save implements Codec.
func (c *CSVCodec) Save(ctx context.Context, t *Table, path string) error {
	if err := ctx.Err(); err != nil {
		return errors.WrapIO("save", path, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("save", path, err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.FilePermissions)
	if err != nil {
		return errors.WrapIO("save", path, err)
	}

	if err := c.Write(f, t); err != nil {
		_ = f.Close()
		return errors.WrapIO("save", path, err)
	}
	if err := f.Close(); err != nil {
		return errors.WrapIO("save", path, err)
	}

	logging.FromContext(ctx).Debug().
		Str("path", path).
		Int("rows", t.Len()).
		Msg("Saved CSV dataset")
	return nil
}

// Write encodes t to w.
func (c *CSVCodec) Write(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	cw.Comma = c.comma()
	if err := cw.WriteAll(records(t)); err != nil {
		return err
	}
	return cw.Error()
}

func (c *CSVCodec) comma() rune {
	if c.Comma == 0 {
		return ','
	}
	return c.Comma
}
