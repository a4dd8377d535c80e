package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/agentstation/fieldmap/pkg/constants"
	"github.com/agentstation/fieldmap/pkg/errors"
	"github.com/agentstation/fieldmap/pkg/logging"
)

const defaultSheet = "Sheet1"

// XLSXCodec reads and writes Excel workbooks. Row 1 of the sheet is the header.
type XLSXCodec struct {
	// Sheet names the worksheet; empty selects the first sheet on load and
	// "Sheet1" on save.
	Sheet string
}

// Load implements Codec.
func (c *XLSXCodec) Load(ctx context.Context, path string) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapIO("load", path, err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.WrapIO("load", path, err)
	}
	defer func() { _ = f.Close() }()

	sheet := c.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.WrapIO("load", path, fmt.Errorf("workbook has no sheets"))
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.WrapIO("load", path, err)
	}

	var t *Table
	if len(rows) == 0 {
		t, err = NewTable()
	} else {
		t, err = fromRecords(rows[0], rows[1:])
	}
	if err != nil {
		return nil, errors.WrapIO("load", path, err)
	}

	logging.FromContext(ctx).Debug().
		Str("path", path).
		Str("sheet", sheet).
		Int("rows", t.Len()).
		Int("columns", len(t.columns)).
		Msg("Loaded XLSX dataset")
	return t, nil
}

// Save implements Codec. The workbook is rewritten with a single sheet.
func (c *XLSXCodec) Save(ctx context.Context, t *Table, path string) error {
	if err := ctx.Err(); err != nil {
		return errors.WrapIO("save", path, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("save", path, err)
		}
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := defaultSheet
	if c.Sheet != "" && c.Sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, c.Sheet); err != nil {
			return errors.WrapIO("save", path, err)
		}
		sheet = c.Sheet
	}

	for i, rec := range records(t) {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.WrapIO("save", path, err)
		}
		row := make([]any, len(rec))
		for j, v := range rec {
			row[j] = v
		}
		if err := f.SetSheetRow(sheet, cellName, &row); err != nil {
			return errors.WrapIO("save", path, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.WrapIO("save", path, err)
	}

	logging.FromContext(ctx).Debug().
		Str("path", path).
		Str("sheet", sheet).
		Int("rows", t.Len()).
		Msg("Saved XLSX dataset")
	return nil
}
