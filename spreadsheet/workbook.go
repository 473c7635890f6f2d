// Copyright (c) 2025 Kelechi Dike.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table is the first worksheet of an uploaded workbook as raw strings.
// Column names keep their original spelling, including any stray
// whitespace, so detection can echo back exactly what the sheet said.
type Table struct {
	Columns []string
	Rows    []map[string]string
}

// ReadTable parses the first worksheet of an .xlsx stream. The first row is
// the header; every later row is keyed by header name, with missing
// trailing cells filled as empty strings.
func ReadTable(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, errors.New("sheet has no header row")
	}

	t := &Table{Columns: rows[0]}
	for _, raw := range rows[1:] {
		row := make(map[string]string, len(t.Columns))
		for i, col := range t.Columns {
			if i < len(raw) {
				row[col] = raw[i]
			} else {
				row[col] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

// Lookup finds a column by name, ignoring case and surrounding whitespace,
// and returns its original spelling.
func (t *Table) Lookup(name string) (string, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, col := range t.Columns {
		if strings.ToLower(strings.TrimSpace(col)) == want {
			return col, true
		}
	}
	return "", false
}

// ColumnValues returns the raw cells of one column across all rows.
// The name must be the original spelling as listed in Columns.
func (t *Table) ColumnValues(name string) []string {
	values := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		values = append(values, row[name])
	}
	return values
}
