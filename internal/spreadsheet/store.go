// Package spreadsheet defines the narrow contract the rest of the service
// uses to talk to the backing tabular store, plus the pure row/column math
// that contract needs. The real implementation lives in
// infrastructure/googlesheets; an in-memory fake lives in
// infrastructure/memory.
package spreadsheet

import (
	"context"
	"strconv"
)

/*
Store
-----
Raw persistence port for one spreadsheet. Rows are 1-based and row 1 is by
convention a header row. The store has no query language: every lookup is a
column scan, acceptable at this data volume.

Any transport or auth failure must surface as domain.ErrStoreUnavailable so
callers can tell it apart from a normal negative lookup.
*/
type Store interface {
	// GetRange reads a ref ("" = whole sheet, "1:1", "C2:C", "7:7", "A1:K1000")
	// from the named sheet. Trailing empty cells may be absent from each row.
	GetRange(ctx context.Context, sheet, ref string) ([][]string, error)

	// AppendRow adds one row after the last non-empty row. The caller supplies
	// values already ordered to match the sheet's column order.
	AppendRow(ctx context.Context, sheet string, values []string) error

	// UpdateCell writes a single value to one cell addressed A1-style ("D7").
	UpdateCell(ctx context.Context, sheet, cell, value string) error

	// DeleteRow physically removes a row; subsequent rows shift up by one.
	DeleteRow(ctx context.Context, sheet string, row int) error
}

// Cell formats a column letter and 1-based row number as an A1 reference.
func Cell(column string, row int) string {
	return column + strconv.Itoa(row)
}
