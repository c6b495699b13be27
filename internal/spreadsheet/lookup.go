package spreadsheet

import (
	"context"
	"strconv"

	"github.com/universitas/manuales-backend/internal/domain"
)

// Record is one logical row reconstructed by zipping the header row against
// the row's cells. Missing trailing cells become empty strings, never nil.
type Record struct {
	Fields map[string]string
	Row    int // 1-based sheet row number
}

func (r Record) Get(header string) string {
	return r.Fields[header]
}

// FindRowByColumnValue resolves header to a column position from the live
// header row, scans that column for an exact string match, and on a hit
// reconstructs the full record. Match is exact: no case folding, no numeric
// coercion — callers pre-normalize where they want insensitivity.
//
// Returns domain.ErrRowNotFound for a clean miss; anything else from the
// store propagates untouched (domain.ErrStoreUnavailable for transport
// failures).
func FindRowByColumnValue(ctx context.Context, s Store, sheet, header, value string) (Record, error) {
	headers, err := readHeaders(ctx, s, sheet)
	if err != nil {
		return Record{}, err
	}

	colIdx := -1
	for i, h := range headers {
		if h == header {
			colIdx = i
			break
		}
	}
	if colIdx == -1 {
		return Record{}, domain.ErrSchemaMismatch(sheet, "column "+header+" not found")
	}

	letter := ColumnLetter(colIdx)
	column, err := s.GetRange(ctx, sheet, letter+"2:"+letter)
	if err != nil {
		return Record{}, err
	}

	rowNum := 0
	for i, row := range column {
		cell := ""
		if len(row) > 0 {
			cell = row[0]
		}
		if cell == value {
			// +2: ranges are 1-based and start below the header row.
			rowNum = i + 2
			break
		}
	}
	if rowNum == 0 {
		return Record{}, domain.ErrRowNotFound()
	}

	ref := strconv.Itoa(rowNum)
	rows, err := s.GetRange(ctx, sheet, ref+":"+ref)
	if err != nil {
		return Record{}, err
	}
	var cells []string
	if len(rows) > 0 {
		cells = rows[0]
	}

	return Record{Fields: Zip(headers, cells), Row: rowNum}, nil
}

// ListRecords reads the whole sheet and zips every data row against the
// header row. Used for admin projections.
func ListRecords(ctx context.Context, s Store, sheet string) ([]Record, error) {
	headers, err := readHeaders(ctx, s, sheet)
	if err != nil {
		return nil, err
	}
	rows, err := s.GetRange(ctx, sheet, "")
	if err != nil {
		return nil, err
	}
	var out []Record
	for i, row := range rows {
		if i == 0 {
			continue
		}
		out = append(out, Record{Fields: Zip(headers, row), Row: i + 1})
	}
	return out, nil
}

// Zip pairs headers with cells; headers past the end of the row map to "".
func Zip(headers, cells []string) map[string]string {
	m := make(map[string]string, len(headers))
	for i, h := range headers {
		if i < len(cells) {
			m[h] = cells[i]
		} else {
			m[h] = ""
		}
	}
	return m
}

func readHeaders(ctx context.Context, s Store, sheet string) ([]string, error) {
	rows, err := s.GetRange(ctx, sheet, "1:1")
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, domain.ErrSchemaMismatch(sheet, "empty sheet or missing header row")
	}
	return rows[0], nil
}
